package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage/sqlstore"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// testUserHeader stands in for a bearer token: the named user ID is trusted as-is.
const testUserHeader = "X-Test-User"

func testIdentity() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, "")
			}
			return next(ctx, req)
		}
	}
}

// captureSender remembers the last code sent to each phone.
type captureSender struct {
	codes map[string]string
}

func (s *captureSender) Send(_ context.Context, phone, code string) error {
	s.codes[phone] = code
	return nil
}

type testEnv struct {
	store  *sqlstore.Store
	sender *captureSender
	jwt    *auth.JWTManager

	auth     apiconnect.AuthServiceClient
	groups   apiconnect.GroupServiceClient
	members  apiconnect.MemberServiceClient
	expenses apiconnect.ExpenseServiceClient
	payments apiconnect.PaymentServiceClient
}

// setupTestServer serves every RPC service over httptest on a temp database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlstore.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	env := &testEnv{
		store:  store,
		sender: &captureSender{codes: map[string]string{}},
		jwt:    auth.NewJWTManager("test-secret", time.Hour),
	}
	authenticator := auth.NewCodeAuthenticator(store, env.sender, auth.CodeOptions{
		Length:      8,
		TTL:         time.Minute,
		MaxAttempts: 3,
		BcryptCost:  bcrypt.MinCost,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts := connect.WithInterceptors(testIdentity())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, env.jwt, store, logger), opts))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store), opts))
	mux.Handle(apiconnect.NewMemberServiceHandler(NewMemberService(store), opts))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store), opts))
	mux.Handle(apiconnect.NewPaymentServiceHandler(NewPaymentService(store), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.auth = apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	env.groups = apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL)
	env.members = apiconnect.NewMemberServiceClient(http.DefaultClient, server.URL)
	env.expenses = apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL)
	env.payments = apiconnect.NewPaymentServiceClient(http.DefaultClient, server.URL)
	return env
}

// asUser builds a request made by the given user. An empty ID is anonymous.
func asUser[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if userID != "" {
		req.Header().Set(testUserHeader, userID)
	}
	return req
}

// newUser stores an account with a profile name and returns its ID.
func (e *testEnv) newUser(t *testing.T, phone, name string) string {
	t.Helper()
	user := models.NewUser(phone)
	user.DisplayName = name
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	return user.ID
}

// newGroup creates a group owned by userID and returns it with member IDs by name.
func (e *testEnv) newGroup(t *testing.T, userID, name string, memberNames ...string) (*api.Group, map[string]string) {
	t.Helper()
	resp, err := e.groups.CreateGroup(context.Background(), asUser(userID, &api.CreateGroupRequest{
		Name:        name,
		MemberNames: memberNames,
	}))
	require.NoError(t, err)
	return resp.Msg.Group, e.memberIDs(t, userID, resp.Msg.Group.ID)
}

func (e *testEnv) memberIDs(t *testing.T, userID, groupID string) map[string]string {
	t.Helper()
	resp, err := e.members.ListMembers(context.Background(), asUser(userID, &api.ListMembersRequest{GroupID: groupID}))
	require.NoError(t, err)
	ids := make(map[string]string, len(resp.Msg.Members))
	for _, m := range resp.Msg.Members {
		ids[m.DisplayName] = m.ID
	}
	return ids
}

func (e *testEnv) balances(t *testing.T, userID, groupID string) []*api.Balance {
	t.Helper()
	resp, err := e.groups.GetGroupBalances(context.Background(), asUser(userID, &api.GetGroupBalancesRequest{GroupID: groupID}))
	require.NoError(t, err)
	return resp.Msg.Balances
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

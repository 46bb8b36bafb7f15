package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/pkg/api"
)

func TestAuthFlow(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	const phone = "+15551234567"

	requested, err := env.auth.RequestCode(ctx, asUser("", &api.RequestCodeRequest{Phone: "+1 (555) 123-4567"}))
	require.NoError(t, err)
	assert.NotZero(t, requested.Msg.ExpiresAt)

	code := env.sender.codes[phone]
	require.Len(t, code, 8)

	_, err = env.auth.VerifyCode(ctx, asUser("", &api.VerifyCodeRequest{Phone: phone, Code: "00000000"}))
	if code != "00000000" {
		assertCode(t, connect.CodeUnauthenticated, err)
	}

	verified, err := env.auth.VerifyCode(ctx, asUser("", &api.VerifyCodeRequest{Phone: phone, Code: code}))
	require.NoError(t, err)
	user := verified.Msg.User
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, phone, user.Phone)

	claims, err := env.jwt.Validate(verified.Msg.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
	assert.NotEmpty(t, verified.Msg.ExpiresAt)

	_, err = env.auth.VerifyCode(ctx, asUser("", &api.VerifyCodeRequest{Phone: phone, Code: code}))
	assertCode(t, connect.CodeUnauthenticated, err)

	current, err := env.auth.GetCurrentUser(ctx, asUser(user.ID, &emptypb.Empty{}))
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.Msg.User.ID)
	assert.Empty(t, current.Msg.User.DisplayName)

	updated, err := env.auth.UpdateProfile(ctx, asUser(user.ID, &api.UpdateProfileRequest{DisplayName: "  Sam "}))
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.Msg.User.DisplayName)

	// The profile name seeds new memberships.
	_, ids := env.newGroup(t, user.ID, "Trip")
	assert.Contains(t, ids, "Sam")
}

func TestAuthErrors(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.auth.RequestCode(ctx, asUser("", &api.RequestCodeRequest{Phone: "5551234"}))
	assertCode(t, connect.CodeInvalidArgument, err)

	_, err = env.auth.VerifyCode(ctx, asUser("", &api.VerifyCodeRequest{Phone: "+15551234567", Code: "12345678"}))
	assertCode(t, connect.CodeUnauthenticated, err)

	_, err = env.auth.GetCurrentUser(ctx, asUser("", &emptypb.Empty{}))
	assertCode(t, connect.CodeUnauthenticated, err)

	_, err = env.auth.GetCurrentUser(ctx, asUser("ghost", &emptypb.Empty{}))
	assertCode(t, connect.CodeNotFound, err)

	userID := env.newUser(t, "+15550000001", "Alice")
	_, err = env.auth.UpdateProfile(ctx, asUser(userID, &api.UpdateProfileRequest{DisplayName: "   "}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestAuthTooManyAttempts(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	const phone = "+15551234567"

	_, err := env.auth.RequestCode(ctx, asUser("", &api.RequestCodeRequest{Phone: phone}))
	require.NoError(t, err)
	code := env.sender.codes[phone]

	wrong := "99999999"
	if code == wrong {
		wrong = "88888888"
	}
	for range 3 {
		_, err := env.auth.VerifyCode(ctx, asUser("", &api.VerifyCodeRequest{Phone: phone, Code: wrong}))
		assertCode(t, connect.CodeUnauthenticated, err)
	}

	_, err = env.auth.VerifyCode(ctx, asUser("", &api.VerifyCodeRequest{Phone: phone, Code: code}))
	assertCode(t, connect.CodeResourceExhausted, err)
}

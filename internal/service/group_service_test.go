package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage/sqlstore"
	"github.com/mmynk/settleup/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "+15550000001", "Alice")

	resp, err := env.groups.CreateGroup(context.Background(), asUser(alice, &api.CreateGroupRequest{
		Name:        "  Roommates ",
		MemberNames: []string{"Bob", " bob ", "", "ALICE", "Charlie"},
	}))
	require.NoError(t, err)

	group := resp.Msg.Group
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "Roommates", group.Name)
	assert.Equal(t, models.DefaultCurrency, group.Currency)
	assert.Equal(t, alice, group.CreatedBy)
	assert.NotZero(t, group.CreatedAt)
	require.Len(t, group.InviteCode, inviteCodeLength)
	for _, r := range group.InviteCode {
		assert.Contains(t, inviteAlphabet, string(r))
	}

	members, err := env.members.ListMembers(context.Background(), asUser(alice, &api.ListMembersRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, members.Msg.Members, 3)

	creator := members.Msg.Members[0]
	assert.Equal(t, resp.Msg.MemberID, creator.ID)
	assert.Equal(t, "Alice", creator.DisplayName)
	assert.Equal(t, alice, creator.UserID)
	assert.NotZero(t, creator.ClaimedAt)

	assert.Equal(t, "Bob", members.Msg.Members[1].DisplayName)
	assert.Empty(t, members.Msg.Members[1].UserID)
	assert.Equal(t, "Charlie", members.Msg.Members[2].DisplayName)
}

func TestCreateGroup_CreatorFallbackName(t *testing.T) {
	env := setupTestServer(t)
	userID := env.newUser(t, "+15550004321", "")

	_, ids := env.newGroup(t, userID, "Trip")
	assert.Contains(t, ids, "User 4321")
}

func TestCreateGroup_Validation(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "+15550000001", "Alice")

	tests := []struct {
		name   string
		userID string
		req    *api.CreateGroupRequest
		code   connect.Code
	}{
		{"anonymous", "", &api.CreateGroupRequest{Name: "Trip"}, connect.CodeUnauthenticated},
		{"blank name", alice, &api.CreateGroupRequest{Name: "   "}, connect.CodeInvalidArgument},
		{"bad currency", alice, &api.CreateGroupRequest{Name: "Trip", Currency: "EURO"}, connect.CodeInvalidArgument},
		{"non-letter currency", alice, &api.CreateGroupRequest{Name: "Trip", Currency: "U5D"}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.groups.CreateGroup(context.Background(), asUser(tt.userID, tt.req))
			assertCode(t, tt.code, err)
		})
	}

	resp, err := env.groups.CreateGroup(context.Background(), asUser(alice, &api.CreateGroupRequest{Name: "Trip", Currency: " eur "}))
	require.NoError(t, err)
	assert.Equal(t, "EUR", resp.Msg.Group.Currency)
}

func TestCreateGroup_InviteCodeCollision(t *testing.T) {
	store, err := sqlstore.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	user := models.NewUser("+15550000001")
	require.NoError(t, store.CreateUser(context.Background(), user))
	ctx := middleware.WithUser(context.Background(), user.ID, user.Phone)

	svc := NewGroupService(store)
	codes := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	svc.newInviteCode = func() (string, error) {
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code, nil
	}

	first, err := svc.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "One"}))
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", first.Msg.Group.InviteCode)

	second, err := svc.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Two"}))
	require.NoError(t, err, "a collision is retried with a fresh code")
	assert.Equal(t, "BBBBBB", second.Msg.Group.InviteCode)

	// Only colliding codes left.
	codes = []string{"AAAAAA"}
	_, err = svc.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Three"}))
	assertCode(t, connect.CodeInternal, err)
	assert.ErrorIs(t, err, ErrInviteExhausted)

	memberships, err := store.ListGroupsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, memberships, 2, "failed attempts leave nothing behind")
}

func TestGetGroup(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "+15550000001", "Alice")
	mallory := env.newUser(t, "+15550000009", "Mallory")
	group, _ := env.newGroup(t, alice, "Work Lunch", "Diana")

	resp, err := env.groups.GetGroup(context.Background(), asUser(alice, &api.GetGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Equal(t, "Work Lunch", resp.Msg.Group.Name)

	_, err = env.groups.GetGroup(context.Background(), asUser(mallory, &api.GetGroupRequest{GroupID: group.ID}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.GetGroup(context.Background(), asUser(alice, &api.GetGroupRequest{GroupID: "nonexistent-id"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestListGroups(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "+15550000001", "Alice")
	bob := env.newUser(t, "+15550000002", "Bob")

	empty, err := env.groups.ListGroups(context.Background(), asUser(alice, &emptypb.Empty{}))
	require.NoError(t, err)
	assert.Empty(t, empty.Msg.Groups)

	groupA, _ := env.newGroup(t, alice, "Group A")
	groupB, _ := env.newGroup(t, alice, "Group B")

	resp, err := env.groups.ListGroups(context.Background(), asUser(alice, &emptypb.Empty{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Groups, 2)

	ids := []string{resp.Msg.Groups[0].Group.ID, resp.Msg.Groups[1].Group.ID}
	assert.ElementsMatch(t, []string{groupA.ID, groupB.ID}, ids)
	for _, m := range resp.Msg.Groups {
		assert.NotEmpty(t, m.MemberID)
	}

	other, err := env.groups.ListGroups(context.Background(), asUser(bob, &emptypb.Empty{}))
	require.NoError(t, err)
	assert.Empty(t, other.Msg.Groups)

	_, err = env.groups.ListGroups(context.Background(), asUser("", &emptypb.Empty{}))
	assertCode(t, connect.CodeUnauthenticated, err)
}

func TestGetGroupByInviteCode(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "+15550000001", "Alice")
	group, _ := env.newGroup(t, alice, "Ski Trip")

	resp, err := env.groups.GetGroupByInviteCode(context.Background(), asUser("", &api.GetGroupByInviteCodeRequest{
		InviteCode: " " + strings.ToLower(group.InviteCode) + " ",
	}))
	require.NoError(t, err, "invite lookups need no sign-in")
	assert.Equal(t, group.ID, resp.Msg.Group.ID)

	_, err = env.groups.GetGroupByInviteCode(context.Background(), asUser("", &api.GetGroupByInviteCodeRequest{InviteCode: "ZZZZZZ"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestGetGroupBalances(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	group, ids := env.newGroup(t, alice, "Trip", "Bob", "Charlie")
	a, b, c := ids["Alice"], ids["Bob"], ids["Charlie"]

	assert.Empty(t, env.balances(t, alice, group.ID))

	// Alice pays 10.00 split three ways: 3.34 / 3.33 / 3.33.
	_, err := env.expenses.CreateExpense(ctx, asUser(alice, &api.CreateExpenseRequest{
		GroupID:        group.ID,
		Description:    "Dinner",
		AmountCents:    1000,
		PaidByMemberID: a,
		SplitInput:     api.SplitInput{SplitType: "equal", SplitMemberIDs: []string{a, b, c}},
	}))
	require.NoError(t, err)

	// Bob pays 10.00, Alice owes 7.00 of it.
	_, err = env.expenses.CreateExpense(ctx, asUser(alice, &api.CreateExpenseRequest{
		GroupID:        group.ID,
		Description:    "Taxi",
		AmountCents:    1000,
		PaidByMemberID: b,
		SplitInput: api.SplitInput{SplitType: "custom", CustomShares: []*api.Share{
			{MemberID: a, AmountCents: 700},
			{MemberID: b, AmountCents: 300},
		}},
	}))
	require.NoError(t, err)

	resp, err := env.groups.GetGroupBalances(ctx, asUser(alice, &api.GetGroupBalancesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Equal(t, "USD", resp.Msg.Currency)
	require.Len(t, resp.Msg.Balances, 2)

	first := resp.Msg.Balances[0]
	assert.Equal(t, a, first.FromMemberID)
	assert.Equal(t, b, first.ToMemberID)
	assert.Equal(t, "Alice", first.FromName)
	assert.Equal(t, "Bob", first.ToName)
	assert.Equal(t, int64(367), first.AmountCents)
	assert.Equal(t, "$3.67", first.AmountDisplay)

	second := resp.Msg.Balances[1]
	assert.Equal(t, c, second.FromMemberID)
	assert.Equal(t, a, second.ToMemberID)
	assert.Equal(t, int64(333), second.AmountCents)

	// Paying off every balance leaves nothing owed.
	for _, bal := range resp.Msg.Balances {
		_, err := env.payments.RecordPayment(ctx, asUser(alice, &api.RecordPaymentRequest{
			GroupID:      group.ID,
			FromMemberID: bal.FromMemberID,
			ToMemberID:   bal.ToMemberID,
			AmountCents:  bal.AmountCents,
		}))
		require.NoError(t, err)
	}
	assert.Empty(t, env.balances(t, alice, group.ID))
}

func TestGetGroupBalances_RequiresMembership(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "+15550000001", "Alice")
	mallory := env.newUser(t, "+15550000009", "Mallory")
	group, _ := env.newGroup(t, alice, "Trip")

	_, err := env.groups.GetGroupBalances(context.Background(), asUser(mallory, &api.GetGroupBalancesRequest{GroupID: group.ID}))
	assertCode(t, connect.CodePermissionDenied, err)
}

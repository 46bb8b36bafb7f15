package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/pkg/api"
)

func TestListMembers(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	mallory := env.newUser(t, "+15550000009", "Mallory")
	group, ids := env.newGroup(t, alice, "Trip", "Bob", "Charlie")

	_, err := env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: ids["Charlie"]}))
	require.NoError(t, err)

	resp, err := env.members.ListMembers(ctx, asUser(alice, &api.ListMembersRequest{GroupID: group.ID}))
	require.NoError(t, err)
	names := make([]string, len(resp.Msg.Members))
	for i, m := range resp.Msg.Members {
		names[i] = m.DisplayName
	}
	assert.Equal(t, []string{"Alice", "Bob"}, names, "archived members are hidden")

	_, err = env.members.ListMembers(ctx, asUser(mallory, &api.ListMembersRequest{GroupID: group.ID}))
	assertCode(t, connect.CodePermissionDenied, err)
}

func TestGetMyMembership(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	bob := env.newUser(t, "+15550000002", "Bob")
	group, ids := env.newGroup(t, alice, "Trip")

	mine, err := env.members.GetMyMembership(ctx, asUser(alice, &api.GetMyMembershipRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.NotNil(t, mine.Msg.Member)
	assert.Equal(t, ids["Alice"], mine.Msg.Member.ID)

	none, err := env.members.GetMyMembership(ctx, asUser(bob, &api.GetMyMembershipRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Nil(t, none.Msg.Member)
}

func TestListUnclaimedByInviteCode(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	group, ids := env.newGroup(t, alice, "Trip", "Bob", "Charlie")

	_, err := env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: ids["Charlie"]}))
	require.NoError(t, err)

	resp, err := env.members.ListUnclaimedByInviteCode(ctx, asUser("", &api.ListUnclaimedByInviteCodeRequest{InviteCode: group.InviteCode}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Members, 1)
	assert.Equal(t, "Bob", resp.Msg.Members[0].DisplayName)

	_, err = env.members.ListUnclaimedByInviteCode(ctx, asUser("", &api.ListUnclaimedByInviteCodeRequest{InviteCode: "NOPE22"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestAddMember(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	mallory := env.newUser(t, "+15550000009", "Mallory")
	group, _ := env.newGroup(t, alice, "Trip", "Bob")

	resp, err := env.members.AddMember(ctx, asUser(alice, &api.AddMemberRequest{GroupID: group.ID, DisplayName: "  Dana "}))
	require.NoError(t, err)
	assert.Equal(t, "Dana", resp.Msg.Member.DisplayName)
	assert.Equal(t, group.ID, resp.Msg.Member.GroupID)
	assert.Equal(t, alice, resp.Msg.Member.InvitedBy)
	assert.Empty(t, resp.Msg.Member.UserID)

	tests := []struct {
		name   string
		userID string
		member string
		code   connect.Code
	}{
		{"blank", alice, "  ", connect.CodeInvalidArgument},
		{"same name other case", alice, "BOB", connect.CodeAlreadyExists},
		{"outsider", mallory, "Eve", connect.CodePermissionDenied},
		{"anonymous", "", "Eve", connect.CodeUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.members.AddMember(ctx, asUser(tt.userID, &api.AddMemberRequest{GroupID: group.ID, DisplayName: tt.member}))
			assertCode(t, tt.code, err)
		})
	}
}

func TestAddMember_ReusesArchivedName(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	group, ids := env.newGroup(t, alice, "Trip", "Bob")

	_, err := env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: ids["Bob"]}))
	require.NoError(t, err)

	resp, err := env.members.AddMember(ctx, asUser(alice, &api.AddMemberRequest{GroupID: group.ID, DisplayName: "Bob"}))
	require.NoError(t, err, "only active members block a name")
	assert.NotEqual(t, ids["Bob"], resp.Msg.Member.ID)
}

func TestClaimMember(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	bob := env.newUser(t, "+15550000002", "Bob")
	carol := env.newUser(t, "+15550000003", "Carol")
	group, ids := env.newGroup(t, alice, "Trip", "Bobby", "Charlie")

	resp, err := env.members.ClaimMember(ctx, asUser(bob, &api.ClaimMemberRequest{MemberID: ids["Bobby"]}))
	require.NoError(t, err)
	assert.Equal(t, bob, resp.Msg.Member.UserID)
	assert.NotZero(t, resp.Msg.Member.ClaimedAt)
	assert.Equal(t, "Bobby", resp.Msg.Member.DisplayName)

	t.Run("claiming own member again is a no-op", func(t *testing.T) {
		again, err := env.members.ClaimMember(ctx, asUser(bob, &api.ClaimMemberRequest{MemberID: ids["Bobby"]}))
		require.NoError(t, err)
		assert.Equal(t, ids["Bobby"], again.Msg.Member.ID)
	})

	t.Run("someone else's member", func(t *testing.T) {
		_, err := env.members.ClaimMember(ctx, asUser(carol, &api.ClaimMemberRequest{MemberID: ids["Bobby"]}))
		assertCode(t, connect.CodeFailedPrecondition, err)
	})

	t.Run("second seat returns the existing member", func(t *testing.T) {
		other, err := env.members.ClaimMember(ctx, asUser(bob, &api.ClaimMemberRequest{MemberID: ids["Charlie"]}))
		require.NoError(t, err)
		assert.Equal(t, ids["Bobby"], other.Msg.Member.ID)

		members := env.memberIDs(t, alice, group.ID)
		assert.Contains(t, members, "Charlie", "the other seat stays untouched")
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := env.members.ClaimMember(ctx, asUser(carol, &api.ClaimMemberRequest{MemberID: "missing"}))
		assertCode(t, connect.CodeNotFound, err)
	})

	t.Run("archived seat", func(t *testing.T) {
		_, err := env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: ids["Charlie"]}))
		require.NoError(t, err)
		_, err = env.members.ClaimMember(ctx, asUser(carol, &api.ClaimMemberRequest{MemberID: ids["Charlie"]}))
		assertCode(t, connect.CodeNotFound, err)
	})
}

func TestClaimMember_RevivesArchivedMembership(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	bob := env.newUser(t, "+15550000002", "Bob")
	group, ids := env.newGroup(t, alice, "Trip", "Bob", "Robert")

	_, err := env.members.ClaimMember(ctx, asUser(bob, &api.ClaimMemberRequest{MemberID: ids["Bob"]}))
	require.NoError(t, err)
	_, err = env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: ids["Bob"]}))
	require.NoError(t, err)

	resp, err := env.members.ClaimMember(ctx, asUser(bob, &api.ClaimMemberRequest{MemberID: ids["Robert"]}))
	require.NoError(t, err)
	assert.Equal(t, ids["Bob"], resp.Msg.Member.ID, "the old membership comes back")
	assert.Equal(t, "Robert", resp.Msg.Member.DisplayName)
	assert.False(t, resp.Msg.Member.Archived)

	members := env.memberIDs(t, alice, group.ID)
	assert.Equal(t, ids["Bob"], members["Robert"])
	assert.Len(t, members, 2, "the placeholder is archived")
}

func TestJoinByInviteCode(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	bob := env.newUser(t, "+15550000002", "Bob")
	carol := env.newUser(t, "+15550000003", "Carol")
	dave := env.newUser(t, "+15550000004", "")
	group, ids := env.newGroup(t, alice, "Trip", "Bob")

	join := func(userID, name string) (*api.Member, error) {
		resp, err := env.members.JoinByInviteCode(ctx, asUser(userID, &api.JoinByInviteCodeRequest{
			InviteCode:  group.InviteCode,
			DisplayName: name,
		}))
		if err != nil {
			return nil, err
		}
		return resp.Msg.Member, nil
	}

	t.Run("matching unclaimed name claims it", func(t *testing.T) {
		m, err := join(bob, " bob ")
		require.NoError(t, err)
		assert.Equal(t, ids["Bob"], m.ID)
		assert.Equal(t, bob, m.UserID)
	})

	t.Run("existing membership is returned", func(t *testing.T) {
		m, err := join(bob, "Someone Else")
		require.NoError(t, err)
		assert.Equal(t, ids["Bob"], m.ID)
		assert.Equal(t, "Bob", m.DisplayName)
	})

	t.Run("matching claimed name is rejected", func(t *testing.T) {
		_, err := join(carol, "ALICE")
		assertCode(t, connect.CodeAlreadyExists, err)
	})

	t.Run("new name creates a member", func(t *testing.T) {
		m, err := join(carol, "Carol")
		require.NoError(t, err)
		assert.Equal(t, carol, m.UserID)
		assert.NotZero(t, m.ClaimedAt)
	})

	t.Run("blank name falls back to the profile", func(t *testing.T) {
		m, err := join(dave, "")
		require.NoError(t, err)
		assert.Equal(t, "User 0004", m.DisplayName)
	})

	t.Run("archived membership is revived", func(t *testing.T) {
		members := env.memberIDs(t, alice, group.ID)
		_, err := env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: members["Carol"]}))
		require.NoError(t, err)

		m, err := join(carol, "Caroline")
		require.NoError(t, err)
		assert.Equal(t, members["Carol"], m.ID)
		assert.Equal(t, "Caroline", m.DisplayName)
		assert.False(t, m.Archived)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := env.members.JoinByInviteCode(ctx, asUser(carol, &api.JoinByInviteCodeRequest{InviteCode: "NOPE22"}))
		assertCode(t, connect.CodeNotFound, err)
	})
}

func TestJoinByInviteCode_RevivedNameClash(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	carl := env.newUser(t, "+15550000003", "Carl")
	group, ids := env.newGroup(t, alice, "Trip", "Bob")

	join := func(name string) error {
		_, err := env.members.JoinByInviteCode(ctx, asUser(carl, &api.JoinByInviteCodeRequest{
			InviteCode:  group.InviteCode,
			DisplayName: name,
		}))
		return err
	}

	require.NoError(t, join("Carl"))
	carlID := env.memberIDs(t, alice, group.ID)["Carl"]
	_, err := env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: carlID}))
	require.NoError(t, err)

	t.Run("new name taken by an active member", func(t *testing.T) {
		assertCode(t, connect.CodeAlreadyExists, join(" bob "))

		members := env.memberIDs(t, alice, group.ID)
		assert.Len(t, members, 2)
		assert.Equal(t, ids["Bob"], members["Bob"])
		assert.NotContains(t, members, "bob")
	})

	t.Run("old name reused while archived", func(t *testing.T) {
		_, err := env.members.AddMember(ctx, asUser(alice, &api.AddMemberRequest{GroupID: group.ID, DisplayName: "Carl"}))
		require.NoError(t, err)

		assertCode(t, connect.CodeAlreadyExists, join(""))
	})

	t.Run("free name revives", func(t *testing.T) {
		require.NoError(t, join("Carlos"))
		members := env.memberIDs(t, alice, group.ID)
		assert.Equal(t, carlID, members["Carlos"])
	})
}

func TestUpdateMyDisplayName(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	group, _ := env.newGroup(t, alice, "Trip", "Bob")

	resp, err := env.members.UpdateMyDisplayName(ctx, asUser(alice, &api.UpdateMyDisplayNameRequest{GroupID: group.ID, DisplayName: "ALICE"}))
	require.NoError(t, err, "renaming to a case variant of one's own name is allowed")
	assert.Equal(t, "ALICE", resp.Msg.Member.DisplayName)

	_, err = env.members.UpdateMyDisplayName(ctx, asUser(alice, &api.UpdateMyDisplayNameRequest{GroupID: group.ID, DisplayName: "bob"}))
	assertCode(t, connect.CodeAlreadyExists, err)

	_, err = env.members.UpdateMyDisplayName(ctx, asUser(alice, &api.UpdateMyDisplayNameRequest{GroupID: group.ID, DisplayName: " "}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestArchiveMember(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	mallory := env.newUser(t, "+15550000009", "Mallory")
	group, ids := env.newGroup(t, alice, "Trip", "Charlie")
	a, c := ids["Alice"], ids["Charlie"]

	_, err := env.expenses.CreateExpense(ctx, asUser(alice, &api.CreateExpenseRequest{
		GroupID:        group.ID,
		Description:    "Tickets",
		AmountCents:    500,
		PaidByMemberID: a,
		SplitInput:     api.SplitInput{SplitType: "equal", SplitMemberIDs: []string{a, c}},
	}))
	require.NoError(t, err)

	_, err = env.members.ArchiveMember(ctx, asUser(mallory, &api.ArchiveMemberRequest{MemberID: c}))
	assertCode(t, connect.CodePermissionDenied, err)

	resp, err := env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: c}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Member.Archived)

	// History still resolves the archived member's name.
	balances := env.balances(t, alice, group.ID)
	require.Len(t, balances, 1)
	assert.Equal(t, "Charlie", balances[0].FromName)
	assert.Equal(t, int64(250), balances[0].AmountCents)

	// Archived members cannot take part in new expenses.
	_, err = env.expenses.CreateExpense(ctx, asUser(alice, &api.CreateExpenseRequest{
		GroupID:        group.ID,
		Description:    "Snacks",
		AmountCents:    100,
		PaidByMemberID: a,
		SplitInput:     api.SplitInput{SplitType: "equal", SplitMemberIDs: []string{a, c}},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)

	again, err := env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: c}))
	require.NoError(t, err, "archiving twice is harmless")
	assert.True(t, again.Msg.Member.Archived)
}

package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/pkg/api"
)

func equalSplit(ids ...string) api.SplitInput {
	return api.SplitInput{SplitType: "equal", SplitMemberIDs: ids}
}

func customSplit(shares ...*api.Share) api.SplitInput {
	return api.SplitInput{SplitType: "custom", CustomShares: shares}
}

func TestPreviewSplit(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	group, ids := env.newGroup(t, alice, "Trip", "Bob", "Charlie")
	a, b, c := ids["Alice"], ids["Bob"], ids["Charlie"]

	t.Run("equal split hands out the remainder in order", func(t *testing.T) {
		resp, err := env.expenses.PreviewSplit(ctx, asUser(alice, &api.PreviewSplitRequest{
			GroupID:     group.ID,
			AmountCents: 1000,
			SplitInput:  equalSplit(b, a, c, b),
		}))
		require.NoError(t, err)
		assert.Equal(t, []*api.Share{
			{MemberID: b, AmountCents: 334},
			{MemberID: a, AmountCents: 333},
			{MemberID: c, AmountCents: 333},
		}, resp.Msg.Shares)
	})

	t.Run("custom split is returned as given", func(t *testing.T) {
		resp, err := env.expenses.PreviewSplit(ctx, asUser(alice, &api.PreviewSplitRequest{
			GroupID:     group.ID,
			AmountCents: 1000,
			SplitInput:  customSplit(&api.Share{MemberID: a, AmountCents: 700}, &api.Share{MemberID: b, AmountCents: 300}),
		}))
		require.NoError(t, err)
		assert.Equal(t, []*api.Share{
			{MemberID: a, AmountCents: 700},
			{MemberID: b, AmountCents: 300},
		}, resp.Msg.Shares)
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name   string
			amount int64
			split  api.SplitInput
		}{
			{"zero amount", 0, equalSplit(a)},
			{"no members", 1000, equalSplit()},
			{"unknown member", 1000, equalSplit(a, "stranger")},
			{"unknown split type", 1000, api.SplitInput{SplitType: "percent", SplitMemberIDs: []string{a}}},
			{"custom sum mismatch", 1000, customSplit(&api.Share{MemberID: a, AmountCents: 600}, &api.Share{MemberID: b, AmountCents: 300})},
			{"custom duplicate", 1000, customSplit(&api.Share{MemberID: a, AmountCents: 500}, &api.Share{MemberID: a, AmountCents: 500})},
			{"custom zero amount", 1000, customSplit(&api.Share{MemberID: a, AmountCents: 1000}, &api.Share{MemberID: b, AmountCents: 0})},
			{"custom empty", 1000, customSplit()},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.expenses.PreviewSplit(ctx, asUser(alice, &api.PreviewSplitRequest{
					GroupID:     group.ID,
					AmountCents: tt.amount,
					SplitInput:  tt.split,
				}))
				assertCode(t, connect.CodeInvalidArgument, err)
			})
		}
	})
}

func TestCreateExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	group, ids := env.newGroup(t, alice, "Trip", "Bob", "Charlie")
	a, b, c := ids["Alice"], ids["Bob"], ids["Charlie"]

	resp, err := env.expenses.CreateExpense(ctx, asUser(alice, &api.CreateExpenseRequest{
		GroupID:        group.ID,
		Description:    "  Groceries ",
		AmountCents:    1000,
		PaidByMemberID: b,
		SplitInput:     equalSplit(a, b, c),
	}))
	require.NoError(t, err)

	expense := resp.Msg.Expense
	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, "Groceries", expense.Description)
	assert.Equal(t, "USD", expense.Currency)
	assert.Equal(t, "$10.00", expense.AmountDisplay)
	assert.Equal(t, "equal", expense.SplitType)
	assert.Equal(t, alice, expense.CreatedByUserID)
	assert.Equal(t, []*api.Share{
		{MemberID: a, AmountCents: 334},
		{MemberID: b, AmountCents: 333},
		{MemberID: c, AmountCents: 333},
	}, resp.Msg.Shares)
}

func TestCreateExpense_Validation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	mallory := env.newUser(t, "+15550000009", "Mallory")
	group, ids := env.newGroup(t, alice, "Trip", "Bob")
	_, otherIDs := env.newGroup(t, mallory, "Elsewhere")
	a, b := ids["Alice"], ids["Bob"]

	valid := func() *api.CreateExpenseRequest {
		return &api.CreateExpenseRequest{
			GroupID:        group.ID,
			Description:    "Lunch",
			AmountCents:    1000,
			PaidByMemberID: a,
			SplitInput:     equalSplit(a, b),
		}
	}

	tests := []struct {
		name   string
		userID string
		mutate func(r *api.CreateExpenseRequest)
		code   connect.Code
	}{
		{"blank description", alice, func(r *api.CreateExpenseRequest) { r.Description = "  " }, connect.CodeInvalidArgument},
		{"zero amount", alice, func(r *api.CreateExpenseRequest) { r.AmountCents = 0 }, connect.CodeInvalidArgument},
		{"negative amount", alice, func(r *api.CreateExpenseRequest) { r.AmountCents = -5 }, connect.CodeInvalidArgument},
		{"payer from another group", alice, func(r *api.CreateExpenseRequest) { r.PaidByMemberID = otherIDs["Mallory"] }, connect.CodeInvalidArgument},
		{"split member from another group", alice, func(r *api.CreateExpenseRequest) { r.SplitInput = equalSplit(a, otherIDs["Mallory"]) }, connect.CodeInvalidArgument},
		{"custom sum mismatch", alice, func(r *api.CreateExpenseRequest) {
			r.SplitInput = customSplit(&api.Share{MemberID: a, AmountCents: 999})
		}, connect.CodeInvalidArgument},
		{"outsider", mallory, func(r *api.CreateExpenseRequest) {}, connect.CodePermissionDenied},
		{"anonymous", "", func(r *api.CreateExpenseRequest) {}, connect.CodeUnauthenticated},
		{"unknown group", alice, func(r *api.CreateExpenseRequest) { r.GroupID = "missing" }, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := env.expenses.CreateExpense(ctx, asUser(tt.userID, req))
			assertCode(t, tt.code, err)
		})
	}

	list, err := env.expenses.ListExpenses(ctx, asUser(alice, &api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Expenses, "rejected expenses are never written")
}

func TestUpdateExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	group, ids := env.newGroup(t, alice, "Trip", "Bob", "Charlie")
	other, _ := env.newGroup(t, alice, "Other")
	a, b, c := ids["Alice"], ids["Bob"], ids["Charlie"]

	created, err := env.expenses.CreateExpense(ctx, asUser(alice, &api.CreateExpenseRequest{
		GroupID:        group.ID,
		Description:    "Hotel",
		AmountCents:    900,
		PaidByMemberID: a,
		SplitInput:     equalSplit(a, b, c),
	}))
	require.NoError(t, err)
	expenseID := created.Msg.Expense.ID

	updated, err := env.expenses.UpdateExpense(ctx, asUser(alice, &api.UpdateExpenseRequest{
		ExpenseID:      expenseID,
		GroupID:        group.ID,
		Description:    "Hotel (2 nights)",
		AmountCents:    1000,
		PaidByMemberID: b,
		SplitInput:     customSplit(&api.Share{MemberID: a, AmountCents: 700}, &api.Share{MemberID: b, AmountCents: 300}),
	}))
	require.NoError(t, err)
	assert.Equal(t, expenseID, updated.Msg.Expense.ID)
	assert.Equal(t, "custom", updated.Msg.Expense.SplitType)
	assert.Equal(t, created.Msg.Expense.CreatedAt, updated.Msg.Expense.CreatedAt)

	got, err := env.expenses.GetExpense(ctx, asUser(alice, &api.GetExpenseRequest{GroupID: group.ID, ExpenseID: expenseID}))
	require.NoError(t, err)
	assert.Equal(t, "Hotel (2 nights)", got.Msg.Expense.Description)
	assert.Equal(t, int64(1000), got.Msg.Expense.AmountCents)
	assert.Equal(t, []*api.Share{
		{MemberID: a, AmountCents: 700},
		{MemberID: b, AmountCents: 300},
	}, got.Msg.Shares, "shares are replaced, not merged")

	t.Run("wrong group", func(t *testing.T) {
		_, err := env.expenses.UpdateExpense(ctx, asUser(alice, &api.UpdateExpenseRequest{
			ExpenseID:      expenseID,
			GroupID:        other.ID,
			Description:    "Moved",
			AmountCents:    100,
			PaidByMemberID: a,
			SplitInput:     equalSplit(a),
		}))
		assertCode(t, connect.CodeNotFound, err)
	})

	t.Run("invalid update leaves the expense alone", func(t *testing.T) {
		_, err := env.expenses.UpdateExpense(ctx, asUser(alice, &api.UpdateExpenseRequest{
			ExpenseID:      expenseID,
			GroupID:        group.ID,
			Description:    "Broken",
			AmountCents:    1000,
			PaidByMemberID: a,
			SplitInput:     customSplit(&api.Share{MemberID: a, AmountCents: 1}),
		}))
		assertCode(t, connect.CodeInvalidArgument, err)

		got, err := env.expenses.GetExpense(ctx, asUser(alice, &api.GetExpenseRequest{GroupID: group.ID, ExpenseID: expenseID}))
		require.NoError(t, err)
		assert.Equal(t, "Hotel (2 nights)", got.Msg.Expense.Description)
		assert.Len(t, got.Msg.Shares, 2)
	})
}

func TestGetExpense_ArchivedPayer(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	group, ids := env.newGroup(t, alice, "Trip", "Bob")
	a, b := ids["Alice"], ids["Bob"]

	created, err := env.expenses.CreateExpense(ctx, asUser(alice, &api.CreateExpenseRequest{
		GroupID:        group.ID,
		Description:    "Fuel",
		AmountCents:    4000,
		PaidByMemberID: b,
		SplitInput:     equalSplit(a, b),
	}))
	require.NoError(t, err)

	_, err = env.members.ArchiveMember(ctx, asUser(alice, &api.ArchiveMemberRequest{MemberID: b}))
	require.NoError(t, err)

	got, err := env.expenses.GetExpense(ctx, asUser(alice, &api.GetExpenseRequest{GroupID: group.ID, ExpenseID: created.Msg.Expense.ID}))
	require.NoError(t, err)
	require.NotNil(t, got.Msg.PaidBy)
	assert.Equal(t, b, got.Msg.PaidBy.MemberID)
	assert.Equal(t, "Bob", got.Msg.PaidBy.DisplayName)
	assert.True(t, got.Msg.PaidBy.Archived)

	_, err = env.expenses.GetExpense(ctx, asUser(alice, &api.GetExpenseRequest{GroupID: group.ID, ExpenseID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestListExpenses(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	group, ids := env.newGroup(t, alice, "Trip", "Bob", "Charlie")
	a, b, c := ids["Alice"], ids["Bob"], ids["Charlie"]

	create := func(description string, split api.SplitInput) string {
		resp, err := env.expenses.CreateExpense(ctx, asUser(alice, &api.CreateExpenseRequest{
			GroupID:        group.ID,
			Description:    description,
			AmountCents:    600,
			PaidByMemberID: a,
			SplitInput:     split,
		}))
		require.NoError(t, err)
		// Timestamps have millisecond resolution.
		time.Sleep(2 * time.Millisecond)
		return resp.Msg.Expense.ID
	}

	first := create("Breakfast", equalSplit(c, a))
	second := create("Dinner", customSplit(&api.Share{MemberID: b, AmountCents: 600}))

	resp, err := env.expenses.ListExpenses(ctx, asUser(alice, &api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Expenses, 2)

	assert.Equal(t, second, resp.Msg.Expenses[0].ID, "newest first")
	assert.Equal(t, []string{b}, resp.Msg.Expenses[0].SplitMemberIDs)
	assert.Equal(t, first, resp.Msg.Expenses[1].ID)
	assert.Equal(t, []string{c, a}, resp.Msg.Expenses[1].SplitMemberIDs)
}

func TestDeleteExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.newUser(t, "+15550000001", "Alice")
	mallory := env.newUser(t, "+15550000009", "Mallory")
	group, ids := env.newGroup(t, alice, "Trip", "Bob")
	a, b := ids["Alice"], ids["Bob"]

	created, err := env.expenses.CreateExpense(ctx, asUser(alice, &api.CreateExpenseRequest{
		GroupID:        group.ID,
		Description:    "Museum",
		AmountCents:    2000,
		PaidByMemberID: a,
		SplitInput:     equalSplit(a, b),
	}))
	require.NoError(t, err)
	require.Len(t, env.balances(t, alice, group.ID), 1)

	del := &api.DeleteExpenseRequest{GroupID: group.ID, ExpenseID: created.Msg.Expense.ID}

	_, err = env.expenses.DeleteExpense(ctx, asUser(mallory, del))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = env.expenses.DeleteExpense(ctx, asUser(alice, del))
	require.NoError(t, err)

	_, err = env.expenses.GetExpense(ctx, asUser(alice, &api.GetExpenseRequest{GroupID: group.ID, ExpenseID: created.Msg.Expense.ID}))
	assertCode(t, connect.CodeNotFound, err)
	assert.Empty(t, env.balances(t, alice, group.ID))

	_, err = env.expenses.DeleteExpense(ctx, asUser(alice, del))
	assertCode(t, connect.CodeNotFound, err)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// expenseInput is the editable part of an expense, shared by create and update.
type expenseInput struct {
	Description    string
	AmountCents    int64
	PaidByMemberID string
	Split          api.SplitInput
}

// PreviewSplit computes shares without saving anything.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	group, _, err := groupForMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	r, err := loadRoster(ctx, s.store, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	shares, err := computeSplit(req.Msg.AmountCents, req.Msg.SplitInput, r)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.PreviewSplitResponse{Shares: splitToAPI(shares)}), nil
}

// CreateExpense records an expense and its shares.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"amount_cents", req.Msg.AmountCents,
		"split_type", req.Msg.SplitType,
	)

	group, caller, err := groupForMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		GroupID:         group.ID,
		CreatedByUserID: caller.UserID,
	}
	shares, err := s.prepare(ctx, group, expense, expenseInput{
		Description:    req.Msg.Description,
		AmountCents:    req.Msg.AmountCents,
		PaidByMemberID: req.Msg.PaidByMemberID,
		Split:          req.Msg.SplitInput,
	})
	if err != nil {
		slog.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, expense, shares); err != nil {
		slog.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "shares_count", len(shares))
	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: toAPIExpense(expense),
		Shares:  toAPIShares(shares),
	}), nil
}

// UpdateExpense rewrites an expense and replaces all of its shares.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, group, err := s.expenseForMember(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}

	shares, err := s.prepare(ctx, group, expense, expenseInput{
		Description:    req.Msg.Description,
		AmountCents:    req.Msg.AmountCents,
		PaidByMemberID: req.Msg.PaidByMemberID,
		Split:          req.Msg.SplitInput,
	})
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.UpdateExpense(ctx, expense, shares); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{
		Expense: toAPIExpense(expense),
		Shares:  toAPIShares(shares),
	}), nil
}

// GetExpense returns an expense for editing: its shares in saved order and
// the payer, who may since have been archived.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	expense, _, err := s.expenseForMember(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}

	shares, err := s.store.ListSharesByExpense(ctx, expense.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	payer, err := s.store.GetMember(ctx, expense.PaidByMemberID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{
		Expense: toAPIExpense(expense),
		Shares:  toAPIShares(shares),
		PaidBy: &api.PayerInfo{
			MemberID:    payer.ID,
			DisplayName: payer.DisplayName,
			Archived:    payer.Archived,
		},
	}), nil
}

// ListExpenses returns the group's expenses newest first, each with the IDs
// of the members it is split between.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	group, _, err := groupForMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpenses(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	shares, err := s.store.ListSharesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	splitMembers := make(map[string][]string, len(expenses))
	for _, sh := range shares {
		splitMembers[sh.ExpenseID] = append(splitMembers[sh.ExpenseID], sh.MemberID)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
		out[i].SplitMemberIDs = splitMembers[e.ID]
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense and its shares.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	expense, _, err := s.expenseForMember(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// expenseForMember loads an expense and checks the caller belongs to its
// group. A non-empty groupID must match the expense's group.
func (s *ExpenseService) expenseForMember(ctx context.Context, groupID, expenseID string) (*models.Expense, *models.Group, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, nil, err
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if groupID != "" && expense.GroupID != groupID {
		return nil, nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := requireGroupMember(ctx, s.store, group.ID, userID); err != nil {
		return nil, nil, err
	}
	return expense, group, nil
}

// prepare validates the input and fills the expense. Nothing is written.
func (s *ExpenseService) prepare(ctx context.Context, group *models.Group, expense *models.Expense, in expenseInput) ([]*models.ExpenseShare, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, ErrDescription
	}
	if in.AmountCents <= 0 {
		return nil, ErrAmount
	}

	r, err := loadRoster(ctx, s.store, group.ID)
	if err != nil {
		return nil, err
	}
	if !r.isActive(in.PaidByMemberID) {
		return nil, ErrInvalidPayer
	}

	shares, err := computeSplit(in.AmountCents, in.Split, r)
	if err != nil {
		return nil, err
	}

	expense.Description = description
	expense.AmountCents = in.AmountCents
	expense.Currency = group.Currency
	expense.PaidByMemberID = in.PaidByMemberID
	expense.SplitType = models.SplitType(splitMode(in.Split.SplitType))
	return splitToModel(shares), nil
}

func computeSplit(total int64, in api.SplitInput, r *roster) ([]calculator.Share, error) {
	return calculator.ComputeSplit(calculator.SplitRequest{
		TotalCents:   total,
		Mode:         splitMode(in.SplitType),
		MemberIDs:    in.SplitMemberIDs,
		CustomShares: calculatorShares(in.CustomShares),
	}, r.check())
}

func splitMode(splitType string) calculator.Mode {
	return calculator.Mode(strings.ToLower(strings.TrimSpace(splitType)))
}

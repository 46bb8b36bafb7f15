package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store storage.Store

	newInviteCode func() (string, error)
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store, newInviteCode: NewInviteCode}
}

// CreateGroup creates a group with the caller as its first, claimed member and
// an unclaimed member for every extra name.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberNames),
	)

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(ErrGroupNameMissing)
	}
	currency, err := normalizeCurrency(req.Msg.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	now := time.Now().UnixMilli()
	creator := &models.Member{
		DisplayName: user.FallbackName(),
		UserID:      userID,
		InvitedBy:   userID,
		ClaimedAt:   now,
		CreatedAt:   now,
	}
	members := []*models.Member{creator}

	seen := map[string]bool{models.NormalizeName(creator.DisplayName): true}
	for _, raw := range req.Msg.MemberNames {
		memberName := strings.TrimSpace(raw)
		key := models.NormalizeName(memberName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		members = append(members, &models.Member{
			DisplayName: memberName,
			InvitedBy:   userID,
			// Keep the submitted order when listing.
			CreatedAt: now + int64(len(members)),
		})
	}

	group := &models.Group{
		Name:      name,
		Currency:  currency,
		CreatedBy: userID,
		CreatedAt: now,
	}

	created := false
	for range inviteAttempts {
		code, err := s.newInviteCode()
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		group.InviteCode = code

		err = s.store.CreateGroup(ctx, group, members)
		if errors.Is(err, storage.ErrConflict) {
			slog.Warn("Invite code collision, retrying", "code", code)
			continue
		}
		if err != nil {
			slog.Error("CreateGroup failed", "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		created = true
		break
	}
	if !created {
		slog.Error("CreateGroup failed", "error", ErrInviteExhausted)
		return nil, connect.NewError(connect.CodeInternal, ErrInviteExhausted)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(members))

	return connect.NewResponse(&api.CreateGroupResponse{
		Group:    toAPIGroup(group),
		MemberID: creator.ID,
	}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, _, err := groupForMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups returns the groups the caller is an active member of, newest first.
func (s *GroupService) ListGroups(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	memberships, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.GroupMembership, len(memberships))
	for i, m := range memberships {
		out[i] = &api.GroupMembership{Group: toAPIGroup(m.Group), MemberID: m.MemberID}
	}

	slog.Info("ListGroups successful", "count", len(out))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// GetGroupByInviteCode resolves an invite code. It needs no membership so that
// people can see what they are about to join.
func (s *GroupService) GetGroupByInviteCode(ctx context.Context, req *connect.Request[api.GetGroupByInviteCodeRequest]) (*connect.Response[api.GetGroupByInviteCodeResponse], error) {
	group, err := s.store.GetGroupByInviteCode(ctx, NormalizeInviteCode(req.Msg.InviteCode))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetGroupByInviteCodeResponse{Group: toAPIGroup(group)}), nil
}

// GetGroupBalances nets every expense share and payment in the group into
// "who owes whom" balances.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	group, _, err := groupForMember(ctx, s.store, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	balances, err := groupBalances(ctx, s.store, group.ID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"balances_count", len(balances),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Currency: group.Currency,
		Balances: toAPIBalances(balances, group.Currency),
	}), nil
}

// groupBalances loads everything the balance netter needs for one group.
func groupBalances(ctx context.Context, store storage.Store, groupID string) ([]calculator.Balance, error) {
	r, err := loadRoster(ctx, store, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	payerByExpense := make(map[string]string, len(expenses))
	for _, e := range expenses {
		payerByExpense[e.ID] = e.PaidByMemberID
	}

	shares, err := store.ListSharesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	shareRecords := make([]calculator.ShareRecord, len(shares))
	for i, sh := range shares {
		shareRecords[i] = calculator.ShareRecord{
			MemberID:    sh.MemberID,
			ExpenseID:   sh.ExpenseID,
			AmountCents: sh.AmountCents,
		}
	}

	payments, err := store.ListPayments(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	paymentRecords := make([]calculator.PaymentRecord, len(payments))
	for i, p := range payments {
		paymentRecords[i] = calculator.PaymentRecord{
			FromMemberID: p.FromMemberID,
			ToMemberID:   p.ToMemberID,
			AmountCents:  p.AmountCents,
		}
	}

	return calculator.ComputeBalances(shareRecords, payerByExpense, paymentRecords, r.names()), nil
}

// normalizeCurrency upper-cases the code and defaults blank input to USD.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return models.DefaultCurrency, nil
	}
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}

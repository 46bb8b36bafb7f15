package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// MemberService implements the Connect MemberService.
//
// A member is a named seat in a group. Seats are created unclaimed by whoever
// adds a name and later claimed by the user they stand for, either directly or
// by joining through the invite code under the same name.
type MemberService struct {
	apiconnect.UnimplementedMemberServiceHandler
	store storage.Store
	now   func() time.Time
}

// NewMemberService creates a new MemberService with the given storage backend.
func NewMemberService(store storage.Store) *MemberService {
	return &MemberService{store: store, now: time.Now}
}

// ListMembers returns the group's active members.
func (s *MemberService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	group, _, err := groupForMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	r, err := loadRoster(ctx, s.store, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: toAPIMembers(r.active())}), nil
}

// GetMyMembership returns the caller's active member in the group, or no
// member at all.
func (s *MemberService) GetMyMembership(ctx context.Context, req *connect.Request[api.GetMyMembershipRequest]) (*connect.Response[api.GetMyMembershipResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	member, err := requireGroupMember(ctx, s.store, req.Msg.GroupID, userID)
	if errors.Is(err, ErrNotGroupMember) {
		return connect.NewResponse(&api.GetMyMembershipResponse{}), nil
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetMyMembershipResponse{Member: toAPIMember(member)}), nil
}

// ListUnclaimedByInviteCode lists the seats a newcomer could claim.
func (s *MemberService) ListUnclaimedByInviteCode(ctx context.Context, req *connect.Request[api.ListUnclaimedByInviteCodeRequest]) (*connect.Response[api.ListUnclaimedByInviteCodeResponse], error) {
	group, err := s.store.GetGroupByInviteCode(ctx, NormalizeInviteCode(req.Msg.InviteCode))
	if err != nil {
		return nil, toConnectError(err)
	}

	unclaimed, err := UnclaimedMembers(ctx, s.store, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListUnclaimedByInviteCodeResponse{Members: toAPIMembers(unclaimed)}), nil
}

// UnclaimedMembers returns the active members of a group no user has claimed.
func UnclaimedMembers(ctx context.Context, store storage.MemberStore, groupID string) ([]*models.Member, error) {
	r, err := loadRoster(ctx, store, groupID)
	if err != nil {
		return nil, err
	}
	var out []*models.Member
	for _, m := range r.active() {
		if !m.Claimed() {
			out = append(out, m)
		}
	}
	return out, nil
}

// AddMember adds an unclaimed member to a group the caller belongs to.
func (s *MemberService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID)

	group, caller, err := groupForMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	name := strings.TrimSpace(req.Msg.DisplayName)
	if name == "" {
		return nil, toConnectError(ErrNameRequired)
	}

	r, err := loadRoster(ctx, s.store, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if r.activeByName(name, "") != nil {
		return nil, toConnectError(ErrNameTaken)
	}

	member := &models.Member{
		GroupID:     group.ID,
		DisplayName: name,
		InvitedBy:   caller.UserID,
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "group_id", group.ID, "member_id", member.ID)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// ClaimMember links the caller to an unclaimed member.
//
// If the caller already holds an active member in the group that member is
// returned unchanged. If the caller's earlier member was archived it is
// revived under the claimed seat's name and the seat is archived instead, so
// one user never holds two members in a group.
func (s *MemberService) ClaimMember(ctx context.Context, req *connect.Request[api.ClaimMemberRequest]) (*connect.Response[api.ClaimMemberResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	seat, err := s.store.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !seat.Active() {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("member not found"))
	}
	if seat.Claimed() {
		if seat.UserID == userID {
			return connect.NewResponse(&api.ClaimMemberResponse{Member: toAPIMember(seat)}), nil
		}
		return nil, toConnectError(ErrAlreadyClaimed)
	}

	now := s.now().UnixMilli()

	existing, err := s.store.GetMemberByUser(ctx, seat.GroupID, userID)
	switch {
	case err == nil && existing.Active():
		return connect.NewResponse(&api.ClaimMemberResponse{Member: toAPIMember(existing)}), nil
	case err == nil:
		existing.Archived = false
		existing.ClaimedAt = now
		existing.DisplayName = seat.DisplayName
		seat.Archived = true
		if err := s.store.UpdateMembers(ctx, existing, seat); err != nil {
			return nil, toConnectError(err)
		}
		slog.Info("Membership revived", "group_id", seat.GroupID, "member_id", existing.ID, "placeholder_id", seat.ID)
		return connect.NewResponse(&api.ClaimMemberResponse{Member: toAPIMember(existing)}), nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, toConnectError(err)
	}

	seat.UserID = userID
	seat.ClaimedAt = now
	if err := s.store.UpdateMembers(ctx, seat); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Member claimed", "group_id", seat.GroupID, "member_id", seat.ID)
	return connect.NewResponse(&api.ClaimMemberResponse{Member: toAPIMember(seat)}), nil
}

// JoinByInviteCode makes the caller a member of the group behind the code.
//
// An existing membership is returned, or revived if archived. Otherwise an
// active member with the same name is claimed when unclaimed and rejected when
// someone else holds it; failing both a new claimed member is created.
func (s *MemberService) JoinByInviteCode(ctx context.Context, req *connect.Request[api.JoinByInviteCodeRequest]) (*connect.Response[api.JoinByInviteCodeResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.store.GetGroupByInviteCode(ctx, NormalizeInviteCode(req.Msg.InviteCode))
	if err != nil {
		return nil, toConnectError(err)
	}

	name := strings.TrimSpace(req.Msg.DisplayName)
	now := s.now().UnixMilli()

	existing, err := s.store.GetMemberByUser(ctx, group.ID, userID)
	switch {
	case err == nil && existing.Active():
		return connect.NewResponse(&api.JoinByInviteCodeResponse{Member: toAPIMember(existing)}), nil
	case err == nil:
		if name != "" {
			existing.DisplayName = name
		}
		r, err := loadRoster(ctx, s.store, group.ID)
		if err != nil {
			return nil, toConnectError(err)
		}
		if r.activeByName(existing.DisplayName, existing.ID) != nil {
			return nil, toConnectError(ErrNameTaken)
		}
		existing.Archived = false
		existing.ClaimedAt = now
		if err := s.store.UpdateMembers(ctx, existing); err != nil {
			return nil, toConnectError(err)
		}
		slog.Info("Membership revived", "group_id", group.ID, "member_id", existing.ID)
		return connect.NewResponse(&api.JoinByInviteCodeResponse{Member: toAPIMember(existing)}), nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, toConnectError(err)
	}

	if name == "" {
		user, err := s.store.GetUserByID(ctx, userID)
		if err != nil {
			return nil, toConnectError(err)
		}
		name = user.FallbackName()
	}

	r, err := loadRoster(ctx, s.store, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if match := r.activeByName(name, ""); match != nil {
		if match.Claimed() {
			return nil, toConnectError(ErrNameTaken)
		}
		match.UserID = userID
		match.ClaimedAt = now
		if err := s.store.UpdateMembers(ctx, match); err != nil {
			return nil, toConnectError(err)
		}
		slog.Info("Member claimed on join", "group_id", group.ID, "member_id", match.ID)
		return connect.NewResponse(&api.JoinByInviteCodeResponse{Member: toAPIMember(match)}), nil
	}

	member := &models.Member{
		GroupID:     group.ID,
		DisplayName: name,
		UserID:      userID,
		InvitedBy:   userID,
		ClaimedAt:   now,
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		slog.Error("JoinByInviteCode failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member joined", "group_id", group.ID, "member_id", member.ID)
	return connect.NewResponse(&api.JoinByInviteCodeResponse{Member: toAPIMember(member)}), nil
}

// UpdateMyDisplayName renames the caller's member in one group.
func (s *MemberService) UpdateMyDisplayName(ctx context.Context, req *connect.Request[api.UpdateMyDisplayNameRequest]) (*connect.Response[api.UpdateMyDisplayNameResponse], error) {
	group, me, err := groupForMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	name := strings.TrimSpace(req.Msg.DisplayName)
	if name == "" {
		return nil, toConnectError(ErrNameRequired)
	}

	r, err := loadRoster(ctx, s.store, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if r.activeByName(name, me.ID) != nil {
		return nil, toConnectError(ErrNameTaken)
	}

	me.DisplayName = name
	if err := s.store.UpdateMembers(ctx, me); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateMyDisplayNameResponse{Member: toAPIMember(me)}), nil
}

// ArchiveMember retires a member. Archived members drop out of listings and
// new splits, but existing expenses and balances keep resolving their name.
func (s *MemberService) ArchiveMember(ctx context.Context, req *connect.Request[api.ArchiveMemberRequest]) (*connect.Response[api.ArchiveMemberResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	member, err := s.store.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := requireGroupMember(ctx, s.store, member.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}

	if member.Active() {
		member.Archived = true
		if err := s.store.UpdateMembers(ctx, member); err != nil {
			return nil, toConnectError(err)
		}
		slog.Info("Member archived", "group_id", member.GroupID, "member_id", member.ID)
	}
	return connect.NewResponse(&api.ArchiveMemberResponse{Member: toAPIMember(member)}), nil
}

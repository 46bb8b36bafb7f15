package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// requireUser returns the caller's user ID set by the auth interceptor.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", auth.ErrMissingToken
	}
	return userID, nil
}

// requireGroupMember returns the caller's active member in the group.
func requireGroupMember(ctx context.Context, store storage.MemberStore, groupID, userID string) (*models.Member, error) {
	member, err := store.GetMemberByUser(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotGroupMember
	}
	if err != nil {
		return nil, err
	}
	if !member.Active() {
		return nil, ErrNotGroupMember
	}
	return member, nil
}

// groupForMember loads a group and checks the caller belongs to it.
func groupForMember(ctx context.Context, store storage.Store, groupID string) (*models.Group, *models.Member, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, nil, err
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	member, err := requireGroupMember(ctx, store, group.ID, userID)
	if err != nil {
		return nil, nil, err
	}
	return group, member, nil
}

// roster indexes a group's members, archived ones included.
type roster struct {
	groupID string
	byID    map[string]*models.Member
	members []*models.Member
}

func loadRoster(ctx context.Context, store storage.MemberStore, groupID string) (*roster, error) {
	members, err := store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	r := &roster{groupID: groupID, byID: make(map[string]*models.Member, len(members)), members: members}
	for _, m := range members {
		r.byID[m.ID] = m
	}
	return r, nil
}

// isActive reports whether the member belongs to the group and is not archived.
func (r *roster) isActive(memberID string) bool {
	m, ok := r.byID[memberID]
	return ok && m.GroupID == r.groupID && m.Active()
}

func (r *roster) check() calculator.MemberCheck {
	return r.isActive
}

// names maps every member ID to its display name.
func (r *roster) names() map[string]string {
	names := make(map[string]string, len(r.members))
	for _, m := range r.members {
		names[m.ID] = m.DisplayName
	}
	return names
}

func (r *roster) active() []*models.Member {
	out := make([]*models.Member, 0, len(r.members))
	for _, m := range r.members {
		if m.Active() {
			out = append(out, m)
		}
	}
	return out
}

// activeByName finds an active member whose normalized name matches, skipping
// the member with ID except.
func (r *roster) activeByName(name, except string) *models.Member {
	key := models.NormalizeName(name)
	for _, m := range r.members {
		if m.ID == except || !m.Active() {
			continue
		}
		if models.NormalizeName(m.DisplayName) == key {
			return m
		}
	}
	return nil
}

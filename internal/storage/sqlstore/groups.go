package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

const groupColumns = `id, name, currency, invite_code, created_by, created_at`

// CreateGroup persists a new group and its initial members in one transaction.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group, members []*models.Member) error {
	// Generate IDs if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().UnixMilli()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx,
			`INSERT INTO groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			group.ID, group.Name, group.Currency, group.InviteCode, group.CreatedBy, group.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("invite code %s: %w", group.InviteCode, storage.ErrConflict)
			}
			return fmt.Errorf("failed to insert group: %w", err)
		}

		for _, m := range members {
			m.GroupID = group.ID
			if err := s.insertMember(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, "id", groupID)
}

// GetGroupByInviteCode retrieves a group by its invite code.
func (s *Store) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	return s.getGroup(ctx, "invite_code", code)
}

func (s *Store) getGroup(ctx context.Context, column, value string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+groupColumns+` FROM groups WHERE `+column+` = ?`),
		value,
	).Scan(&group.ID, &group.Name, &group.Currency, &group.InviteCode, &group.CreatedBy, &group.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroupsForUser retrieves the groups where the user holds an active member.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupMembership, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT g.id, g.name, g.currency, g.invite_code, g.created_by, g.created_at, m.id
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ? AND m.archived = ?
		ORDER BY g.created_at DESC, g.id DESC`),
		userID, false,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user: %w", err)
	}
	defer rows.Close()

	var memberships []*models.GroupMembership
	for rows.Next() {
		g := &models.Group{}
		var memberID string
		if err := rows.Scan(&g.ID, &g.Name, &g.Currency, &g.InviteCode, &g.CreatedBy, &g.CreatedAt, &memberID); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		memberships = append(memberships, &models.GroupMembership{Group: g, MemberID: memberID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return memberships, nil
}

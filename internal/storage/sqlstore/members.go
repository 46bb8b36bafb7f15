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

const memberColumns = `id, group_id, display_name, user_id, invited_by, claimed_at, archived, created_at`

// CreateMember persists a new member.
func (s *Store) CreateMember(ctx context.Context, member *models.Member) error {
	return s.insertMember(ctx, s.db, member)
}

func (s *Store) insertMember(ctx context.Context, e execer, m *models.Member) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().UnixMilli()
	}
	_, err := s.exec(ctx, e,
		`INSERT INTO group_members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.GroupID, m.DisplayName, nullString(m.UserID), m.InvitedBy, m.ClaimedAt, m.Archived, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *Store) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+memberColumns+` FROM group_members WHERE id = ?`),
		memberID,
	)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// GetMemberByUser retrieves the member linked to a user in a group.
func (s *Store) GetMemberByUser(ctx context.Context, groupID, userID string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+memberColumns+` FROM group_members WHERE group_id = ? AND user_id = ?`),
		groupID, userID,
	)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member for user %s in group %s: %w", userID, groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by user: %w", err)
	}
	return m, nil
}

// ListMembers retrieves all members of a group, archived ones included.
func (s *Store) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT `+memberColumns+` FROM group_members WHERE group_id = ? ORDER BY created_at, display_name, id`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// UpdateMembers writes the mutable fields of every given member in one transaction.
func (s *Store) UpdateMembers(ctx context.Context, members ...*models.Member) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, m := range members {
			ok, err := s.exec(ctx, tx,
				`UPDATE group_members SET display_name = ?, user_id = ?, claimed_at = ?, archived = ? WHERE id = ?`,
				m.DisplayName, nullString(m.UserID), m.ClaimedAt, m.Archived, m.ID,
			)
			if err != nil {
				return fmt.Errorf("failed to update member: %w", err)
			}
			if !ok {
				return fmt.Errorf("member %s: %w", m.ID, storage.ErrNotFound)
			}
		}
		return nil
	})
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*models.Member, error) {
	m := &models.Member{}
	var userID sql.NullString
	if err := row.Scan(&m.ID, &m.GroupID, &m.DisplayName, &userID, &m.InvitedBy, &m.ClaimedAt, &m.Archived, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.UserID = userID.String
	return m, nil
}

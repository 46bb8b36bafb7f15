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

const expenseColumns = `id, group_id, description, amount_cents, currency, paid_by_member_id, created_by_user_id, split_type, created_at`

const shareColumns = `id, group_id, expense_id, member_id, amount_cents, created_at`

// CreateExpense persists a new expense and its shares in one transaction.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense, shares []*models.ExpenseShare) error {
	// Generate IDs if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().UnixMilli()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx,
			`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.GroupID, expense.Description, expense.AmountCents, expense.Currency,
			expense.PaidByMemberID, expense.CreatedByUserID, string(expense.SplitType), expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		return s.insertShares(ctx, tx, expense, shares)
	})
}

// UpdateExpense rewrites an expense and replaces all of its shares in one transaction.
// CreatedAt and CreatedByUserID are left untouched.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense, shares []*models.ExpenseShare) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.exec(ctx, tx,
			`UPDATE expenses SET description = ?, amount_cents = ?, currency = ?, paid_by_member_id = ?, split_type = ?
			 WHERE id = ?`,
			expense.Description, expense.AmountCents, expense.Currency, expense.PaidByMemberID,
			string(expense.SplitType), expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if !ok {
			return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
		}

		if _, err := s.exec(ctx, tx, `DELETE FROM expense_shares WHERE expense_id = ?`, expense.ID); err != nil {
			return fmt.Errorf("failed to delete expense shares: %w", err)
		}

		return s.insertShares(ctx, tx, expense, shares)
	})
}

func (s *Store) insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense, shares []*models.ExpenseShare) error {
	now := time.Now().UnixMilli()
	for i, share := range shares {
		if share.ID == "" {
			share.ID = uuid.New().String()
		}
		share.GroupID = expense.GroupID
		share.ExpenseID = expense.ID
		if share.CreatedAt == 0 {
			share.CreatedAt = now
		}

		_, err := s.exec(ctx, tx,
			`INSERT INTO expense_shares (`+shareColumns+`, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			share.ID, share.GroupID, share.ExpenseID, share.MemberID, share.AmountCents, share.CreatedAt, i,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("member %s listed twice in expense: %w", share.MemberID, storage.ErrConflict)
			}
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`),
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense removes an expense; its shares go with it.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, `DELETE FROM expense_shares WHERE expense_id = ?`, expenseID); err != nil {
			return fmt.Errorf("failed to delete expense shares: %w", err)
		}
		ok, err := s.exec(ctx, tx, `DELETE FROM expenses WHERE id = ?`, expenseID)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		if !ok {
			return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
		}
		return nil
	})
}

// ListExpenses retrieves all expenses of a group, newest first.
func (s *Store) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT `+expenseColumns+` FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id DESC`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// ListSharesByExpense retrieves the shares of one expense in the order they were split.
func (s *Store) ListSharesByExpense(ctx context.Context, expenseID string) ([]*models.ExpenseShare, error) {
	return s.listShares(ctx,
		`SELECT `+shareColumns+` FROM expense_shares WHERE expense_id = ? ORDER BY position`,
		expenseID,
	)
}

// ListSharesByGroup retrieves every share in a group, oldest expense first.
func (s *Store) ListSharesByGroup(ctx context.Context, groupID string) ([]*models.ExpenseShare, error) {
	return s.listShares(ctx,
		`SELECT `+shareColumns+` FROM expense_shares WHERE group_id = ? ORDER BY created_at, expense_id, position`,
		groupID,
	)
}

func (s *Store) listShares(ctx context.Context, query, arg string) ([]*models.ExpenseShare, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	defer rows.Close()

	var shares []*models.ExpenseShare
	for rows.Next() {
		share := &models.ExpenseShare{}
		if err := rows.Scan(&share.ID, &share.GroupID, &share.ExpenseID, &share.MemberID, &share.AmountCents, &share.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}
	return shares, nil
}

func scanExpense(row scanner) (*models.Expense, error) {
	e := &models.Expense{}
	var splitType string
	if err := row.Scan(&e.ID, &e.GroupID, &e.Description, &e.AmountCents, &e.Currency,
		&e.PaidByMemberID, &e.CreatedByUserID, &splitType, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.SplitType = models.SplitType(splitType)
	return e, nil
}

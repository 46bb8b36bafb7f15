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

const paymentColumns = `id, group_id, from_member_id, to_member_id, amount_cents, note, created_by_user_id, created_at`

// CreatePayment persists a new payment to the database.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	// Generate ID if not set
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().UnixMilli()
	}

	_, err := s.exec(ctx, s.db,
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.GroupID, payment.FromMemberID, payment.ToMemberID,
		payment.AmountCents, nullString(payment.Note), payment.CreatedByUserID, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// GetPayment retrieves a payment by ID.
func (s *Store) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+paymentColumns+` FROM payments WHERE id = ?`),
		paymentID,
	)
	payment, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// UpdatePayment rewrites the members, amount and note of a payment.
func (s *Store) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	ok, err := s.exec(ctx, s.db,
		`UPDATE payments SET from_member_id = ?, to_member_id = ?, amount_cents = ?, note = ? WHERE id = ?`,
		payment.FromMemberID, payment.ToMemberID, payment.AmountCents, nullString(payment.Note), payment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if !ok {
		return fmt.Errorf("payment %s: %w", payment.ID, storage.ErrNotFound)
	}
	return nil
}

// ListPayments retrieves all payments for a group, newest first.
func (s *Store) ListPayments(ctx context.Context, groupID string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT `+paymentColumns+` FROM payments WHERE group_id = ? ORDER BY created_at DESC, id DESC`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by group: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// DeletePayment removes a payment by ID.
func (s *Store) DeletePayment(ctx context.Context, paymentID string) error {
	ok, err := s.exec(ctx, s.db, `DELETE FROM payments WHERE id = ?`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if !ok {
		return fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	return nil
}

func scanPayment(row scanner) (*models.Payment, error) {
	p := &models.Payment{}
	var note sql.NullString
	if err := row.Scan(&p.ID, &p.GroupID, &p.FromMemberID, &p.ToMemberID,
		&p.AmountCents, &note, &p.CreatedByUserID, &p.CreatedAt); err != nil {
		return nil, err
	}
	if note.Valid {
		p.Note = note.String
	}
	return p, nil
}

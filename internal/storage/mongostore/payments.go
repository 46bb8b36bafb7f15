package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mmynk/settleup/internal/models"
)

// CreatePayment inserts a new payment.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().UnixMilli()
	}
	if _, err := s.col(colPayments).InsertOne(ctx, toPaymentDoc(payment)); err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID.
func (s *Store) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	var doc paymentDoc
	if err := s.findOne(ctx, colPayments, bson.M{"_id": paymentID}, &doc, "payment "+paymentID); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// UpdatePayment rewrites the members, amount and note of a payment.
func (s *Store) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	set := bson.M{
		"fromMemberId": payment.FromMemberID,
		"toMemberId":   payment.ToMemberID,
		"amountCents":  payment.AmountCents,
	}
	update := bson.M{"$set": set}
	if payment.Note == "" {
		update["$unset"] = bson.M{"note": ""}
	} else {
		set["note"] = payment.Note
	}

	res, err := s.col(colPayments).UpdateOne(ctx, bson.M{"_id": payment.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return matched(res.MatchedCount, "payment "+payment.ID)
}

// DeletePayment removes a payment by ID.
func (s *Store) DeletePayment(ctx context.Context, paymentID string) error {
	res, err := s.col(colPayments).DeleteOne(ctx, bson.M{"_id": paymentID})
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return matched(res.DeletedCount, "payment "+paymentID)
}

// ListPayments retrieves all payments for a group, newest first.
func (s *Store) ListPayments(ctx context.Context, groupID string) ([]*models.Payment, error) {
	docs, err := findAll[paymentDoc](ctx, s.col(colPayments),
		bson.M{"groupId": groupID},
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	payments := make([]*models.Payment, len(docs))
	for i, d := range docs {
		payments[i] = d.model()
	}
	return payments, nil
}

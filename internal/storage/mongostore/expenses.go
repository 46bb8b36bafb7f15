package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// CreateExpense persists a new expense and its shares in one transaction.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense, shares []*models.ExpenseShare) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().UnixMilli()
	}

	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		if _, err := s.col(colExpenses).InsertOne(sc, toExpenseDoc(expense)); err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		return s.insertShares(sc, expense, shares)
	})
}

// UpdateExpense rewrites an expense and replaces all of its shares in one transaction.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense, shares []*models.ExpenseShare) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		res, err := s.col(colExpenses).UpdateOne(sc, bson.M{"_id": expense.ID}, bson.M{"$set": bson.M{
			"description":    expense.Description,
			"amountCents":    expense.AmountCents,
			"currency":       expense.Currency,
			"paidByMemberId": expense.PaidByMemberID,
			"splitType":      string(expense.SplitType),
		}})
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if err := matched(res.MatchedCount, "expense "+expense.ID); err != nil {
			return err
		}

		if _, err := s.col(colShares).DeleteMany(sc, bson.M{"expenseId": expense.ID}); err != nil {
			return fmt.Errorf("failed to delete expense shares: %w", err)
		}
		return s.insertShares(sc, expense, shares)
	})
}

func (s *Store) insertShares(sc mongo.SessionContext, expense *models.Expense, shares []*models.ExpenseShare) error {
	if len(shares) == 0 {
		return nil
	}
	now := time.Now().UnixMilli()
	docs := make([]interface{}, len(shares))
	for i, share := range shares {
		if share.ID == "" {
			share.ID = uuid.New().String()
		}
		share.GroupID = expense.GroupID
		share.ExpenseID = expense.ID
		if share.CreatedAt == 0 {
			share.CreatedAt = now
		}
		docs[i] = shareDoc{
			ID: share.ID, GroupID: share.GroupID, ExpenseID: share.ExpenseID, MemberID: share.MemberID,
			AmountCents: share.AmountCents, Position: i, CreatedAt: share.CreatedAt,
		}
	}
	if _, err := s.col(colShares).InsertMany(sc, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("member listed twice in expense %s: %w", expense.ID, storage.ErrConflict)
		}
		return fmt.Errorf("failed to insert expense shares: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	var doc expenseDoc
	if err := s.findOne(ctx, colExpenses, bson.M{"_id": expenseID}, &doc, "expense "+expenseID); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// DeleteExpense removes an expense and its shares.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		if _, err := s.col(colShares).DeleteMany(sc, bson.M{"expenseId": expenseID}); err != nil {
			return fmt.Errorf("failed to delete expense shares: %w", err)
		}
		res, err := s.col(colExpenses).DeleteOne(sc, bson.M{"_id": expenseID})
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		return matched(res.DeletedCount, "expense "+expenseID)
	})
}

// ListExpenses retrieves all expenses of a group, newest first.
func (s *Store) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	docs, err := findAll[expenseDoc](ctx, s.col(colExpenses),
		bson.M{"groupId": groupID},
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	expenses := make([]*models.Expense, len(docs))
	for i, d := range docs {
		expenses[i] = d.model()
	}
	return expenses, nil
}

// ListSharesByExpense retrieves the shares of one expense in split order.
func (s *Store) ListSharesByExpense(ctx context.Context, expenseID string) ([]*models.ExpenseShare, error) {
	return s.listShares(ctx, bson.M{"expenseId": expenseID}, bson.D{{Key: "position", Value: 1}})
}

// ListSharesByGroup retrieves every share in a group, oldest first.
func (s *Store) ListSharesByGroup(ctx context.Context, groupID string) ([]*models.ExpenseShare, error) {
	return s.listShares(ctx, bson.M{"groupId": groupID},
		bson.D{{Key: "createdAt", Value: 1}, {Key: "expenseId", Value: 1}, {Key: "position", Value: 1}})
}

func (s *Store) listShares(ctx context.Context, filter bson.M, sort bson.D) ([]*models.ExpenseShare, error) {
	docs, err := findAll[shareDoc](ctx, s.col(colShares), filter, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	shares := make([]*models.ExpenseShare, len(docs))
	for i, d := range docs {
		shares[i] = d.model()
	}
	return shares, nil
}

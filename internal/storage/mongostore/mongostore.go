// Package mongostore implements storage.Store on MongoDB.
//
// Each record type lives in its own collection. Writes that touch more than
// one document (a group with its members, an expense with its shares) run in
// a session transaction, so the server must be a replica set.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmynk/settleup/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

const (
	colUsers    = "users"
	colCodes    = "sign_in_codes"
	colGroups   = "groups"
	colMembers  = "group_members"
	colExpenses = "expenses"
	colShares   = "expense_shares"
	colPayments = "payments"
)

// Store wraps MongoDB operations.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB, pings it and ensures the indexes exist.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	slog.Info("Connected to MongoDB", "database", dbName)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colGroups: {
			{Keys: bson.D{{Key: "inviteCode", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colMembers: {
			{Keys: bson.D{{Key: "groupId", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "groupId", Value: 1}}},
		},
		colExpenses: {
			{Keys: bson.D{{Key: "groupId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		colShares: {
			{Keys: bson.D{{Key: "expenseId", Value: 1}, {Key: "memberId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "groupId", Value: 1}}},
		},
		colPayments: {
			{Keys: bson.D{{Key: "groupId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// withTx runs fn inside a session transaction.
func (s *Store) withTx(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// findOne decodes the single document matching filter into out.
func (s *Store) findOne(ctx context.Context, name string, filter bson.M, out any, what string) error {
	err := s.col(name).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to find %s: %w", what, err)
	}
	return nil
}

// findAll decodes every document matching filter, in sort order, into out.
func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// matched converts an update or delete count into ErrNotFound when nothing matched.
func matched(n int64, what string) error {
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}

package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.col(colUsers).InsertOne(ctx, toUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("phone %s already registered: %w", user.Phone, storage.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var doc userDoc
	if err := s.findOne(ctx, colUsers, bson.M{"_id": id}, &doc, "user "+id); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// GetUserByPhone retrieves a user by their phone number.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var doc userDoc
	if err := s.findOne(ctx, colUsers, bson.M{"phone": phone}, &doc, "user "+phone); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// UpdateUserDisplayName sets the profile name of a user.
func (s *Store) UpdateUserDisplayName(ctx context.Context, id, displayName string) error {
	res, err := s.col(colUsers).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"displayName": displayName}})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return matched(res.MatchedCount, "user "+id)
}

// SaveSignInCode stores a pending code, replacing any previous one for the phone.
func (s *Store) SaveSignInCode(ctx context.Context, code *models.SignInCode) error {
	doc := codeDoc{Phone: code.Phone, CodeHash: code.CodeHash, ExpiresAt: code.ExpiresAt, Attempts: code.Attempts}
	_, err := s.col(colCodes).ReplaceOne(ctx, bson.M{"_id": code.Phone}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save sign-in code: %w", err)
	}
	return nil
}

// GetSignInCode retrieves the pending code for a phone.
func (s *Store) GetSignInCode(ctx context.Context, phone string) (*models.SignInCode, error) {
	var doc codeDoc
	if err := s.findOne(ctx, colCodes, bson.M{"_id": phone}, &doc, "sign-in code for "+phone); err != nil {
		return nil, err
	}
	return &models.SignInCode{Phone: doc.Phone, CodeHash: doc.CodeHash, ExpiresAt: doc.ExpiresAt, Attempts: doc.Attempts}, nil
}

// IncrementSignInAttempts records a failed verification against the pending code.
func (s *Store) IncrementSignInAttempts(ctx context.Context, phone string) error {
	res, err := s.col(colCodes).UpdateOne(ctx, bson.M{"_id": phone}, bson.M{"$inc": bson.M{"attempts": 1}})
	if err != nil {
		return fmt.Errorf("failed to record sign-in attempt: %w", err)
	}
	return matched(res.MatchedCount, "sign-in code for "+phone)
}

// DeleteSignInCode removes the pending code for a phone. Missing codes are ignored.
func (s *Store) DeleteSignInCode(ctx context.Context, phone string) error {
	if _, err := s.col(colCodes).DeleteOne(ctx, bson.M{"_id": phone}); err != nil {
		return fmt.Errorf("failed to delete sign-in code: %w", err)
	}
	return nil
}

// PurgeSignInCodes removes codes that expired before the given time.
func (s *Store) PurgeSignInCodes(ctx context.Context, before int64) (int64, error) {
	res, err := s.col(colCodes).DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": before}})
	if err != nil {
		return 0, fmt.Errorf("failed to purge sign-in codes: %w", err)
	}
	return res.DeletedCount, nil
}

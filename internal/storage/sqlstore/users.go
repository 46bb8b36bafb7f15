package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

const userColumns = `id, phone, display_name, created_at`

// CreateUser inserts a new user into the database.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO users (id, phone, display_name, created_at)
		VALUES (?, ?, ?, ?)`),
		user.ID,
		user.Phone,
		user.DisplayName,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("phone %s already registered: %w", user.Phone, storage.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByPhone retrieves a user by their phone number.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.getUser(ctx, "phone", phone)
}

func (s *Store) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`),
		value,
	).Scan(&user.ID, &user.Phone, &user.DisplayName, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return user, nil
}

// UpdateUserDisplayName sets the profile name of a user.
func (s *Store) UpdateUserDisplayName(ctx context.Context, id, displayName string) error {
	ok, err := s.exec(ctx, s.db, `UPDATE users SET display_name = ? WHERE id = ?`, displayName, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if !ok {
		return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// SaveSignInCode stores a pending code, replacing any previous one for the phone.
func (s *Store) SaveSignInCode(ctx context.Context, code *models.SignInCode) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, `DELETE FROM sign_in_codes WHERE phone = ?`, code.Phone); err != nil {
			return fmt.Errorf("failed to clear sign-in code: %w", err)
		}
		if _, err := s.exec(ctx, tx,
			`INSERT INTO sign_in_codes (phone, code_hash, expires_at, attempts) VALUES (?, ?, ?, ?)`,
			code.Phone, code.CodeHash, code.ExpiresAt, code.Attempts,
		); err != nil {
			return fmt.Errorf("failed to insert sign-in code: %w", err)
		}
		return nil
	})
}

// GetSignInCode retrieves the pending code for a phone.
func (s *Store) GetSignInCode(ctx context.Context, phone string) (*models.SignInCode, error) {
	code := &models.SignInCode{}
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT phone, code_hash, expires_at, attempts FROM sign_in_codes WHERE phone = ?`),
		phone,
	).Scan(&code.Phone, &code.CodeHash, &code.ExpiresAt, &code.Attempts)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sign-in code for %s: %w", phone, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sign-in code: %w", err)
	}
	return code, nil
}

// IncrementSignInAttempts records a failed verification against the pending code.
func (s *Store) IncrementSignInAttempts(ctx context.Context, phone string) error {
	ok, err := s.exec(ctx, s.db, `UPDATE sign_in_codes SET attempts = attempts + 1 WHERE phone = ?`, phone)
	if err != nil {
		return fmt.Errorf("failed to record sign-in attempt: %w", err)
	}
	if !ok {
		return fmt.Errorf("sign-in code for %s: %w", phone, storage.ErrNotFound)
	}
	return nil
}

// DeleteSignInCode removes the pending code for a phone. Missing codes are ignored.
func (s *Store) DeleteSignInCode(ctx context.Context, phone string) error {
	if _, err := s.exec(ctx, s.db, `DELETE FROM sign_in_codes WHERE phone = ?`, phone); err != nil {
		return fmt.Errorf("failed to delete sign-in code: %w", err)
	}
	return nil
}

// PurgeSignInCodes removes codes that expired before the given time.
func (s *Store) PurgeSignInCodes(ctx context.Context, before int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM sign_in_codes WHERE expires_at < ?`), before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sign-in codes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged sign-in codes: %w", err)
	}
	return n, nil
}

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

var (
	ErrInvalidPhone    = errors.New("phone number must be in international format, e.g. +15551234567")
	ErrInvalidCode     = errors.New("invalid or unknown sign-in code")
	ErrCodeExpired     = errors.New("sign-in code has expired")
	ErrTooManyAttempts = errors.New("too many attempts, request a new code")
)

// UserStorage defines the persistence the code authenticator needs.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	SaveSignInCode(ctx context.Context, code *models.SignInCode) error
	GetSignInCode(ctx context.Context, phone string) (*models.SignInCode, error)
	IncrementSignInAttempts(ctx context.Context, phone string) error
	DeleteSignInCode(ctx context.Context, phone string) error
}

// CodeOptions tunes the one-time codes.
type CodeOptions struct {
	Length      int
	TTL         time.Duration
	MaxAttempts int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// DefaultCodeOptions issues 8-digit codes valid for 15 minutes.
var DefaultCodeOptions = CodeOptions{
	Length:      8,
	TTL:         15 * time.Minute,
	MaxAttempts: 5,
	BcryptCost:  bcrypt.DefaultCost,
}

// CodeAuthenticator implements phone sign-in with one-time numeric codes.
// Only a bcrypt hash of each code is stored.
type CodeAuthenticator struct {
	storage UserStorage
	sender  CodeSender
	opts    CodeOptions
	now     func() time.Time
}

// NewCodeAuthenticator creates a code authenticator. Zero fields in opts fall
// back to DefaultCodeOptions.
func NewCodeAuthenticator(storage UserStorage, sender CodeSender, opts CodeOptions) *CodeAuthenticator {
	if opts.Length <= 0 {
		opts.Length = DefaultCodeOptions.Length
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultCodeOptions.TTL
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultCodeOptions.MaxAttempts
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = DefaultCodeOptions.BcryptCost
	}
	return &CodeAuthenticator{
		storage: storage,
		sender:  sender,
		opts:    opts,
		now:     time.Now,
	}
}

// RequestCode generates, stores and sends a new code for the phone.
func (a *CodeAuthenticator) RequestCode(ctx context.Context, phone string) (time.Time, error) {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return time.Time{}, err
	}

	code, err := generateCode(a.opts.Length)
	if err != nil {
		return time.Time{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), a.opts.BcryptCost)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to hash sign-in code: %w", err)
	}

	expiresAt := a.now().Add(a.opts.TTL)
	if err := a.storage.SaveSignInCode(ctx, &models.SignInCode{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: expiresAt.UnixMilli(),
	}); err != nil {
		return time.Time{}, err
	}

	if err := a.sender.Send(ctx, phone, code); err != nil {
		return time.Time{}, fmt.Errorf("failed to send sign-in code: %w", err)
	}

	return expiresAt, nil
}

// Verify checks a code against the pending one for the phone. A wrong code
// counts as an attempt; the pending code is dropped once it expires, runs out
// of attempts or is used.
func (a *CodeAuthenticator) Verify(ctx context.Context, phone, code string) (*models.User, error) {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	pending, err := a.storage.GetSignInCode(ctx, phone)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	if pending.Expired(a.now()) {
		a.discard(ctx, phone)
		return nil, ErrCodeExpired
	}
	if pending.Attempts >= a.opts.MaxAttempts {
		a.discard(ctx, phone)
		return nil, ErrTooManyAttempts
	}

	if err := bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(strings.TrimSpace(code))); err != nil {
		if err := a.storage.IncrementSignInAttempts(ctx, phone); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCode
	}

	a.discard(ctx, phone)
	return a.userForPhone(ctx, phone)
}

// userForPhone returns the account for the phone, creating it on first sign-in.
func (a *CodeAuthenticator) userForPhone(ctx context.Context, phone string) (*models.User, error) {
	user, err := a.storage.GetUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	user = models.NewUser(phone)
	if err := a.storage.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent first sign-in.
		if errors.Is(err, storage.ErrConflict) {
			return a.storage.GetUserByPhone(ctx, phone)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("User created", "user_id", user.ID)
	return user, nil
}

func (a *CodeAuthenticator) discard(ctx context.Context, phone string) {
	if err := a.storage.DeleteSignInCode(ctx, phone); err != nil {
		slog.Warn("Failed to delete sign-in code", "error", err)
	}
}

// generateCode returns n random decimal digits.
func generateCode(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate sign-in code: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// NormalizePhone strips common separators and checks for a leading '+'
// followed by 8 to 15 digits.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", ErrInvalidPhone
		}
	}
	out := b.String()
	if !strings.HasPrefix(out, "+") {
		return "", ErrInvalidPhone
	}
	if digits := len(out) - 1; digits < 8 || digits > 15 {
		return "", ErrInvalidPhone
	}
	return out, nil
}

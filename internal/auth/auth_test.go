package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage/sqlstore"
)

// captureSender remembers the last code sent to each phone.
type captureSender struct {
	codes map[string]string
}

func (s *captureSender) Send(_ context.Context, phone, code string) error {
	s.codes[phone] = code
	return nil
}

func setupAuthenticator(t *testing.T) (*CodeAuthenticator, *captureSender, *sqlstore.Store) {
	t.Helper()
	store, err := sqlstore.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sender := &captureSender{codes: map[string]string{}}
	a := NewCodeAuthenticator(store, sender, CodeOptions{MaxAttempts: 3, BcryptCost: bcrypt.MinCost})
	return a, sender, store
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "+15551234567", want: "+15551234567"},
		{in: " +1 (555) 123-4567 ", want: "+15551234567"},
		{in: "15551234567", wantErr: true},
		{in: "+1555", wantErr: true},
		{in: "+1555abc4567", wantErr: true},
		{in: "+1234567890123456", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodeAuthenticator(t *testing.T) {
	ctx := context.Background()

	t.Run("first sign-in creates the user", func(t *testing.T) {
		a, sender, _ := setupAuthenticator(t)

		expiresAt, err := a.RequestCode(ctx, "+1 555 123 4567")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)

		code := sender.codes["+15551234567"]
		require.Len(t, code, 8)

		user, err := a.Verify(ctx, "+15551234567", code)
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "+15551234567", user.Phone)

		// The code is single use.
		_, err = a.Verify(ctx, "+15551234567", code)
		assert.ErrorIs(t, err, ErrInvalidCode)

		// Signing in again returns the same account.
		_, err = a.RequestCode(ctx, "+15551234567")
		require.NoError(t, err)
		again, err := a.Verify(ctx, "+15551234567", sender.codes["+15551234567"])
		require.NoError(t, err)
		assert.Equal(t, user.ID, again.ID)
	})

	t.Run("wrong codes run out of attempts", func(t *testing.T) {
		a, sender, _ := setupAuthenticator(t)
		_, err := a.RequestCode(ctx, "+15550000001")
		require.NoError(t, err)
		code := sender.codes["+15550000001"]

		for i := 0; i < 3; i++ {
			_, err := a.Verify(ctx, "+15550000001", "not-it")
			assert.ErrorIs(t, err, ErrInvalidCode)
		}
		_, err = a.Verify(ctx, "+15550000001", code)
		assert.ErrorIs(t, err, ErrTooManyAttempts)
	})

	t.Run("expired code", func(t *testing.T) {
		a, sender, store := setupAuthenticator(t)
		_, err := a.RequestCode(ctx, "+15550000002")
		require.NoError(t, err)

		a.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err = a.Verify(ctx, "+15550000002", sender.codes["+15550000002"])
		assert.ErrorIs(t, err, ErrCodeExpired)

		_, err = store.GetSignInCode(ctx, "+15550000002")
		assert.Error(t, err, "expired code should be discarded")
	})

	t.Run("unknown phone", func(t *testing.T) {
		a, _, _ := setupAuthenticator(t)
		_, err := a.Verify(ctx, "+15550000003", "12345678")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Phone: "+15551234567"}

	session, err := m.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
	token := session.Token

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "+15551234567", claims.Phone)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := NewJWTManager("test-secret", -time.Minute).Issue(user)
		require.NoError(t, err)
		_, err = m.Validate(expired.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := foreign.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = m.Validate(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

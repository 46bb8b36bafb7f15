package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/settleup/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// Issuer is set on and required of every session token.
const Issuer = "settleup"

// Claims are the session token claims. The user ID is the subject.
type Claims struct {
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// UserID returns the signed-in user's ID.
func (c *Claims) UserID() string {
	return c.Subject
}

// Session is an issued bearer token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// JWTManager issues and validates HS256 session tokens.
type JWTManager struct {
	secretKey []byte
	ttl       time.Duration
	parser    *jwt.Parser
}

// NewJWTManager creates a manager signing with secretKey. Sessions last ttl.
func NewJWTManager(secretKey string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// Issue signs a session for user.
func (m *JWTManager) Issue(user *models.User) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		Phone: user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Validate parses a token and returns its claims. Any failure wraps
// ErrInvalidToken.
func (m *JWTManager) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	if _, err := m.parser.ParseWithClaims(token, claims, m.key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID() == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

func (m *JWTManager) key(*jwt.Token) (any, error) {
	return m.secretKey, nil
}

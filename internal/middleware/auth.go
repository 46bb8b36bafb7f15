package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
)

type identityKey struct{}

type identity struct {
	userID string
	phone  string
}

// WithUser returns a context carrying the signed-in user.
func WithUser(ctx context.Context, userID, phone string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity{userID: userID, phone: phone})
}

// GetUserID returns the signed-in user's ID, or "" for anonymous calls.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(identityKey{}).(identity)
	return id.userID
}

// GetPhone returns the signed-in user's phone, or "".
func GetPhone(ctx context.Context) string {
	id, _ := ctx.Value(identityKey{}).(identity)
	return id.phone
}

// authenticate resolves the bearer token on req into a context carrying the
// user. The error is already a Connect error.
func authenticate(ctx context.Context, jwtManager *auth.JWTManager, req connect.AnyRequest) (context.Context, error) {
	header := req.Header().Get("Authorization")
	if header == "" {
		return ctx, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || strings.Contains(token, " ") {
		return ctx, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	claims, err := jwtManager.Validate(token)
	if err != nil {
		return ctx, connect.NewError(connect.CodeUnauthenticated, err)
	}
	return WithUser(ctx, claims.UserID(), claims.Phone), nil
}

// RequireAuth rejects calls without a valid session token.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx, err := authenticate(ctx, jwtManager, req)
			if err != nil {
				return nil, err
			}
			return next(ctx, req)
		}
	}
}

// OptionalAuth attaches the user when a valid token is present and otherwise
// lets the call through anonymously. Handlers that need a user check for it
// themselves; invite lookups and sign-in work without one.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if authed, err := authenticate(ctx, jwtManager, req); err == nil {
				ctx = authed
			}
			return next(ctx, req)
		}
	}
}

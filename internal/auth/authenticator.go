package auth

import (
	"context"
	"time"

	"github.com/mmynk/settleup/internal/models"
)

// Authenticator defines the interface for sign-in implementations.
// This abstraction allows swapping between different auth methods (one-time
// codes, passkeys, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// RequestCode issues a fresh one-time code for the phone and hands it to
	// the delivery channel. Any earlier pending code is replaced.
	// Returns the time after which the code is no longer accepted.
	RequestCode(ctx context.Context, phone string) (time.Time, error)

	// Verify checks the code and returns the user for the phone, creating the
	// account on first sign-in.
	Verify(ctx context.Context, phone, code string) (*models.User, error)
}

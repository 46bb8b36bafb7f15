package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Phone is the E.164 phone number the user signs in with (unique).
	Phone string

	// DisplayName is the profile name used when the user creates or joins groups.
	// Empty until the user sets a profile.
	DisplayName string

	// CreatedAt is the Unix millisecond timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a new user for the given phone with a generated ID.
func NewUser(phone string) *User {
	return &User{
		ID:        uuid.New().String(),
		Phone:     phone,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// PhoneLast4 returns the last four digits of the phone number, or the whole
// number if it is shorter.
func (u *User) PhoneLast4() string {
	if len(u.Phone) <= 4 {
		return u.Phone
	}
	return u.Phone[len(u.Phone)-4:]
}

// FallbackName is the name used for a user that has not set a profile.
func (u *User) FallbackName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Phone != "" {
		return "User " + u.PhoneLast4()
	}
	return "Member"
}

// SignInCode is a pending one-time sign-in code for a phone number.
// Only a hash of the code is stored.
type SignInCode struct {
	Phone     string
	CodeHash  string
	ExpiresAt int64
	Attempts  int
}

// Expired reports whether the code is past its expiry at the given time.
func (c *SignInCode) Expired(now time.Time) bool {
	return now.UnixMilli() >= c.ExpiresAt
}

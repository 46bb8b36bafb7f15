// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned (wrapped) when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

// UserStore persists accounts and pending sign-in codes.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateUserDisplayName(ctx context.Context, id, displayName string) error

	// SaveSignInCode replaces any pending code for the same phone.
	SaveSignInCode(ctx context.Context, code *models.SignInCode) error
	GetSignInCode(ctx context.Context, phone string) (*models.SignInCode, error)
	IncrementSignInAttempts(ctx context.Context, phone string) error
	DeleteSignInCode(ctx context.Context, phone string) error

	// PurgeSignInCodes deletes codes that expired before the given Unix
	// millisecond time and returns how many were removed.
	PurgeSignInCodes(ctx context.Context, before int64) (int64, error)
}

// GroupStore persists groups.
type GroupStore interface {
	// CreateGroup persists a group together with its initial members.
	// IDs and timestamps are generated when empty. A duplicate invite code
	// yields ErrConflict.
	CreateGroup(ctx context.Context, group *models.Group, members []*models.Member) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsForUser returns the groups in which the user holds a
	// non-archived member, newest group first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupMembership, error)
}

// MemberStore persists group members. Members are never deleted.
type MemberStore interface {
	CreateMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// GetMemberByUser returns the member linked to userID in the group,
	// archived or not.
	GetMemberByUser(ctx context.Context, groupID, userID string) (*models.Member, error)

	// ListMembers returns every member of the group including archived ones.
	ListMembers(ctx context.Context, groupID string) ([]*models.Member, error)

	// UpdateMembers writes display name, user link, claim time and archived
	// flag of all given members in one transaction.
	UpdateMembers(ctx context.Context, members ...*models.Member) error
}

// ExpenseStore persists expenses with their shares. Shares are never patched
// individually; every write replaces the full set.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense, shares []*models.ExpenseShare) error
	UpdateExpense(ctx context.Context, expense *models.Expense, shares []*models.ExpenseShare) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses returns the group's expenses, newest first.
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)
	ListSharesByExpense(ctx context.Context, expenseID string) ([]*models.ExpenseShare, error)
	ListSharesByGroup(ctx context.Context, groupID string) ([]*models.ExpenseShare, error)
}

// PaymentStore persists payments.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	DeletePayment(ctx context.Context, paymentID string) error

	// ListPayments returns the group's payments, newest first.
	ListPayments(ctx context.Context, groupID string) ([]*models.Payment, error)
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// MongoDB) without changing the service layer. Every method is atomic.
type Store interface {
	UserStore
	GroupStore
	MemberStore
	ExpenseStore
	PaymentStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

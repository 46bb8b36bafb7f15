package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/storage"
)

// Service errors. Messages are shown to users as-is.
var (
	ErrNotGroupMember   = errors.New("not a group member")
	ErrNameTaken        = errors.New("a member with this name already exists")
	ErrAlreadyClaimed   = errors.New("member has already been claimed")
	ErrNameRequired     = errors.New("display name is required")
	ErrGroupNameMissing = errors.New("group name is required")
	ErrInvalidCurrency  = errors.New("currency must be a three-letter ISO 4217 code")
	ErrDescription      = errors.New("description is required")
	ErrAmount           = errors.New("amount must be greater than zero")
	ErrInvalidPayer     = errors.New("payer must be an active member of the group")
	ErrSameMember       = errors.New("a payment needs two different members")
	ErrPaymentMember    = errors.New("payment members must be active members of the group")
	ErrInviteExhausted  = errors.New("could not generate a unique invite code")
)

var invalidArgument = []error{
	calculator.ErrInvalidTotal,
	calculator.ErrUnknownMode,
	calculator.ErrNoMembers,
	calculator.ErrNoShares,
	calculator.ErrInvalidAmount,
	calculator.ErrDuplicateMember,
	calculator.ErrInvalidMember,
	calculator.ErrSumMismatch,
	auth.ErrInvalidPhone,
	ErrNameRequired,
	ErrGroupNameMissing,
	ErrInvalidCurrency,
	ErrDescription,
	ErrAmount,
	ErrInvalidPayer,
	ErrSameMember,
	ErrPaymentMember,
}

// toConnectError maps domain and storage errors onto Connect codes.
// Errors that already carry a code pass through.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	for _, target := range invalidArgument {
		if errors.Is(err, target) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrNotGroupMember):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, ErrNameTaken), errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ErrAlreadyClaimed):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrInvalidCode), errors.Is(err, auth.ErrCodeExpired), errors.Is(err, auth.ErrMissingToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, auth.ErrTooManyAttempts):
		return connect.NewError(connect.CodeResourceExhausted, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

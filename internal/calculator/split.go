package calculator

import (
	"errors"
)

// Mode selects how an expense total is divided.
type Mode string

const (
	ModeEqual  Mode = "equal"
	ModeCustom Mode = "custom"
)

// Split validation errors. Messages are shown to users as-is.
var (
	ErrInvalidTotal    = errors.New("amount must be a positive integer of cents")
	ErrUnknownMode     = errors.New("split type must be equal or custom")
	ErrNoMembers       = errors.New("select at least one member to split with")
	ErrNoShares        = errors.New("provide custom split amounts")
	ErrInvalidAmount   = errors.New("custom split amounts must be positive cents")
	ErrDuplicateMember = errors.New("custom split members must be unique")
	ErrInvalidMember   = errors.New("split member is not valid for this group")
	ErrSumMismatch     = errors.New("custom split amounts must sum to total")
)

// Share is one member's part of an expense, in cents.
type Share struct {
	MemberID    string
	AmountCents int64
}

// SplitRequest describes an expense to divide.
// MemberIDs is read for ModeEqual, CustomShares for ModeCustom.
type SplitRequest struct {
	TotalCents   int64
	Mode         Mode
	MemberIDs    []string
	CustomShares []Share
}

// MemberCheck reports whether a member ID belongs to the target group and is
// not archived.
type MemberCheck func(memberID string) bool

// ComputeSplit turns a total and split mode into shares that sum exactly to the
// total.
//
// Equal splits give every member floor(total/n) cents, and the first
// total mod n members (in the order supplied, after dropping repeats) one extra
// cent each. Custom splits are validated and returned unchanged; they are never
// adjusted to fit the total.
func ComputeSplit(req SplitRequest, isActive MemberCheck) ([]Share, error) {
	if req.TotalCents <= 0 {
		return nil, ErrInvalidTotal
	}

	switch req.Mode {
	case ModeEqual:
		return splitEqual(req.TotalCents, req.MemberIDs, isActive)
	case ModeCustom:
		return splitCustom(req.TotalCents, req.CustomShares, isActive)
	default:
		return nil, ErrUnknownMode
	}
}

func splitEqual(total int64, memberIDs []string, isActive MemberCheck) ([]Share, error) {
	ids := dedupe(memberIDs)
	if len(ids) == 0 {
		return nil, ErrNoMembers
	}
	for _, id := range ids {
		if !isActive(id) {
			return nil, ErrInvalidMember
		}
	}

	count := int64(len(ids))
	base := total / count
	remainder := total - base*count

	shares := make([]Share, len(ids))
	for i, id := range ids {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		shares[i] = Share{MemberID: id, AmountCents: amount}
	}
	return shares, nil
}

func splitCustom(total int64, custom []Share, isActive MemberCheck) ([]Share, error) {
	if len(custom) == 0 {
		return nil, ErrNoShares
	}
	for _, s := range custom {
		if s.AmountCents <= 0 {
			return nil, ErrInvalidAmount
		}
	}

	seen := make(map[string]bool, len(custom))
	for _, s := range custom {
		if seen[s.MemberID] {
			return nil, ErrDuplicateMember
		}
		seen[s.MemberID] = true
	}

	for _, s := range custom {
		if !isActive(s.MemberID) {
			return nil, ErrInvalidMember
		}
	}

	// Amounts are positive, so a running sum past total can only mismatch.
	// Checking before adding also keeps the sum from overflowing.
	var sum int64
	for _, s := range custom {
		if s.AmountCents > total-sum {
			return nil, ErrSumMismatch
		}
		sum += s.AmountCents
	}
	if sum != total {
		return nil, ErrSumMismatch
	}

	shares := make([]Share, len(custom))
	copy(shares, custom)
	return shares, nil
}

// dedupe drops repeated IDs, keeping the first occurrence of each.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

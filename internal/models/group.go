package models

// DefaultCurrency is used when a group is created without a currency code.
const DefaultCurrency = "USD"

// Group is a set of members sharing expenses in one currency.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Currency is the ISO 4217 code expenses in this group are recorded in.
	Currency string

	// InviteCode is the short code others use to join. Unique across groups.
	InviteCode string

	// CreatedBy is the user ID of the creator.
	CreatedBy string

	// CreatedAt is the Unix millisecond timestamp when the group was created.
	CreatedAt int64
}

// Member is a named seat in a group.
//
// A member starts unclaimed (UserID empty) when someone adds a name to a group,
// and becomes claimed once a user links to it. Members are archived instead of
// deleted so that expenses and payments referencing them stay resolvable.
type Member struct {
	ID          string
	GroupID     string
	DisplayName string

	// UserID links the member to an account. Empty while unclaimed.
	UserID string

	// InvitedBy is the user ID that created this member.
	InvitedBy string

	// ClaimedAt is the Unix millisecond timestamp of linking, zero while unclaimed.
	ClaimedAt int64

	Archived bool

	// CreatedAt is the Unix millisecond timestamp when the member was added.
	CreatedAt int64
}

// Claimed reports whether the member is linked to a user.
func (m *Member) Claimed() bool {
	return m.UserID != ""
}

// Active reports whether the member can take part in new expenses and payments.
func (m *Member) Active() bool {
	return !m.Archived
}

// GroupMembership pairs a group with the caller's member ID in it.
type GroupMembership struct {
	Group    *Group
	MemberID string
}

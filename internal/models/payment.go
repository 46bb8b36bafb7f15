package models

// Payment represents a transfer between group members to settle debts.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group this payment belongs to.
	GroupID string

	// FromMemberID is the member who paid (debtor settling up).
	FromMemberID string

	// ToMemberID is the member who received payment (creditor being paid).
	ToMemberID string

	// AmountCents is the payment amount in minor currency units.
	AmountCents int64

	// Note is an optional description for the payment.
	Note string

	// CreatedByUserID is the user who recorded this payment.
	CreatedByUserID string

	// CreatedAt is the Unix millisecond timestamp when the payment was recorded.
	CreatedAt int64
}

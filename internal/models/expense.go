package models

// SplitType is how an expense is divided among members.
type SplitType string

const (
	SplitEqual  SplitType = "equal"
	SplitCustom SplitType = "custom"
)

// Expense is an amount one member fronted on behalf of the group.
type Expense struct {
	ID          string
	GroupID     string
	Description string

	// AmountCents is the total in minor currency units. Always positive.
	AmountCents int64

	// Currency is copied from the group when the expense is written.
	Currency string

	// PaidByMemberID is the member who fronted the money.
	PaidByMemberID string

	// CreatedByUserID is the user who recorded the expense.
	CreatedByUserID string

	SplitType SplitType
	CreatedAt int64
}

// ExpenseShare is one member's part of an expense.
// The shares of an expense always sum to its AmountCents.
type ExpenseShare struct {
	ID          string
	GroupID     string
	ExpenseID   string
	MemberID    string
	AmountCents int64
	CreatedAt   int64
}

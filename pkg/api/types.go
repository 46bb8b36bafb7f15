package api

// User is the signed-in account.
type User struct {
	ID          string `json:"id"`
	Phone       string `json:"phone"`
	DisplayName string `json:"displayName,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// Group is a set of members sharing expenses in one currency.
type Group struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Currency   string `json:"currency"`
	InviteCode string `json:"inviteCode"`
	CreatedBy  string `json:"createdBy"`
	CreatedAt  int64  `json:"createdAt"`
}

// GroupMembership is a group together with the caller's member ID in it.
type GroupMembership struct {
	Group    *Group `json:"group"`
	MemberID string `json:"memberId"`
}

// Member is a named seat in a group.
type Member struct {
	ID          string `json:"id"`
	GroupID     string `json:"groupId"`
	DisplayName string `json:"displayName"`
	UserID      string `json:"userId,omitempty"`
	InvitedBy   string `json:"invitedBy"`
	ClaimedAt   int64  `json:"claimedAt,omitempty"`
	Archived    bool   `json:"archived"`
	CreatedAt   int64  `json:"createdAt"`
}

// Share is one member's part of an expense.
type Share struct {
	MemberID    string `json:"memberId"`
	AmountCents int64  `json:"amountCents"`
}

// Expense is an amount one member fronted for the group.
type Expense struct {
	ID              string   `json:"id"`
	GroupID         string   `json:"groupId"`
	Description     string   `json:"description"`
	AmountCents     int64    `json:"amountCents"`
	AmountDisplay   string   `json:"amountDisplay"`
	Currency        string   `json:"currency"`
	PaidByMemberID  string   `json:"paidByMemberId"`
	CreatedByUserID string   `json:"createdByUserId"`
	SplitType       string   `json:"splitType"`
	CreatedAt       int64    `json:"createdAt"`
	SplitMemberIDs  []string `json:"splitMemberIds,omitempty"`
}

// PayerInfo describes who paid an expense; the payer may since have been archived.
type PayerInfo struct {
	MemberID    string `json:"memberId"`
	DisplayName string `json:"displayName"`
	Archived    bool   `json:"archived"`
}

// Payment is a settling transfer between two members.
type Payment struct {
	ID              string `json:"id"`
	GroupID         string `json:"groupId"`
	FromMemberID    string `json:"fromMemberId"`
	ToMemberID      string `json:"toMemberId"`
	AmountCents     int64  `json:"amountCents"`
	AmountDisplay   string `json:"amountDisplay"`
	Note            string `json:"note,omitempty"`
	CreatedByUserID string `json:"createdByUserId"`
	CreatedAt       int64  `json:"createdAt"`
}

// Balance states that From owes To AmountCents, net of all expenses and payments.
type Balance struct {
	FromMemberID  string `json:"fromMemberId"`
	ToMemberID    string `json:"toMemberId"`
	FromName      string `json:"fromName"`
	ToName        string `json:"toName"`
	AmountCents   int64  `json:"amountCents"`
	AmountDisplay string `json:"amountDisplay"`
}

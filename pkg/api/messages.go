package api

// AuthService

type RequestCodeRequest struct {
	Phone string `json:"phone"`
}

type RequestCodeResponse struct {
	// ExpiresAt is the Unix millisecond time after which the code is rejected.
	ExpiresAt int64 `json:"expiresAt"`
}

type VerifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type VerifyCodeResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`

	// ExpiresAt is the token expiry in Unix milliseconds.
	ExpiresAt int64 `json:"expiresAt"`
}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}

// GroupService

type CreateGroupRequest struct {
	Name string `json:"name"`
	// Currency defaults to USD when blank.
	Currency    string   `json:"currency"`
	MemberNames []string `json:"memberNames"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
	// MemberID is the creator's member in the new group.
	MemberID string `json:"memberId"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsResponse struct {
	Groups []*GroupMembership `json:"groups"`
}

type GetGroupByInviteCodeRequest struct {
	InviteCode string `json:"inviteCode"`
}

type GetGroupByInviteCodeResponse struct {
	Group *Group `json:"group"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	Currency string     `json:"currency"`
	Balances []*Balance `json:"balances"`
}

// MemberService

type ListMembersRequest struct {
	GroupID string `json:"groupId"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type GetMyMembershipRequest struct {
	GroupID string `json:"groupId"`
}

type GetMyMembershipResponse struct {
	// Member is nil when the caller has no member in the group.
	Member *Member `json:"member"`
}

type ListUnclaimedByInviteCodeRequest struct {
	InviteCode string `json:"inviteCode"`
}

type ListUnclaimedByInviteCodeResponse struct {
	Members []*Member `json:"members"`
}

type AddMemberRequest struct {
	GroupID     string `json:"groupId"`
	DisplayName string `json:"displayName"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type ClaimMemberRequest struct {
	MemberID string `json:"memberId"`
}

type ClaimMemberResponse struct {
	Member *Member `json:"member"`
}

type JoinByInviteCodeRequest struct {
	InviteCode  string `json:"inviteCode"`
	DisplayName string `json:"displayName"`
}

type JoinByInviteCodeResponse struct {
	Member *Member `json:"member"`
}

type UpdateMyDisplayNameRequest struct {
	GroupID     string `json:"groupId"`
	DisplayName string `json:"displayName"`
}

type UpdateMyDisplayNameResponse struct {
	Member *Member `json:"member"`
}

type ArchiveMemberRequest struct {
	MemberID string `json:"memberId"`
}

type ArchiveMemberResponse struct {
	Member *Member `json:"member"`
}

// ExpenseService

// SplitInput selects how an expense is divided. SplitMemberIDs is read for
// "equal", CustomShares for "custom".
type SplitInput struct {
	SplitType      string   `json:"splitType"`
	SplitMemberIDs []string `json:"splitMemberIds,omitempty"`
	CustomShares   []*Share `json:"customShares,omitempty"`
}

type PreviewSplitRequest struct {
	GroupID     string `json:"groupId"`
	AmountCents int64  `json:"amountCents"`
	SplitInput
}

type PreviewSplitResponse struct {
	Shares []*Share `json:"shares"`
}

type CreateExpenseRequest struct {
	GroupID        string `json:"groupId"`
	Description    string `json:"description"`
	AmountCents    int64  `json:"amountCents"`
	PaidByMemberID string `json:"paidByMemberId"`
	SplitInput
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
	Shares  []*Share `json:"shares"`
}

type UpdateExpenseRequest struct {
	ExpenseID      string `json:"expenseId"`
	GroupID        string `json:"groupId"`
	Description    string `json:"description"`
	AmountCents    int64  `json:"amountCents"`
	PaidByMemberID string `json:"paidByMemberId"`
	SplitInput
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
	Shares  []*Share `json:"shares"`
}

type GetExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense   `json:"expense"`
	Shares  []*Share   `json:"shares"`
	PaidBy  *PayerInfo `json:"paidBy"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

// PaymentService

type RecordPaymentRequest struct {
	GroupID      string `json:"groupId"`
	FromMemberID string `json:"fromMemberId"`
	ToMemberID   string `json:"toMemberId"`
	AmountCents  int64  `json:"amountCents"`
	Note         string `json:"note,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type GetPaymentRequest struct {
	PaymentID string `json:"paymentId"`
}

type GetPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type UpdatePaymentRequest struct {
	PaymentID    string `json:"paymentId"`
	FromMemberID string `json:"fromMemberId"`
	ToMemberID   string `json:"toMemberId"`
	AmountCents  int64  `json:"amountCents"`
	Note         string `json:"note,omitempty"`
}

type UpdatePaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type DeletePaymentRequest struct {
	PaymentID string `json:"paymentId"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"groupId"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

package mongostore

import "github.com/mmynk/settleup/internal/models"

// Documents mirror the models with bson field names. The model package stays
// free of storage tags.

type userDoc struct {
	ID          string `bson:"_id"`
	Phone       string `bson:"phone"`
	DisplayName string `bson:"displayName"`
	CreatedAt   int64  `bson:"createdAt"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{ID: u.ID, Phone: u.Phone, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

func (d userDoc) model() *models.User {
	return &models.User{ID: d.ID, Phone: d.Phone, DisplayName: d.DisplayName, CreatedAt: d.CreatedAt}
}

type codeDoc struct {
	Phone     string `bson:"_id"`
	CodeHash  string `bson:"codeHash"`
	ExpiresAt int64  `bson:"expiresAt"`
	Attempts  int    `bson:"attempts"`
}

type groupDoc struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	Currency   string `bson:"currency"`
	InviteCode string `bson:"inviteCode"`
	CreatedBy  string `bson:"createdBy"`
	CreatedAt  int64  `bson:"createdAt"`
}

func toGroupDoc(g *models.Group) groupDoc {
	return groupDoc{ID: g.ID, Name: g.Name, Currency: g.Currency, InviteCode: g.InviteCode, CreatedBy: g.CreatedBy, CreatedAt: g.CreatedAt}
}

func (d groupDoc) model() *models.Group {
	return &models.Group{ID: d.ID, Name: d.Name, Currency: d.Currency, InviteCode: d.InviteCode, CreatedBy: d.CreatedBy, CreatedAt: d.CreatedAt}
}

type memberDoc struct {
	ID          string `bson:"_id"`
	GroupID     string `bson:"groupId"`
	DisplayName string `bson:"displayName"`
	UserID      string `bson:"userId,omitempty"`
	InvitedBy   string `bson:"invitedBy"`
	ClaimedAt   int64  `bson:"claimedAt"`
	Archived    bool   `bson:"archived"`
	CreatedAt   int64  `bson:"createdAt"`
}

func toMemberDoc(m *models.Member) memberDoc {
	return memberDoc{
		ID: m.ID, GroupID: m.GroupID, DisplayName: m.DisplayName, UserID: m.UserID,
		InvitedBy: m.InvitedBy, ClaimedAt: m.ClaimedAt, Archived: m.Archived, CreatedAt: m.CreatedAt,
	}
}

func (d memberDoc) model() *models.Member {
	return &models.Member{
		ID: d.ID, GroupID: d.GroupID, DisplayName: d.DisplayName, UserID: d.UserID,
		InvitedBy: d.InvitedBy, ClaimedAt: d.ClaimedAt, Archived: d.Archived, CreatedAt: d.CreatedAt,
	}
}

type expenseDoc struct {
	ID              string `bson:"_id"`
	GroupID         string `bson:"groupId"`
	Description     string `bson:"description"`
	AmountCents     int64  `bson:"amountCents"`
	Currency        string `bson:"currency"`
	PaidByMemberID  string `bson:"paidByMemberId"`
	CreatedByUserID string `bson:"createdByUserId"`
	SplitType       string `bson:"splitType"`
	CreatedAt       int64  `bson:"createdAt"`
}

func toExpenseDoc(e *models.Expense) expenseDoc {
	return expenseDoc{
		ID: e.ID, GroupID: e.GroupID, Description: e.Description, AmountCents: e.AmountCents,
		Currency: e.Currency, PaidByMemberID: e.PaidByMemberID, CreatedByUserID: e.CreatedByUserID,
		SplitType: string(e.SplitType), CreatedAt: e.CreatedAt,
	}
}

func (d expenseDoc) model() *models.Expense {
	return &models.Expense{
		ID: d.ID, GroupID: d.GroupID, Description: d.Description, AmountCents: d.AmountCents,
		Currency: d.Currency, PaidByMemberID: d.PaidByMemberID, CreatedByUserID: d.CreatedByUserID,
		SplitType: models.SplitType(d.SplitType), CreatedAt: d.CreatedAt,
	}
}

type shareDoc struct {
	ID          string `bson:"_id"`
	GroupID     string `bson:"groupId"`
	ExpenseID   string `bson:"expenseId"`
	MemberID    string `bson:"memberId"`
	AmountCents int64  `bson:"amountCents"`
	Position    int    `bson:"position"`
	CreatedAt   int64  `bson:"createdAt"`
}

func (d shareDoc) model() *models.ExpenseShare {
	return &models.ExpenseShare{
		ID: d.ID, GroupID: d.GroupID, ExpenseID: d.ExpenseID, MemberID: d.MemberID,
		AmountCents: d.AmountCents, CreatedAt: d.CreatedAt,
	}
}

type paymentDoc struct {
	ID              string `bson:"_id"`
	GroupID         string `bson:"groupId"`
	FromMemberID    string `bson:"fromMemberId"`
	ToMemberID      string `bson:"toMemberId"`
	AmountCents     int64  `bson:"amountCents"`
	Note            string `bson:"note,omitempty"`
	CreatedByUserID string `bson:"createdByUserId"`
	CreatedAt       int64  `bson:"createdAt"`
}

func toPaymentDoc(p *models.Payment) paymentDoc {
	return paymentDoc{
		ID: p.ID, GroupID: p.GroupID, FromMemberID: p.FromMemberID, ToMemberID: p.ToMemberID,
		AmountCents: p.AmountCents, Note: p.Note, CreatedByUserID: p.CreatedByUserID, CreatedAt: p.CreatedAt,
	}
}

func (d paymentDoc) model() *models.Payment {
	return &models.Payment{
		ID: d.ID, GroupID: d.GroupID, FromMemberID: d.FromMemberID, ToMemberID: d.ToMemberID,
		AmountCents: d.AmountCents, Note: d.Note, CreatedByUserID: d.CreatedByUserID, CreatedAt: d.CreatedAt,
	}
}

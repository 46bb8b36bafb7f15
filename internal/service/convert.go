package service

import (
	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
	"github.com/mmynk/settleup/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Phone:       u.Phone,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:         g.ID,
		Name:       g.Name,
		Currency:   g.Currency,
		InviteCode: g.InviteCode,
		CreatedBy:  g.CreatedBy,
		CreatedAt:  g.CreatedAt,
	}
}

func toAPIMember(m *models.Member) *api.Member {
	if m == nil {
		return nil
	}
	return &api.Member{
		ID:          m.ID,
		GroupID:     m.GroupID,
		DisplayName: m.DisplayName,
		UserID:      m.UserID,
		InvitedBy:   m.InvitedBy,
		ClaimedAt:   m.ClaimedAt,
		Archived:    m.Archived,
		CreatedAt:   m.CreatedAt,
	}
}

func toAPIMembers(members []*models.Member) []*api.Member {
	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:              e.ID,
		GroupID:         e.GroupID,
		Description:     e.Description,
		AmountCents:     e.AmountCents,
		AmountDisplay:   money.FormatCents(e.AmountCents, e.Currency),
		Currency:        e.Currency,
		PaidByMemberID:  e.PaidByMemberID,
		CreatedByUserID: e.CreatedByUserID,
		SplitType:       string(e.SplitType),
		CreatedAt:       e.CreatedAt,
	}
}

func toAPIShares(shares []*models.ExpenseShare) []*api.Share {
	out := make([]*api.Share, len(shares))
	for i, s := range shares {
		out[i] = &api.Share{MemberID: s.MemberID, AmountCents: s.AmountCents}
	}
	return out
}

func toAPIPayment(p *models.Payment, currency string) *api.Payment {
	return &api.Payment{
		ID:              p.ID,
		GroupID:         p.GroupID,
		FromMemberID:    p.FromMemberID,
		ToMemberID:      p.ToMemberID,
		AmountCents:     p.AmountCents,
		AmountDisplay:   money.FormatCents(p.AmountCents, currency),
		Note:            p.Note,
		CreatedByUserID: p.CreatedByUserID,
		CreatedAt:       p.CreatedAt,
	}
}

func toAPIBalances(balances []calculator.Balance, currency string) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{
			FromMemberID:  b.FromMemberID,
			ToMemberID:    b.ToMemberID,
			FromName:      b.FromName,
			ToName:        b.ToName,
			AmountCents:   b.AmountCents,
			AmountDisplay: money.FormatCents(b.AmountCents, currency),
		}
	}
	return out
}

func calculatorShares(in []*api.Share) []calculator.Share {
	out := make([]calculator.Share, 0, len(in))
	for _, s := range in {
		if s == nil {
			continue
		}
		out = append(out, calculator.Share{MemberID: s.MemberID, AmountCents: s.AmountCents})
	}
	return out
}

func splitToAPI(shares []calculator.Share) []*api.Share {
	out := make([]*api.Share, len(shares))
	for i, s := range shares {
		out[i] = &api.Share{MemberID: s.MemberID, AmountCents: s.AmountCents}
	}
	return out
}

func splitToModel(shares []calculator.Share) []*models.ExpenseShare {
	out := make([]*models.ExpenseShare, len(shares))
	for i, s := range shares {
		out[i] = &models.ExpenseShare{MemberID: s.MemberID, AmountCents: s.AmountCents}
	}
	return out
}

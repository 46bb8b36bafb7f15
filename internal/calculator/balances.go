package calculator

import "sort"

// UnknownMemberName is shown for a member ID missing from the name lookup.
const UnknownMemberName = "Member"

// ShareRecord is a persisted expense share with the minimal information needed
// for balance calculations.
type ShareRecord struct {
	MemberID    string
	ExpenseID   string
	AmountCents int64
}

// PaymentRecord is a persisted payment with the minimal information needed for
// balance calculations.
type PaymentRecord struct {
	FromMemberID string // Who paid (debtor settling up)
	ToMemberID   string // Who received (creditor being paid)
	AmountCents  int64
}

// Balance is a net debt: From owes To AmountCents.
type Balance struct {
	FromMemberID string
	ToMemberID   string
	FromName     string
	ToName       string
	AmountCents  int64
}

// pair is a directed (owing, owed) key.
type pair struct {
	from, to string
}

func (p pair) reverse() pair {
	return pair{from: p.to, to: p.from}
}

// ComputeBalances nets expense shares and payments into at most one directed
// balance per pair of members.
//
// Algorithm:
//   - each share not owed by the expense's payer adds debt[member -> payer]
//   - each payment subtracts from debt[from -> to]
//   - each unordered pair nets debt[a->b] - debt[b->a]; zero pairs are dropped
//   - results are ordered by amount, largest first; ties keep the order in
//     which the pair was first seen
//
// Shares whose expense is missing from payerByExpense are skipped. Names are
// looked up in nameByMember, which should include archived members.
func ComputeBalances(
	shares []ShareRecord,
	payerByExpense map[string]string,
	payments []PaymentRecord,
	nameByMember map[string]string,
) []Balance {
	debts := make(map[pair]int64)
	var order []pair
	add := func(key pair, amount int64) {
		if _, ok := debts[key]; !ok {
			order = append(order, key)
		}
		debts[key] += amount
	}

	for _, share := range shares {
		payerID, ok := payerByExpense[share.ExpenseID]
		if !ok {
			continue
		}
		if share.MemberID == payerID {
			continue
		}
		add(pair{from: share.MemberID, to: payerID}, share.AmountCents)
	}

	for _, p := range payments {
		add(pair{from: p.FromMemberID, to: p.ToMemberID}, -p.AmountCents)
	}

	balances := make([]Balance, 0, len(order))
	seen := make(map[pair]bool, len(order))
	for _, key := range order {
		if seen[key] {
			continue
		}
		seen[key] = true
		seen[key.reverse()] = true

		net := debts[key] - debts[key.reverse()]
		switch {
		case net > 0:
			balances = append(balances, newBalance(key.from, key.to, net, nameByMember))
		case net < 0:
			balances = append(balances, newBalance(key.to, key.from, -net, nameByMember))
		}
	}

	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].AmountCents > balances[j].AmountCents
	})
	return balances
}

func newBalance(from, to string, amount int64, names map[string]string) Balance {
	return Balance{
		FromMemberID: from,
		ToMemberID:   to,
		FromName:     nameOf(from, names),
		ToName:       nameOf(to, names),
		AmountCents:  amount,
	}
}

func nameOf(memberID string, names map[string]string) string {
	if name, ok := names[memberID]; ok && name != "" {
		return name
	}
	return UnknownMemberName
}

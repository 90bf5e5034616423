package domain

import "github.com/shopspring/decimal"

// Balance is a member's derived ledger position. Positive means the member
// is owed money, negative means the member owes money. Never persisted;
// always recomputed from committed ledger state.
type Balance struct {
	MemberID  string
	TotalPaid decimal.Decimal
	TotalOwed decimal.Decimal
	Balance   decimal.Decimal
}

// Debt is one directed obligation in a settlement plan. It is a proposal
// derived from balances, not a ledger fact.
type Debt struct {
	FromMemberID string
	ToMemberID   string
	Amount       decimal.Decimal
}

// AccumulateBalances derives per-member balances from a trip's expenses.
//
// TotalPaid sums the amounts of non-settlement expenses the member paid for.
// TotalOwed sums the member's split amounts across all expenses; settlement
// splits are signed, so a recorded payment lowers the payer's owed total and
// raises the recipient's. Members with no ledger activity do not appear.
// Splits referencing members who have since left the trip are still counted
// so their outstanding debts stay visible.
func AccumulateBalances(expenses []*Expense) []Balance {
	totals := make(map[string]*Balance)

	var order []string
	touch := func(memberID string) *Balance {
		b, ok := totals[memberID]
		if !ok {
			b = &Balance{
				MemberID:  memberID,
				TotalPaid: decimal.Zero,
				TotalOwed: decimal.Zero,
			}
			totals[memberID] = b
			order = append(order, memberID)
		}

		return b
	}

	for _, e := range expenses {
		if !e.IsSettlement {
			payer := touch(e.PaidBy)
			payer.TotalPaid = payer.TotalPaid.Add(e.Amount)
		}

		for _, s := range e.Splits {
			b := touch(s.MemberID)
			b.TotalOwed = b.TotalOwed.Add(s.Amount)
		}
	}

	balances := make([]Balance, 0, len(order))
	for _, memberID := range order {
		b := totals[memberID]
		b.Balance = b.TotalPaid.Sub(b.TotalOwed)
		balances = append(balances, *b)
	}

	return balances
}

// ResolveDebts turns a set of balances into a pairwise settlement plan using
// a greedy pass in input order: each debtor draws from creditors until their
// debt is exhausted, each draw being the smaller of the remaining debt and
// the creditor's remaining credit. Draws at or below Tolerance are skipped.
//
// Applying every returned debt in full zeroes all balances, but the number
// of transactions is not guaranteed minimal; the greedy pass is a documented
// trade of optimality for predictability.
func ResolveDebts(balances []Balance) []Debt {
	var debtors, creditors []Balance

	for _, b := range balances {
		switch {
		case b.Balance.LessThan(Tolerance.Neg()):
			debtors = append(debtors, b)
		case b.Balance.GreaterThan(Tolerance):
			creditors = append(creditors, b)
		}
	}

	// Working copy of creditor credits; the input balances stay untouched.
	credits := make([]decimal.Decimal, len(creditors))
	for i, c := range creditors {
		credits[i] = c.Balance
	}

	var debts []Debt

	j := 0
	for _, d := range debtors {
		remaining := d.Balance.Neg()

		for remaining.GreaterThan(Tolerance) && j < len(creditors) {
			draw := decimal.Min(remaining, credits[j])

			if draw.GreaterThan(Tolerance) {
				debts = append(debts, Debt{
					FromMemberID: d.MemberID,
					ToMemberID:   creditors[j].MemberID,
					Amount:       draw,
				})
			}

			remaining = remaining.Sub(draw)
			credits[j] = credits[j].Sub(draw)

			if credits[j].LessThanOrEqual(Tolerance) {
				j++
			}
		}
	}

	return debts
}

// OutstandingDebt returns the planned debt from one member to another, or
// zero when the plan holds no such obligation.
func OutstandingDebt(debts []Debt, fromID, toID string) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if d.FromMemberID == fromID && d.ToMemberID == toID {
			total = total.Add(d.Amount)
		}
	}

	return total
}

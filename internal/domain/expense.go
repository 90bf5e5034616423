package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitPolicy determines how an expense is divided among participants.
type SplitPolicy string

const (
	// SplitEqual divides the amount evenly among all participants.
	SplitEqual SplitPolicy = "equal"

	// SplitCustom uses caller-supplied per-participant amounts.
	SplitCustom SplitPolicy = "custom"
)

// IsValid checks if the policy is a known split policy.
func (p SplitPolicy) IsValid() bool {
	return p == SplitEqual || p == SplitCustom
}

// Expense represents a monetary event on a trip ledger. A regular expense
// carries one split per participant summing to Amount. A settlement is a
// transfer between exactly two members whose splits sum to zero.
type Expense struct {
	ID           string
	TripID       string
	Title        string
	Amount       decimal.Decimal
	Currency     string
	PaidBy       string
	Policy       SplitPolicy
	IsSettlement bool
	Splits       []ExpenseSplit
	CreatedAt    time.Time
}

// ExpenseSplit is one participant's share of an expense. For settlements the
// payer's split is negative and the recipient's positive, equal magnitude.
type ExpenseSplit struct {
	ExpenseID string
	MemberID  string
	Amount    decimal.Decimal
	Paid      bool
}

// Tolerance is the rounding slack allowed when comparing monetary sums,
// one cent in the trip currency.
var Tolerance = decimal.RequireFromString("0.01")

// WithinTolerance reports whether two amounts differ by at most Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Validate checks the structural ledger invariants of the expense.
func (e *Expense) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if e.IsSettlement {
		return e.validateSettlement()
	}

	if len(e.Splits) == 0 {
		return ErrNoParticipants
	}

	if !WithinTolerance(e.SplitSum(), e.Amount) {
		return ErrSplitMismatch
	}

	return nil
}

func (e *Expense) validateSettlement() error {
	if len(e.Splits) != 2 {
		return ErrInvalidSettlementShape
	}

	if !e.SplitSum().IsZero() {
		return ErrInvalidSettlementShape
	}

	return nil
}

// SplitSum returns the sum of all split amounts.
func (e *Expense) SplitSum() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range e.Splits {
		sum = sum.Add(s.Amount)
	}

	return sum
}

// CustomShare is one caller-supplied share for a custom split.
type CustomShare struct {
	MemberID string
	Amount   decimal.Decimal
}

// ComposeEqualSplits divides amount evenly among participants. Shares are
// rounded to cents and the rounding remainder is assigned to the last
// participant so the splits always sum to amount exactly.
func ComposeEqualSplits(amount decimal.Decimal, payerID string, participants []string) ([]ExpenseSplit, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	n := int64(len(participants))
	share := amount.Div(decimal.NewFromInt(n)).Round(2)

	splits := make([]ExpenseSplit, 0, len(participants))

	allocated := decimal.Zero
	for i, memberID := range participants {
		s := share
		if i == len(participants)-1 {
			s = amount.Sub(allocated)
		}
		allocated = allocated.Add(s)

		splits = append(splits, ExpenseSplit{
			MemberID: memberID,
			Amount:   s,
			Paid:     memberID == payerID,
		})
	}

	return splits, nil
}

// ComposeCustomSplits validates caller-supplied shares against the expense
// amount. Returns ErrSplitMismatch when the shares do not sum to amount
// within Tolerance; nothing is persisted in that case.
func ComposeCustomSplits(amount decimal.Decimal, payerID string, shares []CustomShare) ([]ExpenseSplit, error) {
	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	sum := decimal.Zero
	for _, share := range shares {
		sum = sum.Add(share.Amount)
	}

	if !WithinTolerance(sum, amount) {
		return nil, ErrSplitMismatch
	}

	splits := make([]ExpenseSplit, 0, len(shares))
	for _, share := range shares {
		splits = append(splits, ExpenseSplit{
			MemberID: share.MemberID,
			Amount:   share.Amount,
			Paid:     share.MemberID == payerID,
		})
	}

	return splits, nil
}

// ComposeSettlementSplits builds the zero-sum split pair for a settlement
// payment from one member to another.
func ComposeSettlementSplits(amount decimal.Decimal, fromID, toID string) ([]ExpenseSplit, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	if fromID == toID {
		return nil, ErrSelfSettlement
	}

	return []ExpenseSplit{
		{MemberID: fromID, Amount: amount.Neg(), Paid: true},
		{MemberID: toID, Amount: amount, Paid: false},
	}, nil
}

package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/domain"
)

// ReportUseCase builds the breakdown view: chronological history with
// per-member running balances and trip-wide aggregates. Pure derive.
type ReportUseCase struct {
	tripRepo    TripRepository
	expenseRepo ExpenseRepository
	authorizer  Authorizer
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(tripRepo TripRepository, expenseRepo ExpenseRepository, authorizer Authorizer) *ReportUseCase {
	return &ReportUseCase{
		tripRepo:    tripRepo,
		expenseRepo: expenseRepo,
		authorizer:  authorizer,
	}
}

// BreakdownEntry is one expense with the balances that held after it.
type BreakdownEntry struct {
	Expense         *domain.Expense
	RunningBalances []domain.Balance
}

// TripBreakdown is the full reporting view for a trip.
type TripBreakdown struct {
	TripID          string
	Currency        string
	Entries         []BreakdownEntry
	TotalSpent      decimal.Decimal
	TotalSettled    decimal.Decimal
	ExpenseCount    int
	SettlementCount int
}

// TripBreakdown replays the ledger chronologically, recomputing cumulative
// balances after each entry from the prefix of the ledger.
func (uc *ReportUseCase) TripBreakdown(ctx context.Context, tripID, actorID string) (*TripBreakdown, error) {
	if err := uc.authorizer.CanView(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	trip, err := uc.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	breakdown := &TripBreakdown{
		TripID:       tripID,
		Currency:     trip.Currency,
		Entries:      make([]BreakdownEntry, 0, len(expenses)),
		TotalSpent:   decimal.Zero,
		TotalSettled: decimal.Zero,
	}

	for i, e := range expenses {
		if e.IsSettlement {
			breakdown.SettlementCount++
			breakdown.TotalSettled = breakdown.TotalSettled.Add(e.Amount)
		} else {
			breakdown.ExpenseCount++
			breakdown.TotalSpent = breakdown.TotalSpent.Add(e.Amount)
		}

		breakdown.Entries = append(breakdown.Entries, BreakdownEntry{
			Expense:         e,
			RunningBalances: domain.AccumulateBalances(expenses[:i+1]),
		})
	}

	return breakdown, nil
}

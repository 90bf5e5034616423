package usecase

import (
	"context"

	"github.com/voyago/tripledger/internal/domain"
)

// BalanceUseCase derives balances and settlement plans from the ledger.
// It never caches results; every call recomputes from committed state.
type BalanceUseCase struct {
	tripRepo    TripRepository
	expenseRepo ExpenseRepository
	authorizer  Authorizer
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(tripRepo TripRepository, expenseRepo ExpenseRepository, authorizer Authorizer) *BalanceUseCase {
	return &BalanceUseCase{
		tripRepo:    tripRepo,
		expenseRepo: expenseRepo,
		authorizer:  authorizer,
	}
}

// ComputeBalances returns one balance per member with ledger activity on
// the trip. Read-only; a pure function of store state.
func (uc *BalanceUseCase) ComputeBalances(ctx context.Context, tripID, actorID string) ([]domain.Balance, error) {
	if err := uc.authorizer.CanView(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	if _, err := uc.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return domain.AccumulateBalances(expenses), nil
}

// ListDebts returns the greedy settlement plan for the trip's current
// balances.
func (uc *BalanceUseCase) ListDebts(ctx context.Context, tripID, actorID string) ([]domain.Debt, error) {
	balances, err := uc.ComputeBalances(ctx, tripID, actorID)
	if err != nil {
		return nil, err
	}

	return domain.ResolveDebts(balances), nil
}

package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when a trip's ledger violates
	// conservation of money.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: paid totals do not equal owed totals")
)

// LedgerUseCase handles ledger-wide consistency checks.
type LedgerUseCase struct {
	tripRepo   TripRepository
	ledgerRepo LedgerRepository
	authorizer Authorizer
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(tripRepo TripRepository, ledgerRepo LedgerRepository, authorizer Authorizer) *LedgerUseCase {
	return &LedgerUseCase{
		tripRepo:   tripRepo,
		ledgerRepo: ledgerRepo,
		authorizer: authorizer,
	}
}

// CheckConsistency verifies the conservation invariant at the database
// level: over non-settlement expenses the sum paid equals the sum of all
// shares, and every settlement's splits net to zero.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, tripID, actorID string) (bool, error) {
	if err := uc.authorizer.CanView(ctx, tripID, actorID); err != nil {
		return false, err
	}

	if _, err := uc.tripRepo.GetByID(ctx, tripID); err != nil {
		return false, err
	}

	paidStr, owedStr, err := uc.ledgerRepo.TripSums(ctx, tripID)
	if err != nil {
		return false, err
	}

	totalPaid, err := decimal.NewFromString(paidStr)
	if err != nil {
		return false, err
	}

	totalOwed, err := decimal.NewFromString(owedStr)
	if err != nil {
		return false, err
	}

	if !domain.WithinTolerance(totalPaid, totalOwed) {
		return false, ErrInconsistentLedger
	}

	unbalanced, err := uc.ledgerRepo.SettlementImbalance(ctx, tripID)
	if err != nil {
		return false, err
	}

	if unbalanced != 0 {
		return false, ErrInconsistentLedger
	}

	return true, nil
}

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/usecase"
	"github.com/voyago/tripledger/internal/usecase/mocks"
)

func newBalanceFixture(t *testing.T) (*usecase.BalanceUseCase, *settlementFixture) {
	t.Helper()

	f := newSettlementFixture(t)
	uc := usecase.NewBalanceUseCase(f.tripRepo, f.expenseRepo, mocks.NewMockAuthorizer())
	return uc, f
}

func TestBalanceUseCase_ComputeBalances(t *testing.T) {
	uc, _ := newBalanceFixture(t)

	balances, err := uc.ComputeBalances(context.Background(), "trip-1", "carol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(balances))
	}

	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Balance)
	}
	if !sum.IsZero() {
		t.Errorf("balances must sum to zero, got %s", sum)
	}
}

func TestBalanceUseCase_ComputeBalances_Idempotent(t *testing.T) {
	uc, _ := newBalanceFixture(t)

	first, err := uc.ComputeBalances(context.Background(), "trip-1", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := uc.ComputeBalances(context.Background(), "trip-1", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("repeated derivation changed cardinality: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].MemberID != second[i].MemberID || !first[i].Balance.Equal(second[i].Balance) {
			t.Errorf("repeated derivation changed balance %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestBalanceUseCase_ComputeBalances_UnknownTrip(t *testing.T) {
	uc, _ := newBalanceFixture(t)

	if _, err := uc.ComputeBalances(context.Background(), "trip-404", "alice"); !errors.Is(err, domain.ErrTripNotFound) {
		t.Errorf("expected ErrTripNotFound, got %v", err)
	}
}

func TestBalanceUseCase_ListDebts_ReflectsSettlements(t *testing.T) {
	uc, f := newBalanceFixture(t)

	debts, err := uc.ListDebts(context.Background(), "trip-1", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(debts) != 2 {
		t.Fatalf("expected 2 debts before settling, got %d", len(debts))
	}

	if _, err := f.settle("bob", "alice", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	debts, err = uc.ListDebts(context.Background(), "trip-1", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(debts) != 1 {
		t.Fatalf("expected 1 debt after bob settled, got %d", len(debts))
	}
	if debts[0].FromMemberID != "carol" {
		t.Errorf("expected carol to remain in debt, got %s", debts[0].FromMemberID)
	}
}

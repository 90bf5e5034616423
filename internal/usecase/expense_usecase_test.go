package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/usecase"
	"github.com/voyago/tripledger/internal/usecase/mocks"
)

type expenseFixture struct {
	uc          *usecase.ExpenseUseCase
	txManager   *mocks.MockTransactionManager
	tripRepo    *mocks.MockTripRepository
	memberRepo  *mocks.MockMemberRepository
	expenseRepo *mocks.MockExpenseRepository
	outboxRepo  *mocks.MockOutboxRepository
	auditRepo   *mocks.MockAuditRepository
	authorizer  *mocks.MockAuthorizer
	retrier     *mocks.MockRetrier
}

func newExpenseFixture() *expenseFixture {
	f := &expenseFixture{
		txManager:   mocks.NewMockTransactionManager(),
		tripRepo:    mocks.NewMockTripRepository(),
		memberRepo:  mocks.NewMockMemberRepository(),
		expenseRepo: mocks.NewMockExpenseRepository(),
		outboxRepo:  mocks.NewMockOutboxRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
		authorizer:  mocks.NewMockAuthorizer(),
		retrier:     mocks.NewMockRetrier(),
	}

	f.tripRepo.Add(&domain.Trip{ID: "trip-1", Name: "Lisbon", Currency: "USD"})
	f.memberRepo.Add(&domain.Member{ID: "alice", TripID: "trip-1", Role: domain.RoleOwner})
	f.memberRepo.Add(&domain.Member{ID: "bob", TripID: "trip-1", Role: domain.RoleEditor})
	f.memberRepo.Add(&domain.Member{ID: "carol", TripID: "trip-1", Role: domain.RoleViewer})

	f.uc = usecase.NewExpenseUseCase(
		f.txManager, f.tripRepo, f.memberRepo, f.expenseRepo,
		f.outboxRepo, f.auditRepo, f.authorizer, mocks.NewMockIDGenerator(), f.retrier,
	)

	return f
}

func TestExpenseUseCase_CreateExpense_EqualSplit(t *testing.T) {
	f := newExpenseFixture()

	expense, err := f.uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
		TripID:       "trip-1",
		ActorID:      "alice",
		Title:        "Groceries",
		Amount:       decimal.NewFromInt(300),
		PaidBy:       "alice",
		Policy:       domain.SplitEqual,
		Participants: []string{"alice", "bob", "carol"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(expense.Splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(expense.Splits))
	}
	if expense.Currency != "USD" {
		t.Errorf("expected trip currency USD, got %s", expense.Currency)
	}

	if len(f.txManager.Transactions) != 1 || !f.txManager.Transactions[0].Committed {
		t.Error("expected a single committed transaction")
	}

	if len(f.outboxRepo.Events) != 1 || f.outboxRepo.Events[0].EventType != domain.EventTypeExpenseCreated {
		t.Fatalf("expected one expense.created event, got %+v", f.outboxRepo.Events)
	}

	if len(f.auditRepo.Logs) != 1 {
		t.Errorf("expected one audit record, got %d", len(f.auditRepo.Logs))
	}
}

func TestExpenseUseCase_CreateExpense_CustomMismatchWritesNothing(t *testing.T) {
	f := newExpenseFixture()

	_, err := f.uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
		TripID:  "trip-1",
		ActorID: "alice",
		Title:   "Taxi",
		Amount:  decimal.NewFromInt(100),
		PaidBy:  "alice",
		Policy:  domain.SplitCustom,
		CustomShares: []domain.CustomShare{
			{MemberID: "alice", Amount: decimal.NewFromInt(50)},
			{MemberID: "bob", Amount: decimal.NewFromInt(40)},
		},
	})
	if !errors.Is(err, domain.ErrSplitMismatch) {
		t.Fatalf("expected ErrSplitMismatch, got %v", err)
	}

	if len(f.txManager.Transactions) != 0 {
		t.Error("validation failure must not open a transaction")
	}

	expenses, _ := f.expenseRepo.ListByTrip(context.Background(), "trip-1")
	if len(expenses) != 0 {
		t.Errorf("expected no persisted expenses, got %d", len(expenses))
	}
}

func TestExpenseUseCase_CreateExpense_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateExpenseInput
		wantErr error
	}{
		{
			name: "currency mismatch",
			input: usecase.CreateExpenseInput{
				TripID: "trip-1", ActorID: "alice", Title: "Hotel",
				Amount: decimal.NewFromInt(100), Currency: "EUR", PaidBy: "alice",
				Policy: domain.SplitEqual, Participants: []string{"alice"},
			},
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name: "unknown currency code",
			input: usecase.CreateExpenseInput{
				TripID: "trip-1", ActorID: "alice", Title: "Hotel",
				Amount: decimal.NewFromInt(100), Currency: "XYZ", PaidBy: "alice",
				Policy: domain.SplitEqual, Participants: []string{"alice"},
			},
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name: "payer not on trip",
			input: usecase.CreateExpenseInput{
				TripID: "trip-1", ActorID: "alice", Title: "Hotel",
				Amount: decimal.NewFromInt(100), PaidBy: "mallory",
				Policy: domain.SplitEqual, Participants: []string{"alice"},
			},
			wantErr: domain.ErrMemberNotFound,
		},
		{
			name: "unknown trip",
			input: usecase.CreateExpenseInput{
				TripID: "trip-404", ActorID: "alice", Title: "Hotel",
				Amount: decimal.NewFromInt(100), PaidBy: "alice",
				Policy: domain.SplitEqual, Participants: []string{"alice"},
			},
			wantErr: domain.ErrTripNotFound,
		},
		{
			name: "empty title",
			input: usecase.CreateExpenseInput{
				TripID: "trip-1", ActorID: "alice", Title: "  ",
				Amount: decimal.NewFromInt(100), PaidBy: "alice",
				Policy: domain.SplitEqual, Participants: []string{"alice"},
			},
			wantErr: domain.ErrInvalidTitle,
		},
		{
			name: "no participants",
			input: usecase.CreateExpenseInput{
				TripID: "trip-1", ActorID: "alice", Title: "Hotel",
				Amount: decimal.NewFromInt(100), PaidBy: "alice",
				Policy: domain.SplitEqual,
			},
			wantErr: domain.ErrNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExpenseFixture()

			_, err := f.uc.CreateExpense(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpenseUseCase_CreateExpense_NormalizesCurrency(t *testing.T) {
	f := newExpenseFixture()

	expense, err := f.uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
		TripID: "trip-1", ActorID: "alice", Title: "Hotel",
		Amount: decimal.NewFromInt(100), Currency: " usd ", PaidBy: "alice",
		Policy: domain.SplitEqual, Participants: []string{"alice"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if expense.Currency != "USD" {
		t.Errorf("expected currency normalized to USD, got %s", expense.Currency)
	}
}

func TestExpenseUseCase_CreateExpense_PermissionDenied(t *testing.T) {
	f := newExpenseFixture()
	f.authorizer.CanEditFunc = func(ctx context.Context, tripID, memberID string) error {
		return domain.ErrPermissionDenied
	}

	_, err := f.uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
		TripID: "trip-1", ActorID: "carol", Title: "Hotel",
		Amount: decimal.NewFromInt(100), PaidBy: "alice",
		Policy: domain.SplitEqual, Participants: []string{"alice"},
	})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestExpenseUseCase_DeleteExpense(t *testing.T) {
	f := newExpenseFixture()

	created, err := f.uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
		TripID: "trip-1", ActorID: "alice", Title: "Groceries",
		Amount: decimal.NewFromInt(60), PaidBy: "alice",
		Policy: domain.SplitEqual, Participants: []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.uc.DeleteExpense(context.Background(), "trip-1", created.ID, "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.GetExpense(context.Background(), "trip-1", created.ID, "alice"); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound after delete, got %v", err)
	}

	last := f.outboxRepo.Events[len(f.outboxRepo.Events)-1]
	if last.EventType != domain.EventTypeExpenseDeleted {
		t.Errorf("expected expense.deleted event, got %s", last.EventType)
	}
}

func TestExpenseUseCase_ReplaceSplits(t *testing.T) {
	f := newExpenseFixture()

	created, err := f.uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
		TripID: "trip-1", ActorID: "alice", Title: "Dinner",
		Amount: decimal.NewFromInt(100), PaidBy: "alice",
		Policy: domain.SplitEqual, Participants: []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := f.uc.ReplaceSplits(context.Background(), usecase.ReplaceSplitsInput{
		TripID:    "trip-1",
		ExpenseID: created.ID,
		ActorID:   "alice",
		Policy:    domain.SplitCustom,
		CustomShares: []domain.CustomShare{
			{MemberID: "alice", Amount: decimal.NewFromInt(75)},
			{MemberID: "bob", Amount: decimal.NewFromInt(25)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Policy != domain.SplitCustom {
		t.Errorf("expected policy custom, got %s", updated.Policy)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("amount must not change on split edit, got %s", updated.Amount)
	}
	if !updated.Splits[0].Amount.Equal(decimal.NewFromInt(75)) {
		t.Errorf("expected first split 75, got %s", updated.Splits[0].Amount)
	}

	last := f.outboxRepo.Events[len(f.outboxRepo.Events)-1]
	if last.EventType != domain.EventTypeSplitsReplaced {
		t.Errorf("expected expense.splits_replaced event, got %s", last.EventType)
	}
}

func TestExpenseUseCase_ReplaceSplits_SettlementImmutable(t *testing.T) {
	f := newExpenseFixture()

	splits, _ := domain.ComposeSettlementSplits(decimal.NewFromInt(40), "bob", "alice")
	settlement := &domain.Expense{
		ID: "s1", TripID: "trip-1", Title: "Settlement payment",
		Amount: decimal.NewFromInt(40), Currency: "USD", PaidBy: "bob",
		Policy: domain.SplitCustom, IsSettlement: true, Splits: splits,
		CreatedAt: time.Now(),
	}
	if err := f.expenseRepo.Create(context.Background(), &mocks.MockTransaction{}, settlement); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.uc.ReplaceSplits(context.Background(), usecase.ReplaceSplitsInput{
		TripID:    "trip-1",
		ExpenseID: "s1",
		ActorID:   "alice",
		Policy:    domain.SplitEqual,
	})
	if !errors.Is(err, domain.ErrSettlementImmutable) {
		t.Fatalf("expected ErrSettlementImmutable, got %v", err)
	}
}

func TestExpenseUseCase_GetExpense_WrongTrip(t *testing.T) {
	f := newExpenseFixture()
	f.tripRepo.Add(&domain.Trip{ID: "trip-2", Name: "Porto", Currency: "USD"})

	created, err := f.uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
		TripID: "trip-1", ActorID: "alice", Title: "Groceries",
		Amount: decimal.NewFromInt(30), PaidBy: "alice",
		Policy: domain.SplitEqual, Participants: []string{"alice"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.GetExpense(context.Background(), "trip-2", created.ID, "alice"); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound for wrong trip, got %v", err)
	}
}

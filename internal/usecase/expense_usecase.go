package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/domain"
)

// ExpenseUseCase handles expense creation, split composition and the
// corrective replace-and-recreate flow for split edits.
type ExpenseUseCase struct {
	txManager   TransactionManager
	tripRepo    TripRepository
	memberRepo  MemberRepository
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	authorizer  Authorizer
	idGen       IDGenerator
	retrier     TxRetrier
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	tripRepo TripRepository,
	memberRepo MemberRepository,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	authorizer Authorizer,
	idGen IDGenerator,
	retrier TxRetrier,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		tripRepo:    tripRepo,
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		authorizer:  authorizer,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// CreateExpenseInput represents input for creating an expense.
type CreateExpenseInput struct {
	TripID       string
	ActorID      string
	Title        string
	Amount       decimal.Decimal
	Currency     string
	PaidBy       string
	Policy       domain.SplitPolicy
	Participants []string
	CustomShares []domain.CustomShare
}

// CreateExpense composes splits per the requested policy and writes the
// expense and all of its splits in a single transaction. Validation
// failures return before any write; the ledger is never left with a
// partially written expense.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	if err := uc.authorizer.CanEdit(ctx, input.TripID, input.ActorID); err != nil {
		return nil, err
	}

	trip, err := uc.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateTitle(input.Title); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = trip.Currency
	}

	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	if currency != trip.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	// The payer must be on the trip; they need not be a participant.
	if _, err := uc.memberRepo.GetByID(ctx, input.TripID, input.PaidBy); err != nil {
		return nil, err
	}

	splits, err := uc.composeSplits(input)
	if err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:        uc.idGen.Generate(),
		TripID:    input.TripID,
		Title:     input.Title,
		Amount:    input.Amount,
		Currency:  currency,
		PaidBy:    input.PaidBy,
		Policy:    input.Policy,
		Splits:    splits,
		CreatedAt: time.Now().UTC(),
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	err = retryTx(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.expenseRepo.Create(ctx, tx, expense); err != nil {
			return err
		}

		if err := uc.outboxRepo.Create(ctx, tx, uc.expenseCreatedEvent(expense)); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, input.ActorID, domain.AuditActionExpenseCreate, expense.TripID, expense.ID, nil, expense)

	return expense, nil
}

func (uc *ExpenseUseCase) composeSplits(input CreateExpenseInput) ([]domain.ExpenseSplit, error) {
	switch input.Policy {
	case domain.SplitEqual:
		return domain.ComposeEqualSplits(input.Amount, input.PaidBy, input.Participants)
	case domain.SplitCustom:
		return domain.ComposeCustomSplits(input.Amount, input.PaidBy, input.CustomShares)
	default:
		return nil, domain.ErrNoParticipants
	}
}

// GetExpense retrieves an expense with its splits.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, tripID, expenseID, actorID string) (*domain.Expense, error) {
	if err := uc.authorizer.CanView(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	expense, err := uc.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if expense.TripID != tripID {
		return nil, domain.ErrExpenseNotFound
	}

	return expense, nil
}

// ListExpenses lists a trip's expenses chronologically, splits included.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error) {
	if err := uc.authorizer.CanView(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	return uc.expenseRepo.ListByTrip(ctx, tripID)
}

// DeleteExpense removes an expense and, by cascade, all of its splits.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, tripID, expenseID, actorID string) error {
	if err := uc.authorizer.CanEdit(ctx, tripID, actorID); err != nil {
		return err
	}

	expense, err := uc.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return err
	}

	if expense.TripID != tripID {
		return domain.ErrExpenseNotFound
	}

	err = retryTx(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.expenseRepo.Delete(ctx, tx, expenseID); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   expense.ID,
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseDeleted,
			Payload: domain.MarshalState(domain.ExpenseDeletedEvent{
				ExpenseID: expense.ID,
				TripID:    expense.TripID,
			}),
			CreatedAt: time.Now().UTC(),
		}

		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	uc.audit(ctx, actorID, domain.AuditActionExpenseDelete, tripID, expenseID, expense, nil)

	return nil
}

// ReplaceSplitsInput represents input for a corrective split edit.
type ReplaceSplitsInput struct {
	TripID       string
	ExpenseID    string
	ActorID      string
	Policy       domain.SplitPolicy
	Participants []string
	CustomShares []domain.CustomShare
}

// ReplaceSplits swaps an expense's splits for a newly composed set in one
// transaction. The expense amount is unchanged; settlements are immutable.
func (uc *ExpenseUseCase) ReplaceSplits(ctx context.Context, input ReplaceSplitsInput) (*domain.Expense, error) {
	if err := uc.authorizer.CanEdit(ctx, input.TripID, input.ActorID); err != nil {
		return nil, err
	}

	expense, err := uc.expenseRepo.GetByID(ctx, input.ExpenseID)
	if err != nil {
		return nil, err
	}

	if expense.TripID != input.TripID {
		return nil, domain.ErrExpenseNotFound
	}

	if expense.IsSettlement {
		return nil, domain.ErrSettlementImmutable
	}

	before := *expense

	splits, err := uc.composeSplits(CreateExpenseInput{
		Amount:       expense.Amount,
		PaidBy:       expense.PaidBy,
		Policy:       input.Policy,
		Participants: input.Participants,
		CustomShares: input.CustomShares,
	})
	if err != nil {
		return nil, err
	}

	expense.Policy = input.Policy
	expense.Splits = splits

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	err = retryTx(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.expenseRepo.ReplaceSplits(ctx, tx, expense.ID, splits); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   expense.ID,
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeSplitsReplaced,
			Payload: domain.MarshalState(domain.ExpenseCreatedEvent{
				ExpenseID:  expense.ID,
				TripID:     expense.TripID,
				PaidBy:     expense.PaidBy,
				Amount:     expense.Amount.String(),
				Currency:   expense.Currency,
				Policy:     string(expense.Policy),
				SplitCount: len(expense.Splits),
			}),
			CreatedAt: time.Now().UTC(),
		}

		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, input.ActorID, domain.AuditActionSplitsReplace, expense.TripID, expense.ID, before, expense)

	return expense, nil
}

func (uc *ExpenseUseCase) expenseCreatedEvent(expense *domain.Expense) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   expense.ID,
		AggregateType: domain.AggregateTypeExpense,
		EventType:     domain.EventTypeExpenseCreated,
		Payload: domain.MarshalState(domain.ExpenseCreatedEvent{
			ExpenseID:  expense.ID,
			TripID:     expense.TripID,
			PaidBy:     expense.PaidBy,
			Amount:     expense.Amount.String(),
			Currency:   expense.Currency,
			Policy:     string(expense.Policy),
			SplitCount: len(expense.Splits),
		}),
		CreatedAt: time.Now().UTC(),
	}
}

// audit records the mutation best effort; an audit failure never fails the
// ledger operation.
func (uc *ExpenseUseCase) audit(ctx context.Context, actorID string, action domain.AuditAction, tripID, resourceID string, before, after any) {
	if uc.auditRepo == nil {
		return
	}

	log := &domain.AuditLog{
		ActorID:      actorID,
		TripID:       tripID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeExpense,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.auditRepo.Create(ctx, log); err != nil {
		slog.Warn("failed to write audit log", "action", action, "resource_id", resourceID, "error", err)
	}
}

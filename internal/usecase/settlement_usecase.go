package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/domain"
)

// SettlementUseCase records full or partial debt payments as additive
// zero-sum ledger entries. Contributing expenses are never mutated; the
// remaining debt falls out of the next balance recomputation.
type SettlementUseCase struct {
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

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	tripRepo TripRepository,
	memberRepo MemberRepository,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	authorizer Authorizer,
	idGen IDGenerator,
	retrier TxRetrier,
) *SettlementUseCase {
	return &SettlementUseCase{
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

// RecordSettlementInput represents input for recording a settlement.
type RecordSettlementInput struct {
	TripID       string
	ActorID      string
	FromMemberID string
	ToMemberID   string
	Amount       decimal.Decimal
	Note         string
}

// RecordSettlement validates the payment against the outstanding debt and
// writes the settlement expense with its two zero-sum splits atomically.
//
// Validation and write share one transaction holding the trip row lock, so
// two concurrent settlements against the same debt cannot jointly overpay
// it: the second sees the first's entry and is rejected.
func (uc *SettlementUseCase) RecordSettlement(ctx context.Context, input RecordSettlementInput) (*domain.Expense, error) {
	if err := uc.authorizer.CanEdit(ctx, input.TripID, input.ActorID); err != nil {
		return nil, err
	}

	trip, err := uc.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.FromMemberID == input.ToMemberID {
		return nil, domain.ErrSelfSettlement
	}

	if _, err := uc.memberRepo.GetByID(ctx, input.TripID, input.FromMemberID); err != nil {
		return nil, err
	}

	// The lock, the debt check and the write run as one unit so a retry
	// after a transient conflict revalidates against fresh state.
	var settlement *domain.Expense
	err = retryTx(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.tripRepo.Lock(ctx, tx, input.TripID); err != nil {
			return err
		}

		expenses, err := uc.expenseRepo.ListByTripTx(ctx, tx, input.TripID)
		if err != nil {
			return err
		}

		balances := domain.AccumulateBalances(expenses)
		debts := domain.ResolveDebts(balances)

		outstanding := domain.OutstandingDebt(debts, input.FromMemberID, input.ToMemberID)
		if outstanding.IsZero() || input.Amount.GreaterThan(outstanding.Add(domain.Tolerance)) {
			return domain.ErrInvalidSettlementAmount
		}

		splits, err := domain.ComposeSettlementSplits(input.Amount, input.FromMemberID, input.ToMemberID)
		if err != nil {
			return err
		}

		title := input.Note
		if title == "" {
			title = "Settlement payment"
		}

		settlement = &domain.Expense{
			ID:           uc.idGen.Generate(),
			TripID:       input.TripID,
			Title:        title,
			Amount:       input.Amount,
			Currency:     trip.Currency,
			PaidBy:       input.FromMemberID,
			Policy:       domain.SplitCustom,
			IsSettlement: true,
			Splits:       splits,
			CreatedAt:    time.Now().UTC(),
		}

		if err := settlement.Validate(); err != nil {
			return err
		}

		if err := uc.expenseRepo.Create(ctx, tx, settlement); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   settlement.ID,
			AggregateType: domain.AggregateTypeSettlement,
			EventType:     domain.EventTypeSettlementCreated,
			Payload: domain.MarshalState(domain.SettlementRecordedEvent{
				SettlementID: settlement.ID,
				TripID:       settlement.TripID,
				FromMemberID: input.FromMemberID,
				ToMemberID:   input.ToMemberID,
				Amount:       input.Amount.String(),
				Currency:     settlement.Currency,
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

	uc.audit(ctx, input.ActorID, settlement)

	return settlement, nil
}

// ListSettlements lists the settlement entries recorded on a trip.
func (uc *SettlementUseCase) ListSettlements(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error) {
	if err := uc.authorizer.CanView(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	settlements := make([]*domain.Expense, 0)
	for _, e := range expenses {
		if e.IsSettlement {
			settlements = append(settlements, e)
		}
	}

	return settlements, nil
}

func (uc *SettlementUseCase) audit(ctx context.Context, actorID string, settlement *domain.Expense) {
	if uc.auditRepo == nil {
		return
	}

	log := &domain.AuditLog{
		ActorID:      actorID,
		TripID:       settlement.TripID,
		Action:       string(domain.AuditActionSettlementRecord),
		ResourceType: domain.AggregateTypeSettlement,
		ResourceID:   settlement.ID,
		AfterState:   domain.MarshalState(settlement),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.auditRepo.Create(ctx, log); err != nil {
		slog.Warn("failed to write audit log", "action", log.Action, "resource_id", settlement.ID, "error", err)
	}
}

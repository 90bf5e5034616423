package usecase

import (
	"context"
	"time"

	"github.com/voyago/tripledger/internal/domain"
)

// TripRepository defines data access for trips.
type TripRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	// Lock acquires a row lock on the trip for the duration of tx,
	// serializing settlement validation against concurrent writers.
	Lock(ctx context.Context, tx Transaction, id string) error
}

// MemberRepository defines data access for trip members.
type MemberRepository interface {
	GetByID(ctx context.Context, tripID, memberID string) (*domain.Member, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Member, error)
}

// ExpenseRepository defines data access for expenses and their splits.
// Splits are only ever written and deleted together with their parent.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error)
	ListByTripTx(ctx context.Context, tx Transaction, tripID string) ([]*domain.Expense, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	ReplaceSplits(ctx context.Context, tx Transaction, expenseID string, splits []domain.ExpenseSplit) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	ListByTrip(ctx context.Context, tripID string, limit, offset int) ([]*domain.AuditLog, error)
}

// LedgerRepository defines data access for ledger-wide consistency checks.
type LedgerRepository interface {
	// TripSums returns the database-level totals for a trip: the sum of
	// non-settlement expense amounts and the sum of their split amounts.
	TripSums(ctx context.Context, tripID string) (totalPaid, totalOwed string, err error)
	// SettlementImbalance returns the number of settlement expenses whose
	// splits do not sum to zero.
	SettlementImbalance(ctx context.Context, tripID string) (int, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// TxRetrier re-runs a transactional operation after transient store
// conflicts (deadlocks, serialization failures). Domain errors are never
// retried; the implementation decides which failures are transient.
type TxRetrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// retryTx runs op through retrier when one is configured.
func retryTx(ctx context.Context, retrier TxRetrier, op func() error) error {
	if retrier == nil {
		return op()
	}
	return retrier.Retry(ctx, op)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Authorizer answers permission checks delegated to the trip membership
// subsystem. The ledger refuses mutations without edit rights and reads
// without view rights.
type Authorizer interface {
	CanEdit(ctx context.Context, tripID, memberID string) error
	CanView(ctx context.Context, tripID, memberID string) error
}

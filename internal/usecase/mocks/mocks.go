package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/usecase"
)

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	GetByIDFunc func(ctx context.Context, id string) (*domain.Trip, error)
	LockFunc    func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

func (m *MockTripRepository) Add(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if trip, ok := m.trips[id]; ok {
		return trip, nil
	}
	return nil, domain.ErrTripNotFound
}

func (m *MockTripRepository) Lock(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.LockFunc != nil {
		return m.LockFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.trips[id]; !ok {
		return domain.ErrTripNotFound
	}
	return nil
}

// MockMemberRepository is a mock implementation of MemberRepository.
type MockMemberRepository struct {
	mu      sync.RWMutex
	members map[string][]*domain.Member // keyed by trip ID

	GetByIDFunc    func(ctx context.Context, tripID, memberID string) (*domain.Member, error)
	ListByTripFunc func(ctx context.Context, tripID string) ([]*domain.Member, error)
}

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		members: make(map[string][]*domain.Member),
	}
}

func (m *MockMemberRepository) Add(member *domain.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.TripID] = append(m.members[member.TripID], member)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, tripID, memberID string) (*domain.Member, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tripID, memberID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, member := range m.members[tripID] {
		if member.ID == memberID {
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Member, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.members[tripID], nil
}

// MockExpenseRepository is a mock implementation of ExpenseRepository
// backed by an in-memory map. Write methods honour the transaction
// contract loosely: they apply immediately.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Expense, error)
	ListByTripFunc    func(ctx context.Context, tripID string) ([]*domain.Expense, error)
	DeleteFunc        func(ctx context.Context, tx usecase.Transaction, id string) error
	ReplaceSplitsFunc func(ctx context.Context, tx usecase.Transaction, expenseID string, splits []domain.ExpenseSplit) error
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		expenses: make(map[string]*domain.Expense),
	}
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var expenses []*domain.Expense
	for _, e := range m.expenses {
		if e.TripID == tripID {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].CreatedAt.Equal(expenses[j].CreatedAt) {
			return expenses[i].ID < expenses[j].ID
		}
		return expenses[i].CreatedAt.Before(expenses[j].CreatedAt)
	})
	return expenses, nil
}

func (m *MockExpenseRepository) ListByTripTx(ctx context.Context, tx usecase.Transaction, tripID string) ([]*domain.Expense, error) {
	return m.ListByTrip(ctx, tripID)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *MockExpenseRepository) ReplaceSplits(ctx context.Context, tx usecase.Transaction, expenseID string, splits []domain.ExpenseSplit) error {
	if m.ReplaceSplitsFunc != nil {
		return m.ReplaceSplitsFunc(ctx, tx, expenseID, splits)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[expenseID]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	e.Splits = splits
	return nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var unpublished []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			unpublished = append(unpublished, e)
		}
		if len(unpublished) == limit {
			break
		}
	}
	return unpublished, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Events[:0]
	for _, e := range m.Events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	Logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) ListByTrip(ctx context.Context, tripID string, limit, offset int) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.Logs {
		if l.TripID == tripID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	TripSumsFunc            func(ctx context.Context, tripID string) (string, string, error)
	SettlementImbalanceFunc func(ctx context.Context, tripID string) (int, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) TripSums(ctx context.Context, tripID string) (string, string, error) {
	if m.TripSumsFunc != nil {
		return m.TripSumsFunc(ctx, tripID)
	}
	return "0", "0", nil
}

func (m *MockLedgerRepository) SettlementImbalance(ctx context.Context, tripID string) (int, error) {
	if m.SettlementImbalanceFunc != nil {
		return m.SettlementImbalanceFunc(ctx, tripID)
	}
	return 0, nil
}

// MockTransaction is a mock transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + string(rune('a'+m.counter-1))
}

// MockAuthorizer is a mock implementation of Authorizer that allows
// everything unless overridden.
type MockAuthorizer struct {
	CanEditFunc func(ctx context.Context, tripID, memberID string) error
	CanViewFunc func(ctx context.Context, tripID, memberID string) error
}

func NewMockAuthorizer() *MockAuthorizer {
	return &MockAuthorizer{}
}

func (m *MockAuthorizer) CanEdit(ctx context.Context, tripID, memberID string) error {
	if m.CanEditFunc != nil {
		return m.CanEditFunc(ctx, tripID, memberID)
	}
	return nil
}

func (m *MockAuthorizer) CanView(ctx context.Context, tripID, memberID string) error {
	if m.CanViewFunc != nil {
		return m.CanViewFunc(ctx, tripID, memberID)
	}
	return nil
}

// MockRetrier is a mock implementation of TxRetrier. By default it runs
// the operation exactly once; RetryFunc overrides the policy.
type MockRetrier struct {
	mu    sync.Mutex
	Calls int

	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

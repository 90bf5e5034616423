package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/adapter/http/dto"
	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/usecase"
)

type expenseServiceStub struct {
	createFn        func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error)
	getFn           func(ctx context.Context, tripID, expenseID, actorID string) (*domain.Expense, error)
	listFn          func(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error)
	deleteFn        func(ctx context.Context, tripID, expenseID, actorID string) error
	replaceSplitsFn func(ctx context.Context, input usecase.ReplaceSplitsInput) (*domain.Expense, error)
}

func (s *expenseServiceStub) CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
	return s.createFn(ctx, input)
}

func (s *expenseServiceStub) GetExpense(ctx context.Context, tripID, expenseID, actorID string) (*domain.Expense, error) {
	return s.getFn(ctx, tripID, expenseID, actorID)
}

func (s *expenseServiceStub) ListExpenses(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error) {
	return s.listFn(ctx, tripID, actorID)
}

func (s *expenseServiceStub) DeleteExpense(ctx context.Context, tripID, expenseID, actorID string) error {
	return s.deleteFn(ctx, tripID, expenseID, actorID)
}

func (s *expenseServiceStub) ReplaceSplits(ctx context.Context, input usecase.ReplaceSplitsInput) (*domain.Expense, error) {
	return s.replaceSplitsFn(ctx, input)
}

func sampleExpense() *domain.Expense {
	return &domain.Expense{
		ID:       "exp-1",
		TripID:   "trip-1",
		Title:    "Groceries",
		Amount:   decimal.NewFromInt(300),
		Currency: "USD",
		PaidBy:   "alice",
		Policy:   domain.SplitEqual,
		Splits: []domain.ExpenseSplit{
			{ExpenseID: "exp-1", MemberID: "alice", Amount: decimal.NewFromInt(100), Paid: true},
			{ExpenseID: "exp-1", MemberID: "bob", Amount: decimal.NewFromInt(100)},
			{ExpenseID: "exp-1", MemberID: "carol", Amount: decimal.NewFromInt(100)},
		},
	}
}

func TestExpenseHandler_Create(t *testing.T) {
	stub := &expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			if input.TripID != "trip-1" {
				t.Errorf("expected trip-1, got %s", input.TripID)
			}
			if input.ActorID != "alice" {
				t.Errorf("expected actor alice, got %s", input.ActorID)
			}
			if len(input.Participants) != 3 {
				t.Errorf("expected 3 participants, got %d", len(input.Participants))
			}
			return sampleExpense(), nil
		},
	}
	h := NewExpenseHandler(stub, testMetrics)

	body, _ := json.Marshal(dto.CreateExpenseRequest{
		Title:        "Groceries",
		Amount:       decimal.NewFromInt(300),
		PaidBy:       "alice",
		Policy:       "equal",
		Participants: []string{"alice", "bob", "carol"},
	})

	req := newTestRequest(http.MethodPost, "/api/v1/trips/trip-1/expenses", "alice",
		bytes.NewReader(body), map[string]string{"tripID": "trip-1"})
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ExpenseResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "exp-1" || len(resp.Splits) != 3 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestExpenseHandler_Create_InvalidBody(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{}, testMetrics)

	req := newTestRequest(http.MethodPost, "/api/v1/trips/trip-1/expenses", "alice",
		bytes.NewReader([]byte("{not json")), map[string]string{"tripID": "trip-1"})
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestExpenseHandler_Create_MissingActor(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{}, testMetrics)

	req := newTestRequest(http.MethodPost, "/api/v1/trips/trip-1/expenses", "",
		bytes.NewReader([]byte("{}")), map[string]string{"tripID": "trip-1"})
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestExpenseHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "split mismatch", err: domain.ErrSplitMismatch, want: http.StatusBadRequest},
		{name: "viewer forbidden", err: domain.ErrPermissionDenied, want: http.StatusForbidden},
		{name: "unknown trip", err: domain.ErrTripNotFound, want: http.StatusNotFound},
		{name: "store down", err: domain.ErrStoreUnavailable, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &expenseServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
					return nil, tt.err
				},
			}
			h := NewExpenseHandler(stub, testMetrics)

			req := newTestRequest(http.MethodPost, "/api/v1/trips/trip-1/expenses", "alice",
				bytes.NewReader([]byte("{}")), map[string]string{"tripID": "trip-1"})
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}

			var resp dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("expected error message in response")
			}
		})
	}
}

func TestExpenseHandler_Get(t *testing.T) {
	stub := &expenseServiceStub{
		getFn: func(ctx context.Context, tripID, expenseID, actorID string) (*domain.Expense, error) {
			if expenseID != "exp-1" {
				t.Errorf("expected exp-1, got %s", expenseID)
			}
			return sampleExpense(), nil
		},
	}
	h := NewExpenseHandler(stub, testMetrics)

	req := newTestRequest(http.MethodGet, "/api/v1/trips/trip-1/expenses/exp-1", "bob",
		nil, map[string]string{"tripID": "trip-1", "expenseID": "exp-1"})
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestExpenseHandler_Get_NotFound(t *testing.T) {
	stub := &expenseServiceStub{
		getFn: func(ctx context.Context, tripID, expenseID, actorID string) (*domain.Expense, error) {
			return nil, domain.ErrExpenseNotFound
		},
	}
	h := NewExpenseHandler(stub, testMetrics)

	req := newTestRequest(http.MethodGet, "/api/v1/trips/trip-1/expenses/exp-404", "bob",
		nil, map[string]string{"tripID": "trip-1", "expenseID": "exp-404"})
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestExpenseHandler_List(t *testing.T) {
	stub := &expenseServiceStub{
		listFn: func(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error) {
			return []*domain.Expense{sampleExpense()}, nil
		},
	}
	h := NewExpenseHandler(stub, testMetrics)

	req := newTestRequest(http.MethodGet, "/api/v1/trips/trip-1/expenses", "carol",
		nil, map[string]string{"tripID": "trip-1"})
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListExpensesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Expenses) != 1 {
		t.Errorf("expected 1 expense, got total=%d len=%d", resp.Total, len(resp.Expenses))
	}
}

func TestExpenseHandler_Delete(t *testing.T) {
	stub := &expenseServiceStub{
		deleteFn: func(ctx context.Context, tripID, expenseID, actorID string) error {
			return nil
		},
	}
	h := NewExpenseHandler(stub, testMetrics)

	req := newTestRequest(http.MethodDelete, "/api/v1/trips/trip-1/expenses/exp-1", "alice",
		nil, map[string]string{"tripID": "trip-1", "expenseID": "exp-1"})
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestExpenseHandler_ReplaceSplits(t *testing.T) {
	stub := &expenseServiceStub{
		replaceSplitsFn: func(ctx context.Context, input usecase.ReplaceSplitsInput) (*domain.Expense, error) {
			if input.Policy != domain.SplitCustom {
				t.Errorf("expected custom policy, got %s", input.Policy)
			}
			return sampleExpense(), nil
		},
	}
	h := NewExpenseHandler(stub, testMetrics)

	body, _ := json.Marshal(dto.ReplaceSplitsRequest{
		Policy: "custom",
		CustomShares: []dto.CustomShareItem{
			{MemberID: "alice", Amount: decimal.NewFromInt(200)},
			{MemberID: "bob", Amount: decimal.NewFromInt(100)},
		},
	})

	req := newTestRequest(http.MethodPut, "/api/v1/trips/trip-1/expenses/exp-1/splits", "alice",
		bytes.NewReader(body), map[string]string{"tripID": "trip-1", "expenseID": "exp-1"})
	rec := httptest.NewRecorder()

	h.ReplaceSplits(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestExpenseHandler_ReplaceSplits_SettlementImmutable(t *testing.T) {
	stub := &expenseServiceStub{
		replaceSplitsFn: func(ctx context.Context, input usecase.ReplaceSplitsInput) (*domain.Expense, error) {
			return nil, domain.ErrSettlementImmutable
		},
	}
	h := NewExpenseHandler(stub, testMetrics)

	req := newTestRequest(http.MethodPut, "/api/v1/trips/trip-1/expenses/exp-1/splits", "alice",
		bytes.NewReader([]byte("{}")), map[string]string{"tripID": "trip-1", "expenseID": "exp-1"})
	rec := httptest.NewRecorder()

	h.ReplaceSplits(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

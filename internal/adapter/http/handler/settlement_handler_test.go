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

type settlementServiceStub struct {
	recordFn func(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Expense, error)
	listFn   func(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error)
}

func (s *settlementServiceStub) RecordSettlement(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Expense, error) {
	return s.recordFn(ctx, input)
}

func (s *settlementServiceStub) ListSettlements(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error) {
	return s.listFn(ctx, tripID, actorID)
}

func sampleSettlement() *domain.Expense {
	return &domain.Expense{
		ID:           "set-1",
		TripID:       "trip-1",
		Title:        "Settlement payment",
		Amount:       decimal.NewFromInt(40),
		Currency:     "USD",
		PaidBy:       "bob",
		Policy:       domain.SplitCustom,
		IsSettlement: true,
		Splits: []domain.ExpenseSplit{
			{ExpenseID: "set-1", MemberID: "bob", Amount: decimal.NewFromInt(-40), Paid: true},
			{ExpenseID: "set-1", MemberID: "alice", Amount: decimal.NewFromInt(40)},
		},
	}
}

func TestSettlementHandler_Record(t *testing.T) {
	stub := &settlementServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Expense, error) {
			if input.FromMemberID != "bob" || input.ToMemberID != "alice" {
				t.Errorf("unexpected parties: %s -> %s", input.FromMemberID, input.ToMemberID)
			}
			if !input.Amount.Equal(decimal.NewFromInt(40)) {
				t.Errorf("expected amount 40, got %s", input.Amount)
			}
			return sampleSettlement(), nil
		},
	}
	h := NewSettlementHandler(stub, testMetrics)

	body, _ := json.Marshal(dto.RecordSettlementRequest{
		FromMemberID: "bob",
		ToMemberID:   "alice",
		Amount:       decimal.NewFromInt(40),
	})

	req := newTestRequest(http.MethodPost, "/api/v1/trips/trip-1/settlements", "bob",
		bytes.NewReader(body), map[string]string{"tripID": "trip-1"})
	rec := httptest.NewRecorder()

	h.Record(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SettlementResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.FromMemberID != "bob" || resp.ToMemberID != "alice" {
		t.Errorf("parties not recovered from splits: %+v", resp)
	}
}

func TestSettlementHandler_Record_InvalidBody(t *testing.T) {
	h := NewSettlementHandler(&settlementServiceStub{}, testMetrics)

	req := newTestRequest(http.MethodPost, "/api/v1/trips/trip-1/settlements", "bob",
		bytes.NewReader([]byte("not json")), map[string]string{"tripID": "trip-1"})
	rec := httptest.NewRecorder()

	h.Record(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSettlementHandler_Record_Rejections(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "exceeds outstanding debt", err: domain.ErrInvalidSettlementAmount, want: http.StatusUnprocessableEntity},
		{name: "self settlement", err: domain.ErrSelfSettlement, want: http.StatusBadRequest},
		{name: "non-member", err: domain.ErrMemberNotFound, want: http.StatusNotFound},
		{name: "viewer forbidden", err: domain.ErrPermissionDenied, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &settlementServiceStub{
				recordFn: func(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Expense, error) {
					return nil, tt.err
				},
			}
			h := NewSettlementHandler(stub, testMetrics)

			req := newTestRequest(http.MethodPost, "/api/v1/trips/trip-1/settlements", "bob",
				bytes.NewReader([]byte("{}")), map[string]string{"tripID": "trip-1"})
			rec := httptest.NewRecorder()

			h.Record(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestSettlementHandler_List(t *testing.T) {
	stub := &settlementServiceStub{
		listFn: func(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error) {
			return []*domain.Expense{sampleSettlement()}, nil
		},
	}
	h := NewSettlementHandler(stub, testMetrics)

	req := newTestRequest(http.MethodGet, "/api/v1/trips/trip-1/settlements", "carol",
		nil, map[string]string{"tripID": "trip-1"})
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.SettlementResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "set-1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/tripledger/internal/adapter/http/dto"
	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/infrastructure/metrics"
	"github.com/voyago/tripledger/internal/usecase"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	RecordSettlement(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Expense, error)
	ListSettlements(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error)
}

// SettlementHandler handles settlement-related HTTP requests.
type SettlementHandler struct {
	settlementUC SettlementService
	metrics      *metrics.Metrics
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService, m *metrics.Metrics) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC, metrics: m}
}

// Record records a payment between two trip members.
func (h *SettlementHandler) Record(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req dto.RecordSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	settlement, err := h.settlementUC.RecordSettlement(r.Context(), req.ToUseCaseInput(tripID, actor))
	if err != nil {
		h.metrics.SettlementRejected.WithLabelValues(rejectionReason(err)).Inc()
		writeError(w, mapDomainError(err), "failed to record settlement", err.Error())
		return
	}

	h.metrics.SettlementsRecorded.Inc()
	h.metrics.SettlementAmount.Observe(settlement.Amount.InexactFloat64())

	writeJSON(w, http.StatusCreated, dto.SettlementFromDomain(settlement))
}

// List lists the trip's recorded settlements.
func (h *SettlementHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	settlements, err := h.settlementUC.ListSettlements(r.Context(), tripID, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list settlements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementsFromDomain(settlements))
}

// rejectionReason buckets settlement failures for metric labels.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSettlementAmount):
		return "exceeds_debt"
	case errors.Is(err, domain.ErrSelfSettlement):
		return "self_settlement"
	case errors.Is(err, domain.ErrPermissionDenied):
		return "permission"
	case errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrTripNotFound):
		return "not_found"
	default:
		return "other"
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/tripledger/internal/adapter/http/dto"
	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/infrastructure/metrics"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	ComputeBalances(ctx context.Context, tripID, actorID string) ([]domain.Balance, error)
	ListDebts(ctx context.Context, tripID, actorID string) ([]domain.Debt, error)
}

// BalanceHandler serves derived balances and settlement suggestions.
type BalanceHandler struct {
	balanceUC BalanceService
	metrics   *metrics.Metrics
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService, m *metrics.Metrics) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC, metrics: m}
}

// Balances returns every member's current position, recomputed from the
// committed ledger.
func (h *BalanceHandler) Balances(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	balances, err := h.balanceUC.ComputeBalances(r.Context(), tripID, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balances", err.Error())
		return
	}

	h.metrics.BalanceComputations.Inc()

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// Debts returns the suggested repayment plan for the trip.
func (h *BalanceHandler) Debts(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	debts, err := h.balanceUC.ListDebts(r.Context(), tripID, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve debts", err.Error())
		return
	}

	h.metrics.DebtPlanSize.Observe(float64(len(debts)))

	writeJSON(w, http.StatusOK, dto.DebtsFromDomain(debts))
}

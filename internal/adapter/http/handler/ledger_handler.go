package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/tripledger/internal/adapter/http/dto"
	"github.com/voyago/tripledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context, tripID, actorID string) (bool, error)
}

// LedgerHandler serves ledger-wide consistency checks.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Consistency verifies the trip's stored splits against its expense
// amounts. An inconsistent ledger is a data defect, not a client error, so
// the check itself still answers 200.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	consistent, err := h.ledgerUC.CheckConsistency(r.Context(), tripID, actor)
	if err != nil && !errors.Is(err, usecase.ErrInconsistentLedger) {
		writeError(w, mapDomainError(err), "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{
		TripID:     tripID,
		Consistent: consistent,
	})
}

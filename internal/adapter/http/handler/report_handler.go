package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/tripledger/internal/adapter/http/dto"
	"github.com/voyago/tripledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	TripBreakdown(ctx context.Context, tripID, actorID string) (*usecase.TripBreakdown, error)
}

// ReportHandler serves the chronological trip breakdown.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Breakdown returns every ledger entry with the cumulative balances after
// each one.
func (h *ReportHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	breakdown, err := h.reportUC.TripBreakdown(r.Context(), tripID, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build breakdown", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BreakdownFromUseCase(breakdown))
}

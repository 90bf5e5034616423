package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/tripledger/internal/adapter/http/dto"
	"github.com/voyago/tripledger/internal/domain"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	ListByTrip(ctx context.Context, tripID, actorID string, limit, offset int) ([]*domain.AuditLog, error)
}

// AuditHandler serves the trip's audit trail.
type AuditHandler struct {
	auditUC AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC AuditService) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// List lists audit records for a trip, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	logs, err := h.auditUC.ListByTrip(r.Context(), tripID, actor, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list audit log", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}

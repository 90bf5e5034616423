package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/tripledger/internal/adapter/http/dto"
	"github.com/voyago/tripledger/internal/domain"
)

// MemberService defines the behavior needed by MemberHandler.
type MemberService interface {
	ListMembers(ctx context.Context, tripID, actorID string) ([]*domain.Member, error)
}

// MemberHandler handles member-related HTTP requests.
type MemberHandler struct {
	memberUC MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberUC MemberService) *MemberHandler {
	return &MemberHandler{memberUC: memberUC}
}

// List lists the trip's members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	members, err := h.memberUC.ListMembers(r.Context(), tripID, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list members", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MembersFromDomain(members))
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/voyago/tripledger/internal/adapter/http/middleware"
	"github.com/voyago/tripledger/internal/infrastructure/auth"
)

// AuthHandler handles token endpoints. Real credentials live in the
// identity service; this handler only mints tokens for local development
// and is not mounted when auth is enabled in production profiles.
type AuthHandler struct {
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{jwtManager: jwtManager}
}

// TokenRequest represents a development token request.
type TokenRequest struct {
	MemberID string `json:"member_id"`
	Email    string `json:"email"`
}

// TokenResponse represents a token response.
type TokenResponse struct {
	Token string `json:"token"`
}

// Token mints a development token for the given member.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required", "")
		return
	}

	token, err := h.jwtManager.Generate(req.MemberID, req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Whoami returns the acting member resolved from the request.
func (h *AuthHandler) Whoami(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"member_id": actor})
}

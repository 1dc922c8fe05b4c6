package handler

import (
	"encoding/json"
	"net/http"

	"fibersense/internal/auth"
	"fibersense/internal/logger"
	"fibersense/internal/models"

	"github.com/gorilla/mux"
)

type SessionHandler struct {
	auth *auth.Manager
	log  *logger.Logger
}

func NewSessionHandler(authMgr *auth.Manager, log *logger.Logger) *SessionHandler {
	return &SessionHandler{auth: authMgr, log: log}
}

func (h *SessionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/session/token", h.IssueToken).Methods("POST")
}

// IssueToken exchanges the presenter passphrase for a demo-control token.
func (h *SessionHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if !h.auth.Enabled() {
		respondError(w, http.StatusBadRequest, "Presenter auth is not configured")
		return
	}

	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, expiresAt, err := h.auth.IssueToken(req.Passphrase)
	if err != nil {
		h.log.Warn("Presenter token request rejected")
		respondError(w, http.StatusUnauthorized, "Invalid passphrase")
		return
	}

	respondJSON(w, http.StatusOK, models.TokenResponse{Token: token, ExpiresAt: expiresAt})
}

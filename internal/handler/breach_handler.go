package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fibersense/internal/engine"
	"fibersense/internal/logger"
	"fibersense/internal/models"

	"github.com/gorilla/mux"
)

type BreachHandler struct {
	engine *engine.Engine
	log    *logger.Logger
}

func NewBreachHandler(eng *engine.Engine, log *logger.Logger) *BreachHandler {
	return &BreachHandler{engine: eng, log: log}
}

func (h *BreachHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/breaches", h.Induce).Methods("POST")
	r.HandleFunc("/breaches", h.ClearAll).Methods("DELETE")
}

func (h *BreachHandler) Induce(w http.ResponseWriter, r *http.Request) {
	var req models.InduceBreachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	breach, err := h.engine.InduceBreach(req)
	if err != nil {
		if errors.Is(err, engine.ErrValidation) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("Failed to induce breach: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, breach)
}

func (h *BreachHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearBreaches()
	respondJSON(w, http.StatusOK, map[string]string{"status": "all breaches cleared"})
}

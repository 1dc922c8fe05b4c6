package handler

import (
	"net/http"
	"strconv"

	"fibersense/internal/engine"
	"fibersense/internal/logger"

	"github.com/gorilla/mux"
)

type AlertHandler struct {
	engine *engine.Engine
	log    *logger.Logger
}

func NewAlertHandler(eng *engine.Engine, log *logger.Logger) *AlertHandler {
	return &AlertHandler{engine: eng, log: log}
}

func (h *AlertHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/alerts", h.GetAlerts).Methods("GET")
	r.HandleFunc("/alerts/acknowledge/{id}", h.Acknowledge).Methods("PUT")
}

func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Alerts())
}

func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid alert ID")
		return
	}

	if err := h.engine.AcknowledgeAlert(id); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "alert acknowledged"})
}

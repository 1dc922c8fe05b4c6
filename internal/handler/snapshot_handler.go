package handler

import (
	"net/http"

	"fibersense/internal/engine"
	"fibersense/internal/logger"

	"github.com/gorilla/mux"
)

type SnapshotHandler struct {
	engine *engine.Engine
	log    *logger.Logger
}

func NewSnapshotHandler(eng *engine.Engine, log *logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{engine: eng, log: log}
}

func (h *SnapshotHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/snapshot", h.GetSnapshot).Methods("GET")
}

// GetSnapshot returns the full per-tick view. Polling faster than the tick
// cadence yields no new data.
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

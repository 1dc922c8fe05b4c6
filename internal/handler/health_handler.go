package handler

import (
	"net/http"
	"time"

	"fibersense/internal/engine"
	"fibersense/internal/logger"
	"fibersense/internal/models"
	"fibersense/internal/mqtt"

	"github.com/gorilla/mux"
)

type HealthHandler struct {
	engine    *engine.Engine
	publisher *mqtt.Publisher // nil when the bridge is disabled
	log       *logger.Logger
}

func NewHealthHandler(eng *engine.Engine, publisher *mqtt.Publisher, log *logger.Logger) *HealthHandler {
	return &HealthHandler{engine: eng, publisher: publisher, log: log}
}

func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/health/live", h.Liveness).Methods("GET")
	r.HandleFunc("/health/ready", h.Readiness).Methods("GET")
}

// engineTicking reports whether the simulation has produced a tick recently.
func (h *HealthHandler) engineTicking() bool {
	last := h.engine.LastTick()
	return !last.IsZero() && time.Since(last) < 3*h.engine.TickInterval()
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	}

	response.Services.Engine = h.engineTicking()
	// MQTT is optional; report healthy when the bridge is not configured.
	response.Services.MQTT = h.publisher == nil || h.publisher.IsConnected()

	statusCode := http.StatusOK
	if !response.Services.Engine || !response.Services.MQTT {
		response.Status = "degraded"
		statusCode = http.StatusServiceUnavailable
		h.log.Warn("Health check degraded - engine: %v, MQTT: %v",
			response.Services.Engine, response.Services.MQTT)
	}

	respondJSON(w, statusCode, response)
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if !h.engineTicking() {
		respondError(w, http.StatusServiceUnavailable, "Engine not ticking")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

package handler

import (
	"fmt"
	"net/http"

	"fibersense/internal/engine"
	"fibersense/internal/logger"
	"fibersense/internal/report"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	engine *engine.Engine
	log    *logger.Logger
}

func NewReportHandler(eng *engine.Engine, log *logger.Logger) *ReportHandler {
	return &ReportHandler{engine: eng, log: log}
}

func (h *ReportHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/report", h.Download).Methods("GET")
}

// Download renders the site survey PDF for the current snapshot.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()

	pdf, err := report.Build(snap)
	if err != nil {
		h.log.Error("Failed to build survey report: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="fibersense-survey-%s.pdf"`, snap.Timestamp.Format("20060102-150405")))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

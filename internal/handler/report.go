package handler

import (
	"net/http"

	"github.com/rmoretto/taskboard/internal/service"
)

// ReportHandler serves performance report requests.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// HandleCompletedPerDay returns the average number of tasks completed per
// day over the last 30 days, for the authenticated manager.
func (h *ReportHandler) HandleCompletedPerDay(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	average, err := h.reports.CompletedPerDay(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"completedPerDay": average})
}

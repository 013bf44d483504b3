package handlers

import (
	"encoding/json"
	"net/http"

	"trainloop/core/monitoring"
	"trainloop/core/pipeline"
)

// DashboardHandler serves the aggregate view over all pipelines
type DashboardHandler struct {
	poller *monitoring.Poller
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(poller *monitoring.Poller) *DashboardHandler {
	return &DashboardHandler{poller: poller}
}

// GetSummary handles GET /v1/dashboard
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	jobs := h.poller.Snapshot()
	summary := pipeline.Aggregate(jobs)

	response := map[string]interface{}{
		"count":            summary.Count,
		"average_progress": summary.AverageProgress,
		"by_status":        summary.ByStatus,
	}
	if summary.Count == 0 {
		response["message"] = "No active training pipelines"
	}
	if err := h.poller.LastError(); err != nil {
		response["refresh_error"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

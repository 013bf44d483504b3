package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"trainloop/core/models"
	"trainloop/core/monitoring"
	"trainloop/core/pipeline"
	"trainloop/core/repository"
	"trainloop/core/spec"
	"trainloop/core/trainer"

	"github.com/gorilla/mux"
)

// PipelineHandler handles pipeline-related HTTP requests
type PipelineHandler struct {
	trainer   *trainer.Client
	poller    *monitoring.Poller
	jobRepo   *repository.JobRepository
	eventRepo *repository.EventRepository
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(
	trainerClient *trainer.Client,
	poller *monitoring.Poller,
	jobRepo *repository.JobRepository,
	eventRepo *repository.EventRepository,
) *PipelineHandler {
	return &PipelineHandler{
		trainer:   trainerClient,
		poller:    poller,
		jobRepo:   jobRepo,
		eventRepo: eventRepo,
	}
}

// SubmitPipelineRequest represents the request to start a pipeline. Either a
// YAML spec document or the individual fields may be supplied.
type SubmitPipelineRequest struct {
	SpecYAML string                `json:"spec_yaml,omitempty"`
	Name     string                `json:"name,omitempty"`
	Intent   string                `json:"intent,omitempty"`
	UseCase  models.UseCase        `json:"use_case,omitempty"`
	Targets  *models.TargetMetrics `json:"targets,omitempty"`
}

// SubmitPipeline handles POST /v1/pipelines
func (h *PipelineHandler) SubmitPipeline(w http.ResponseWriter, r *http.Request) {
	var req SubmitPipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var draft *models.Job
	if req.SpecYAML != "" {
		parsed, err := spec.ParsePipelineSpec(req.SpecYAML)
		if err != nil {
			http.Error(w, "Invalid pipeline spec: "+err.Error(), http.StatusBadRequest)
			return
		}
		draft = parsed
	} else {
		if req.Name == "" || req.Intent == "" {
			http.Error(w, "name and intent are required", http.StatusBadRequest)
			return
		}
		if !req.UseCase.Valid() {
			http.Error(w, "unsupported use case: "+string(req.UseCase), http.StatusBadRequest)
			return
		}
		draft = &models.Job{
			Name:          req.Name,
			UserIntent:    req.Intent,
			UseCase:       req.UseCase,
			TargetMetrics: req.Targets,
		}
	}

	job, err := h.trainer.SubmitJob(r.Context(), trainer.SubmitRequest{
		Name:          draft.Name,
		UserIntent:    draft.UserIntent,
		UseCase:       draft.UseCase,
		TargetMetrics: draft.TargetMetrics,
	})
	if err != nil {
		http.Error(w, "Failed to submit pipeline: "+err.Error(), http.StatusBadGateway)
		return
	}

	if err := h.jobRepo.UpsertJob(r.Context(), *job); err != nil {
		http.Error(w, "Failed to record pipeline: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Wake the poller so the new pipeline starts showing progress.
	go h.poller.Refresh(context.Background())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(pipelineView(*job, time.Now()))
}

// ListPipelines handles GET /v1/pipelines
func (h *PipelineHandler) ListPipelines(w http.ResponseWriter, r *http.Request) {
	jobs := h.poller.Snapshot()
	now := time.Now()

	items := make([]map[string]interface{}, len(jobs))
	for i, job := range jobs {
		items[i] = pipelineView(job, now)
	}

	response := map[string]interface{}{
		"items": items,
		"count": len(jobs),
	}
	if err := h.poller.LastError(); err != nil {
		response["refresh_error"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetPipeline handles GET /v1/pipelines/{id}
func (h *PipelineHandler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pipelineID := vars["id"]

	var found *models.Job
	for _, job := range h.poller.Snapshot() {
		if job.ID == pipelineID {
			j := job
			found = &j
			break
		}
	}
	if found == nil {
		// Not in the live snapshot; fall back to stored history.
		stored, err := h.jobRepo.GetJob(r.Context(), pipelineID)
		if err != nil {
			http.Error(w, "Pipeline not found", http.StatusNotFound)
			return
		}
		found = stored
	}

	view := pipelineView(*found, time.Now())
	if events, err := h.eventRepo.GetJobEvents(r.Context(), pipelineID, 100); err == nil {
		view["events"] = events
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// DeployPipeline handles POST /v1/pipelines/{id}/deploy
func (h *PipelineHandler) DeployPipeline(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pipelineID := vars["id"]

	info, err := h.trainer.DeployJob(r.Context(), pipelineID)
	if err != nil {
		http.Error(w, "Failed to deploy pipeline: "+err.Error(), http.StatusBadGateway)
		return
	}

	go h.poller.Refresh(context.Background())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// RefreshPipelines handles POST /v1/pipelines/refresh, the manual refresh
// that bypasses the timer
func (h *PipelineHandler) RefreshPipelines(w http.ResponseWriter, r *http.Request) {
	ran := h.poller.Refresh(r.Context())

	response := map[string]interface{}{
		"refreshed": ran,
		"count":     len(h.poller.Snapshot()),
	}
	if err := h.poller.LastError(); err != nil {
		response["refresh_error"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// pipelineView builds the render-facing representation of one pipeline:
// classified stages, display stage and "time ago" labels.
func pipelineView(job models.Job, now time.Time) map[string]interface{} {
	started := job.CreatedAt
	if job.StartedAt != nil {
		started = *job.StartedAt
	}

	return map[string]interface{}{
		"id":             job.ID,
		"name":           job.Name,
		"user_intent":    job.UserIntent,
		"use_case":       job.UseCase,
		"status":         job.Status,
		"progress":       job.Progress,
		"current_stage":  pipeline.DisplayStage(job),
		"stages":         pipeline.ClassifyStages(job),
		"target_metrics": job.TargetMetrics,
		"created":        pipeline.FormatRelativeTime(job.CreatedAt, now),
		"started":        pipeline.FormatRelativeTime(started, now),
		"created_at":     job.CreatedAt,
	}
}

package models

import "time"

// Job represents a training pipeline reported by the external training service.
// Status, CurrentStage and Progress are owned by that service; this side only
// reads them and derives display state.
type Job struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	UserIntent    string         `json:"user_intent"`
	UseCase       UseCase        `json:"use_case"`
	Status        JobStatus      `json:"status"`
	CurrentStage  string         `json:"current_stage,omitempty"`
	Progress      float64        `json:"progress"`
	TargetMetrics *TargetMetrics `json:"target_metrics,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	StartedAt     *time.Time     `json:"started_at,omitempty"`
}

// JobStatus represents the current status of a pipeline
type JobStatus string

const (
	JobStatusCreated   JobStatus = "created"
	JobStatusTraining  JobStatus = "training"
	JobStatusCompleted JobStatus = "completed"
	JobStatusDeployed  JobStatus = "deployed"
	JobStatusFailed    JobStatus = "failed"
)

// IsActive reports whether the pipeline still needs polling
func (s JobStatus) IsActive() bool {
	return s == JobStatusCreated || s == JobStatusTraining
}

// UseCase represents the kind of model a pipeline trains
type UseCase string

const (
	UseCaseTextGeneration  UseCase = "text-generation"
	UseCaseSpeechToText    UseCase = "speech-to-text"
	UseCaseImageGeneration UseCase = "image-generation"
	UseCaseClassification  UseCase = "classification"
	UseCaseRecommendation  UseCase = "recommendation"
	UseCaseForecasting     UseCase = "forecasting"
)

// UseCases lists every supported use case
func UseCases() []UseCase {
	return []UseCase{
		UseCaseTextGeneration,
		UseCaseSpeechToText,
		UseCaseImageGeneration,
		UseCaseClassification,
		UseCaseRecommendation,
		UseCaseForecasting,
	}
}

// Valid reports whether the use case is one of the supported set
func (u UseCase) Valid() bool {
	for _, known := range UseCases() {
		if u == known {
			return true
		}
	}
	return false
}

// TargetMetrics carries optional user-supplied training hints. Display-only.
type TargetMetrics struct {
	CostTier       string  `json:"cost_tier,omitempty" yaml:"cost_tier"`
	TargetAccuracy float64 `json:"target_accuracy,omitempty" yaml:"accuracy"`
	TargetLatency  int     `json:"target_latency_ms,omitempty" yaml:"latency_ms"`
}

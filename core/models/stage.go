package models

// Stage is one fixed phase of the training lifecycle. Static configuration,
// identical for every pipeline regardless of use case; never persisted.
type Stage struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	EstimatedTime string `json:"estimated_time"`
}

// StageStatus classifies a stage relative to a pipeline's current stage
type StageStatus string

const (
	StageCompleted StageStatus = "completed"
	StageCurrent   StageStatus = "current"
	StageUpcoming  StageStatus = "upcoming"
)

// StageView pairs a stage with its classification for one pipeline
type StageView struct {
	Stage  Stage       `json:"stage"`
	Status StageStatus `json:"status"`
}

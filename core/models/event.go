package models

import "time"

// JobEvent represents a status transition observed for a pipeline
type JobEvent struct {
	ID         int64      `json:"id"`
	JobID      string     `json:"job_id"`
	At         time.Time  `json:"at"`
	FromStatus *JobStatus `json:"from_status,omitempty"`
	ToStatus   JobStatus  `json:"to_status"`
	Reason     string     `json:"reason"`
}

// DeploymentInfo records where a completed pipeline's model was deployed
type DeploymentInfo struct {
	JobID      string    `json:"job_id"`
	ModelID    string    `json:"model_id"`
	Endpoint   string    `json:"endpoint"`
	DeployedAt time.Time `json:"deployed_at"`
}

package models

import "time"

// ModelMetadata describes one registered model version
type ModelMetadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Framework   string    `json:"framework"`
	TaskType    string    `json:"task_type"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	Checksum    string    `json:"checksum"`
	SizeBytes   int64     `json:"size_bytes"`
	ArtifactURI string    `json:"artifact_uri"`
	RemoteRepo  string    `json:"remote_repo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ModelFilter narrows a registry listing
type ModelFilter struct {
	Name      string
	Framework string
	TaskType  string
	Limit     int
	Offset    int
}

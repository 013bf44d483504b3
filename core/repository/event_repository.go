package repository

import (
	"context"
	"database/sql"

	"trainloop/core/models"
)

// EventRepository reads recorded pipeline status transitions
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// GetJobEvents retrieves events for a pipeline, newest first
func (r *EventRepository) GetJobEvents(ctx context.Context, jobID string, limit int) ([]models.JobEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job_id, at, from_status, to_status, reason
		FROM job_events
		WHERE job_id = $1
		ORDER BY at DESC
		LIMIT $2
	`, jobID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.JobEvent
	for rows.Next() {
		var event models.JobEvent
		var fromStatus sql.NullString

		err := rows.Scan(
			&event.ID,
			&event.JobID,
			&event.At,
			&fromStatus,
			&event.ToStatus,
			&event.Reason,
		)
		if err != nil {
			return nil, err
		}

		if fromStatus.Valid {
			status := models.JobStatus(fromStatus.String)
			event.FromStatus = &status
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

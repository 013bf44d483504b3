package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"trainloop/core/models"
)

// JobRepository persists trainer-reported pipeline snapshots so history and
// dashboards survive restarts. The trainer remains the source of truth; each
// refresh writes through here.
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// UpsertJob inserts or updates one pipeline snapshot. When the stored status
// differs from the reported one, a transition event is recorded in the same
// transaction.
func (r *JobRepository) UpsertJob(ctx context.Context, job models.Job) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var prevStatus sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = $1`, job.ID).Scan(&prevStatus)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var targetsJSON []byte
	if job.TargetMetrics != nil {
		targetsJSON, err = json.Marshal(job.TargetMetrics)
		if err != nil {
			return fmt.Errorf("encoding target metrics: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO jobs (
			id, name, user_intent, use_case, status, current_stage,
			progress, target_metrics, created_at, started_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			current_stage = EXCLUDED.current_stage,
			progress = EXCLUDED.progress,
			started_at = EXCLUDED.started_at,
			updated_at = NOW()
	`,
		job.ID,
		job.Name,
		job.UserIntent,
		job.UseCase,
		job.Status,
		job.CurrentStage,
		job.Progress,
		nullableJSON(targetsJSON),
		job.CreatedAt,
		job.StartedAt,
	)
	if err != nil {
		return err
	}

	if !prevStatus.Valid {
		if err := insertEventTx(ctx, tx, job.ID, nil, job.Status, "pipeline_observed"); err != nil {
			return err
		}
	} else if prevStatus.String != string(job.Status) {
		from := models.JobStatus(prevStatus.String)
		if err := insertEventTx(ctx, tx, job.ID, &from, job.Status, "trainer_reported_transition"); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetJob retrieves one pipeline by ID
func (r *JobRepository) GetJob(ctx context.Context, id string) (*models.Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, user_intent, use_case, status, current_stage,
			progress, target_metrics, created_at, started_at
		FROM jobs
		WHERE id = $1
	`, id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pipeline %s not found", id)
	}
	return job, err
}

// ListJobs lists stored pipelines, newest first, with an optional status filter
func (r *JobRepository) ListJobs(ctx context.Context, status *models.JobStatus, limit int) ([]models.Job, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, name, user_intent, use_case, status, current_stage,
			progress, target_metrics, created_at, started_at
		FROM jobs
	`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, *status, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var currentStage sql.NullString
	var targetsJSON sql.NullString
	var startedAt sql.NullTime

	err := row.Scan(
		&job.ID,
		&job.Name,
		&job.UserIntent,
		&job.UseCase,
		&job.Status,
		&currentStage,
		&job.Progress,
		&targetsJSON,
		&job.CreatedAt,
		&startedAt,
	)
	if err != nil {
		return nil, err
	}

	if currentStage.Valid {
		job.CurrentStage = currentStage.String
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if targetsJSON.Valid && targetsJSON.String != "" {
		var targets models.TargetMetrics
		if err := json.Unmarshal([]byte(targetsJSON.String), &targets); err == nil {
			job.TargetMetrics = &targets
		}
	}
	return &job, nil
}

func insertEventTx(ctx context.Context, tx *sql.Tx, jobID string, from *models.JobStatus, to models.JobStatus, reason string) error {
	var fromStr *string
	if from != nil {
		s := string(*from)
		fromStr = &s
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO job_events (job_id, from_status, to_status, reason)
		VALUES ($1, $2, $3, $4)
	`, jobID, fromStr, to, reason)
	return err
}

func nullableJSON(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}

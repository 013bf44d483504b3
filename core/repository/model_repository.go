package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trainloop/core/models"
	"trainloop/core/registry"
)

// ModelRepository is the Postgres implementation of the registry metadata port
type ModelRepository struct {
	db *DB
}

// NewModelRepository creates a new model repository
func NewModelRepository(db *DB) *ModelRepository {
	return &ModelRepository{db: db}
}

// List returns models matching the filter, newest first
func (r *ModelRepository) List(ctx context.Context, filter models.ModelFilter) ([]models.ModelMetadata, error) {
	query := `
		SELECT id, name, version, framework, task_type, description, author,
			checksum, size_bytes, artifact_uri, remote_repo, created_at
		FROM model_registry
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIndex)
		args = append(args, "%"+filter.Name+"%")
		argIndex++
	}
	if filter.Framework != "" {
		query += fmt.Sprintf(" AND lower(framework) = lower($%d)", argIndex)
		args = append(args, filter.Framework)
		argIndex++
	}
	if filter.TaskType != "" {
		query += fmt.Sprintf(" AND lower(task_type) = lower($%d)", argIndex)
		args = append(args, filter.TaskType)
		argIndex++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ModelMetadata
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Get returns one model version
func (r *ModelRepository) Get(ctx context.Context, name, version string) (*models.ModelMetadata, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, version, framework, task_type, description, author,
			checksum, size_bytes, artifact_uri, remote_repo, created_at
		FROM model_registry
		WHERE name = $1 AND version = $2
	`, name, version)

	m, err := scanModel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s v%s", registry.ErrNotFound, name, version)
	}
	return m, err
}

// Add registers a model version
func (r *ModelRepository) Add(ctx context.Context, m *models.ModelMetadata) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO model_registry (
			id, name, version, framework, task_type, description, author,
			checksum, size_bytes, artifact_uri, remote_repo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		m.ID,
		m.Name,
		m.Version,
		m.Framework,
		m.TaskType,
		m.Description,
		m.Author,
		m.Checksum,
		m.SizeBytes,
		m.ArtifactURI,
		m.RemoteRepo,
		m.CreatedAt,
	)
	return err
}

// Remove deletes a model version
func (r *ModelRepository) Remove(ctx context.Context, name, version string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM model_registry WHERE name = $1 AND version = $2`, name, version)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s v%s", registry.ErrNotFound, name, version)
	}
	return nil
}

func scanModel(row rowScanner) (*models.ModelMetadata, error) {
	var m models.ModelMetadata
	var description, author, remoteRepo sql.NullString

	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Version,
		&m.Framework,
		&m.TaskType,
		&description,
		&author,
		&m.Checksum,
		&m.SizeBytes,
		&m.ArtifactURI,
		&remoteRepo,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Description = description.String
	m.Author = author.String
	m.RemoteRepo = remoteRepo.String
	return &m, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"ytworkout/errors"
	"ytworkout/models"
)

const (
	insertQuery = `
        INSERT INTO extractions (
            id, video_id, url, status, plan, error, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            status = excluded.status,
            plan = excluded.plan,
            error = excluded.error,
            updated_at = excluded.updated_at
    `

	getQuery = `
        SELECT id, video_id, url, status, plan, error, created_at, updated_at
        FROM extractions WHERE id = ?
    `
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (r *Repository) Save(ctx context.Context, extraction *models.Extraction) error {
	const op = "SQLiteRepository.Save"

	// The plan column stores the exercise array as JSON; the records carry
	// the model's numeric tokens through unchanged.
	var plan []byte
	if extraction.Plan != nil {
		var err error
		plan, err = json.Marshal(extraction.Plan)
		if err != nil {
			return errors.Internal(op, err, "Failed to encode workout plan")
		}
	}

	_, err := r.db.ExecContext(ctx, insertQuery,
		extraction.ID,
		extraction.VideoID,
		extraction.URL,
		string(extraction.Status),
		nullString(string(plan)),
		extraction.Error,
		extraction.CreatedAt,
		extraction.UpdatedAt,
	)
	if err != nil {
		return errors.Internal(op, err, "Failed to save extraction")
	}
	return nil
}

func (r *Repository) Find(ctx context.Context, id string) (*models.Extraction, error) {
	const op = "SQLiteRepository.Find"

	extraction := &models.Extraction{}
	var status string
	var plan sql.NullString

	err := r.db.QueryRowContext(ctx, getQuery, id).Scan(
		&extraction.ID,
		&extraction.VideoID,
		&extraction.URL,
		&status,
		&plan,
		&extraction.Error,
		&extraction.CreatedAt,
		&extraction.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Extraction not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query extraction")
	}

	extraction.Status = models.Status(status)
	if plan.Valid && plan.String != "" {
		if err := json.Unmarshal([]byte(plan.String), &extraction.Plan); err != nil {
			return nil, errors.Internal(op, err, "Failed to decode workout plan")
		}
	}
	return extraction, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

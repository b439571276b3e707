package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"radicado/internal/model"
	"radicado/internal/repository"
)

// SequencePostgres implements repository.SequenceRepository on top of a
// durable counter row per (project, series, direction) key.
type SequencePostgres struct {
	db *sql.DB
}

// NewSequencePostgres creates a new SequencePostgres repository.
func NewSequencePostgres(db *sql.DB) *SequencePostgres {
	return &SequencePostgres{db: db}
}

var _ repository.SequenceRepository = (*SequencePostgres)(nil)

// issueNextSQL increments and reads in a single statement. The upsert takes a
// row-level lock, so concurrent issuances for the same key serialize and can
// never return the same value; different keys proceed in parallel.
const issueNextSQL = `
	INSERT INTO sequence_counters (project_id, series, direction, value)
	VALUES ($1, $2, $3, 1)
	ON CONFLICT (project_id, series, direction)
	DO UPDATE SET value = sequence_counters.value + 1
	RETURNING value`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func issueNext(ctx context.Context, q queryRower, key model.SequenceKey) (int64, error) {
	var value int64
	err := q.QueryRowContext(ctx, issueNextSQL, key.ProjectID, key.Series, key.Direction).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("issue sequence %s/%s/%s: %w", key.ProjectID, key.Series, key.Direction, err)
	}
	return value, nil
}

// IssueNext atomically increments and returns the counter for key. The first
// issuance for an unseen key returns 1.
func (r *SequencePostgres) IssueNext(ctx context.Context, key model.SequenceKey) (int64, error) {
	return issueNext(ctx, r.db, key)
}

// Current returns the last issued value for key, 0 if never issued.
func (r *SequencePostgres) Current(ctx context.Context, key model.SequenceKey) (int64, error) {
	const q = `
		SELECT value FROM sequence_counters
		WHERE project_id = $1 AND series = $2 AND direction = $3`
	var value int64
	err := r.db.QueryRowContext(ctx, q, key.ProjectID, key.Series, key.Direction).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}

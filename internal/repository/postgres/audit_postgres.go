package postgres

import (
	"context"
	"database/sql"

	"radicado/internal/model"
	"radicado/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
// The table is append-only; this type intentionally has no update or delete.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Append inserts a trail entry.
func (r *AuditPostgres) Append(ctx context.Context, entry *model.AuditEntry) error {
	const q = `
		INSERT INTO audit_entries (id, actor_id, action, document_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, q,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.DocumentID,
		entry.Detail,
		entry.CreatedAt,
	)
	return err
}

// ListByDocument returns the trail for one document, oldest first.
func (r *AuditPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.AuditEntry, error) {
	const q = `
		SELECT id, actor_id, action, document_id, detail, created_at
		FROM audit_entries
		WHERE document_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.DocumentID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"radicado/internal/model"
	"radicado/internal/repository"
)

// RadicationPostgres implements repository.Radicator. The whole unit — read
// the document under a row lock, issue the sequence value, run the caller's
// function, write the radication fields — executes in one transaction, so a
// concurrent attempt on the same document blocks on the lock and then fails
// its recheck, and an abort at any point leaves no partial state behind.
type RadicationPostgres struct {
	db *sql.DB
}

// NewRadicationPostgres creates a new RadicationPostgres unit.
func NewRadicationPostgres(db *sql.DB) *RadicationPostgres {
	return &RadicationPostgres{db: db}
}

var _ repository.Radicator = (*RadicationPostgres)(nil)

// Radicate executes fn inside the locking transaction and commits the
// radication fields it returns.
func (r *RadicationPostgres) Radicate(ctx context.Context, documentID string, key model.SequenceKey, fn repository.RadicateFunc) (*model.Document, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin radication tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qLock = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 FOR UPDATE`
	doc, err := scanDocument(tx.QueryRowContext(ctx, qLock, documentID))
	if err != nil {
		return nil, err
	}

	seq, err := issueNext(ctx, tx, key)
	if err != nil {
		return nil, err
	}

	upd, err := fn(doc, seq)
	if err != nil {
		return nil, err
	}

	const qUpdate = `
		UPDATE documents
		SET status = $2, case_code = $3, sequence_number = $4,
			content_ref = $5, content_type = $6, editable_ref = $7, updated_at = $8
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, qUpdate,
		documentID,
		model.StatusRadicated,
		upd.CaseCode,
		upd.SequenceNumber,
		upd.ContentRef,
		upd.ContentType,
		upd.EditableRef,
		upd.RadicatedAt,
	); err != nil {
		return nil, fmt.Errorf("write radication: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit radication: %w", err)
	}

	out := *doc
	out.Status = model.StatusRadicated
	out.CaseCode = upd.CaseCode
	out.SequenceNumber = upd.SequenceNumber
	out.ContentRef = upd.ContentRef
	out.ContentType = upd.ContentType
	out.EditableRef = upd.EditableRef
	out.UpdatedAt = upd.RadicatedAt
	return &out, nil
}

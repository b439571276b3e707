package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"radicado/internal/model"
	"radicado/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, project_id, project_prefix, title, series, direction, status,
	case_code, sequence_number, content_ref, content_type, editable_ref,
	assigned_signer_id, metadata, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d        model.Document
		caseCode sql.NullString
		seq      sql.NullInt64
		meta     []byte
	)
	if err := row.Scan(
		&d.ID,
		&d.ProjectID,
		&d.ProjectPrefix,
		&d.Title,
		&d.Series,
		&d.Direction,
		&d.Status,
		&caseCode,
		&seq,
		&d.ContentRef,
		&d.ContentType,
		&d.EditableRef,
		&d.AssignedSignerID,
		&meta,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.CaseCode = caseCode.String
	d.SequenceNumber = seq.Int64
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &d.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	if d.Metadata == nil {
		d.Metadata = map[string]any{}
	}
	return &d, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return json.Marshal(metadata)
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, project_id, project_prefix, title, series, direction, status,
			content_ref, content_type, assigned_signer_id, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING ` + documentColumns
	meta, err := marshalMetadata(doc.Metadata)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.ProjectID,
		doc.ProjectPrefix,
		doc.Title,
		doc.Series,
		doc.Direction,
		doc.Status,
		doc.ContentRef,
		doc.ContentType,
		doc.AssignedSignerID,
		meta,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// UpdateContent replaces the editable artifact reference and title.
func (r *DocumentPostgres) UpdateContent(ctx context.Context, id, title, contentRef, contentType string) error {
	const q = `
		UPDATE documents
		SET title = $2, content_ref = $3, content_type = $4, updated_at = now()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, title, contentRef, contentType)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateState performs the guarded status write. The WHERE clause carries the
// expected source status so a concurrent transition makes this a no-op,
// surfaced as ErrConcurrentUpdate.
func (r *DocumentPostgres) UpdateState(ctx context.Context, id string, from, to model.Status, assignedSignerID string, metadata map[string]any) error {
	const q = `
		UPDATE documents
		SET status = $3, assigned_signer_id = $4, metadata = $5, updated_at = now()
		WHERE id = $1 AND status = $2`
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, id, from, to, assignedSignerID, meta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrConcurrentUpdate
	}
	return nil
}

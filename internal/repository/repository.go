package repository

import (
	"context"
	"errors"
	"time"

	"radicado/internal/model"
)

// Package repository defines data access contracts. Implementations contain
// SQL only — no business logic. Every constructor takes an explicit handle;
// there are no ambient connections.

// ErrConcurrentUpdate is returned when a guarded write finds the row no
// longer in the expected state (a concurrent request won the race).
var ErrConcurrentUpdate = errors.New("document changed concurrently")

// DocumentRepository is persistence for documents.
type DocumentRepository interface {
	// Create inserts a new document row and returns the stored record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a paginated list of documents and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// UpdateContent replaces the editable artifact reference and title.
	UpdateContent(ctx context.Context, id, title, contentRef, contentType string) error

	// UpdateState moves the document from -> to with a status guard. The
	// assigned signer and metadata bag are written as given. Returns
	// ErrConcurrentUpdate when the guard misses.
	UpdateState(ctx context.Context, id string, from, to model.Status, assignedSignerID string, metadata map[string]any) error
}

// ActorRepository is read access to signing identities.
type ActorRepository interface {
	FindByID(ctx context.Context, id string) (*model.Actor, error)
}

// AuditRepository appends immutable trail entries. There is deliberately no
// update or delete.
type AuditRepository interface {
	Append(ctx context.Context, entry *model.AuditEntry) error
	ListByDocument(ctx context.Context, documentID string) ([]model.AuditEntry, error)
}

// SequenceRepository issues case-code sequence values.
type SequenceRepository interface {
	// IssueNext atomically increments and returns the counter for key.
	// The first issuance for an unseen key returns 1. Concurrent callers on
	// the same key never observe the same value.
	IssueNext(ctx context.Context, key model.SequenceKey) (int64, error)

	// Current returns the last issued value for key, 0 if never issued.
	Current(ctx context.Context, key model.SequenceKey) (int64, error)
}

// RadicationUpdate carries the fields written when a document is radicated.
// CaseCode and SequenceNumber are immutable once committed.
type RadicationUpdate struct {
	CaseCode       string
	SequenceNumber int64
	ContentRef     string
	ContentType    string
	EditableRef    string
	RadicatedAt    time.Time
}

// RadicateFunc runs inside the radication transaction. It receives the
// row-locked document and the freshly issued sequence value; returning an
// error rolls the whole unit back (the issued value becomes a gap at most).
type RadicateFunc func(doc *model.Document, seq int64) (*RadicationUpdate, error)

// Radicator is the single atomic unit coupling the document status check with
// sequence issuance, so two requests racing to radicate the same document
// serialize on the row lock and the loser fails cleanly.
type Radicator interface {
	Radicate(ctx context.Context, documentID string, key model.SequenceKey, fn RadicateFunc) (*model.Document, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}

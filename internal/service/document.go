package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"radicado/internal/audit"
	"radicado/internal/lifecycle"
	"radicado/internal/model"
	"radicado/internal/repository"
	"radicado/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("document not found")
	ErrActorNotFound    = errors.New("actor not found")
	ErrReaderNil        = errors.New("reader is nil")
	ErrTitleRequired    = errors.New("title is required")
	ErrPrefixRequired   = errors.New("project prefix is required")
	ErrInvalidSeries    = errors.New("unknown series")
	ErrInvalidDirection = errors.New("unknown direction")
	ErrEditFrozen       = errors.New("document content is frozen")
)

// downloadTTL is how long presigned artifact URLs stay valid.
const downloadTTL = 15 * time.Minute

// CreateDraftInput carries the fields for a new draft. The artifact itself
// streams in separately.
type CreateDraftInput struct {
	ProjectID     string
	ProjectPrefix string
	Title         string
	Series        model.Series
	Direction     model.Direction
	ActorID       string
	Filename      string
	ContentType   string
	Size          int64
}

// UpdateDraftInput carries a content/title revision. A nil Reader updates the
// title only and keeps the stored artifact.
type UpdateDraftInput struct {
	ActorID     string
	Title       string
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the draft-side use cases: intake, reads and
// pre-radication edits.
type DocumentService interface {
	// CreateDraft uploads the editable artifact to object storage, saves the
	// draft row, and rolls the upload back if the row save fails.
	CreateDraft(ctx context.Context, r io.Reader, in CreateDraftInput) (*model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// UpdateDraft replaces the editable content and/or title while the acting
	// role may still edit the document.
	UpdateDraft(ctx context.Context, id string, in UpdateDraftInput) (*model.Document, error)

	// ListAudit returns the document's trail, oldest first.
	ListAudit(ctx context.Context, id string) ([]model.AuditEntry, error)

	// DownloadURL returns a presigned URL for the authoritative artifact.
	DownloadURL(ctx context.Context, id string) (string, error)
}

type documentService struct {
	store   storage.Storage
	docs    repository.DocumentRepository
	actors  repository.ActorRepository
	entries repository.AuditRepository
	trail   audit.Emitter
	now     func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, docs repository.DocumentRepository, actors repository.ActorRepository, entries repository.AuditRepository, trail audit.Emitter) DocumentService {
	return &documentService{store: store, docs: docs, actors: actors, entries: entries, trail: trail, now: time.Now}
}

func (s *documentService) CreateDraft(ctx context.Context, r io.Reader, in CreateDraftInput) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(in.ProjectPrefix) == "" {
		return nil, ErrPrefixRequired
	}
	if !model.ValidSeries(in.Series) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeries, in.Series)
	}
	if !model.ValidDirection(in.Direction) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, in.Direction)
	}

	ext := filepath.Ext(in.Filename)
	key := filepath.ToSlash(filepath.Join("drafts", uuid.New().String()+ext))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := s.now().UTC()
	doc := &model.Document{
		ID:            uuid.New().String(),
		ProjectID:     in.ProjectID,
		ProjectPrefix: in.ProjectPrefix,
		Title:         strings.TrimSpace(in.Title),
		Series:        in.Series,
		Direction:     in.Direction,
		Status:        model.StatusDraft,
		ContentRef:    objInfo.Key,
		ContentType:   objInfo.ContentType,
		Metadata:      map[string]any{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.trail.Record(ctx, in.ActorID, model.ActionCreate, stored.ID, stored.Title)
	return stored, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.docs.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) UpdateDraft(ctx context.Context, id string, in UpdateDraftInput) (*model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	actor, err := s.findActor(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanEdit(doc.Status, actor.Role) {
		return nil, fmt.Errorf("%w: %s for %s", ErrEditFrozen, doc.Status, actor.Role)
	}

	title := doc.Title
	if strings.TrimSpace(in.Title) != "" {
		title = strings.TrimSpace(in.Title)
	}

	contentRef, contentType := doc.ContentRef, doc.ContentType
	var newKey string
	if in.Reader != nil {
		ext := filepath.Ext(in.Filename)
		newKey = filepath.ToSlash(filepath.Join("drafts", uuid.New().String()+ext))
		objInfo, err := s.store.Put(ctx, newKey, in.Reader, storage.PutObjectOptions{
			Size:        in.Size,
			ContentType: in.ContentType,
			Metadata: map[string]string{
				"original-filename": in.Filename,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		contentRef, contentType = objInfo.Key, objInfo.ContentType
	}

	if err := s.docs.UpdateContent(ctx, id, title, contentRef, contentType); err != nil {
		if newKey != "" {
			if delErr := s.store.Delete(ctx, newKey); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// The superseded draft artifact stays in storage for reconstruction.
	s.trail.Record(ctx, in.ActorID, model.ActionEdit, id, title)

	doc.Title = title
	doc.ContentRef = contentRef
	doc.ContentType = contentType
	doc.UpdatedAt = s.now().UTC()
	return doc, nil
}

func (s *documentService) ListAudit(ctx context.Context, id string) ([]model.AuditEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.entries.ListByDocument(ctx, id)
}

func (s *documentService) DownloadURL(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, doc.ContentRef, downloadTTL)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

func (s *documentService) findActor(ctx context.Context, id string) (*model.Actor, error) {
	if id == "" {
		return nil, ErrActorNotFound
	}
	actor, err := s.actors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return actor, nil
}

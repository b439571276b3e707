package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"radicado/internal/model"
	"radicado/internal/repository"
)

// Package audit emits immutable trail entries. Recording is best effort by
// contract: a failed write is logged and swallowed so the business operation
// that triggered it still completes.

// Emitter records audit trail entries.
type Emitter interface {
	Record(ctx context.Context, actorID, action, documentID, detail string)
}

type emitter struct {
	repo repository.AuditRepository
	now  func() time.Time
}

// NewEmitter builds an Emitter backed by the given repository.
func NewEmitter(repo repository.AuditRepository) Emitter {
	return &emitter{repo: repo, now: time.Now}
}

func (e *emitter) Record(ctx context.Context, actorID, action, documentID, detail string) {
	entry := &model.AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		DocumentID: documentID,
		Detail:     detail,
		CreatedAt:  e.now().UTC(),
	}
	if err := e.repo.Append(ctx, entry); err != nil {
		logJSON("error", "audit_write_failed", map[string]any{
			"document_id": documentID,
			"action":      action,
			"error":       err.Error(),
		})
	}
}

func logJSON(level, event string, fields map[string]any) {
	entry := map[string]any{
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"level":     level,
		"component": "audit",
		"event":     event,
	}
	for k, v := range fields {
		entry[k] = v
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}

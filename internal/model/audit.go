package model

import "time"

// Audit action tags.
const (
	ActionCreate       = "CREATE"
	ActionEdit         = "EDIT"
	ActionStatusChange = "STATUS_CHANGE"
	ActionDelegate     = "DELEGATE"
	ActionSign         = "SIGN"
	ActionVoid         = "VOID"
)

// AuditEntry is an immutable, append-only trail record. Entries are created on
// every status change, sign and void event and never updated or deleted.
type AuditEntry struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	DocumentID string    `json:"document_id"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

// SequenceKey scopes a durable case-code counter. One counter row exists per
// distinct key; values strictly increase per key and are never reused.
type SequenceKey struct {
	ProjectID string
	Series    Series
	Direction Direction
}

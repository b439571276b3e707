package model

import "time"

// Status is the document lifecycle state. A document is in exactly one status
// at a time; StatusVoid is terminal and absorbing.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusPendingScan     Status = "PENDING_SCAN"
	StatusRadicated       Status = "RADICATED"
	StatusArchived        Status = "ARCHIVED"
	StatusVoid            Status = "VOID"
)

// Series is the document classification used as part of the sequence key.
type Series string

const (
	SeriesAdministrative Series = "ADM"
	SeriesTechnical      Series = "TEC"
)

// Direction is whether a document is incoming, outgoing, or internal.
type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
	DirectionInternal Direction = "INTERNAL"
)

// Metadata keys used by the workflow. Delegation flags and the void reason
// live in the open metadata bag; status, case code and sequence number are
// typed columns so the state machine cannot be bypassed by a metadata write.
const (
	MetaSignatureAuthorized = "signature_authorized"
	MetaDelegatedSignerID   = "delegated_signer_id"
	MetaVoidReason          = "void_reason"
	MetaAttachmentCount     = "attachment_count"
)

// Document is the subject record of the radication engine.
//
// CaseCode and SequenceNumber are empty/zero until the document is radicated;
// once set they never change (voiding a radicated document keeps them).
// ContentRef points at the authoritative artifact: the editable form before
// radication, the stamped fixed-layout form after. EditableRef retains the
// pre-radication artifact for audit/reconstruction.
type Document struct {
	ID               string         `json:"id"`
	ProjectID        string         `json:"project_id"`
	ProjectPrefix    string         `json:"project_prefix"`
	Title            string         `json:"title"`
	Series           Series         `json:"series"`
	Direction        Direction      `json:"direction"`
	Status           Status         `json:"status"`
	CaseCode         string         `json:"case_code,omitempty"`
	SequenceNumber   int64          `json:"sequence_number,omitempty"`
	ContentRef       string         `json:"content_ref"`
	ContentType      string         `json:"content_type"`
	EditableRef      string         `json:"editable_ref,omitempty"`
	AssignedSignerID string         `json:"assigned_signer_id,omitempty"`
	Metadata         map[string]any `json:"metadata"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// DelegatedSigner returns the designated signer id when the document carries
// an explicit signature authorization in its metadata.
func (d *Document) DelegatedSigner() (string, bool) {
	if d.Metadata == nil {
		return "", false
	}
	authorized, _ := d.Metadata[MetaSignatureAuthorized].(bool)
	if !authorized {
		return "", false
	}
	id, _ := d.Metadata[MetaDelegatedSignerID].(string)
	if id == "" {
		return "", false
	}
	return id, true
}

// AttachmentCount reads the workflow attachment counter from the metadata bag.
func (d *Document) AttachmentCount() int {
	if d.Metadata == nil {
		return 0
	}
	switch v := d.Metadata[MetaAttachmentCount].(type) {
	case int:
		return v
	case float64: // JSON round trip
		return int(v)
	}
	return 0
}

// ValidSeries reports whether s is one of the known series.
func ValidSeries(s Series) bool {
	return s == SeriesAdministrative || s == SeriesTechnical
}

// ValidDirection reports whether d is one of the known directions.
func ValidDirection(d Direction) bool {
	return d == DirectionInbound || d == DirectionOutbound || d == DirectionInternal
}

// ValidStatus reports whether s is one of the known lifecycle statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusPendingScan,
		StatusRadicated, StatusArchived, StatusVoid:
		return true
	}
	return false
}

package convert

import (
	"context"
	"errors"
)

// Package convert abstracts the editable-to-fixed-layout conversion
// collaborator. Converters make exactly one attempt; the caller treats any
// failure as aborting the whole radication, so retries stay a caller
// decision.

// ErrConversionFailed wraps every converter failure. The document is left in
// its pre-attempt status, so the operation is safely retryable by the caller.
var ErrConversionFailed = errors.New("conversion failed")

// Request identifies the source artifact to convert.
type Request struct {
	// SourceURL is a (usually presigned) URL the converter can fetch.
	SourceURL string
	// SourceFormat tags the editable format, e.g. "html" or "docx".
	SourceFormat string
	// IdempotencyKey lets the collaborator deduplicate repeated submissions.
	IdempotencyKey string
}

// Converter turns an editable artifact into fixed-layout PDF bytes.
type Converter interface {
	Convert(ctx context.Context, req Request) ([]byte, error)
}

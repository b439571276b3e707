package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"radicado/internal/convert"
	"radicado/internal/model"
	"radicado/internal/stamp"
	"radicado/internal/storage"
)

// presignTTL bounds how long the converter collaborator can fetch the source
// artifact.
const presignTTL = 10 * time.Minute

// Stamper is the stamping engine as the pipeline sees it.
type Stamper interface {
	Stamp(src []byte, req stamp.Request) ([]byte, stamp.Result, error)
}

// Artifact describes the stamped result persisted to storage.
type Artifact struct {
	Key  string
	Size int64
	// Degraded is set when no signature anchor could be resolved; the QR and
	// case-code stamp still landed.
	Degraded bool
}

// Renderer converts the editable artifact to fixed layout and produces the
// stamped authoritative artifact.
type Renderer interface {
	// Convert fetches the document's editable artifact through a presigned
	// URL and returns fixed-layout PDF bytes. One attempt, no retries.
	Convert(ctx context.Context, doc *model.Document) ([]byte, error)

	// StampAndStore overlays the stamp and persists the result. The caller
	// owns compensation: if its surrounding transaction aborts afterwards it
	// deletes the returned key.
	StampAndStore(ctx context.Context, doc *model.Document, fixed []byte, req stamp.Request) (*Artifact, error)
}

// Pipeline is the production Renderer.
type Pipeline struct {
	conv    convert.Converter
	store   storage.Storage
	stamper Stamper
	loc     *time.Location
}

// NewPipeline constructs a Pipeline.
func NewPipeline(conv convert.Converter, store storage.Storage, stamper Stamper, loc *time.Location) *Pipeline {
	return &Pipeline{conv: conv, store: store, stamper: stamper, loc: loc}
}

var _ Renderer = (*Pipeline)(nil)

// Convert presigns the editable artifact and hands it to the converter.
func (p *Pipeline) Convert(ctx context.Context, doc *model.Document) ([]byte, error) {
	url, err := p.store.PresignGet(ctx, doc.ContentRef, presignTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: presign source: %v", convert.ErrConversionFailed, err)
	}
	return p.conv.Convert(ctx, convert.Request{
		SourceURL:      url,
		SourceFormat:   formatTag(doc.ContentType, doc.ContentRef),
		IdempotencyKey: uuid.NewString(),
	})
}

// StampAndStore stamps the fixed-layout bytes and persists them under a key
// derived from the case code.
func (p *Pipeline) StampAndStore(ctx context.Context, doc *model.Document, fixed []byte, req stamp.Request) (*Artifact, error) {
	stamped, res, err := p.stamper.Stamp(fixed, req)
	if err != nil {
		return nil, fmt.Errorf("stamp artifact: %w", err)
	}
	if !res.AnchorFound {
		p.logDegraded(doc.ID, req.CaseCode)
	}

	key := path.Join("radicated", req.CaseCode+".pdf")
	info, err := p.store.Put(ctx, key, bytes.NewReader(stamped), storage.PutObjectOptions{
		Size:        int64(len(stamped)),
		ContentType: "application/pdf",
		Metadata: map[string]string{
			"document-id": doc.ID,
			"case-code":   req.CaseCode,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("persist stamped artifact: %w", err)
	}

	return &Artifact{Key: info.Key, Size: info.Size, Degraded: !res.AnchorFound}, nil
}

// formatTag maps the editable artifact's content type to the converter's
// format tag.
func formatTag(contentType, ref string) string {
	switch {
	case strings.HasPrefix(contentType, "text/html"):
		return "html"
	case strings.Contains(contentType, "wordprocessingml"):
		return "docx"
	case strings.Contains(contentType, "msword"):
		return "doc"
	case strings.Contains(contentType, "opendocument.text"):
		return "odt"
	}
	if ext := strings.TrimPrefix(path.Ext(ref), "."); ext != "" {
		return ext
	}
	return "html"
}

func (p *Pipeline) logDegraded(documentID, caseCode string) {
	entry := map[string]any{
		"ts":          time.Now().In(p.loc).Format(time.RFC3339Nano),
		"level":       "warn",
		"component":   "render",
		"event":       "stamping_degraded",
		"msg":         "no signature anchor resolved, stamped without signature block",
		"document_id": documentID,
		"case_code":   caseCode,
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"radicado/internal/audit"
	"radicado/internal/casecode"
	"radicado/internal/lifecycle"
	"radicado/internal/model"
	"radicado/internal/render"
	"radicado/internal/repository"
	"radicado/internal/signing"
	"radicado/internal/stamp"
	"radicado/internal/storage"
)

var (
	// ErrReservedTransition rejects RADICATED and VOID as plain transition
	// targets; each has a dedicated operation with its own preconditions.
	ErrReservedTransition = errors.New("transition requires its dedicated operation")

	ErrVoidReasonTooShort = errors.New("void reason must be at least 10 characters")
	ErrDelegateState      = errors.New("document not awaiting delegation")
)

const minVoidReason = 10

// radicationsTotal counts radication attempts by outcome.
var radicationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "radications_total",
	Help: "Radication attempts by outcome.",
}, []string{"outcome"})

// RadicateInput identifies the document, the acting actor and their PIN.
type RadicateInput struct {
	DocumentID string
	ActorID    string
	PIN        string
}

// RadicationService defines the workflow-side use cases: status transitions,
// delegation, signing/radication and voiding.
type RadicationService interface {
	// Transition moves the document along a lifecycle edge under role gating.
	Transition(ctx context.Context, documentID, actorID string, target model.Status) (*model.Document, error)

	// Delegate records a director's authorization for a named signer to
	// execute the signature on a pending document.
	Delegate(ctx context.Context, documentID, directorID, signerID string) (*model.Document, error)

	// Radicate signs the document: converts, issues the case code, stamps and
	// commits, all such that a failure at any step leaves no partial state.
	Radicate(ctx context.Context, in RadicateInput) (*model.Document, error)

	// Void marks the document void with a mandatory reason. Case codes of
	// radicated documents are kept and never reissued.
	Void(ctx context.Context, documentID, actorID, reason string) (*model.Document, error)
}

type radicationService struct {
	store     storage.Storage
	docs      repository.DocumentRepository
	actors    repository.ActorRepository
	radicator repository.Radicator
	renderer  render.Renderer
	trail     audit.Emitter
	now       func() time.Time
}

// NewRadicationService constructs a new RadicationService.
func NewRadicationService(store storage.Storage, docs repository.DocumentRepository, actors repository.ActorRepository, radicator repository.Radicator, renderer render.Renderer, trail audit.Emitter) RadicationService {
	return &radicationService{
		store:     store,
		docs:      docs,
		actors:    actors,
		radicator: radicator,
		renderer:  renderer,
		trail:     trail,
		now:       time.Now,
	}
}

func (s *radicationService) Transition(ctx context.Context, documentID, actorID string, target model.Status) (*model.Document, error) {
	if !model.ValidStatus(target) {
		return nil, fmt.Errorf("%w: unknown status %q", lifecycle.ErrInvalidTransition, target)
	}
	if target == model.StatusRadicated || target == model.StatusVoid {
		return nil, fmt.Errorf("%w: %s", ErrReservedTransition, target)
	}

	doc, actor, err := s.load(ctx, documentID, actorID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Authorize(doc.Status, target, actor.Role); err != nil {
		return nil, err
	}

	metadata := cloneMetadata(doc.Metadata)
	assigned := doc.AssignedSignerID
	if lifecycle.IsRevert(doc.Status, target) {
		delete(metadata, model.MetaSignatureAuthorized)
		delete(metadata, model.MetaDelegatedSignerID)
		assigned = ""
	}

	if err := s.docs.UpdateState(ctx, doc.ID, doc.Status, target, assigned, metadata); err != nil {
		return nil, err
	}

	s.trail.Record(ctx, actorID, model.ActionStatusChange, doc.ID, fmt.Sprintf("%s -> %s", doc.Status, target))

	doc.Status = target
	doc.AssignedSignerID = assigned
	doc.Metadata = metadata
	doc.UpdatedAt = s.now().UTC()
	return doc, nil
}

func (s *radicationService) Delegate(ctx context.Context, documentID, directorID, signerID string) (*model.Document, error) {
	doc, director, err := s.load(ctx, documentID, directorID)
	if err != nil {
		return nil, err
	}
	if director.Role != model.RoleDirector {
		return nil, fmt.Errorf("%w: %s may not delegate", lifecycle.ErrInsufficientRole, director.Role)
	}
	if doc.Status != model.StatusPendingApproval && doc.Status != model.StatusPendingScan {
		return nil, fmt.Errorf("%w: %s", ErrDelegateState, doc.Status)
	}
	signer, err := s.findActor(ctx, signerID)
	if err != nil {
		return nil, err
	}

	metadata := cloneMetadata(doc.Metadata)
	metadata[model.MetaSignatureAuthorized] = true
	metadata[model.MetaDelegatedSignerID] = signer.ID

	if err := s.docs.UpdateState(ctx, doc.ID, doc.Status, doc.Status, signer.ID, metadata); err != nil {
		return nil, err
	}

	s.trail.Record(ctx, directorID, model.ActionDelegate, doc.ID, signer.ID)

	doc.AssignedSignerID = signer.ID
	doc.Metadata = metadata
	doc.UpdatedAt = s.now().UTC()
	return doc, nil
}

// Radicate runs the full signing pipeline. Ordering is deliberate: PIN and
// eligibility resolve first, conversion runs before any counter is touched,
// and the sequence issuance plus status flip commit in one transaction. The
// stored artifact is the only side effect outside that transaction; it is
// deleted again when the transaction does not commit.
func (s *radicationService) Radicate(ctx context.Context, in RadicateInput) (*model.Document, error) {
	doc, actor, err := s.load(ctx, in.DocumentID, in.ActorID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanRadicateFrom(doc.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", lifecycle.ErrInvalidTransition, doc.Status, model.StatusRadicated)
	}

	signerID, err := signing.Resolve(doc, actor, in.PIN)
	if err != nil {
		radicationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	signer := actor
	if signerID != actor.ID {
		if signer, err = s.findActor(ctx, signerID); err != nil {
			return nil, err
		}
	}

	fixed, err := s.renderer.Convert(ctx, doc)
	if err != nil {
		radicationsTotal.WithLabelValues("conversion_failed").Inc()
		return nil, err
	}

	sigImage, err := s.loadSignatureImage(ctx, signer)
	if err != nil {
		return nil, err
	}

	key := model.SequenceKey{ProjectID: doc.ProjectID, Series: doc.Series, Direction: doc.Direction}
	var artifactKey string

	radicated, err := s.radicator.Radicate(ctx, doc.ID, key, func(locked *model.Document, seq int64) (*repository.RadicationUpdate, error) {
		if _, err := signing.Recheck(locked, actor, in.PIN); err != nil {
			return nil, err
		}

		stampedAt := s.now()
		code, err := casecode.Format(locked.ProjectPrefix, locked.Series, locked.Direction, stampedAt.Year(), seq)
		if err != nil {
			return nil, err
		}

		art, err := s.renderer.StampAndStore(ctx, locked, fixed, stamp.Request{
			DocumentID:      locked.ID,
			CaseCode:        code,
			Date:            stampedAt,
			AttachmentCount: locked.AttachmentCount(),
			SignerName:      signer.Name,
			SignerRole:      string(signer.Role),
			SignatureImage:  sigImage,
		})
		if err != nil {
			return nil, err
		}
		artifactKey = art.Key

		return &repository.RadicationUpdate{
			CaseCode:       code,
			SequenceNumber: seq,
			ContentRef:     art.Key,
			ContentType:    "application/pdf",
			EditableRef:    locked.ContentRef,
			RadicatedAt:    stampedAt.UTC(),
		}, nil
	})
	if err != nil {
		radicationsTotal.WithLabelValues("failed").Inc()
		// Compensate the out-of-transaction side effect.
		if artifactKey != "" {
			if delErr := s.store.Delete(ctx, artifactKey); delErr != nil {
				return nil, fmt.Errorf("radicate failed: %v; artifact cleanup failed: %v", err, delErr)
			}
		}
		return nil, err
	}
	radicationsTotal.WithLabelValues("radicated").Inc()

	detail := radicated.CaseCode
	if signerID != in.ActorID {
		detail = fmt.Sprintf("%s executed for %s", radicated.CaseCode, signerID)
	}
	s.trail.Record(ctx, in.ActorID, model.ActionSign, radicated.ID, detail)

	return radicated, nil
}

func (s *radicationService) Void(ctx context.Context, documentID, actorID, reason string) (*model.Document, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < minVoidReason {
		return nil, ErrVoidReasonTooShort
	}

	doc, actor, err := s.load(ctx, documentID, actorID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Authorize(doc.Status, model.StatusVoid, actor.Role); err != nil {
		return nil, err
	}

	metadata := cloneMetadata(doc.Metadata)
	metadata[model.MetaVoidReason] = reason

	if err := s.docs.UpdateState(ctx, doc.ID, doc.Status, model.StatusVoid, doc.AssignedSignerID, metadata); err != nil {
		return nil, err
	}

	s.trail.Record(ctx, actorID, model.ActionVoid, doc.ID, reason)

	doc.Status = model.StatusVoid
	doc.Metadata = metadata
	doc.UpdatedAt = s.now().UTC()
	return doc, nil
}

func (s *radicationService) load(ctx context.Context, documentID, actorID string) (*model.Document, *model.Actor, error) {
	if documentID == "" {
		return nil, nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	return doc, actor, nil
}

func (s *radicationService) findActor(ctx context.Context, id string) (*model.Actor, error) {
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

func (s *radicationService) loadSignatureImage(ctx context.Context, signer *model.Actor) ([]byte, error) {
	if signer.SignatureImageRef == "" {
		return nil, nil
	}
	rc, _, err := s.store.Get(ctx, signer.SignatureImageRef)
	if err != nil {
		return nil, fmt.Errorf("load signature image: %w", err)
	}
	defer func() { _ = rc.Close() }()
	img, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read signature image: %w", err)
	}
	return img, nil
}

func cloneMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

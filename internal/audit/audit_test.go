package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"radicado/internal/model"
	"radicado/internal/repository/mocks"
)

func TestEmitter_RecordAppendsEntry(t *testing.T) {
	repo := new(mocks.MockAuditRepository)
	repo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AuditEntry) bool {
		return e.ActorID == "actor-1" &&
			e.Action == model.ActionSign &&
			e.DocumentID == "doc-1" &&
			e.Detail == "PTE01-TEC-IN-2023-00101" &&
			e.ID != "" &&
			!e.CreatedAt.IsZero()
	})).Return(nil)

	e := NewEmitter(repo)
	e.Record(context.Background(), "actor-1", model.ActionSign, "doc-1", "PTE01-TEC-IN-2023-00101")

	repo.AssertExpectations(t)
}

func TestEmitter_RecordUsesUTCClock(t *testing.T) {
	repo := new(mocks.MockAuditRepository)
	var got time.Time
	repo.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(*model.AuditEntry).CreatedAt
	}).Return(nil)

	fixed := time.Date(2023, 7, 14, 15, 4, 5, 0, time.FixedZone("COT", -5*3600))
	e := &emitter{repo: repo, now: func() time.Time { return fixed }}
	e.Record(context.Background(), "actor-1", model.ActionCreate, "doc-1", "")

	assert.Equal(t, fixed.UTC(), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestEmitter_RecordSwallowsRepositoryError(t *testing.T) {
	repo := new(mocks.MockAuditRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	e := NewEmitter(repo)
	assert.NotPanics(t, func() {
		e.Record(context.Background(), "actor-1", model.ActionVoid, "doc-1", "reason")
	})
	repo.AssertExpectations(t)
}

package mocks

import (
	"context"

	"radicado/internal/model"
	"radicado/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if f, ok := args.Get(0).(func(context.Context, *model.Document) *model.Document); ok {
		return f(ctx, doc), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) UpdateContent(ctx context.Context, id, title, contentRef, contentType string) error {
	args := m.Called(ctx, id, title, contentRef, contentType)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateState(ctx context.Context, id string, from, to model.Status, assignedSignerID string, metadata map[string]any) error {
	args := m.Called(ctx, id, from, to, assignedSignerID, metadata)
	return args.Error(0)
}

type MockActorRepository struct {
	mock.Mock
}

func (m *MockActorRepository) FindByID(ctx context.Context, id string) (*model.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Actor), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByDocument(ctx context.Context, documentID string) ([]model.AuditEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) IssueNext(ctx context.Context, key model.SequenceKey) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepository) Current(ctx context.Context, key model.SequenceKey) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// MockRadicator simulates the transactional radication unit. When Doc is set,
// the callback runs against it with Seq, mirroring the committed state the
// real unit would return.
type MockRadicator struct {
	mock.Mock
	Doc *model.Document
	Seq int64
}

func (m *MockRadicator) Radicate(ctx context.Context, documentID string, key model.SequenceKey, fn repository.RadicateFunc) (*model.Document, error) {
	args := m.Called(ctx, documentID, key)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	upd, err := fn(m.Doc, m.Seq)
	if err != nil {
		return nil, err
	}
	out := *m.Doc
	out.Status = model.StatusRadicated
	out.CaseCode = upd.CaseCode
	out.SequenceNumber = upd.SequenceNumber
	out.ContentRef = upd.ContentRef
	out.ContentType = upd.ContentType
	out.EditableRef = upd.EditableRef
	out.UpdatedAt = upd.RadicatedAt
	return &out, nil
}

package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"radicado/internal/model"
	"radicado/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateDraft(ctx context.Context, r io.Reader, in service.CreateDraftInput) (*model.Document, error) {
	args := m.Called(ctx, r, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) UpdateDraft(ctx context.Context, id string, in service.UpdateDraftInput) (*model.Document, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListAudit(ctx context.Context, id string) ([]model.AuditEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockRadicationService struct {
	mock.Mock
}

func (m *MockRadicationService) Transition(ctx context.Context, documentID, actorID string, target model.Status) (*model.Document, error) {
	args := m.Called(ctx, documentID, actorID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockRadicationService) Delegate(ctx context.Context, documentID, directorID, signerID string) (*model.Document, error) {
	args := m.Called(ctx, documentID, directorID, signerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockRadicationService) Radicate(ctx context.Context, in service.RadicateInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockRadicationService) Void(ctx context.Context, documentID, actorID, reason string) (*model.Document, error) {
	args := m.Called(ctx, documentID, actorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

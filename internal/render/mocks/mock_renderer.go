package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"radicado/internal/model"
	"radicado/internal/render"
	"radicado/internal/stamp"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Convert(ctx context.Context, doc *model.Document) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRenderer) StampAndStore(ctx context.Context, doc *model.Document, fixed []byte, req stamp.Request) (*render.Artifact, error) {
	args := m.Called(ctx, doc, fixed, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*render.Artifact), args.Error(1)
}

type MockStamper struct {
	mock.Mock
}

func (m *MockStamper) Stamp(src []byte, req stamp.Request) ([]byte, stamp.Result, error) {
	args := m.Called(src, req)
	if args.Get(0) == nil {
		return nil, args.Get(1).(stamp.Result), args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(stamp.Result), args.Error(2)
}

package query

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/store"
	"github.com/MananiDennis/alumniSystem/pkg/anthropic"
)

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, p *model.AlumniProfile) (*model.AlumniProfile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AlumniProfile), args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id string) (*model.AlumniProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AlumniProfile), args.Error(1)
}

func (m *mockStore) FindByName(ctx context.Context, fullName string) (*model.AlumniProfile, error) {
	args := m.Called(ctx, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AlumniProfile), args.Error(1)
}

func (m *mockStore) ApplyMerge(ctx context.Context, id string, up store.MergeUpdate) (*model.AlumniProfile, error) {
	args := m.Called(ctx, id, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AlumniProfile), args.Error(1)
}

func (m *mockStore) ListAll(ctx context.Context, f store.Filter) ([]*model.AlumniProfile, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AlumniProfile), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

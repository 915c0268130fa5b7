package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/query"
	"github.com/MananiDennis/alumniSystem/internal/schedule"
	"github.com/MananiDennis/alumniSystem/internal/search"
	"github.com/MananiDennis/alumniSystem/internal/stats"
	"github.com/MananiDennis/alumniSystem/internal/store"
)

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

type mockAcquirer struct {
	mock.Mock
}

func (m *mockAcquirer) AcquireBatch(ctx context.Context, reqs []search.Request) (*model.BatchResult, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchResult), args.Error(1)
}

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) Report(ctx context.Context) (*schedule.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.Report), args.Error(1)
}

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summarize(ctx context.Context) (*stats.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.Summary), args.Error(1)
}

type mockUpdater struct {
	mock.Mock
}

func (m *mockUpdater) Run(ctx context.Context, tier schedule.Tier) (*model.BatchResult, error) {
	args := m.Called(ctx, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchResult), args.Error(1)
}

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Ask(ctx context.Context, question string) (*query.Result, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.Result), args.Error(1)
}

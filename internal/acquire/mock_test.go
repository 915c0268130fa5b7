package acquire

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/search"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, req search.Request) ([]model.CandidateSnippet, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CandidateSnippet), args.Error(1)
}

func (m *mockSearcher) ResetAvailability() {
	m.Called()
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, name, locationHint string, snippets []model.CandidateSnippet) (*model.AlumniProfile, error) {
	args := m.Called(ctx, name, locationHint, snippets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AlumniProfile), args.Error(1)
}

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) Reconcile(ctx context.Context, name string, candidate *model.AlumniProfile) (*model.AlumniProfile, bool, error) {
	args := m.Called(ctx, name, candidate)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.AlumniProfile), args.Bool(1), args.Error(2)
}

package query

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/resilience"
	"github.com/MananiDennis/alumniSystem/internal/store"
)

func noRetry() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = 1
	return cfg
}

func TestAskTranslatesIndustryQuestion(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("```json\n{\"industry\": \"mining\"}\n```"), nil)

	st := &mockStore{}
	matched := []*model.AlumniProfile{{ID: "p-1", FullName: "Jane Smith", Industry: model.IndustryMining}}
	st.On("ListAll", mock.Anything, store.Filter{Industry: model.IndustryMining}).Return(matched, nil)

	svc := New(Config{Retry: noRetry()}, client, st)
	res, err := svc.Ask(context.Background(), "mining sector graduates")
	require.NoError(t, err)

	assert.Equal(t, model.IndustryMining, res.Filter.Industry)
	assert.Equal(t, 1, res.Count)
	require.Len(t, res.Profiles, 1)
	assert.Equal(t, "Jane Smith", res.Profiles[0].FullName)
	client.AssertExpectations(t)
	st.AssertExpectations(t)
}

func TestAskTranslatesCombinedCriteria(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"location": "Perth", "industry": "Technology", "graduation_year": 2018}`), nil)

	st := &mockStore{}
	want := store.Filter{Location: "Perth", Industry: model.IndustryTechnology, GraduationYear: 2018}
	st.On("ListAll", mock.Anything, want).Return([]*model.AlumniProfile{}, nil)

	svc := New(Config{Retry: noRetry()}, client, st)
	res, err := svc.Ask(context.Background(), "Perth tech alumni from 2018")
	require.NoError(t, err)
	assert.Equal(t, want, res.Filter)
	assert.Equal(t, 0, res.Count)
	st.AssertExpectations(t)
}

func TestAskUnparseableAnswerListsEverything(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("I am not sure what you mean."), nil)

	st := &mockStore{}
	st.On("ListAll", mock.Anything, store.Filter{}).
		Return([]*model.AlumniProfile{{ID: "p-1", FullName: "Jane Smith"}}, nil)

	svc := New(Config{Retry: noRetry()}, client, st)
	res, err := svc.Ask(context.Background(), "tell me something")
	require.NoError(t, err)
	assert.Equal(t, store.Filter{}, res.Filter)
	assert.Equal(t, 1, res.Count)
	st.AssertExpectations(t)
}

func TestAskNoClient(t *testing.T) {
	svc := New(Config{}, nil, &mockStore{})
	_, err := svc.Ask(context.Background(), "anything")
	assert.True(t, eris.Is(err, ErrUnavailable))
}

func TestAskEmptyQuestion(t *testing.T) {
	svc := New(Config{}, &mockAnthropicClient{}, &mockStore{})
	_, err := svc.Ask(context.Background(), "   ")
	assert.Error(t, err)
}

func TestAskStoreFailure(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{}`), nil)

	st := &mockStore{}
	st.On("ListAll", mock.Anything, store.Filter{}).
		Return(nil, eris.New("db gone"))

	svc := New(Config{Retry: noRetry()}, client, st)
	_, err := svc.Ask(context.Background(), "everyone")
	assert.Error(t, err)
}

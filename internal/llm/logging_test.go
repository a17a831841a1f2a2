package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/framequiz/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := openEventRepo(t)
	core, logs := observer.New(zapcore.DebugLevel)

	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"question":"q","options":["a","b","c","d"]}`),
		Usage:   Usage{InputTokens: 11, OutputTokens: 22},
	})
	p := WithLogging(mock, BackendMock, repo, zap.New(core))

	seed := 42
	ctx := WithRequestID(WithPurpose(context.Background(), "quiz-question"), "req-abc")
	_, err := p.Generate(ctx, Request{
		Messages:    []Message{{Role: RoleSystem, Content: "be terse"}, {Role: RoleUser, Content: "ask me"}},
		Temperature: 1.4,
		MaxTokens:   512,
		Seed:        &seed,
		Schema:      &Schema{Name: "quiz-question"},
	})
	require.NoError(t, err)

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.True(t, e.Success)
	assert.Equal(t, "mock", e.Provider)
	assert.Equal(t, "mock", e.Model)
	assert.Equal(t, "quiz-question", e.Purpose)
	assert.Equal(t, "req-abc", e.RequestID)
	assert.Equal(t, 11, e.InputTokens)
	assert.Equal(t, 22, e.OutputTokens)
	assert.Contains(t, e.RequestBody, "[system]\nbe terse")
	assert.Contains(t, e.RequestBody, "[user]\nask me")
	assert.Contains(t, e.RequestBody, "temperature=1.4 max_tokens=512 seed=42")
	assert.Contains(t, e.RequestBody, "[schema: quiz-question]")
	assert.Contains(t, e.ResponseBody, `"question":"q"`)

	entries := logs.FilterMessage("llm request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "llm", entries[0].LoggerName)
	assert.Equal(t, "req-abc", entries[0].ContextMap()["request_id"])
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := openEventRepo(t)
	core, logs := observer.New(zapcore.DebugLevel)

	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}})
	p := WithLogging(mock, BackendMock, repo, zap.New(core))

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Failed: true})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "rate_limit", events[0].ErrorKind)
	assert.Equal(t, "unknown", events[0].Purpose)
	assert.True(t, strings.Contains(events[0].ErrorMessage, "slow down"))

	entries := logs.FilterMessage("llm request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rate_limit", entries[0].ContextMap()["kind"])
}

func TestLoggingProvider_RecordsTimedOutCall(t *testing.T) {
	repo := openEventRepo(t)
	p := WithLogging(NewMockProvider(MockResponse{Hang: true}), BackendMock, repo, nil)

	ctx, cancel := context.WithTimeout(WithPurpose(context.Background(), "quiz-question"), 10*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, Request{})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Failed: true})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Equal(t, "timeout", events[0].ErrorKind)
	assert.Equal(t, "quiz-question", events[0].Purpose)
}

func TestLoggingProvider_RecordsCanceledCall(t *testing.T) {
	repo := openEventRepo(t)
	p := WithLogging(NewMockProvider(MockResponse{Hang: true}), BackendMock, repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	require.ErrorIs(t, err, context.Canceled)

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "canceled", events[0].ErrorKind)
}

func TestLoggingProvider_NilRepoAndLogger(t *testing.T) {
	mock := NewMockProvider(MockText(`{}`))
	p := WithLogging(mock, BackendMock, nil, nil)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(resp.Content))
	assert.Equal(t, "mock", p.ModelID())
}

type failingRepo struct{ store.EventRepo }

func (failingRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return errors.New("disk full")
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	mock := NewMockProvider(MockText(`{}`))
	p := WithLogging(mock, BackendMock, failingRepo{}, zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to record llm request event").Len())
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockText("plain text"),
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != "plain text" {
		t.Fatalf("expected plain text, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockText(`{}`))

	seed := 7
	req := Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "sys"},
			{Role: RoleUser, Content: "hello"},
		},
		Seed: &seed,
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].Messages[0].Role != RoleSystem {
		t.Fatalf("expected first message to be system, got %q", mock.Calls[0].Messages[0].Role)
	}
	if *mock.Calls[0].Seed != 7 {
		t.Fatalf("expected seed 7, got %d", *mock.Calls[0].Seed)
	}
}

func TestMockProvider_HangHonoursContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Hang: true})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSplitSystem(t *testing.T) {
	system, turns := splitSystem([]Message{
		{Role: RoleSystem, Content: "one"},
		{Role: RoleUser, Content: "question"},
		{Role: RoleSystem, Content: "two"},
	})
	if len(system) != 2 || system[0] != "one" || system[1] != "two" {
		t.Fatalf("unexpected system messages: %v", system)
	}
	if len(turns) != 1 || turns[0].Content != "question" {
		t.Fatalf("unexpected turns: %v", turns)
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if id := RequestIDFrom(ctx); id != "" {
		t.Fatalf("expected empty request id, got %q", id)
	}

	ctx = WithPurpose(ctx, "quiz-question")
	ctx = WithRequestID(ctx, "req-1")
	if p := PurposeFrom(ctx); p != "quiz-question" {
		t.Fatalf("expected 'quiz-question', got %q", p)
	}
	if id := RequestIDFrom(ctx); id != "req-1" {
		t.Fatalf("expected 'req-1', got %q", id)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ErrRateLimit{Err: errors.New("429")}, "rate_limit"},
		{&ErrInvalidResponse{Err: errors.New("bad")}, "invalid_response"},
		{&ErrProviderUnavailable{}, "unavailable"},
		{&ErrMaxTokensExceeded{}, "max_tokens"},
		{&ErrProviderUnavailable{Err: context.DeadlineExceeded}, "timeout"},
		{context.Canceled, "canceled"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "workersai without token",
			cfg:     Config{Provider: BackendWorkersAI, WorkersAI: WorkersAIConfig{AccountID: "acc"}},
			wantErr: true,
		},
		{
			name:    "workersai without account",
			cfg:     Config{Provider: BackendWorkersAI, WorkersAI: WorkersAIConfig{APIToken: "tok"}},
			wantErr: true,
		},
		{
			name:    "workersai with base url instead of account",
			cfg:     Config{Provider: BackendWorkersAI, WorkersAI: WorkersAIConfig{APIToken: "tok", BaseURL: "http://x"}},
			wantErr: false,
		},
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: BackendAnthropic},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: BackendAnthropic, Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: BackendOpenAI},
			wantErr: true,
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: BackendGemini},
			wantErr: true,
		},
		{
			name:    "openrouter with key",
			cfg:     Config{Provider: BackendOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "sk-or"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: BackendMock},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != BackendWorkersAI {
		t.Fatalf("expected default provider %q, got %q", BackendWorkersAI, cfg.Provider)
	}
	if got := resolveModel(cfg.WorkersAI.Model, workersAIModels); got != "@cf/meta/llama-4-scout-17b-16e-instruct" {
		t.Fatalf("unexpected default workers ai model %q", got)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: BackendMock}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*LoggingProvider); !ok {
		t.Fatalf("expected logging middleware, got %T", p)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestNewProvider_RejectsMissingCredentials(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: BackendOpenAI}, nil, nil)
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

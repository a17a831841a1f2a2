package llm

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/abhisek/framequiz/internal/store"
)

// ClientOption customizes the HTTP layer of SDK-backed providers.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient makes the provider send requests through c.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = c }
}

func applyClientOptions(opts []ClientOption) clientOptions {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolveModel maps a short model name to the backend's model id. Anything
// not in models is taken as a raw id.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}

// NewProvider creates a Provider from configuration, wrapped with logging
// middleware. eventRepo may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []ClientOption
	if cfg.Trace {
		opts = append(opts, WithHTTPClient(&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}))
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case BackendWorkersAI:
		base, err = NewWorkersAIProvider(cfg.WorkersAI, opts...)
	case BackendOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI, opts...)
	case BackendOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter, opts...)
	case BackendAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic, opts...)
	case BackendGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini, opts...)
	case BackendMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, eventRepo, log), nil
}

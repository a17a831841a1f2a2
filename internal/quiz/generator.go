package quiz

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/framequiz/internal/llm"
)

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxAttempts is the number of provider calls made before giving up.
	MaxAttempts int

	// Temperature is passed to the provider unchanged.
	Temperature float64

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// AttemptTimeout bounds a single provider call. A timed-out call
	// counts as a failed attempt. Zero disables the per-attempt bound.
	AttemptTimeout time.Duration

	// Backoff is a fixed wait between failed attempts.
	Backoff time.Duration

	// StructuredOutput asks the backend to enforce QuestionSchema natively.
	StructuredOutput bool
}

// DefaultConfig returns the recommended generator settings.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    5,
		Temperature:    1.4,
		MaxTokens:      512,
		AttemptTimeout: 20 * time.Second,
	}
}

// Option customizes an LLMGenerator.
type Option func(*LLMGenerator)

// WithClock sets the time source used to derive request seeds.
func WithClock(now func() time.Time) Option {
	return func(g *LLMGenerator) { g.now = now }
}

// WithLogger sets the logger for attempt failures.
func WithLogger(log *zap.Logger) Option {
	return func(g *LLMGenerator) { g.log = log }
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *Catalog) Option {
	return func(g *LLMGenerator) { g.catalog = c }
}

// LLMGenerator implements Generator with bounded retries against an LLM
// provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	catalog  *Catalog
	now      func() time.Time
	log      *zap.Logger
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, opts ...Option) *LLMGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	g := &LLMGenerator{
		provider: provider,
		config:   cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.catalog == nil {
		g.catalog = DefaultCatalog()
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	g.log = g.log.Named("quiz")
	return g
}

// Generate builds the prompt for question number n and calls the provider
// until a response passes validation or MaxAttempts calls have failed.
// Cancelling ctx ends the loop with ctx's error.
func (g *LLMGenerator) Generate(ctx context.Context, n int64) (*Question, error) {
	ctx = llm.WithPurpose(ctx, Purpose)
	msgs := BuildMessages(g.catalog, n)

	var lastErr error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q, err := g.attempt(ctx, msgs)
		if err == nil {
			return &q, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		g.log.Warn("question attempt failed",
			zap.Int("attempt", attempt),
			zap.Int64("question", n),
			zap.String("kind", llm.ErrorKind(err)),
			zap.Error(err),
		)

		if attempt < g.config.MaxAttempts && g.config.Backoff > 0 {
			if err := sleep(ctx, g.config.Backoff); err != nil {
				return nil, err
			}
		}
	}

	return nil, &ExhaustedError{Attempts: g.config.MaxAttempts, Err: lastErr}
}

func (g *LLMGenerator) attempt(ctx context.Context, msgs []llm.Message) (Question, error) {
	if g.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.AttemptTimeout)
		defer cancel()
	}

	seed := int(g.now().UnixMilli() % 1_000_000)
	req := llm.Request{
		Messages:    msgs,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		Seed:        &seed,
	}
	if g.config.StructuredOutput {
		req.Schema = QuestionSchema
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return Question{}, err
	}
	return ParseQuestion(resp.Content)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

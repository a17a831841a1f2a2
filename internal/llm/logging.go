package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/framequiz/internal/store"
)

// recordTimeout bounds how long a request event write may take.
const recordTimeout = 5 * time.Second

// LoggingProvider is a decorator that logs every LLM request and, when an
// event repo is configured, records it as an event.
type LoggingProvider struct {
	inner     Provider
	backend   string
	eventRepo store.EventRepo
	log       *zap.Logger
}

// WithLogging wraps a Provider with request logging. repo may be nil, in
// which case requests are only written to the logger.
func WithLogging(p Provider, backend string, repo store.EventRepo, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{
		inner:     p,
		backend:   backend,
		eventRepo: repo,
		log:       log.Named("llm"),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.backend,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		RequestID:   RequestIDFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	fields := []zap.Field{
		zap.String("backend", l.backend),
		zap.String("model", data.Model),
		zap.String("purpose", purpose),
		zap.Duration("latency", latency),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	if data.RequestID != "" {
		fields = append(fields, zap.String("request_id", data.RequestID))
	}

	if err != nil {
		data.ErrorKind = ErrorKind(err)
		data.ErrorMessage = err.Error()
		l.log.Debug("llm request failed", append(fields, zap.String("kind", data.ErrorKind), zap.Error(err))...)
	} else {
		l.log.Debug("llm request", fields...)
	}

	// A broken event log never fails the request. Timed-out and canceled
	// calls are still recorded, so the write outlives ctx.
	if l.eventRepo != nil {
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()
		if logErr := l.eventRepo.AppendLLMRequest(recCtx, data); logErr != nil {
			l.log.Warn("failed to record llm request event", zap.Error(logErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "[params]\ntemperature=%g max_tokens=%d", req.Temperature, req.MaxTokens)
	if req.Seed != nil {
		fmt.Fprintf(&b, " seed=%d", *req.Seed)
	}
	b.WriteString("\n")

	if req.Schema != nil {
		fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
	}

	return b.String()
}

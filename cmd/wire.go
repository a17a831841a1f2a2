package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/framequiz/internal/llm"
	"github.com/abhisek/framequiz/internal/quiz"
	"github.com/abhisek/framequiz/internal/store"
)

// app bundles the collaborators shared by serve and ask.
type app struct {
	provider  llm.Provider
	generator *quiz.LLMGenerator
	store     *store.Store // nil when the request log is disabled
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// newApp validates the loaded configuration and builds the provider and
// generator. The request log is opened when --db or store.path is set.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &app{}

	var repo store.EventRepo
	dbFlag, _ := cmd.Flags().GetString("db")
	if dbFlag != "" || cfg.Store.Path != "" {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.store = s
		repo = s.EventRepo()
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, repo, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	a.provider = provider

	opts := []quiz.Option{quiz.WithLogger(log)}
	if cfg.Quiz.CatalogPath != "" {
		catalog, err := quiz.LoadCatalog(cfg.Quiz.CatalogPath)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, quiz.WithCatalog(catalog))
	}
	a.generator = quiz.New(provider, cfg.Quiz.Generator(), opts...)

	return a, nil
}

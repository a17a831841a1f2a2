package llm

import (
	"errors"
	"fmt"
)

const (
	// Account-scoped OpenAI-compatible endpoint of Cloudflare Workers AI.
	workersAIBaseURL  = "https://api.cloudflare.com/client/v4/accounts/%s/ai/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

var workersAIModels = map[string]string{
	"llama-4-scout": "@cf/meta/llama-4-scout-17b-16e-instruct",
	"llama-3.3-70b": "@cf/meta/llama-3.3-70b-instruct-fp8-fast",
	"mistral-small": "@cf/mistralai/mistral-small-3.1-24b-instruct",
	"gemma-3-12b":   "@cf/google/gemma-3-12b-it",
}

// WorkersAIProvider is the default backend. The quiz was first served from
// llama-4-scout on Workers AI.
type WorkersAIProvider struct {
	*OpenAIProvider
}

func NewWorkersAIProvider(cfg WorkersAIConfig, opts ...ClientOption) (*WorkersAIProvider, error) {
	if cfg.APIToken == "" {
		return nil, errors.New("workersai: api token is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.AccountID == "" {
			return nil, errors.New("workersai: account id is required")
		}
		baseURL = fmt.Sprintf(workersAIBaseURL, cfg.AccountID)
	}
	p := newChatProvider(cfg.APIToken, baseURL, resolveModel(cfg.Model, workersAIModels), opts)
	return &WorkersAIProvider{OpenAIProvider: p}, nil
}

// OpenRouterProvider routes to any model OpenRouter hosts. Model ids are
// passed through unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig, opts ...ClientOption) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	return &OpenRouterProvider{OpenAIProvider: newChatProvider(cfg.APIKey, baseURL, cfg.Model, opts)}, nil
}

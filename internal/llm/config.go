package llm

import "fmt"

// Backend names accepted in Config.Provider.
const (
	BackendWorkersAI  = "workersai"
	BackendOpenAI     = "openai"
	BackendOpenRouter = "openrouter"
	BackendAnthropic  = "anthropic"
	BackendGemini     = "gemini"
	BackendMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which backend to use.
	// Values: "workersai", "openai", "openrouter", "anthropic", "gemini", "mock"
	Provider string `mapstructure:"provider"`

	WorkersAI  WorkersAIConfig  `mapstructure:"workersai"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`

	// Trace wraps the HTTP transport of OpenAI-compatible backends with
	// OpenTelemetry client spans.
	Trace bool `mapstructure:"trace"`
}

// WorkersAIConfig holds Cloudflare Workers AI configuration.
type WorkersAIConfig struct {
	APIToken  string `mapstructure:"api_token"`
	AccountID string `mapstructure:"account_id"`
	Model     string `mapstructure:"model"`    // Default: "llama-4-scout"
	BaseURL   string `mapstructure:"base_url"` // Optional. Derived from AccountID when empty.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `mapstructure:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`    // Default: "meta-llama/llama-4-scout"
	BaseURL string `mapstructure:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: BackendWorkersAI,
		WorkersAI: WorkersAIConfig{
			Model: "llama-4-scout",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "meta-llama/llama-4-scout",
		},
	}
}

// Validate checks that the selected provider has its required credentials.
func (c Config) Validate() error {
	switch c.Provider {
	case BackendWorkersAI:
		if c.WorkersAI.APIToken == "" {
			return fmt.Errorf("CLOUDFLARE_API_TOKEN is required for the workersai provider")
		}
		if c.WorkersAI.AccountID == "" && c.WorkersAI.BaseURL == "" {
			return fmt.Errorf("CLOUDFLARE_ACCOUNT_ID is required for the workersai provider")
		}
	case BackendAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case BackendGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case BackendOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case BackendMock:
		// No credentials needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

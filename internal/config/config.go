package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/framequiz/internal/llm"
	"github.com/abhisek/framequiz/internal/quiz"
)

// EnvPrefix is prepended to every environment variable viper reads.
const EnvPrefix = "FRAMEQUIZ"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env    string       `mapstructure:"env"` // local, development, production
	Server ServerConfig `mapstructure:"server"`
	LLM    llm.Config   `mapstructure:"llm"`
	Quiz   QuizConfig   `mapstructure:"quiz"`
	Store  StoreConfig  `mapstructure:"store"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // drain period on SIGINT/SIGTERM
}

// QuizConfig configures question generation.
type QuizConfig struct {
	MaxAttempts      int           `mapstructure:"max_attempts"`
	Temperature      float64       `mapstructure:"temperature"`
	AttemptTimeout   time.Duration `mapstructure:"attempt_timeout"`
	Backoff          time.Duration `mapstructure:"backoff"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	CatalogPath      string        `mapstructure:"catalog_path"` // empty = built-in catalog
	StructuredOutput bool          `mapstructure:"structured_output"`
}

// StoreConfig configures the LLM request event log.
type StoreConfig struct {
	Path string `mapstructure:"path"` // empty disables the log
}

// Generator converts the quiz section into generator settings.
func (q QuizConfig) Generator() quiz.Config {
	return quiz.Config{
		MaxAttempts:      q.MaxAttempts,
		Temperature:      q.Temperature,
		MaxTokens:        q.MaxTokens,
		AttemptTimeout:   q.AttemptTimeout,
		Backoff:          q.Backoff,
		StructuredOutput: q.StructuredOutput,
	}
}

// IsDevelopment reports whether the environment asks for developer-friendly
// output.
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Env) {
	case "local", "dev", "development":
		return true
	}
	return false
}

// Validate checks the loaded values for consistency.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}
	if c.Quiz.MaxAttempts < 1 {
		return fmt.Errorf("quiz.max_attempts must be at least 1, got %d", c.Quiz.MaxAttempts)
	}
	if c.Quiz.AttemptTimeout < 0 || c.Quiz.Backoff < 0 {
		return errors.New("quiz durations must not be negative")
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

// vendorEnv lists the conventional variable names each credential falls
// back to when the prefixed variable is unset.
var vendorEnv = map[string]string{
	"llm.workersai.api_token":  "CLOUDFLARE_API_TOKEN",
	"llm.workersai.account_id": "CLOUDFLARE_ACCOUNT_ID",
	"llm.openai.api_key":       "OPENAI_API_KEY",
	"llm.anthropic.api_key":    "ANTHROPIC_API_KEY",
	"llm.gemini.api_key":       "GEMINI_API_KEY",
	"llm.openrouter.api_key":   "OPENROUTER_API_KEY",
}

// Load reads configuration from an optional .env file, an optional YAML
// config file and the environment, in increasing order of precedence.
// configFile overrides the default ./config/config.yaml lookup; unlike the
// default, an explicit file must exist.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	// Map nested keys to env style names, e.g. quiz.max_attempts ->
	// FRAMEQUIZ_QUIZ_MAX_ATTEMPTS.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, vendor := range vendorEnv {
		_ = v.BindEnv(key, envKey(key), vendor)
	}

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// envKey returns the prefixed environment variable name for a config key.
func envKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	quizDefaults := quiz.DefaultConfig()

	v.SetDefault("env", "production")

	v.SetDefault("server.addr", ":8787")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("llm.provider", llmDefaults.Provider)
	v.SetDefault("llm.trace", false)
	v.SetDefault("llm.workersai.api_token", "")
	v.SetDefault("llm.workersai.account_id", "")
	v.SetDefault("llm.workersai.model", llmDefaults.WorkersAI.Model)
	v.SetDefault("llm.workersai.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)

	v.SetDefault("quiz.max_attempts", quizDefaults.MaxAttempts)
	v.SetDefault("quiz.temperature", quizDefaults.Temperature)
	v.SetDefault("quiz.attempt_timeout", quizDefaults.AttemptTimeout.String())
	v.SetDefault("quiz.backoff", "0s")
	v.SetDefault("quiz.max_tokens", quizDefaults.MaxTokens)
	v.SetDefault("quiz.catalog_path", "")
	v.SetDefault("quiz.structured_output", false)

	v.SetDefault("store.path", "")
}

// Package config loads the service configuration from a TOML file, layering
// file values over built-in defaults and environment variables over the file
// for secrets. API keys are accepted from the file but the environment wins,
// so deployments can keep credentials out of config files entirely.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full service configuration tree.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	LLM       LLMConfig       `toml:"llm"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Storage   StorageConfig   `toml:"storage"`
	Chat      ChatConfig      `toml:"chat"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     duration `toml:"read_timeout"`
	WriteTimeout    duration `toml:"write_timeout"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`

	// ChatRateLimit caps generation-backed requests per ChatRateWindow.
	// Zero disables the limit.
	ChatRateLimit  int      `toml:"chat_rate_limit"`
	ChatRateWindow duration `toml:"chat_rate_window"`
}

// LLMConfig selects the chat-completion provider used for weight generation
// and narrative analysis.
type LLMConfig struct {
	Provider     string   `toml:"provider"`
	Model        string   `toml:"model"`
	MaxTokens    int      `toml:"max_tokens"`
	Timeout      duration `toml:"timeout"`
	OpenAIKey    string   `toml:"openai_api_key"`
	AnthropicKey string   `toml:"anthropic_api_key"`
	GoogleKey    string   `toml:"google_api_key"`
}

// EmbeddingConfig selects the embedding provider.
type EmbeddingConfig struct {
	Provider  string   `toml:"provider"`
	Model     string   `toml:"model"`
	Dimension int      `toml:"dimension"`
	BaseURL   string   `toml:"base_url"`
	Timeout   duration `toml:"timeout"`
}

// StorageConfig locates the on-disk stores. VectorInMemory switches the
// vector store to a non-persistent backend, mainly for tests and demos.
type StorageConfig struct {
	DatabasePath   string `toml:"database_path"`
	VectorPath     string `toml:"vector_path"`
	VectorInMemory bool   `toml:"vector_in_memory"`
	CatalogPath    string `toml:"catalog_path"`
}

// ChatConfig tunes the conversational ranking pipeline.
type ChatConfig struct {
	RetrievalTopK int `toml:"retrieval_top_k"`
	AnalysisTopN  int `toml:"analysis_top_n"`
}

// LoggingConfig controls log output format and verbosity.
type LoggingConfig struct {
	JSON  bool `toml:"json"`
	Debug bool `toml:"debug"`
}

// duration lets TOML carry values like "30s" directly into time.Duration
// fields.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     duration{30 * time.Second},
			WriteTimeout:    duration{120 * time.Second},
			ShutdownTimeout: duration{10 * time.Second},
			ChatRateLimit:   60,
			ChatRateWindow:  duration{time.Minute},
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			MaxTokens: 1024,
			Timeout:   duration{30 * time.Second},
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "nomic-embed-text",
			Dimension: 768,
			BaseURL:   "http://localhost:11434",
			Timeout:   duration{30 * time.Second},
		},
		Storage: StorageConfig{
			DatabasePath: "data/talentsift.db",
			VectorPath:   "data/vectors",
			CatalogPath:  "data/catalog.bleve",
		},
		Chat: ChatConfig{
			RetrievalTopK: 100,
			AnalysisTopN:  10,
		},
		Logging: LoggingConfig{
			JSON:  false,
			Debug: false,
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path skips
// the file and returns the defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays credential environment variables; the environment takes
// precedence over file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.OpenAIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.LLM.AnthropicKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.LLM.GoogleKey = v
	}
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic", "google", "mock":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Embedding.Provider {
	case "openai", "ollama", "mock":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Chat.RetrievalTopK <= 0 {
		return fmt.Errorf("retrieval_top_k must be positive, got %d", c.Chat.RetrievalTopK)
	}
	if c.Chat.AnalysisTopN <= 0 {
		return fmt.Errorf("analysis_top_n must be positive, got %d", c.Chat.AnalysisTopN)
	}
	if c.Server.ChatRateLimit < 0 {
		return fmt.Errorf("chat_rate_limit must not be negative, got %d", c.Server.ChatRateLimit)
	}
	return nil
}

// APIKey returns the credential for the configured LLM provider.
func (c *LLMConfig) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIKey
	case "anthropic":
		return c.AnthropicKey
	case "google":
		return c.GoogleKey
	}
	return ""
}

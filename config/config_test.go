package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("Addr = %q, want :8000", cfg.Server.Addr)
	}
	if cfg.Chat.RetrievalTopK != 100 {
		t.Errorf("RetrievalTopK = %d, want 100", cfg.Chat.RetrievalTopK)
	}
	if cfg.Chat.AnalysisTopN != 10 {
		t.Errorf("AnalysisTopN = %d, want 10", cfg.Chat.AnalysisTopN)
	}
	if cfg.LLM.Timeout.Duration != 30*time.Second {
		t.Errorf("LLM timeout = %v, want 30s", cfg.LLM.Timeout.Duration)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"
read_timeout = "5s"

[llm]
provider = "anthropic"
model = "claude-sonnet-4-20250514"
timeout = "45s"

[chat]
retrieval_top_k = 50
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout.Duration)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", cfg.LLM.Provider)
	}
	if cfg.LLM.Timeout.Duration != 45*time.Second {
		t.Errorf("LLM timeout = %v, want 45s", cfg.LLM.Timeout.Duration)
	}
	if cfg.Chat.RetrievalTopK != 50 {
		t.Errorf("RetrievalTopK = %d, want 50", cfg.Chat.RetrievalTopK)
	}
	// Untouched sections keep their defaults.
	if cfg.Chat.AnalysisTopN != 10 {
		t.Errorf("AnalysisTopN = %d, want default 10", cfg.Chat.AnalysisTopN)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[server]
adress = ":9000"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad llm provider", "[llm]\nprovider = \"cohere\"\n"},
		{"bad embedding provider", "[embedding]\nprovider = \"hf\"\n"},
		{"zero dimension", "[embedding]\ndimension = 0\n"},
		{"zero top k", "[chat]\nretrieval_top_k = 0\n"},
		{"zero analysis n", "[chat]\nanalysis_top_n = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[llm]
openai_api_key = "from-file"
`)
	t.Setenv("OPENAI_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.OpenAIKey != "from-env" {
		t.Errorf("OpenAIKey = %q, want from-env", cfg.LLM.OpenAIKey)
	}
}

func TestAPIKeySelection(t *testing.T) {
	llm := LLMConfig{
		OpenAIKey:    "oa",
		AnthropicKey: "an",
		GoogleKey:    "go",
	}

	tests := []struct {
		provider string
		want     string
	}{
		{"openai", "oa"},
		{"anthropic", "an"},
		{"google", "go"},
		{"mock", ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			llm.Provider = tt.provider
			if got := llm.APIKey(); got != tt.want {
				t.Errorf("APIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

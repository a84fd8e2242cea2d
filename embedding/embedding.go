// Package embedding produces vector representations of text for semantic
// retrieval and per-aspect scoring. Providers share a single interface;
// selection happens through NewProvider from configuration.
package embedding

import (
	"context"
	"fmt"
)

// Provider generates embeddings for batches of text. Implementations return
// one vector per input text, in input order.
type Provider interface {
	// Embed returns embeddings for the given texts. The result is aligned
	// with the input: result[i] embeds texts[i].
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension reports the vector length this provider produces.
	Dimension() int
}

// Config selects and tunes an embedding provider.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	Dimension int
}

// NewProvider constructs the configured provider. Supported providers are
// "openai", "ollama", and "mock".
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg), nil
	case "ollama":
		return NewOllama(cfg), nil
	case "mock":
		dim := cfg.Dimension
		if dim == 0 {
			dim = 768
		}
		return NewMock(dim), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// EmbedEach embeds texts one at a time, substituting a zero vector of the
// provider's dimension for any text that fails. A zero vector scores 0.0
// against every query, so a single failed aspect degrades that aspect's
// score instead of failing the whole document.
func EmbedEach(ctx context.Context, p Provider, texts []string) [][]float32 {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vecs, err := p.Embed(ctx, []string{text})
		if err != nil || len(vecs) == 0 || len(vecs[0]) == 0 {
			results[i] = make([]float32, p.Dimension())
			continue
		}
		results[i] = vecs[0]
	}
	return results
}

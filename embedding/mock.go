package embedding

import "context"

// Mock is a deterministic in-process provider for tests. Vectors are derived
// from the text bytes, so equal texts embed identically and similar prefixes
// land near each other.
type Mock struct {
	dimension int

	// FailOn, when set, makes Embed return this error for matching texts.
	FailOn map[string]error
}

// NewMock creates a mock provider with the given dimension.
func NewMock(dimension int) *Mock {
	return &Mock{dimension: dimension}
}

// Embed returns deterministic vectors keyed off the text contents.
func (e *Mock) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		if err, ok := e.FailOn[text]; ok {
			return nil, err
		}
		vec := make([]float32, e.dimension)
		for j := 0; j < e.dimension && j < len(text); j++ {
			vec[j] = float32(text[j]) / 256.0
		}
		results[i] = vec
	}
	return results, nil
}

// Dimension returns the embedding dimension.
func (e *Mock) Dimension() int {
	return e.dimension
}

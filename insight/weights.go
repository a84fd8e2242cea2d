package insight

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/llm"
	"github.com/talentsift/talentsift/rank"
)

// WeightsResult carries a normalized weight mapping over the common aspect
// set plus the model's (or the fallback's) reasoning.
type WeightsResult struct {
	Weights   map[string]float64 `json:"weights"`
	Reasoning string             `json:"reasoning"`
}

// WeightsGenerator produces aspect weights for a job description and user
// query via an LLM.
type WeightsGenerator struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewWeightsGenerator creates a weights generator.
func NewWeightsGenerator(provider llm.Provider, logger *zap.Logger) *WeightsGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeightsGenerator{provider: provider, logger: logger}
}

const weightsSystemPrompt = `You are an expert recruiter assigning importance weights to candidate evaluation aspects.
Given a job description, a user's question, and the list of aspects shared by all candidates,
assign each aspect a weight between 0.0 and 1.0 reflecting its importance for this query.
The weights must sum to 1.0.

Respond with a JSON object of this exact shape and nothing else:
{"weights": {"<aspect>": <weight>, ...}, "reasoning": "<brief explanation of why these weights were chosen>"}`

// rawWeights is the shape the model is asked to produce.
type rawWeights struct {
	Weights   map[string]float64 `json:"weights"`
	Reasoning string             `json:"reasoning"`
}

// Generate asks the LLM for aspect weights and normalizes them over the
// common aspect set. It never returns an error: a failed call falls back to
// equal weights with a generation-error rationale, unparseable output to
// equal weights with a parsing-error rationale.
func (g *WeightsGenerator) Generate(ctx context.Context, jobDescription, userQuery string, commonAspects []string) WeightsResult {
	prompt := fmt.Sprintf("Job Description:\n%s\n\nUser Query:\n%s\n\nCommon Aspects:\n%s",
		jobDescription, userQuery, strings.Join(commonAspects, ", "))

	resp, err := g.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			llm.SystemMessage(weightsSystemPrompt),
			llm.UserMessage(prompt),
		},
	})
	if err != nil {
		g.logger.Warn("aspect weight generation failed", zap.Error(err))
		return WeightsResult{
			Weights:   rank.EqualWeights(commonAspects),
			Reasoning: "Used equal weights due to generation error.",
		}
	}

	var raw rawWeights
	if err := unmarshalLenient(resp.Content, &raw); err != nil || len(raw.Weights) == 0 {
		g.logger.Warn("aspect weight output unparseable", zap.Error(err))
		return WeightsResult{
			Weights:   rank.EqualWeights(commonAspects),
			Reasoning: "Used equal weights due to parsing error.",
		}
	}

	weights, fellBack := rank.NormalizeWeights(raw.Weights, commonAspects)
	result := WeightsResult{Weights: weights, Reasoning: raw.Reasoning}
	if fellBack {
		result.Reasoning = "Used equal weights due to parsing error."
	}
	return result
}

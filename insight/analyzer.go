package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/llm"
	"github.com/talentsift/talentsift/logging"
	"github.com/talentsift/talentsift/rank"
)

// Analysis is the narrative portion of a chat response.
type Analysis struct {
	Analysis        string `json:"analysis"`
	Recommendations string `json:"recommendations"`
	KeyInsights     string `json:"key_insights"`
}

// FallbackAnalysis is returned whenever the LLM call or its output fails;
// the chat turn still completes with ranked candidates.
func FallbackAnalysis() Analysis {
	return Analysis{
		Analysis:        "Unable to perform detailed analysis due to processing error.",
		Recommendations: "Please review candidates manually.",
		KeyInsights:     "Analysis temporarily unavailable.",
	}
}

// Analyzer produces narrative candidate-pool analysis via an LLM.
type Analyzer struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(provider llm.Provider, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{provider: provider, logger: logger}
}

const analysisSystemPrompt = `You are an expert recruiter providing comprehensive CV analysis and recommendations
based on a user's question and re-ranked candidate data. Focus on practical insights and actionable recommendations.

Respond with a JSON object of this exact shape and nothing else:
{"analysis": "<detailed analysis answering the user's query>",
 "recommendations": "<specific recommendations for candidate selection or hiring process>",
 "key_insights": "<3-5 key insights about the candidate pool>"}`

// Analyze asks the LLM to narrate the top candidates against the user's
// query. It never returns an error; any failure degrades to
// FallbackAnalysis.
func (a *Analyzer) Analyze(ctx context.Context, userQuery, jobDescription string, top []rank.RankedCandidate, weights map[string]float64) Analysis {
	weightsJSON, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		weightsJSON = []byte("{}")
	}

	prompt := fmt.Sprintf("User Query:\n%s\n\nJob Description:\n%s\n\nTop Candidates:\n%s\n\nAspect Weights:\n%s",
		userQuery, jobDescription, formatCandidates(top), string(weightsJSON))

	resp, err := a.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			llm.SystemMessage(analysisSystemPrompt),
			llm.UserMessage(prompt),
		},
	})
	if err != nil {
		a.logger.Warn("candidate analysis failed", zap.Error(err))
		return FallbackAnalysis()
	}

	var analysis Analysis
	if err := unmarshalLenient(resp.Content, &analysis); err != nil || analysis.Analysis == "" {
		a.logger.Warn("candidate analysis output unparseable", zap.Error(err))
		return FallbackAnalysis()
	}
	return analysis
}

// formatCandidates renders the top candidates as a compact text block: name,
// title, weighted score, the five highest-scoring aspect names, and a
// 200-character summary excerpt each. The rendering is deterministic so
// identical requests produce identical prompts.
func formatCandidates(top []rank.RankedCandidate) string {
	var b strings.Builder
	for i, c := range top {
		aspects := make([]string, 0, len(c.AspectScores))
		for aspect := range c.AspectScores {
			aspects = append(aspects, aspect)
		}
		sort.Slice(aspects, func(i, j int) bool {
			si, sj := c.AspectScores[aspects[i]], c.AspectScores[aspects[j]]
			if si != sj {
				return si > sj
			}
			return aspects[i] < aspects[j]
		})
		if len(aspects) > 5 {
			aspects = aspects[:5]
		}

		fmt.Fprintf(&b, "Candidate %d: %s\nTitle: %s\nWeighted Score: %.3f\nTop Aspects: %s\nSummary: %s\n\n",
			i+1, c.Name, c.Title, c.WeightedScore, strings.Join(aspects, ", "), logging.Truncate(c.FullText, 200))
	}
	return strings.TrimRight(b.String(), "\n")
}

package service

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/errors"
	"github.com/talentsift/talentsift/insight"
	"github.com/talentsift/talentsift/logging"
	"github.com/talentsift/talentsift/rank"
	"github.com/talentsift/talentsift/store"
)

// State names one stage of the chat pipeline. Each stage's output is the
// required input for the next; the terminal failure states are NotFound and
// InternalError, everything else degrades in place (a failed weight or
// narrative generation falls back to deterministic defaults rather than
// aborting).
type State string

const (
	StateReceived            State = "RECEIVED"
	StateJobResolved         State = "JOB_RESOLVED"
	StateAspectsResolved     State = "ASPECTS_RESOLVED"
	StateWeightsGenerated    State = "WEIGHTS_GENERATED"
	StateCandidatesRetrieved State = "CANDIDATES_RETRIEVED"
	StateReranked            State = "RE-RANKED"
	StateAnalyzed            State = "ANALYZED"
	StateResponded           State = "RESPONDED"
	StateNotFound            State = "NOT_FOUND"
	StateInternalError       State = "INTERNAL_ERROR"
)

// defaultPreviewQuery stands in when a weights preview is requested without
// a query.
const defaultPreviewQuery = "general analysis"

// ChatResult is the full answer to a conversational ranking query.
type ChatResult struct {
	Analysis        string                 `json:"analysis"`
	Recommendations string                 `json:"recommendations"`
	KeyInsights     string                 `json:"key_insights"`
	AspectWeights   map[string]float64     `json:"aspect_weights"`
	Reasoning       string                 `json:"reasoning"`
	TopCandidates   []rank.RankedCandidate `json:"top_candidates"`
	QueryProcessed  string                 `json:"query_processed"`
	JobTitle        string                 `json:"job_title"`
}

// WeightsPreview shows the aspect weights a query would produce, without
// re-ranking or narrative generation.
type WeightsPreview struct {
	JobID         string             `json:"job_id"`
	Query         string             `json:"query"`
	AspectWeights map[string]float64 `json:"aspect_weights"`
	Reasoning     string             `json:"reasoning"`
	TotalAspects  int                `json:"total_aspects"`
}

// ChatOptions tunes the chat pipeline.
type ChatOptions struct {
	// AnalysisTopN is how many re-ranked candidates the narrative analysis
	// covers. Defaults to 10.
	AnalysisTopN int

	// LLMTimeout bounds each generation call. Defaults to 30s.
	LLMTimeout time.Duration
}

// ChatService runs the conversational ranking pipeline: resolve the job and
// its common aspects, generate query-specific aspect weights, re-rank the
// cached candidate pool, and produce a narrative analysis of the leaders.
type ChatService struct {
	db       *store.DB
	weights  *insight.WeightsGenerator
	analyzer *insight.Analyzer
	logger   *zap.Logger

	topN       int
	llmTimeout time.Duration
}

// NewChatService wires a chat service from its collaborators.
func NewChatService(db *store.DB, weights *insight.WeightsGenerator, analyzer *insight.Analyzer, opts ChatOptions, logger *zap.Logger) *ChatService {
	if opts.AnalysisTopN <= 0 {
		opts.AnalysisTopN = 10
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		db:         db,
		weights:    weights,
		analyzer:   analyzer,
		logger:     logger,
		topN:       opts.AnalysisTopN,
		llmTimeout: opts.LLMTimeout,
	}
}

// Chat answers a recruiter query about a job's candidate pool. The pool must
// already exist (candidates are generated by CandidateService.Get); a job
// with no generated candidates yields a NOT_FOUND error.
func (s *ChatService) Chat(ctx context.Context, jobID, query string) (*ChatResult, error) {
	logger := logging.WithJob(s.logger, jobID).With(zap.String(logging.FieldQuery, query))
	s.transition(logger, StateReceived)

	job, common, err := s.resolve(ctx, logger, jobID)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	weights := s.weights.Generate(genCtx, job.Description, query, common.Aspects)
	cancel()
	s.transition(logger, StateWeightsGenerated)

	pool, err := s.db.Candidates.ListByJob(ctx, jobID)
	if err != nil {
		s.transition(logger, StateInternalError)
		return nil, errors.Persistence("loading candidates failed", errors.WithCause(err))
	}
	if len(pool) == 0 {
		s.transition(logger, StateNotFound)
		return nil, errors.NotFound("no candidates found for this job", errors.WithMetadata("job_id", jobID))
	}
	s.transition(logger, StateCandidatesRetrieved)

	ranked := rank.Rerank(pool, weights.Weights)
	s.transition(logger, StateReranked)

	top := ranked
	if len(top) > s.topN {
		top = top[:s.topN]
	}

	anaCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	analysis := s.analyzer.Analyze(anaCtx, query, job.Description, top, weights.Weights)
	cancel()
	s.transition(logger, StateAnalyzed)

	s.transition(logger, StateResponded)
	return &ChatResult{
		Analysis:        analysis.Analysis,
		Recommendations: analysis.Recommendations,
		KeyInsights:     analysis.KeyInsights,
		AspectWeights:   weights.Weights,
		Reasoning:       weights.Reasoning,
		TopCandidates:   top,
		QueryProcessed:  query,
		JobTitle:        job.Title,
	}, nil
}

// PreviewWeights runs only the weight-generation stage, for introspection.
// An empty query defaults to a general analysis request.
func (s *ChatService) PreviewWeights(ctx context.Context, jobID, query string) (*WeightsPreview, error) {
	if query == "" {
		query = defaultPreviewQuery
	}
	logger := logging.WithJob(s.logger, jobID).With(zap.String(logging.FieldQuery, query))
	s.transition(logger, StateReceived)

	job, common, err := s.resolve(ctx, logger, jobID)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	weights := s.weights.Generate(genCtx, job.Description, query, common.Aspects)
	cancel()
	s.transition(logger, StateWeightsGenerated)

	return &WeightsPreview{
		JobID:         jobID,
		Query:         query,
		AspectWeights: weights.Weights,
		Reasoning:     weights.Reasoning,
		TotalAspects:  len(common.Aspects),
	}, nil
}

// resolve loads the job and its common-aspect set, covering the RECEIVED →
// ASPECTS_RESOLVED stages shared by Chat and PreviewWeights.
func (s *ChatService) resolve(ctx context.Context, logger *zap.Logger, jobID string) (*store.Job, store.CommonAspects, error) {
	job, err := s.db.Jobs.Get(ctx, jobID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			s.transition(logger, StateNotFound)
			return nil, store.CommonAspects{}, errors.NotFound("job not found", errors.WithMetadata("job_id", jobID))
		}
		s.transition(logger, StateInternalError)
		return nil, store.CommonAspects{}, errors.Persistence("loading job failed", errors.WithCause(err))
	}
	s.transition(logger, StateJobResolved)

	common, err := s.db.CommonAspects.Get(ctx, jobID)
	if err != nil {
		s.transition(logger, StateInternalError)
		return nil, store.CommonAspects{}, errors.Persistence("loading common aspects failed", errors.WithCause(err))
	}
	if len(common.Aspects) == 0 {
		s.transition(logger, StateNotFound)
		return nil, store.CommonAspects{}, errors.NotFound("no common aspects found, generate candidates first", errors.WithMetadata("job_id", jobID))
	}
	s.transition(logger, StateAspectsResolved)

	return job, common, nil
}

func (s *ChatService) transition(logger *zap.Logger, state State) {
	logger.Debug("pipeline state", zap.String(logging.FieldState, string(state)))
}

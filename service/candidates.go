package service

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentsift/talentsift/embedding"
	"github.com/talentsift/talentsift/errors"
	"github.com/talentsift/talentsift/logging"
	"github.com/talentsift/talentsift/rank"
	"github.com/talentsift/talentsift/resume"
	"github.com/talentsift/talentsift/store"
	"github.com/talentsift/talentsift/vectorstore"
)

// Stored candidate summaries keep at most this many characters of resume
// text; longer text is truncated with an ellipsis.
const fullTextLimit = 500

// CandidatePool is the full candidate view for one job: every scored
// candidate ordered by overall similarity plus the aspect set they all share.
type CandidatePool struct {
	JobID         string              `json:"job_id"`
	JobTitle      string              `json:"job_title"`
	Candidates    []rank.Candidate    `json:"individual_candidates"`
	CommonAspects store.CommonAspects `json:"common_aspects"`
}

// CandidateOptions tunes candidate pool population.
type CandidateOptions struct {
	// RetrievalTopK is how many resumes the vector search returns for a
	// job description. Defaults to 100.
	RetrievalTopK int

	// EmbedTimeout bounds each embedding call. Defaults to 30s.
	EmbedTimeout time.Duration
}

// CandidateService retrieves the candidate pool for a job, generating and
// caching it on first access.
type CandidateService struct {
	db       *store.DB
	vectors  *vectorstore.Store
	embedder embedding.Provider
	logger   *zap.Logger

	topK         int
	embedTimeout time.Duration

	// Per-job locks give an at-most-once population guarantee: two
	// concurrent cache misses for the same job must not both insert rows.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCandidateService wires a candidate service from its collaborators.
func NewCandidateService(db *store.DB, vectors *vectorstore.Store, embedder embedding.Provider, opts CandidateOptions, logger *zap.Logger) *CandidateService {
	if opts.RetrievalTopK <= 0 {
		opts.RetrievalTopK = 100
	}
	if opts.EmbedTimeout <= 0 {
		opts.EmbedTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateService{
		db:           db,
		vectors:      vectors,
		embedder:     embedder,
		logger:       logger,
		topK:         opts.RetrievalTopK,
		embedTimeout: opts.EmbedTimeout,
		locks:        map[string]*sync.Mutex{},
	}
}

// Get returns the candidate pool for jobID, populating it from the vector
// store on first access. Returns a NOT_FOUND error when the job does not
// exist.
func (s *CandidateService) Get(ctx context.Context, jobID string) (*CandidatePool, error) {
	job, err := s.db.Jobs.Get(ctx, jobID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("job not found", errors.WithMetadata("job_id", jobID))
		}
		return nil, errors.Persistence("loading job failed", errors.WithCause(err))
	}

	pool, err := s.cachedPool(ctx, job)
	if err != nil || pool != nil {
		return pool, err
	}

	lock := s.lockFor(jobID)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have populated the pool while we waited.
	pool, err = s.cachedPool(ctx, job)
	if err != nil || pool != nil {
		return pool, err
	}
	return s.populate(ctx, job)
}

// Delete removes the cached candidate pool and its common-aspect set.
// Idempotent: deleting an empty pool reports false instead of erroring.
func (s *CandidateService) Delete(ctx context.Context, jobID string) (bool, error) {
	deleted, err := s.db.DeletePool(ctx, jobID)
	if err != nil {
		return false, errors.Persistence("deleting candidate pool failed", errors.WithCause(err))
	}
	logging.WithJob(s.logger, jobID).Info("deleted candidate pool", zap.Bool("had_candidates", deleted))
	return deleted, nil
}

// cachedPool returns the stored pool for job, or nil when no candidates have
// been generated yet.
func (s *CandidateService) cachedPool(ctx context.Context, job *store.Job) (*CandidatePool, error) {
	candidates, err := s.db.Candidates.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, errors.Persistence("loading candidates failed", errors.WithCause(err))
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	common, err := s.db.CommonAspects.Get(ctx, job.ID)
	if err != nil {
		return nil, errors.Persistence("loading common aspects failed", errors.WithCause(err))
	}
	return &CandidatePool{
		JobID:         job.ID,
		JobTitle:      job.Title,
		Candidates:    candidates,
		CommonAspects: common,
	}, nil
}

// populate embeds the job description, retrieves the nearest resumes, scores
// them per aspect, and persists the resulting pool. Caller holds the job
// lock.
func (s *CandidateService) populate(ctx context.Context, job *store.Job) (*CandidatePool, error) {
	logger := logging.WithJob(s.logger, job.ID)
	logger.Info("populating candidate pool", zap.Int("top_k", s.topK))

	jdVec, err := s.embedText(ctx, job.Description)
	if err != nil {
		return nil, err
	}

	hits, err := s.vectors.Search(ctx, jdVec, s.topK)
	if err != nil {
		return nil, errors.Upstream("vector search failed", errors.WithCause(err))
	}

	candidates := make([]rank.Candidate, 0, len(hits))
	for idx, hit := range hits {
		identity := resume.InferIdentity(hit.Aspects, idx+1)
		candidates = append(candidates, rank.Candidate{
			ID:                uuid.NewString(),
			Name:              identity.Name,
			Title:             identity.Title,
			OverallSimilarity: hit.Similarity,
			AspectScores:      rank.ScoreAspects(jdVec, hit.Aspects, hit.AspectVectors),
			FullText:          logging.Truncate(hit.FullText, fullTextLimit),
		})
	}

	common := rank.CommonAspects(candidates)
	if len(candidates) > 0 {
		if err := s.db.SavePool(ctx, job.ID, candidates, common); err != nil {
			return nil, errors.Persistence("storing candidate pool failed", errors.WithCause(err))
		}
	}

	logger.Info("candidate pool populated",
		zap.Int("candidates", len(candidates)),
		zap.Int("common_aspects", len(common)))

	return &CandidatePool{
		JobID:      job.ID,
		JobTitle:   job.Title,
		Candidates: candidates,
		CommonAspects: store.CommonAspects{
			JobID:           job.ID,
			Aspects:         common,
			TotalCandidates: len(candidates),
		},
	}, nil
}

// embedText embeds a single text under the configured timeout. Failure here
// is fatal to the request: without the query vector there is nothing to
// search with.
func (s *CandidateService) embedText(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	vecs, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Timeout("embedding timed out", errors.WithCause(err))
		}
		return nil, errors.Upstream("embedding failed", errors.WithCause(err))
	}
	if len(vecs) != 1 {
		return nil, errors.MalformedOutput("embedding provider returned wrong batch size")
	}
	return vecs[0], nil
}

func (s *CandidateService) lockFor(jobID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[jobID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[jobID] = lock
	}
	return lock
}

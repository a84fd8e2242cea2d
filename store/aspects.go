package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// CommonAspects is the cached intersection of aspect names across a job's
// candidate pool.
type CommonAspects struct {
	JobID           string   `json:"job_id"`
	Aspects         []string `json:"common_aspects"`
	TotalCandidates int      `json:"total_candidates"`
}

// CommonAspectsRepository is the data access layer for per-job common
// aspect sets.
type CommonAspectsRepository struct {
	db *sql.DB
}

// Put stores or replaces the common aspect set for a job.
func (r *CommonAspectsRepository) Put(ctx context.Context, jobID string, aspects []string, totalCandidates int) error {
	return putCommonAspects(ctx, r.db, jobID, aspects, totalCandidates)
}

func putCommonAspects(ctx context.Context, e execer, jobID string, aspects []string, totalCandidates int) error {
	if aspects == nil {
		aspects = []string{}
	}
	encoded, err := json.Marshal(aspects)
	if err != nil {
		return fmt.Errorf("store: encode common aspects: %w", err)
	}
	_, err = e.ExecContext(ctx, `
		INSERT OR REPLACE INTO common_aspects (job_id, common_aspects, total_candidates, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		jobID, string(encoded), totalCandidates)
	if err != nil {
		return fmt.Errorf("store: store common aspects: %w", err)
	}
	return nil
}

// Get returns the common aspect set for a job. A job with no stored set
// yields an empty set, not an error.
func (r *CommonAspectsRepository) Get(ctx context.Context, jobID string) (CommonAspects, error) {
	result := CommonAspects{JobID: jobID, Aspects: []string{}}

	var encoded string
	err := r.db.QueryRowContext(ctx, `
		SELECT common_aspects, total_candidates
		FROM common_aspects
		WHERE job_id = ?`, jobID).Scan(&encoded, &result.TotalCandidates)
	if errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("store: get common aspects: %w", err)
	}

	if err := json.Unmarshal([]byte(encoded), &result.Aspects); err != nil || result.Aspects == nil {
		result.Aspects = []string{}
	}
	return result, nil
}

// Delete removes a job's common aspect set and reports whether it existed.
func (r *CommonAspectsRepository) Delete(ctx context.Context, jobID string) (bool, error) {
	return deleteCommonAspects(ctx, r.db, jobID)
}

func deleteCommonAspects(ctx context.Context, e execer, jobID string) (bool, error) {
	res, err := e.ExecContext(ctx, "DELETE FROM common_aspects WHERE job_id = ?", jobID)
	if err != nil {
		return false, fmt.Errorf("store: delete common aspects: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: delete common aspects rowcount: %w", err)
	}
	return affected > 0, nil
}

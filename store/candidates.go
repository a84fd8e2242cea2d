package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/talentsift/talentsift/rank"
)

// CandidateRepository is the data access layer for per-job candidate pools.
type CandidateRepository struct {
	db *sql.DB
}

// InsertBatch stores a pool of candidates for a job in one transaction.
func (r *CandidateRepository) InsertBatch(ctx context.Context, jobID string, candidates []rank.Candidate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin candidate insert: %w", err)
	}
	defer tx.Rollback()

	if err := insertCandidates(ctx, tx, jobID, candidates); err != nil {
		return err
	}
	return tx.Commit()
}

func insertCandidates(ctx context.Context, e execer, jobID string, candidates []rank.Candidate) error {
	stmt, err := e.PrepareContext(ctx, `
		INSERT INTO candidates (candidate_id, job_id, name, title, scores, full_text, overall_similarity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare candidate insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candidates {
		scores, err := json.Marshal(c.AspectScores)
		if err != nil {
			return fmt.Errorf("store: encode scores for %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, jobID, c.Name, c.Title, string(scores), c.FullText, c.OverallSimilarity); err != nil {
			return fmt.Errorf("store: insert candidate %s: %w", c.ID, err)
		}
	}
	return nil
}

// ListByJob returns a job's candidates ordered by overall similarity
// descending, with candidate id breaking ties so the ordering is stable
// across reads. Candidate rows with unreadable score JSON degrade to an
// empty score mapping rather than failing the listing.
func (r *CandidateRepository) ListByJob(ctx context.Context, jobID string) ([]rank.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT candidate_id, name, title, scores, full_text, overall_similarity
		FROM candidates
		WHERE job_id = ?
		ORDER BY overall_similarity DESC, candidate_id ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("store: list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []rank.Candidate{}
	for rows.Next() {
		var c rank.Candidate
		var name, title, fullText sql.NullString
		var scores string
		var similarity sql.NullFloat64
		if err := rows.Scan(&c.ID, &name, &title, &scores, &fullText, &similarity); err != nil {
			return nil, fmt.Errorf("store: scan candidate: %w", err)
		}

		c.Name = name.String
		if c.Name == "" {
			c.Name = "Unknown"
		}
		c.Title = title.String
		if c.Title == "" {
			c.Title = "Unknown Position"
		}
		c.FullText = fullText.String
		c.OverallSimilarity = similarity.Float64

		if err := json.Unmarshal([]byte(scores), &c.AspectScores); err != nil || c.AspectScores == nil {
			c.AspectScores = map[string]float64{}
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// DeleteByJob removes a job's candidate pool and reports whether any rows
// existed.
func (r *CandidateRepository) DeleteByJob(ctx context.Context, jobID string) (bool, error) {
	return deleteCandidates(ctx, r.db, jobID)
}

func deleteCandidates(ctx context.Context, e execer, jobID string) (bool, error) {
	result, err := e.ExecContext(ctx, "DELETE FROM candidates WHERE job_id = ?", jobID)
	if err != nil {
		return false, fmt.Errorf("store: delete candidates: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: delete candidates rowcount: %w", err)
	}
	return affected > 0, nil
}

// CountByJob returns the number of stored candidates for a job.
func (r *CandidateRepository) CountByJob(ctx context.Context, jobID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM candidates WHERE job_id = ?", jobID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: count candidates: %w", err)
	}
	return count, nil
}

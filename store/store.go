// Package store is the relational layer: jobs, per-job candidate pools, and
// the common aspect set cached per job. It is backed by SQLite via the
// pure-Go driver, so deployments need no cgo and no external database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/talentsift/talentsift/rank"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// execer is the write surface shared by *sql.DB and *sql.Tx, so repository
// statements can run standalone or inside a pool transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// DB wraps the SQLite handle and exposes the repositories.
type DB struct {
	db *sql.DB

	Jobs          *JobRepository
	Candidates    *CandidateRepository
	CommonAspects *CommonAspectsRepository
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	job_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	post_time TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_jobs_post_time ON jobs(post_time);

CREATE TABLE IF NOT EXISTS candidates (
	candidate_id TEXT PRIMARY KEY,
	job_id TEXT NOT NULL,
	name TEXT,
	title TEXT,
	scores TEXT NOT NULL,
	full_text TEXT,
	overall_similarity REAL,
	created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (job_id) REFERENCES jobs(job_id)
);
CREATE INDEX IF NOT EXISTS idx_candidates_job_id ON candidates(job_id);

CREATE TABLE IF NOT EXISTS common_aspects (
	job_id TEXT PRIMARY KEY,
	common_aspects TEXT NOT NULL,
	total_candidates INTEGER DEFAULT 0,
	created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (job_id) REFERENCES jobs(job_id)
);
`

// Open opens the database at path, creating the schema and seeding sample
// jobs into an empty jobs table. Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// The driver serializes writes; a single connection avoids SQLITE_BUSY
	// under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	s := &DB{db: db}
	s.Jobs = &JobRepository{db: db}
	s.Candidates = &CandidateRepository{db: db}
	s.CommonAspects = &CommonAspectsRepository{db: db}

	if err := s.seedSampleJobs(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

// SavePool stores a job's candidates and their common aspect set in one
// transaction, so a failure cannot leave candidates without the aspect set
// the chat path depends on.
func (s *DB) SavePool(ctx context.Context, jobID string, candidates []rank.Candidate, aspects []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin pool save: %w", err)
	}
	defer tx.Rollback()

	if err := insertCandidates(ctx, tx, jobID, candidates); err != nil {
		return err
	}
	if err := putCommonAspects(ctx, tx, jobID, aspects, len(candidates)); err != nil {
		return err
	}
	return tx.Commit()
}

// DeletePool removes a job's candidates and common aspect set in one
// transaction, reporting whether any candidate rows existed.
func (s *DB) DeletePool(ctx context.Context, jobID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("store: begin pool delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := deleteCommonAspects(ctx, tx, jobID); err != nil {
		return false, err
	}
	deleted, err := deleteCandidates(ctx, tx, jobID)
	if err != nil {
		return false, err
	}
	return deleted, tx.Commit()
}

// seedSampleJobs inserts demonstration jobs when the jobs table is empty so
// a fresh deployment has something to browse.
func (s *DB) seedSampleJobs(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return fmt.Errorf("store: count jobs: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	samples := []Job{
		{
			ID:          uuid.NewString(),
			Title:       "Senior Python Developer",
			PostTime:    now,
			Description: "Looking for experienced Python developer with FastAPI knowledge",
		},
		{
			ID:          uuid.NewString(),
			Title:       "Data Scientist",
			PostTime:    now,
			Description: "Seeking data scientist with ML and AI expertise",
		},
	}
	for _, job := range samples {
		if err := s.Jobs.Create(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Job is one job posting.
type Job struct {
	ID          string    `json:"job_id"`
	Title       string    `json:"title"`
	PostTime    time.Time `json:"post_time"`
	Description string    `json:"desc"`
}

// JobRepository is the data access layer for jobs.
type JobRepository struct {
	db *sql.DB
}

// Create inserts a job.
func (r *JobRepository) Create(ctx context.Context, job Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jobs (job_id, title, post_time, description)
		VALUES (?, ?, ?, ?)`,
		job.ID, job.Title, job.PostTime.Format(time.RFC3339Nano), job.Description)
	if err != nil {
		return fmt.Errorf("store: insert job: %w", err)
	}
	return nil
}

// List returns all jobs, newest posting first.
func (r *JobRepository) List(ctx context.Context) ([]Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT job_id, title, post_time, description
		FROM jobs
		ORDER BY post_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Get returns the job with the given id, or ErrNotFound.
func (r *JobRepository) Get(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT job_id, title, post_time, description
		FROM jobs
		WHERE job_id = ?`, id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var postTime string
	if err := row.Scan(&job.ID, &job.Title, &postTime, &job.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, err
		}
		return Job{}, fmt.Errorf("store: scan job: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, postTime)
	if err != nil {
		return Job{}, fmt.Errorf("store: parse post_time %q: %w", postTime, err)
	}
	job.PostTime = parsed
	return job, nil
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/rank"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenSeedsSampleJobs(t *testing.T) {
	db := newTestDB(t)

	jobs, err := db.Jobs.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("len(jobs) = %d, want 2 seeded jobs", len(jobs))
	}

	titles := map[string]bool{}
	for _, j := range jobs {
		titles[j.Title] = true
	}
	if !titles["Senior Python Developer"] || !titles["Data Scientist"] {
		t.Errorf("seeded titles = %v", titles)
	}
}

func TestSeedingIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	jobs, err := db.Jobs.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 {
		t.Errorf("len(jobs) after reopen = %d, want 2", len(jobs))
	}
}

func TestJobsListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	older := Job{ID: uuid.NewString(), Title: "Older", PostTime: time.Now().Add(-time.Hour), Description: "d"}
	newer := Job{ID: uuid.NewString(), Title: "Newer", PostTime: time.Now().Add(time.Hour), Description: "d"}
	for _, j := range []Job{older, newer} {
		if err := db.Jobs.Create(ctx, j); err != nil {
			t.Fatal(err)
		}
	}

	jobs, err := db.Jobs.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if jobs[0].Title != "Newer" {
		t.Errorf("first job = %q, want Newer", jobs[0].Title)
	}
	if jobs[len(jobs)-1].Title != "Older" {
		t.Errorf("last job = %q, want Older", jobs[len(jobs)-1].Title)
	}
}

func TestJobsGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	job := Job{ID: uuid.NewString(), Title: "Backend Engineer", PostTime: time.Now(), Description: "Go services"}
	if err := db.Jobs.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	got, err := db.Jobs.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Title != "Backend Engineer" || got.Description != "Go services" {
		t.Errorf("got %+v", got)
	}

	if _, err := db.Jobs.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCandidatesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	jobID := uuid.NewString()
	if err := db.Jobs.Create(ctx, Job{ID: jobID, Title: "t", PostTime: time.Now(), Description: "d"}); err != nil {
		t.Fatal(err)
	}

	pool := []rank.Candidate{
		{ID: "c-low", Name: "Low", Title: "AI Engineer", OverallSimilarity: 0.3, AspectScores: map[string]float64{"Skill: Go": 0.3}, FullText: "low"},
		{ID: "c-high", Name: "High", Title: "Data Scientist", OverallSimilarity: 0.9, AspectScores: map[string]float64{"Skill: Go": 0.9}, FullText: "high"},
	}
	if err := db.Candidates.InsertBatch(ctx, jobID, pool); err != nil {
		t.Fatalf("InsertBatch() error: %v", err)
	}

	got, err := db.Candidates.ListByJob(ctx, jobID)
	if err != nil {
		t.Fatalf("ListByJob() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "c-high" || got[1].ID != "c-low" {
		t.Errorf("order = [%s %s], want similarity descending", got[0].ID, got[1].ID)
	}
	if got[0].AspectScores["Skill: Go"] != 0.9 {
		t.Errorf("scores did not round-trip: %v", got[0].AspectScores)
	}

	n, err := db.Candidates.CountByJob(ctx, jobID)
	if err != nil || n != 2 {
		t.Errorf("CountByJob() = %d, %v; want 2, nil", n, err)
	}
}

func TestCandidatesTieBreakByID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	jobID := uuid.NewString()

	pool := []rank.Candidate{
		{ID: "b", OverallSimilarity: 0.5, AspectScores: map[string]float64{}},
		{ID: "a", OverallSimilarity: 0.5, AspectScores: map[string]float64{}},
	}
	if err := db.Candidates.InsertBatch(ctx, jobID, pool); err != nil {
		t.Fatal(err)
	}

	got, err := db.Candidates.ListByJob(ctx, jobID)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("tie order = [%s %s], want [a b]", got[0].ID, got[1].ID)
	}
}

func TestCandidatesNullDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	jobID := uuid.NewString()

	pool := []rank.Candidate{{ID: "bare", OverallSimilarity: 0.1}}
	if err := db.Candidates.InsertBatch(ctx, jobID, pool); err != nil {
		t.Fatal(err)
	}

	got, err := db.Candidates.ListByJob(ctx, jobID)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Name != "Unknown" {
		t.Errorf("Name = %q, want Unknown", got[0].Name)
	}
	if got[0].Title != "Unknown Position" {
		t.Errorf("Title = %q, want Unknown Position", got[0].Title)
	}
	if got[0].AspectScores == nil {
		t.Error("AspectScores should default to an empty map")
	}
}

func TestCandidatesDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	jobID := uuid.NewString()

	if err := db.Candidates.InsertBatch(ctx, jobID, []rank.Candidate{{ID: "x", AspectScores: map[string]float64{}}}); err != nil {
		t.Fatal(err)
	}

	deleted, err := db.Candidates.DeleteByJob(ctx, jobID)
	if err != nil || !deleted {
		t.Errorf("DeleteByJob() = %v, %v; want true, nil", deleted, err)
	}

	deleted, err = db.Candidates.DeleteByJob(ctx, jobID)
	if err != nil || deleted {
		t.Errorf("second DeleteByJob() = %v, %v; want false, nil", deleted, err)
	}
}

func TestSavePool(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	jobID := uuid.NewString()

	pool := []rank.Candidate{
		{ID: "c1", Name: "A", AspectScores: map[string]float64{"Skill: Go": 0.9}},
		{ID: "c2", Name: "B", AspectScores: map[string]float64{"Skill: Go": 0.4}},
	}
	if err := db.SavePool(ctx, jobID, pool, []string{"Skill: Go"}); err != nil {
		t.Fatalf("SavePool() error: %v", err)
	}

	count, err := db.Candidates.CountByJob(ctx, jobID)
	if err != nil || count != 2 {
		t.Errorf("CountByJob() = %d, %v; want 2", count, err)
	}
	common, err := db.CommonAspects.Get(ctx, jobID)
	if err != nil {
		t.Fatal(err)
	}
	if len(common.Aspects) != 1 || common.TotalCandidates != 2 {
		t.Errorf("common aspects = %+v", common)
	}
}

func TestSavePoolRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	jobID := uuid.NewString()

	// The duplicate candidate id violates the primary key after the first
	// row is written, so the whole save must be undone.
	pool := []rank.Candidate{
		{ID: "dup", Name: "A", AspectScores: map[string]float64{}},
		{ID: "dup", Name: "B", AspectScores: map[string]float64{}},
	}
	if err := db.SavePool(ctx, jobID, pool, []string{"Skill: Go"}); err == nil {
		t.Fatal("SavePool() with duplicate ids should fail")
	}

	count, err := db.Candidates.CountByJob(ctx, jobID)
	if err != nil || count != 0 {
		t.Errorf("CountByJob() after rollback = %d, %v; want 0", count, err)
	}
	common, err := db.CommonAspects.Get(ctx, jobID)
	if err != nil {
		t.Fatal(err)
	}
	if len(common.Aspects) != 0 || common.TotalCandidates != 0 {
		t.Errorf("common aspects after rollback = %+v, want empty", common)
	}
}

func TestDeletePool(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	jobID := uuid.NewString()

	pool := []rank.Candidate{{ID: "c1", AspectScores: map[string]float64{}}}
	if err := db.SavePool(ctx, jobID, pool, []string{"a"}); err != nil {
		t.Fatal(err)
	}

	deleted, err := db.DeletePool(ctx, jobID)
	if err != nil || !deleted {
		t.Errorf("DeletePool() = %v, %v; want true, nil", deleted, err)
	}
	common, err := db.CommonAspects.Get(ctx, jobID)
	if err != nil {
		t.Fatal(err)
	}
	if len(common.Aspects) != 0 {
		t.Errorf("common aspects survived delete: %+v", common)
	}

	deleted, err = db.DeletePool(ctx, jobID)
	if err != nil || deleted {
		t.Errorf("second DeletePool() = %v, %v; want false, nil", deleted, err)
	}
}

func TestCommonAspectsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	jobID := uuid.NewString()

	if err := db.CommonAspects.Put(ctx, jobID, []string{"Skill: Go", "Skill: SQL"}, 7); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := db.CommonAspects.Get(ctx, jobID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(got.Aspects) != 2 || got.TotalCandidates != 7 {
		t.Errorf("got %+v", got)
	}

	// Replacement overwrites.
	if err := db.CommonAspects.Put(ctx, jobID, []string{"Skill: Go"}, 3); err != nil {
		t.Fatal(err)
	}
	got, err = db.CommonAspects.Get(ctx, jobID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Aspects) != 1 || got.TotalCandidates != 3 {
		t.Errorf("after replace: %+v", got)
	}
}

func TestCommonAspectsMissingJob(t *testing.T) {
	db := newTestDB(t)

	got, err := db.CommonAspects.Get(context.Background(), "no-such-job")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Aspects == nil || len(got.Aspects) != 0 || got.TotalCandidates != 0 {
		t.Errorf("got %+v, want empty set", got)
	}
}

func TestCommonAspectsDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	jobID := uuid.NewString()

	if err := db.CommonAspects.Put(ctx, jobID, []string{"a"}, 1); err != nil {
		t.Fatal(err)
	}
	deleted, err := db.CommonAspects.Delete(ctx, jobID)
	if err != nil || !deleted {
		t.Errorf("Delete() = %v, %v; want true, nil", deleted, err)
	}
	deleted, err = db.CommonAspects.Delete(ctx, jobID)
	if err != nil || deleted {
		t.Errorf("second Delete() = %v, %v; want false, nil", deleted, err)
	}
}

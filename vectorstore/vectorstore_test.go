package vectorstore

import (
	"context"
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := Document{
		ID:            "r1",
		FullText:      "Name: Dana | Skill: Go",
		FullVector:    []float32{1, 0},
		Aspects:       []string{"Name: Dana", "Skill: Go"},
		AspectVectors: [][]float32{{1, 0}, {0, 1}},
	}
	if err := s.Insert(ctx, doc); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	got, err := s.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.FullText != doc.FullText {
		t.Errorf("FullText = %q, want %q", got.FullText, doc.FullText)
	}
	if len(got.AspectVectors) != 2 || got.AspectVectors[1][1] != 1 {
		t.Errorf("AspectVectors = %v", got.AspectVectors)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestInsertRequiresID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Insert(context.Background(), Document{FullText: "x"}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docs := []Document{
		{ID: "aligned", FullVector: []float32{1, 0}},
		{ID: "diagonal", FullVector: []float32{1, 1}},
		{ID: "orthogonal", FullVector: []float32{0, 1}},
	}
	if err := s.InsertBatch(ctx, docs); err != nil {
		t.Fatalf("InsertBatch() error: %v", err)
	}

	hits, err := s.Search(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
	if hits[0].ID != "aligned" || hits[1].ID != "diagonal" {
		t.Errorf("order = [%s %s], want [aligned diagonal]", hits[0].ID, hits[1].ID)
	}
	if hits[0].Similarity < hits[1].Similarity {
		t.Error("hits not ordered by similarity descending")
	}
}

func TestSearchTieBreaksByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docs := []Document{
		{ID: "b", FullVector: []float32{1, 0}},
		{ID: "a", FullVector: []float32{2, 0}},
	}
	if err := s.InsertBatch(ctx, docs); err != nil {
		t.Fatal(err)
	}

	hits, err := s.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	// Both are parallel to the query so similarity ties at 1.0.
	if hits[0].ID != "a" || hits[1].ID != "b" {
		t.Errorf("tie order = [%s %s], want [a b]", hits[0].ID, hits[1].ID)
	}
}

func TestSearchEmptyStore(t *testing.T) {
	s := newTestStore(t)
	hits, err := s.Search(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("len(hits) = %d, want 0", len(hits))
	}
}

func TestSearchZeroK(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Insert(ctx, Document{ID: "x", FullVector: []float32{1}}); err != nil {
		t.Fatal(err)
	}
	hits, err := s.Search(ctx, []float32{1}, 0)
	if err != nil || len(hits) != 0 {
		t.Errorf("Search(k=0) = %v, %v; want empty, nil", hits, err)
	}
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if n, err := s.Count(ctx); err != nil || n != 0 {
		t.Errorf("Count() = %d, %v; want 0, nil", n, err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Insert(ctx, Document{ID: id, FullVector: []float32{1}}); err != nil {
			t.Fatal(err)
		}
	}
	if n, err := s.Count(ctx); err != nil || n != 3 {
		t.Errorf("Count() = %d, %v; want 3, nil", n, err)
	}

	// Replacing a document must not inflate the count.
	if err := s.Insert(ctx, Document{ID: "a", FullVector: []float32{2}}); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 3 {
		t.Errorf("Count() after replace = %d, want 3", n)
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Error("expected error for on-disk store without Dir")
	}
}

func TestOnDiskPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, Document{ID: "kept", FullText: "survives", FullVector: []float32{1}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "kept")
	if err != nil {
		t.Fatalf("Get() after reopen: %v", err)
	}
	if got.FullText != "survives" {
		t.Errorf("FullText = %q", got.FullText)
	}
}

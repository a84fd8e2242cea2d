// Package vectorstore persists embedded resume documents in BadgerDB and
// serves exact cosine top-k retrieval over them. Documents are encoded with
// msgpack; vectors stay alongside the text so a search never needs a second
// lookup. The corpus is small enough (hundreds to low thousands of resumes)
// that a full scan per query beats the operational cost of an ANN index.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/talentsift/talentsift/rank"
)

// ErrNotFound is returned when a document id has no entry.
var ErrNotFound = errors.New("vectorstore: document not found")

var docPrefix = []byte("doc/")

// Document is one embedded resume: the retrieval text, its whole-document
// vector, and the parallel aspect texts and vectors.
type Document struct {
	ID            string      `msgpack:"id"`
	FullText      string      `msgpack:"full_text"`
	FullVector    []float32   `msgpack:"full_vector"`
	Aspects       []string    `msgpack:"aspects"`
	AspectVectors [][]float32 `msgpack:"aspect_vectors"`
}

// Hit is a retrieved document with its whole-document similarity.
type Hit struct {
	Document
	Similarity float64
}

// Store is a Badger-backed vector store.
type Store struct {
	db *badger.DB
}

// Options configures a Store.
type Options struct {
	// Dir is the Badger data directory. Required unless InMemory is set.
	Dir string

	// InMemory keeps everything off disk; used by tests and demos.
	InMemory bool
}

// Open opens or creates the store.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("vectorstore: Dir is required for on-disk mode")
	}

	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(nil)

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert writes or replaces a document.
func (s *Store) Insert(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return errors.New("vectorstore: document id is required")
	}
	data, err := msgpack.Marshal(doc)
	if err != nil {
		return fmt.Errorf("vectorstore: encode document: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(doc.ID), data)
	})
}

// InsertBatch writes documents through a write batch, which is considerably
// faster than one transaction per document during imports.
func (s *Store) InsertBatch(ctx context.Context, docs []Document) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, doc := range docs {
		if doc.ID == "" {
			return errors.New("vectorstore: document id is required")
		}
		data, err := msgpack.Marshal(doc)
		if err != nil {
			return fmt.Errorf("vectorstore: encode document %s: %w", doc.ID, err)
		}
		if err := wb.Set(docKey(doc.ID), data); err != nil {
			return fmt.Errorf("vectorstore: batch set %s: %w", doc.ID, err)
		}
	}
	return wb.Flush()
}

// Get fetches one document by id.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(id))
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return msgpack.Unmarshal(data, &doc)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Search scans every document, scores its full vector against the query by
// cosine similarity, and returns the top k hits ordered by similarity
// descending with document id as the tie-break. k <= 0 returns no hits.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return []Hit{}, nil
	}

	var hits []Hit
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = docPrefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(docPrefix); it.ValidForPrefix(docPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var doc Document
			if err := msgpack.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("vectorstore: decode document: %w", err)
			}
			hits = append(hits, Hit{
				Document:   doc,
				Similarity: rank.Cosine(query, doc.FullVector),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = docPrefix
		iterOpts.PrefetchValues = false
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(docPrefix); it.ValidForPrefix(docPrefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func docKey(id string) []byte {
	return append(append([]byte{}, docPrefix...), id...)
}

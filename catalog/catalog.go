// Package catalog maintains a full-text index over imported resumes for
// keyword search. It complements the vector store: the vector store answers
// "who is semantically close to this job", the catalog answers "who mentions
// Kubernetes", and both are filled by the same import pipeline.
package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Entry is one indexed resume.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	FullText string `json:"full_text"`
}

// Result is a search hit.
type Result struct {
	Entry
	Score float64 `json:"score"`
}

// Catalog is a Bleve-backed full-text resume index.
type Catalog struct {
	mu    sync.RWMutex
	index bleve.Index
}

// Open opens the index at path, creating it if absent.
func Open(path string) (*Catalog, error) {
	var index bleve.Index
	if _, err := os.Stat(path); os.IsNotExist(err) {
		index, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("catalog: create index: %w", err)
		}
	} else {
		var err error
		index, err = bleve.Open(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: open index: %w", err)
		}
	}
	return &Catalog{index: index}, nil
}

// buildIndexMapping maps name and full text for analyzed search and title
// for exact filtering.
func buildIndexMapping() mapping.IndexMapping {
	entryMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	entryMapping.AddFieldMappingsAt("name", textFieldMapping)
	entryMapping.AddFieldMappingsAt("full_text", textFieldMapping)
	entryMapping.AddFieldMappingsAt("title", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = entryMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// Index adds or replaces a resume entry.
func (c *Catalog) Index(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("catalog: entry id is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.index.Index(entry.ID, entry); err != nil {
		return fmt.Errorf("catalog: index entry: %w", err)
	}
	return nil
}

// Search runs a full-text query over names and resume text. A non-empty
// title restricts results to that exact title. limit <= 0 defaults to 10.
func (c *Catalog) Search(ctx context.Context, queryText, title string, limit int) ([]Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(queryText)

	var searchReq *bleve.SearchRequest
	if title != "" {
		titleQuery := bleve.NewTermQuery(title)
		titleQuery.SetField("title")

		boolQuery := bleve.NewBooleanQuery()
		boolQuery.AddMust(matchQuery)
		boolQuery.AddMust(titleQuery)
		searchReq = bleve.NewSearchRequest(boolQuery)
	} else {
		searchReq = bleve.NewSearchRequest(matchQuery)
	}
	searchReq.Size = limit
	searchReq.Fields = []string{"name", "title", "full_text"}

	searchResult, err := c.index.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("catalog: search failed: %w", err)
	}

	results := make([]Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		r := Result{Score: hit.Score}
		r.ID = hit.ID
		if v, ok := hit.Fields["name"].(string); ok {
			r.Name = v
		}
		if v, ok := hit.Fields["title"].(string); ok {
			r.Title = v
		}
		if v, ok := hit.Fields["full_text"].(string); ok {
			r.FullText = v
		}
		results = append(results, r)
	}
	return results, nil
}

// Count returns the number of indexed entries.
func (c *Catalog) Count() (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.DocCount()
}

// Close closes the index.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Close()
}

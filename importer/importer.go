// Package importer loads resumes from JSON files into the vector store and
// the full-text catalog. Each resume is validated, flattened into aspect
// strings, and embedded: the whole-document embedding is required, while a
// failed aspect embedding degrades to a zero vector so one flaky call does
// not lose the resume.
package importer

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"

	"github.com/talentsift/talentsift/catalog"
	"github.com/talentsift/talentsift/embedding"
	"github.com/talentsift/talentsift/errors"
	"github.com/talentsift/talentsift/resume"
	"github.com/talentsift/talentsift/vectorstore"
)

// Stats summarizes one import run.
type Stats struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer ingests resume JSON into the vector store and catalog.
type Importer struct {
	vectors  *vectorstore.Store
	catalog  *catalog.Catalog
	embedder embedding.Provider
	logger   *zap.Logger
}

// New wires an importer from its collaborators.
func New(vectors *vectorstore.Store, cat *catalog.Catalog, embedder embedding.Provider, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		vectors:  vectors,
		catalog:  cat,
		embedder: embedder,
		logger:   logger,
	}
}

// ImportFile imports every resume in the JSON file at path. The file may
// hold a single resume object or an array; mildly malformed JSON is
// repaired before giving up.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidInput("reading resume file failed", errors.WithCause(err))
	}
	return im.Import(ctx, data)
}

// Import imports every resume in the given JSON document.
func (im *Importer) Import(ctx context.Context, data []byte) (*Stats, error) {
	raws, err := decodeResumeList(data)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(raws)}
	for i, raw := range raws {
		if err := im.importOne(ctx, raw); err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("resume %d: %v", i+1, err))
			im.logger.Warn("resume import failed", zap.Int("index", i+1), zap.Error(err))
			continue
		}
		stats.Imported++
	}

	im.logger.Info("import finished",
		zap.Int("total", stats.Total),
		zap.Int("imported", stats.Imported),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

// importOne validates, embeds, and stores a single resume.
func (im *Importer) importOne(ctx context.Context, raw json.RawMessage) error {
	r, err := resume.Unmarshal(raw)
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("validating %q: %w", r.Name, err)
	}

	aspects := r.Aspects()
	fullText := r.FullText()

	fullVecs, err := im.embedder.Embed(ctx, []string{fullText})
	if err != nil {
		return fmt.Errorf("embedding %q: %w", r.Name, err)
	}
	if len(fullVecs) != 1 {
		return fmt.Errorf("embedding %q: wrong batch size", r.Name)
	}

	// Per-aspect failures fall back to zero vectors inside EmbedEach.
	aspectVecs := embedding.EmbedEach(ctx, im.embedder, aspects)

	id := uuid.NewString()
	doc := vectorstore.Document{
		ID:            id,
		FullText:      fullText,
		FullVector:    fullVecs[0],
		Aspects:       aspects,
		AspectVectors: aspectVecs,
	}
	if err := im.vectors.Insert(ctx, doc); err != nil {
		return fmt.Errorf("storing vectors for %q: %w", r.Name, err)
	}

	entry := catalog.Entry{
		ID:       id,
		Name:     r.Name,
		Title:    string(r.Title),
		FullText: fullText,
	}
	if err := im.catalog.Index(ctx, entry); err != nil {
		return fmt.Errorf("indexing %q: %w", r.Name, err)
	}

	im.logger.Info("imported resume",
		zap.String("name", r.Name),
		zap.Int("aspects", len(aspects)))
	return nil
}

// decodeResumeList accepts either a single resume object or an array of
// them. A syntax error triggers one repair attempt before failing.
func decodeResumeList(data []byte) ([]json.RawMessage, error) {
	raws, err := splitResumes(data)
	if err == nil {
		return raws, nil
	}

	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		repaired, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr == nil {
			if raws, err = splitResumes([]byte(repaired)); err == nil {
				return raws, nil
			}
		}
	}
	return nil, errors.InvalidInput("resume file is not valid JSON", errors.WithCause(err))
}

func splitResumes(data []byte) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var single json.RawMessage
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []json.RawMessage{single}, nil
}

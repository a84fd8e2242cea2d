package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/talentsift/talentsift/errors"
)

// chatRequest is the POST /chat body.
type chatRequest struct {
	JobID string `json:"job_id"`
	Query string `json:"query"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.db.Jobs.List(r.Context())
	if err != nil {
		s.writeError(w, r, errors.Persistence("listing jobs failed", errors.WithCause(err)))
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetCandidates(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	pool, err := s.candidates.Get(r.Context(), jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pool)
}

func (s *Server) handleDeleteCandidates(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	deleted, err := s.candidates.Delete(r.Context(), jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	message := fmt.Sprintf("No candidates found for job %s", jobID)
	if deleted {
		message = fmt.Sprintf("Successfully deleted candidates for job %s", jobID)
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.InvalidInput("invalid request body", errors.WithCause(err)))
		return
	}
	req.JobID = strings.TrimSpace(req.JobID)
	req.Query = strings.TrimSpace(req.Query)
	if req.JobID == "" {
		s.writeError(w, r, errors.InvalidInput("job_id is required"))
		return
	}
	if req.Query == "" {
		s.writeError(w, r, errors.InvalidInput("query is required"))
		return
	}

	result, err := s.chat.Chat(r.Context(), req.JobID, req.Query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleWeightsPreview(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	query := r.URL.Query().Get("query")

	preview, err := s.chat.PreviewWeights(r.Context(), jobID, query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.writeError(w, r, errors.InvalidInput("q is required"))
		return
	}
	title := r.URL.Query().Get("title")

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, r, errors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	results, err := s.catalog.Search(r.Context(), q, title, limit)
	if err != nil {
		s.writeError(w, r, errors.Persistence("catalog search failed", errors.WithCause(err)))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": results,
		"total":   len(results),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

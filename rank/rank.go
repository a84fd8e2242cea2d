// Package rank implements aspect-weighted candidate ranking.
//
// A candidate carries a mapping from aspect name to cosine similarity against
// a job description. Given a normalized weight mapping over the pool's common
// aspects, Rerank collapses each candidate's aspect scores into a single
// weighted score and produces a deterministic 1-based ranking.
package rank

import "sort"

// Candidate is one scored candidate in a job's pool.
type Candidate struct {
	ID                string             `json:"candidate_id"`
	Name              string             `json:"name"`
	Title             string             `json:"title"`
	OverallSimilarity float64            `json:"overall_similarity"`
	AspectScores      map[string]float64 `json:"aspect_scores"`
	FullText          string             `json:"full_text"`
}

// RankedCandidate is a candidate with its weighted score and 1-based rank.
type RankedCandidate struct {
	Candidate
	WeightedScore float64 `json:"weighted_score"`
	Rank          int     `json:"rank"`
}

// WeightedScore computes a candidate's score under the given weight mapping.
// Only aspects present in both the candidate's scores and the weights
// contribute; the sum is renormalized over the weight mass actually used, so
// a candidate missing some weighted aspects is scored on what it has rather
// than penalized for absent weight mass. A candidate sharing no aspect with
// the weights (or with a nil score mapping) scores 0.0.
func WeightedScore(c Candidate, weights map[string]float64) float64 {
	var weighted, used float64
	for aspect, weight := range weights {
		score, ok := c.AspectScores[aspect]
		if !ok {
			continue
		}
		weighted += score * weight
		used += weight
	}
	if used == 0 {
		return 0.0
	}
	return weighted / used
}

// Rerank scores every candidate under the weight mapping and returns them
// ordered by weighted score descending. The sort is stable: candidates with
// equal scores keep their input order, so ranking is reproducible across
// repeated calls with identical input. Ranks are assigned 1..N.
func Rerank(pool []Candidate, weights map[string]float64) []RankedCandidate {
	ranked := make([]RankedCandidate, len(pool))
	for i, c := range pool {
		ranked[i] = RankedCandidate{
			Candidate:     c,
			WeightedScore: WeightedScore(c, weights),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WeightedScore > ranked[j].WeightedScore
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// CommonAspects returns the aspect names present in every candidate's score
// mapping, sorted for determinism. An empty pool yields an empty set; a
// single candidate yields its full key set. The result is the universe of
// aspects eligible for weighting — aspects unique to a subset of the pool
// are excluded so weighted comparison stays uniform across all candidates.
func CommonAspects(pool []Candidate) []string {
	if len(pool) == 0 {
		return []string{}
	}

	common := make(map[string]struct{}, len(pool[0].AspectScores))
	for aspect := range pool[0].AspectScores {
		common[aspect] = struct{}{}
	}
	for _, c := range pool[1:] {
		for aspect := range common {
			if _, ok := c.AspectScores[aspect]; !ok {
				delete(common, aspect)
			}
		}
	}

	result := make([]string, 0, len(common))
	for aspect := range common {
		result = append(result, aspect)
	}
	sort.Strings(result)
	return result
}

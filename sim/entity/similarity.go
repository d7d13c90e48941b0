package entity

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// similarityAttrs fixes the attribute order used for similarity vectors.
var similarityAttrs = []string{AttrFreedom, AttrWealth, AttrStability, AttrPower}

// SimilarityFilter restricts FindSimilar candidates. Zero values mean "any".
type SimilarityFilter struct {
	Type string
	Role string
}

// Match is one FindSimilar result.
type Match struct {
	Entity     *Entity
	Similarity float64
}

// FindSimilar ranks live entities by cosine similarity of their attribute
// vectors against the query entity. The query entity itself is excluded,
// matches below minSimilarity are dropped, and at most maxResults are
// returned, highest similarity first (ID order breaks ties).
func (r *Registry) FindSimilar(id string, maxResults int, minSimilarity float64, filter SimilarityFilter) ([]Match, error) {
	query, ok := r.entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %s not found", id)
	}
	qv := query.AttributeVector(similarityAttrs)

	var matches []Match
	for _, cand := range r.All() {
		if cand.ID == id {
			continue
		}
		if filter.Type != "" && cand.Type != filter.Type {
			continue
		}
		if filter.Role != "" && cand.Role != filter.Role {
			continue
		}
		sim := cosine(qv, cand.AttributeVector(similarityAttrs))
		if sim >= minSimilarity {
			matches = append(matches, Match{Entity: cand, Similarity: sim})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Entity.ID < matches[j].Entity.ID
	})
	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches, nil
}

// cosine returns the cosine similarity of two vectors, clamped to [0, 1].
// Attribute vectors are nonnegative so the raw value is already >= 0; the
// clamp guards against floating-point overshoot.
func cosine(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	v := floats.Dot(a, b) / (na * nb)
	return math.Min(1.0, math.Max(0.0, v))
}

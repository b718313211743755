package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type Suggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SuggestArtists ranks credited names against a free-text query: exact
// matches first, then prefix and substring hits, then names within a small
// edit distance.
func (s *Store) SuggestArtists(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	names, err := s.ArtistNames(ctx)
	if err != nil {
		return nil, err
	}
	return rankNames(query, names, limit), nil
}

func rankNames(query string, names []string, limit int) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	var out []Suggestion
	for _, name := range names {
		cand := strings.ToLower(name)
		var score float64
		switch {
		case cand == q:
			score = 1.0
		case strings.HasPrefix(cand, q):
			score = 0.9
		case strings.Contains(cand, q):
			score = 0.8
		default:
			dist := levenshtein.ComputeDistance(q, cand)
			if dist > distanceLimit(len(cand)) {
				continue
			}
			score = 0.72 - 0.08*float64(dist)
		}
		out = append(out, Suggestion{Name: name, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Name < out[j].Name
		}
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

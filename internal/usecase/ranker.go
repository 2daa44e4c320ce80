package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/force3dev/Forc3-sub001/internal/domain"
)

// DefaultMaxResults bounds a merged search response
const DefaultMaxResults = 30

type rankedResult struct {
	item       domain.FoodResult
	score      int
	exactMatch bool
}

// groupKey is the duplicate-detection key: the lower-cased name reduced to
// its letters and digits, in any script. Names made only of symbols fall back
// to the lower-cased name so they do not all collapse into one group.
func groupKey(name string) string {
	lower := strings.ToLower(name)
	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, lower)
	if key != "" {
		return key
	}
	return strings.TrimSpace(lower)
}

// detailScore counts populated optional fields, plus 3 for verified sources
func detailScore(r *domain.FoodResult) int {
	score := 0
	if r.Fiber != nil {
		score++
	}
	if r.Sugar != nil {
		score++
	}
	if r.Sodium != nil {
		score++
	}
	if r.Brand != "" {
		score++
	}
	if r.ServingDescription != "" {
		score++
	}
	if r.ImageURL != "" {
		score++
	}
	if r.Verified {
		score += 3
	}
	return score
}

// MergeAndRank collapses items with the same group key and orders the survivors.
//
// Within a group the first item is kept unless a later one has a strictly
// higher detail score; the replacement takes over the original position.
// Survivors sort verified first, then names containing query, then by detail
// score, with input order breaking remaining ties. At most limit items are
// returned; limit <= 0 means DefaultMaxResults.
func MergeAndRank(items []domain.FoodResult, query string, limit int) []domain.FoodResult {
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	index := make(map[string]int, len(items))
	kept := make([]rankedResult, 0, len(items))

	for _, item := range items {
		key := groupKey(item.Name)
		score := detailScore(&item)

		if i, seen := index[key]; seen {
			if score > kept[i].score {
				kept[i] = rankedResult{item: item, score: score}
			}
			continue
		}

		index[key] = len(kept)
		kept = append(kept, rankedResult{item: item, score: score})
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	for i := range kept {
		kept[i].exactMatch = needle != "" && strings.Contains(strings.ToLower(kept[i].item.Name), needle)
	}

	sort.SliceStable(kept, func(a, b int) bool {
		x, y := kept[a], kept[b]
		if x.item.Verified != y.item.Verified {
			return x.item.Verified
		}
		if x.exactMatch != y.exactMatch {
			return x.exactMatch
		}
		return x.score > y.score
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}

	results := make([]domain.FoodResult, len(kept))
	for i := range kept {
		results[i] = kept[i].item
	}

	return results
}

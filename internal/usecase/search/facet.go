package search

import (
	"sort"

	"github.com/makerly/tplsearch/internal/domain/search/candidate"
	"github.com/makerly/tplsearch/internal/domain/search/result"
)

// aggregateFacets counts candidates per category over the full merged set.
// Uncategorized candidates are skipped. Counts are independent of sort mode
// and pagination so they answer "how many matches of each category exist".
func aggregateFacets(candidates []candidate.Candidate) []result.Facet {
	counts := make(map[string]int)
	for i := range candidates {
		if cat := candidates[i].CategoryID(); cat != "" {
			counts[cat]++
		}
	}

	facets := make([]result.Facet, 0, len(counts))
	for cat, n := range counts {
		facets = append(facets, result.Facet{CategoryID: cat, Count: n})
	}

	// Count descending, category ascending on ties.
	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Count != facets[j].Count {
			return facets[i].Count > facets[j].Count
		}
		return facets[i].CategoryID < facets[j].CategoryID
	})

	return facets
}

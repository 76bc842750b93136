package search

import "github.com/makerly/tplsearch/internal/domain/search/candidate"

// merge deduplicates the two recall channels by item id.
// An item found by both channels keeps the higher similarity
// (max-similarity-wins, not first-seen-wins). Output preserves insertion
// order; ranking re-sorts anyway.
func merge(textRows, vectorRows []candidate.Candidate) []candidate.Candidate {
	byID := make(map[string]int, len(textRows)+len(vectorRows))
	merged := make([]candidate.Candidate, 0, len(textRows)+len(vectorRows))

	insert := func(c candidate.Candidate) {
		idx, seen := byID[c.ItemID()]
		if !seen {
			byID[c.ItemID()] = len(merged)
			merged = append(merged, c)
			return
		}
		if c.Similarity() > merged[idx].Similarity() {
			merged[idx] = c
		}
	}

	for _, c := range textRows {
		insert(c)
	}
	for _, c := range vectorRows {
		insert(c)
	}

	return merged
}

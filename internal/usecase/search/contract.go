package search

import (
	"context"

	"github.com/makerly/tplsearch/internal/domain"
	"github.com/makerly/tplsearch/internal/domain/search/candidate"
	"github.com/makerly/tplsearch/internal/domain/search/query"
	"github.com/makerly/tplsearch/internal/domain/search/result"
	"github.com/makerly/tplsearch/internal/domain/search/sortmode"
)

// Recaller defines the storage contract for the two recall channels.
// Implementations run both channels concurrently and return raw candidates.
type Recaller interface {
	Recall(
		ctx context.Context, vector []float32, text string,
		filters query.Filters, limit int,
	) (textRows, vectorRows []candidate.Candidate, err error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Ranker assigns sort scores and orders a candidate set.
type Ranker interface {
	Rank(candidates []candidate.Candidate, m sortmode.Mode) []result.Ranked
}

// Response is the assembled search output.
type Response struct {
	// Items is the requested page slice; empty for facets-only requests.
	Items []result.Ranked
	// Total is the size of the full merged candidate set.
	Total      int
	Page       int
	TotalPages int
	// Facets counts candidates per category over the full merged set,
	// independent of pagination.
	Facets []result.Facet
}

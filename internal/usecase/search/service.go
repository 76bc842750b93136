// Package search implements the two-stage template search: dual-channel
// recall, dedup merge, facet aggregation, ranking, and pagination.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/makerly/tplsearch/internal/domain/search/query"
	"github.com/makerly/tplsearch/internal/domain/search/result"
	"github.com/makerly/tplsearch/internal/logger"
	"github.com/makerly/tplsearch/internal/metrics"
)

const defaultRecallLimit = 200

// Service orchestrates a search call. All state is request-scoped; the
// recaller and embedder are shared, concurrency-safe collaborators.
type Service struct {
	recall      Recaller
	embed       Embedder
	ranker      Ranker
	recallLimit int
}

// New creates a search service with the default recall breadth.
func New(recall Recaller, embed Embedder, ranker Ranker) *Service {
	return &Service{
		recall:      recall,
		embed:       embed,
		ranker:      ranker,
		recallLimit: defaultRecallLimit,
	}
}

// WithRecallLimit overrides the per-channel recall breadth.
func (s *Service) WithRecallLimit(limit int) *Service {
	if limit > 0 {
		s.recallLimit = limit
	}
	return s
}

// Search runs the full pipeline: embed → recall → merge → facets →
// rank → paginate. Embedding and store failures propagate as typed errors;
// they are never converted into an empty result set.
func (s *Service) Search(ctx context.Context, q *query.Query) (*Response, error) {
	log := logger.FromContext(ctx)

	embStart := time.Now()
	embRes, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	metrics.SearchStageDuration.WithLabelValues("embed").Observe(time.Since(embStart).Seconds())

	recallStart := time.Now()
	textRows, vectorRows, err := s.recall.Recall(ctx, embRes.Embedding, q.Text(), q.Filters(), s.recallLimit)
	if err != nil {
		return nil, fmt.Errorf("recall candidates: %w", err)
	}
	metrics.SearchStageDuration.WithLabelValues("recall").Observe(time.Since(recallStart).Seconds())
	metrics.SearchCandidates.WithLabelValues("full_text").Observe(float64(len(textRows)))
	metrics.SearchCandidates.WithLabelValues("vector").Observe(float64(len(vectorRows)))

	merged := merge(textRows, vectorRows)
	facets := aggregateFacets(merged)

	log.Debug("search recall complete",
		zap.Int("full_text", len(textRows)),
		zap.Int("vector", len(vectorRows)),
		zap.Int("merged", len(merged)),
	)

	// Fast path: callers fetching only category counts skip ranking and
	// pagination entirely.
	if q.FacetsOnly() {
		return &Response{
			Items:      []result.Ranked{},
			Total:      len(merged),
			Page:       1,
			TotalPages: 1,
			Facets:     facets,
		}, nil
	}

	rankStart := time.Now()
	ranked := s.ranker.Rank(merged, q.SortMode())
	metrics.SearchStageDuration.WithLabelValues("rank").Observe(time.Since(rankStart).Seconds())

	page := paginate(ranked, q.Page(), q.PageSize())

	return &Response{
		Items:      page.Items,
		Total:      page.Total,
		Page:       q.Page(),
		TotalPages: page.TotalPages,
		Facets:     facets,
	}, nil
}

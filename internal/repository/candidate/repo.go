// Package candidate implements the two-channel recall repository over the
// Postgres store.
package candidate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/makerly/tplsearch/internal/db"
	"github.com/makerly/tplsearch/internal/domain"
	"github.com/makerly/tplsearch/internal/domain/search/candidate"
	"github.com/makerly/tplsearch/internal/domain/search/query"
)

// store is the consumer interface for recall operations (ISP).
type store interface {
	FullTextRecall(ctx context.Context, q *db.FullTextQuery) ([]db.CandidateRow, error)
	VectorRecall(ctx context.Context, q *db.VectorQuery) ([]db.CandidateRow, error)
}

// Repo implements usecase/search.Recaller.
type Repo struct {
	store       store
	maxDistance float64
	logger      *zap.Logger
}

// New creates a recall repository. maxDistance bounds the vector channel's
// cosine distance.
func New(s store, maxDistance float64, logger *zap.Logger) *Repo {
	return &Repo{store: s, maxDistance: maxDistance, logger: logger}
}

// Recall runs the full-text and vector channels concurrently and returns
// both raw candidate sets. Either channel's failure fails the whole recall;
// proceeding on a single channel would skew facet counts.
func (r *Repo) Recall(
	ctx context.Context, vector []float32, text string, filters query.Filters, limit int,
) (textRows, vectorRows []candidate.Candidate, err error) {
	g, gctx := errgroup.WithContext(ctx)

	var ftRows, vecRows []db.CandidateRow

	g.Go(func() error {
		rows, err := r.store.FullTextRecall(gctx, &db.FullTextQuery{
			Text:       text,
			TenantID:   filters.TenantID,
			CategoryID: filters.CategoryID,
			Vector:     vector,
			Limit:      limit,
		})
		if err != nil {
			return fmt.Errorf("%w: full-text recall: %w", domain.ErrStore, err)
		}
		ftRows = rows
		return nil
	})

	g.Go(func() error {
		rows, err := r.store.VectorRecall(gctx, &db.VectorQuery{
			Vector:      vector,
			TenantID:    filters.TenantID,
			CategoryID:  filters.CategoryID,
			MaxDistance: r.maxDistance,
			Limit:       limit,
		})
		if err != nil {
			return fmt.Errorf("%w: vector recall: %w", domain.ErrStore, err)
		}
		vecRows = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return r.parseRows(ftRows), r.parseRows(vecRows), nil
}

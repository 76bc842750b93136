// Package display implements the post-search display metadata lookup.
package display

import (
	"context"
	"fmt"

	"github.com/makerly/tplsearch/internal/db"
	"github.com/makerly/tplsearch/internal/domain"
	"github.com/makerly/tplsearch/internal/usecase/enrich"
)

// store is the consumer interface for display lookups (ISP).
type store interface {
	DisplayLookup(ctx context.Context, itemIDs []string) ([]db.DisplayRow, error)
}

// Repo implements usecase/enrich.Repository.
type Repo struct {
	store store
}

// New creates a display repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Lookup fetches display metadata for the given item ids.
func (r *Repo) Lookup(ctx context.Context, itemIDs []string) ([]enrich.Decoration, error) {
	rows, err := r.store.DisplayLookup(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: display lookup: %w", domain.ErrStore, err)
	}

	out := make([]enrich.Decoration, 0, len(rows))
	for _, row := range rows {
		out = append(out, enrich.Decoration{
			ItemID:   row.ItemID,
			Title:    row.Title,
			CoverURL: row.CoverURL,
		})
	}
	return out, nil
}

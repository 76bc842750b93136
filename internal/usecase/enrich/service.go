// Package enrich decorates a returned page with display metadata.
// It runs after the search core and has no effect on recall or ranking.
package enrich

import (
	"context"
	"fmt"
)

// Service handles display metadata decoration.
type Service struct {
	repo Repository
}

// New creates an enrichment service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Decorate fetches display metadata for the given page of item ids,
// keyed by item id. Ids without display metadata are absent from the map.
func (s *Service) Decorate(ctx context.Context, itemIDs []string) (map[string]Decoration, error) {
	if len(itemIDs) == 0 {
		return map[string]Decoration{}, nil
	}

	decorations, err := s.repo.Lookup(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("decorate items: %w", err)
	}

	byID := make(map[string]Decoration, len(decorations))
	for _, d := range decorations {
		byID[d.ItemID] = d
	}
	return byID, nil
}

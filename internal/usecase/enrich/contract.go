package enrich

import "context"

// Decoration is display metadata for one item, applied after ranking.
type Decoration struct {
	ItemID   string
	Title    string
	CoverURL string
}

// Repository defines the storage contract for display lookups.
type Repository interface {
	Lookup(ctx context.Context, itemIDs []string) ([]Decoration, error)
}

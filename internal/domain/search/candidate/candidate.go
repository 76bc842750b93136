package candidate

import "time"

// Metadata holds the ranking inputs written at indexing time.
// All fields are read-only as far as the search path is concerned.
type Metadata struct {
	Title          string
	SalesCount     int64
	CreationCount  int64
	CompositeScore float64
	PublishTime    *time.Time
	PinWeight      float64
}

// Candidate is one retrieved item before ranking. Similarity is recomputed
// per query by the store and never persisted.
type Candidate struct {
	itemID     string
	tenantID   string
	categoryID string
	meta       Metadata
	similarity float64
}

// New creates a candidate. Empty tenantID/categoryID mean the item carries
// no value for that dimension.
func New(itemID, tenantID, categoryID string, meta Metadata, similarity float64) Candidate {
	return Candidate{
		itemID:     itemID,
		tenantID:   tenantID,
		categoryID: categoryID,
		meta:       meta,
		similarity: similarity,
	}
}

// ItemID returns the unique item identifier.
func (c *Candidate) ItemID() string { return c.itemID }

// TenantID returns the tenant scope, or "" if unscoped.
func (c *Candidate) TenantID() string { return c.tenantID }

// CategoryID returns the facet category, or "" if uncategorized.
func (c *Candidate) CategoryID() string { return c.categoryID }

// Meta returns the indexing-time ranking inputs.
func (c *Candidate) Meta() Metadata { return c.meta }

// Similarity returns the query-time cosine similarity in [0,1].
func (c *Candidate) Similarity() float64 { return c.similarity }

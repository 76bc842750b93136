package query

import (
	"fmt"
	"strings"

	"github.com/makerly/tplsearch/internal/domain"
	"github.com/makerly/tplsearch/internal/domain/search/sortmode"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed query text length.
	MaxTextLength = 1024
	MaxPageSize   = 100
)

// Filters narrows recall to an exact tenant and/or category.
// Empty fields mean "no constraint".
type Filters struct {
	TenantID   string
	CategoryID string
}

// Query is a validated search request.
type Query struct {
	text       string
	page       int
	pageSize   int
	filters    Filters
	sortMode   sortmode.Mode
	facetsOnly bool
}

// New validates and normalizes search parameters.
// Defaults: sort mode=composite. Text is trimmed; page and pageSize must be
// positive. All violations wrap domain.ErrInvalidQuery.
func New(
	text string,
	m sortmode.Mode,
	filters Filters,
	page, pageSize int,
	facetsOnly bool,
) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, fmt.Errorf("%w: text is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: text too long (max %d chars)", domain.ErrInvalidQuery, MaxTextLength)
	}
	if m == "" {
		m = sortmode.Composite
	}
	if !m.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown sort mode %q", domain.ErrInvalidQuery, m)
	}
	if page <= 0 {
		return Query{}, fmt.Errorf("%w: page must be positive, got %d", domain.ErrInvalidQuery, page)
	}
	if pageSize <= 0 {
		return Query{}, fmt.Errorf("%w: page_size must be positive, got %d", domain.ErrInvalidQuery, pageSize)
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return Query{
		text:       text,
		page:       page,
		pageSize:   pageSize,
		filters:    filters,
		sortMode:   m,
		facetsOnly: facetsOnly,
	}, nil
}

// Text returns the trimmed query text.
func (q *Query) Text() string { return q.text }

// Page returns the requested 1-based page number.
func (q *Query) Page() int { return q.page }

// PageSize returns the requested page size.
func (q *Query) PageSize() int { return q.pageSize }

// Filters returns the tenant/category constraints.
func (q *Query) Filters() Filters { return q.filters }

// SortMode returns the result ordering strategy.
func (q *Query) SortMode() sortmode.Mode { return q.sortMode }

// FacetsOnly reports whether only facet counts were requested.
func (q *Query) FacetsOnly() bool { return q.facetsOnly }

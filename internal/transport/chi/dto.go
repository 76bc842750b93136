package chi

import (
	"time"

	"github.com/makerly/tplsearch/internal/domain/search/result"
	"github.com/makerly/tplsearch/internal/usecase/enrich"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeEmbeddingProvider = "embedding_provider_error"
	codeStoreUnavailable  = "store_unavailable"
	codeInternalError     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query      string `json:"query"`
	TenantID   string `json:"tenant_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	SortMode   string `json:"sort_mode,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"page_size,omitempty"`
	FacetsOnly bool   `json:"facets_only,omitempty"`
}

type sortFactors struct {
	Similarity     float64    `json:"similarity"`
	CompositeScore float64    `json:"composite_score"`
	SalesCount     int64      `json:"sales_count"`
	CreationCount  int64      `json:"creation_count"`
	PublishTime    *time.Time `json:"publish_time,omitempty"`
	PinWeight      float64    `json:"pin_weight"`
}

type searchItem struct {
	ItemID      string      `json:"item_id"`
	TenantID    string      `json:"tenant_id,omitempty"`
	CategoryID  string      `json:"category_id,omitempty"`
	Title       string      `json:"title,omitempty"`
	CoverURL    string      `json:"cover_url,omitempty"`
	Score       float64     `json:"score"`
	SortFactors sortFactors `json:"sort_factors"`
}

type facetItem struct {
	CategoryID string `json:"category_id"`
	Count      int    `json:"count"`
}

type searchResponse struct {
	Items      []searchItem `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	Facets     []facetItem  `json:"facets"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func rankedToItem(r *result.Ranked, decorations map[string]enrich.Decoration) searchItem {
	c := r.Candidate()
	f := r.Factors()

	item := searchItem{
		ItemID:     c.ItemID(),
		TenantID:   c.TenantID(),
		CategoryID: c.CategoryID(),
		Score:      r.Score(),
		SortFactors: sortFactors{
			Similarity:     f.Similarity,
			CompositeScore: f.CompositeScore,
			SalesCount:     f.SalesCount,
			CreationCount:  f.CreationCount,
			PublishTime:    f.PublishTime,
			PinWeight:      f.PinWeight,
		},
	}

	if d, ok := decorations[c.ItemID()]; ok {
		item.Title = d.Title
		item.CoverURL = d.CoverURL
	}

	return item
}

func facetsToItems(facets []result.Facet) []facetItem {
	items := make([]facetItem, len(facets))
	for i, f := range facets {
		items[i] = facetItem{CategoryID: f.CategoryID, Count: f.Count}
	}
	return items
}

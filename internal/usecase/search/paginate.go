package search

import "github.com/makerly/tplsearch/internal/domain/search/result"

// paginate slices the ordered set into the requested page. A page beyond
// the last one yields an empty slice, not an error.
func paginate(ranked []result.Ranked, page, pageSize int) result.Page {
	total := len(ranked)

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	start := (page - 1) * pageSize
	if start >= total {
		return result.Page{Items: []result.Ranked{}, Total: total, TotalPages: totalPages}
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return result.Page{Items: ranked[start:end], Total: total, TotalPages: totalPages}
}

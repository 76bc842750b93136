package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/makerly/tplsearch/internal/db"
)

// Both channels project similarity as 1 - cosine_distance so that every row,
// regardless of which channel found it, carries a rankable similarity.
const (
	fullTextSQL = `
SELECT item_id,
       COALESCE(tenant_id, '')   AS tenant_id,
       COALESCE(category_id, '') AS category_id,
       metadata,
       1 - (embedding <=> @query_vec) AS similarity
FROM templates
WHERE search_vec @@ websearch_to_tsquery(@ts_config::regconfig, @query_text)
  AND (@tenant_id = '' OR tenant_id = @tenant_id)
  AND (@category_id = '' OR category_id = @category_id)
LIMIT @recall_limit`

	vectorSQL = `
SELECT item_id,
       COALESCE(tenant_id, '')   AS tenant_id,
       COALESCE(category_id, '') AS category_id,
       metadata,
       1 - (embedding <=> @query_vec) AS similarity
FROM templates
WHERE (@tenant_id = '' OR tenant_id = @tenant_id)
  AND (@category_id = '' OR category_id = @category_id)
  AND embedding <=> @query_vec <= @max_distance
ORDER BY embedding <=> @query_vec
LIMIT @recall_limit`
)

// FullTextRecall matches the query text against the indexed tsvector column.
// A query that tokenizes to an empty tsquery legitimately matches zero rows.
func (s *Store) FullTextRecall(ctx context.Context, q *db.FullTextQuery) ([]db.CandidateRow, error) {
	args := pgx.NamedArgs{
		"query_text":   q.Text,
		"query_vec":    pgvector.NewVector(q.Vector),
		"ts_config":    s.tsConfig,
		"tenant_id":    q.TenantID,
		"category_id":  q.CategoryID,
		"recall_limit": q.Limit,
	}

	rows, err := s.pool.Query(ctx, fullTextSQL, args)
	if err != nil {
		return nil, &db.Error{Op: db.OpFullTextRecall, Err: err}
	}
	defer rows.Close()

	return collectCandidateRows(rows, db.OpFullTextRecall)
}

// VectorRecall orders filter-matching rows by ascending cosine distance and
// drops rows beyond the distance threshold.
func (s *Store) VectorRecall(ctx context.Context, q *db.VectorQuery) ([]db.CandidateRow, error) {
	args := pgx.NamedArgs{
		"query_vec":    pgvector.NewVector(q.Vector),
		"tenant_id":    q.TenantID,
		"category_id":  q.CategoryID,
		"max_distance": q.MaxDistance,
		"recall_limit": q.Limit,
	}

	rows, err := s.pool.Query(ctx, vectorSQL, args)
	if err != nil {
		return nil, &db.Error{Op: db.OpVectorRecall, Err: err}
	}
	defer rows.Close()

	return collectCandidateRows(rows, db.OpVectorRecall)
}

func collectCandidateRows(rows pgx.Rows, op string) ([]db.CandidateRow, error) {
	var out []db.CandidateRow
	for rows.Next() {
		var r db.CandidateRow
		if err := rows.Scan(&r.ItemID, &r.TenantID, &r.CategoryID, &r.Metadata, &r.Similarity); err != nil {
			return nil, &db.Error{Op: op, Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	return out, nil
}

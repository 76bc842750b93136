package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/makerly/tplsearch/internal/db"
)

const displaySQL = `
SELECT item_id,
       COALESCE(title, '')     AS title,
       COALESCE(cover_url, '') AS cover_url
FROM template_display
WHERE item_id = ANY(@item_ids)`

// DisplayLookup fetches display metadata for the given item ids.
// Ids without a display row are simply absent from the result.
func (s *Store) DisplayLookup(ctx context.Context, itemIDs []string) ([]db.DisplayRow, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, displaySQL, pgx.NamedArgs{"item_ids": itemIDs})
	if err != nil {
		return nil, &db.Error{Op: db.OpDisplayLookup, Err: err}
	}
	defer rows.Close()

	var out []db.DisplayRow
	for rows.Next() {
		var r db.DisplayRow
		if err := rows.Scan(&r.ItemID, &r.Title, &r.CoverURL); err != nil {
			return nil, &db.Error{Op: db.OpDisplayLookup, Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpDisplayLookup, Err: err}
	}
	return out, nil
}

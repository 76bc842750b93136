package candidate

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/makerly/tplsearch/internal/db"
	"github.com/makerly/tplsearch/internal/domain/search/candidate"
)

// rowMetadata mirrors the JSON metadata column written at indexing time.
type rowMetadata struct {
	Title          string  `json:"title"`
	SalesCount     int64   `json:"sales_count"`
	CreationCount  int64   `json:"creation_count"`
	CompositeScore float64 `json:"composite_score"`
	PublishTime    string  `json:"publish_time"`
	PinWeight      float64 `json:"pin_weight"`
}

// parseRows converts raw store rows into candidates. A row with unparsable
// metadata is logged and skipped; one bad record must not fail the query.
func (r *Repo) parseRows(rows []db.CandidateRow) []candidate.Candidate {
	out := make([]candidate.Candidate, 0, len(rows))
	for _, row := range rows {
		var meta rowMetadata
		if err := json.Unmarshal(row.Metadata, &meta); err != nil {
			r.logger.Warn("Skipping candidate with malformed metadata",
				zap.String("item_id", row.ItemID),
				zap.Error(err),
			)
			continue
		}

		var publishTime *time.Time
		if meta.PublishTime != "" {
			ts, err := time.Parse(time.RFC3339, meta.PublishTime)
			if err != nil {
				// Unparsable publish time demotes the row in latest mode
				// instead of dropping it.
				r.logger.Warn("Ignoring malformed publish time",
					zap.String("item_id", row.ItemID),
					zap.String("publish_time", meta.PublishTime),
				)
			} else {
				publishTime = &ts
			}
		}

		out = append(out, candidate.New(
			row.ItemID,
			row.TenantID,
			row.CategoryID,
			candidate.Metadata{
				Title:          meta.Title,
				SalesCount:     meta.SalesCount,
				CreationCount:  meta.CreationCount,
				CompositeScore: meta.CompositeScore,
				PublishTime:    publishTime,
				PinWeight:      meta.PinWeight,
			},
			clampSimilarity(row.Similarity),
		))
	}
	return out
}

// clampSimilarity bounds the projected similarity to [0,1]. Cosine distance
// can exceed 1 for opposing vectors, which would make 1-distance negative.
func clampSimilarity(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

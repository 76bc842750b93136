package result

import (
	"time"

	"github.com/makerly/tplsearch/internal/domain/search/candidate"
)

// Factors is the explainability snapshot attached to every ranked result,
// regardless of which factor drove the sort score.
type Factors struct {
	Similarity     float64
	CompositeScore float64
	SalesCount     int64
	CreationCount  int64
	PublishTime    *time.Time
	PinWeight      float64
}

// Ranked is a candidate with its assigned sort score.
type Ranked struct {
	cand  candidate.Candidate
	score float64
}

// New creates a ranked result.
func New(c candidate.Candidate, score float64) Ranked {
	return Ranked{cand: c, score: score}
}

// Candidate returns the underlying candidate.
func (r *Ranked) Candidate() candidate.Candidate { return r.cand }

// Score returns the scalar used for ordering under the active sort mode.
func (r *Ranked) Score() float64 { return r.score }

// Factors returns the full factor snapshot for this result.
func (r *Ranked) Factors() Factors {
	m := r.cand.Meta()
	return Factors{
		Similarity:     r.cand.Similarity(),
		CompositeScore: m.CompositeScore,
		SalesCount:     m.SalesCount,
		CreationCount:  m.CreationCount,
		PublishTime:    m.PublishTime,
		PinWeight:      m.PinWeight,
	}
}

// Facet is a per-category candidate count over the full merged set.
type Facet struct {
	CategoryID string
	Count      int
}

// Page is one slice of the ranked result set.
type Page struct {
	Items      []Ranked
	Total      int
	TotalPages int
}

package search

import (
	"math"
	"sort"

	"github.com/makerly/tplsearch/internal/domain/search/candidate"
	"github.com/makerly/tplsearch/internal/domain/search/result"
	"github.com/makerly/tplsearch/internal/domain/search/sortmode"
)

// compositeBoostCap bounds the quality-score contribution so semantic
// similarity (0-100 scale) stays the primary signal.
const compositeBoostCap = 30.0

// StandardRanker scores candidates per sort mode. This is the strategy
// exercised by the live search path.
type StandardRanker struct{}

// NewStandardRanker creates the per-mode ranker.
func NewStandardRanker() *StandardRanker {
	return &StandardRanker{}
}

// Rank assigns a sort score per the mode and orders the set: score
// descending, item id ascending on ties (deterministic across calls).
func (r *StandardRanker) Rank(candidates []candidate.Candidate, m sortmode.Mode) []result.Ranked {
	var score func(c *candidate.Candidate) float64
	switch m {
	case sortmode.Latest:
		score = latestScore
	case sortmode.Bestseller:
		score = bestsellerScore
	default:
		score = compositeScore
	}

	return rankBy(candidates, score)
}

// compositeScore blends similarity with the indexed quality score:
// ceil(similarity*100) + min(1, composite/100)*30.
func compositeScore(c *candidate.Candidate) float64 {
	normalized := math.Min(1, c.Meta().CompositeScore/100)
	return math.Ceil(c.Similarity()*100) + normalized*compositeBoostCap
}

// latestScore is the publish time in epoch milliseconds; items without a
// publish time sort last.
func latestScore(c *candidate.Candidate) float64 {
	pt := c.Meta().PublishTime
	if pt == nil {
		return 0
	}
	return float64(pt.UnixMilli())
}

func bestsellerScore(c *candidate.Candidate) float64 {
	return float64(c.Meta().SalesCount)
}

// Weights holds factor weights for the weighted ranker.
type Weights struct {
	Similarity float64
	Sales      float64
	Creations  float64
	PinWeight  float64
}

// WeightedRanker is the alternate multi-factor strategy: a weighted average
// of similarity, saturated popularity counters, and the pin weight. It
// ignores the sort mode. Kept for parity with the legacy ranking utility;
// the composite formula in StandardRanker is what the live path uses.
type WeightedRanker struct {
	weights Weights
}

// NewWeightedRanker creates the weighted multi-factor ranker.
func NewWeightedRanker(w Weights) *WeightedRanker {
	return &WeightedRanker{weights: w}
}

// Rank orders by the weighted average, id ascending on ties.
func (r *WeightedRanker) Rank(candidates []candidate.Candidate, _ sortmode.Mode) []result.Ranked {
	return rankBy(candidates, func(c *candidate.Candidate) float64 {
		m := c.Meta()
		return r.weights.Similarity*c.Similarity() +
			r.weights.Sales*saturate(float64(m.SalesCount)) +
			r.weights.Creations*saturate(float64(m.CreationCount)) +
			r.weights.PinWeight*m.PinWeight
	})
}

// saturate maps an unbounded counter to [0,1) with diminishing returns.
func saturate(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return x / (x + 100)
}

func rankBy(candidates []candidate.Candidate, score func(c *candidate.Candidate) float64) []result.Ranked {
	ranked := make([]result.Ranked, 0, len(candidates))
	for i := range candidates {
		ranked = append(ranked, result.New(candidates[i], score(&candidates[i])))
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score() != ranked[j].Score() {
			return ranked[i].Score() > ranked[j].Score()
		}
		ci, cj := ranked[i].Candidate(), ranked[j].Candidate()
		return ci.ItemID() < cj.ItemID()
	})

	return ranked
}

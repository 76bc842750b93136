package search

import (
	"context"
	"testing"
	"time"

	"github.com/makerly/tplsearch/internal/domain"
	"github.com/makerly/tplsearch/internal/domain/search/candidate"
	"github.com/makerly/tplsearch/internal/domain/search/query"
	"github.com/makerly/tplsearch/internal/domain/search/sortmode"
)

// mockRecaller implements the Recaller contract for tests.
type mockRecaller struct {
	textRows   []candidate.Candidate
	vectorRows []candidate.Candidate
	err        error
	called     bool
	lastLimit  int
}

func (m *mockRecaller) Recall(
	_ context.Context, _ []float32, _ string, _ query.Filters, limit int,
) ([]candidate.Candidate, []candidate.Candidate, error) {
	m.called = true
	m.lastLimit = limit
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.textRows, m.vectorRows, nil
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

// cand builds a candidate with the fields most tests care about.
func cand(itemID, categoryID string, similarity, composite float64) candidate.Candidate {
	return candidate.New(itemID, "", categoryID, candidate.Metadata{
		CompositeScore: composite,
	}, similarity)
}

func candWithSales(itemID string, sales int64, similarity float64) candidate.Candidate {
	return candidate.New(itemID, "", "", candidate.Metadata{
		SalesCount: sales,
	}, similarity)
}

func candWithPublishTime(itemID string, pt *time.Time) candidate.Candidate {
	return candidate.New(itemID, "", "", candidate.Metadata{
		PublishTime: pt,
	}, 0.5)
}

func mustQuery(t *testing.T, text string, m sortmode.Mode, page, pageSize int, facetsOnly bool) *query.Query {
	t.Helper()
	q, err := query.New(text, m, query.Filters{}, page, pageSize, facetsOnly)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return &q
}

func timePtr(t time.Time) *time.Time { return &t }

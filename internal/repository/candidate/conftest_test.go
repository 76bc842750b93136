package candidate

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/makerly/tplsearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	fullTextFn func(ctx context.Context, q *db.FullTextQuery) ([]db.CandidateRow, error)
	vectorFn   func(ctx context.Context, q *db.VectorQuery) ([]db.CandidateRow, error)
}

func (m *mockStore) FullTextRecall(ctx context.Context, q *db.FullTextQuery) ([]db.CandidateRow, error) {
	if m.fullTextFn != nil {
		return m.fullTextFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) VectorRecall(ctx context.Context, q *db.VectorQuery) ([]db.CandidateRow, error) {
	if m.vectorFn != nil {
		return m.vectorFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, 0.6, zap.NewNop())
	return repo, ms
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

func metadataJSON(title string, sales int64, composite float64, publishTime string) []byte {
	return fmt.Appendf(nil,
		`{"title":%q,"sales_count":%d,"creation_count":3,"composite_score":%g,"publish_time":%q,"pin_weight":1}`,
		title, sales, composite, publishTime)
}

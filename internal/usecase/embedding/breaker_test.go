package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/makerly/tplsearch/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

func TestBreakerEmbed_Success(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		TotalTokens: 5,
	}}
	be := NewBreakerEmbedder(inner, "test", zap.NewNop())

	result, err := be.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 2 || result.TotalTokens != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBreakerEmbed_PropagatesInnerError(t *testing.T) {
	innerErr := errors.New("provider down")
	inner := &mockEmbedder{err: innerErr}
	be := NewBreakerEmbedder(inner, "test", zap.NewNop())

	_, err := be.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, innerErr) {
		t.Errorf("error %v does not wrap inner error", err)
	}
}

func TestBreakerEmbed_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	be := NewBreakerEmbedder(inner, "test", zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = be.Embed(ctx, "hello")
	}

	callsBefore := inner.calls
	_, err := be.Embed(ctx, "hello")
	if err == nil {
		t.Fatal("expected error from open breaker")
	}
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Errorf("open breaker error %v does not wrap ErrEmbeddingProvider", err)
	}
	if inner.calls != callsBefore {
		t.Errorf("inner embedder called %d times while breaker open", inner.calls-callsBefore)
	}
}

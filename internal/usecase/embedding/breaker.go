// Package embedding holds embedder decorators shared by the search path.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/makerly/tplsearch/internal/domain"
)

// BreakerEmbedder wraps an embedder with a circuit breaker so a flapping
// provider fails fast instead of stalling every search.
type BreakerEmbedder struct {
	inner  domain.Embedder
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewBreakerEmbedder creates a circuit-breaking decorator.
// The breaker opens after 5 consecutive failures and probes again after 30s.
func NewBreakerEmbedder(inner domain.Embedder, name string, logger *zap.Logger) *BreakerEmbedder {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Embedding circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerEmbedder{inner: inner, cb: cb, logger: logger}
}

// Embed delegates to the inner embedder through the breaker.
// An open breaker surfaces as domain.ErrEmbeddingProvider (caller-retryable).
func (b *BreakerEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Embed(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.EmbeddingResult{}, fmt.Errorf("embedding circuit open: %w", domain.ErrEmbeddingProvider)
		}
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	return v.(domain.EmbeddingResult), nil
}

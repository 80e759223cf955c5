// Package failover composes a remote embedding provider with the
// deterministic fallback so that remote failures never reach the caller.
package failover

import (
	"context"
	"sync/atomic"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.EmbeddingProvider = (*Provider)(nil)

// Provider wraps a primary provider with a local fallback. Any primary error
// (timeout, auth, malformed response) is logged and the fallback substitutes
// for that batch; EmbedBatch never returns an error while a fallback exists.
type Provider struct {
	primary  driven.EmbeddingProvider
	fallback driven.EmbeddingProvider

	// fellBack records whether the most recent embed went through the
	// fallback geometry. Fusion trusts lexical signal more when set.
	fellBack atomic.Bool
}

// New creates a failover provider. The fallback is required; the primary may
// be nil, in which case everything goes through the fallback.
func New(primary, fallback driven.EmbeddingProvider) *Provider {
	p := &Provider{primary: primary, fallback: fallback}
	if primary == nil {
		p.fellBack.Store(true)
	}
	return p
}

// EmbedBatch embeds via the primary, substituting the fallback on failure.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if p.primary != nil {
		out, err := p.primary.EmbedBatch(ctx, texts)
		if err == nil {
			p.fellBack.Store(false)
			return out, nil
		}
		// Caller cancellation is not a provider failure; surface it.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("Embedding provider %s failed, using fallback: %v", p.primary.ModelName(), err)
	}

	p.fellBack.Store(true)
	return p.fallback.EmbedBatch(ctx, texts)
}

// EmbedQuery embeds a single query string.
func (p *Provider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	out, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Dimensions returns the embedding vector size.
// Primary and fallback are constructed with matching dimensions.
func (p *Provider) Dimensions() int {
	return p.fallback.Dimensions()
}

// ModelName returns the active model name.
func (p *Provider) ModelName() string {
	if p.primary != nil && !p.fellBack.Load() {
		return p.primary.ModelName()
	}
	return p.fallback.ModelName()
}

// Fallback reports whether the last embed used the fallback geometry.
func (p *Provider) Fallback() bool {
	return p.fellBack.Load()
}

// Close releases both providers.
func (p *Provider) Close() error {
	var err error
	if p.primary != nil {
		err = p.primary.Close()
	}
	if cerr := p.fallback.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

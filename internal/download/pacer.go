package download

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a quiet period after each successful download.
//
// Mark starts the period and Wait blocks until it has elapsed. Wait
// without a preceding Mark returns immediately.
type Pacer struct {
	mu      sync.Mutex
	limit   rate.Limit
	limiter *rate.Limiter
}

// NewPacer creates a Pacer. A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{limit: limit, limiter: rate.NewLimiter(limit, 1)}
}

// Mark records a completed download.
func (p *Pacer) Mark() {
	l := rate.NewLimiter(p.limit, 1)
	l.Allow()

	p.mu.Lock()
	p.limiter = l
	p.mu.Unlock()
}

// Wait blocks until the quiet period ends or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	l := p.limiter
	p.mu.Unlock()
	return l.Wait(ctx)
}

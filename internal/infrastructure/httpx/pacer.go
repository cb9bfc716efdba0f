package httpx

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum wall-clock interval between consecutive requests
// to one endpoint family, respecting upstream rate limits.
type Pacer struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewPacer creates a pacer with the given minimum interval between requests.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval, now: time.Now}
}

// Wait blocks until the minimum interval since the previous request has
// elapsed, then records the new request time. Returns early on context
// cancellation without recording.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	elapsed := p.now().Sub(p.last)
	wait := p.interval - elapsed
	if p.last.IsZero() {
		wait = 0
	}
	p.mu.Unlock()

	if err := sleep(ctx, wait); err != nil {
		return err
	}

	p.mu.Lock()
	p.last = p.now()
	p.mu.Unlock()
	return nil
}

package events

import (
	"context"
	"sync"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

type collectorKey struct{}

// Collector gathers notices emitted while serving one request.
type Collector struct {
	mu      sync.Mutex
	notices []domain.Notice
}

// WithCollector attaches a fresh Collector to ctx.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// CollectorFrom returns the Collector attached to ctx, if any.
func CollectorFrom(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	return c, ok && c != nil
}

// Add records a notice.
func (c *Collector) Add(n domain.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns the recorded notices in emission order.
func (c *Collector) Notices() []domain.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notice{}, c.notices...)
}

// NoticesFrom returns the notices collected for ctx, or an empty slice when
// no collector is attached.
func NoticesFrom(ctx context.Context) []domain.Notice {
	if c, ok := CollectorFrom(ctx); ok {
		return c.Notices()
	}
	return []domain.Notice{}
}

package github

import (
	"context"
	"sync"
	"time"

	"github.com/Krex381/krexdll/internal/logging"
	"github.com/Krex381/krexdll/internal/metrics"
)

type Fetcher interface {
	PublicRepos(ctx context.Context, handle string) (int, error)
}

// Counter serves the last good repo count, or a fixed fallback until the
// first fetch succeeds. A failed refresh never replaces a good value.
type Counter struct {
	fetcher  Fetcher
	handle   string
	fallback int
	log      logging.Logger
	metrics  *metrics.Metrics

	mu        sync.RWMutex
	count     int
	fetched   bool
	fetchedAt time.Time
}

func NewCounter(f Fetcher, handle string, fallback int, log logging.Logger, m *metrics.Metrics) *Counter {
	return &Counter{
		fetcher:  f,
		handle:   handle,
		fallback: fallback,
		log:      log.With("component", "github", "handle", handle),
		metrics:  m,
	}
}

func (c *Counter) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.fetched {
		return c.fallback
	}
	return c.count
}

// Live reports whether Count comes from GitHub rather than the fallback,
// and when it was fetched.
func (c *Counter) Live() (bool, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetched, c.fetchedAt
}

func (c *Counter) Refresh(ctx context.Context) error {
	n, err := c.fetcher.PublicRepos(ctx, c.handle)
	c.metrics.GitHubFetch(n, err)
	if err != nil {
		c.log.Warn(ctx, "repo count refresh failed", "error", err, "serving", c.Count())
		return err
	}

	c.mu.Lock()
	c.count = n
	c.fetched = true
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.log.Debug(ctx, "repo count refreshed", "public_repos", n)
	return nil
}

// Run refreshes immediately and then every interval until ctx is done.
func (c *Counter) Run(ctx context.Context, every time.Duration) error {
	_ = c.Refresh(ctx)

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			_ = c.Refresh(ctx)
		}
	}
}

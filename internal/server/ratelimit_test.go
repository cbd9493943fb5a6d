package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.False(t, rl.IsBlocked("1.1.1.1"))
	rl.BlockIP("1.1.1.1")
	assert.True(t, rl.IsBlocked("1.1.1.1"))
	assert.False(t, rl.IsBlocked("2.2.2.2"))

	now = now.Add(2 * time.Minute)
	assert.False(t, rl.IsBlocked("1.1.1.1"))

	rl.prune()
	rl.mu.RLock()
	assert.Empty(t, rl.blockedIPs)
	rl.mu.RUnlock()

	rl.Close()
}

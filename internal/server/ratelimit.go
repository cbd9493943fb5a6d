package server

import (
	"sync"
	"time"
)

// RateLimiter blocks client IPs for a fixed period.
type RateLimiter struct {
	mu          sync.RWMutex
	blockedIPs  map[string]time.Time
	blockPeriod time.Duration
	done        chan struct{}
	closeOnce   sync.Once
	now         func() time.Time
}

func NewRateLimiter(blockPeriod time.Duration) *RateLimiter {
	rl := &RateLimiter{
		blockedIPs:  make(map[string]time.Time),
		blockPeriod: blockPeriod,
		done:        make(chan struct{}),
		now:         time.Now,
	}

	go rl.cleanup()

	return rl
}

// IsBlocked checks if an IP is currently blocked
func (rl *RateLimiter) IsBlocked(ip string) bool {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	blockedUntil, exists := rl.blockedIPs[ip]
	if !exists {
		return false
	}

	return rl.now().Before(blockedUntil)
}

// BlockIP blocks an IP for the configured period
func (rl *RateLimiter) BlockIP(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.blockedIPs[ip] = rl.now().Add(rl.blockPeriod)
}

func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

// cleanup periodically removes expired blocks
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

func (rl *RateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, blockedUntil := range rl.blockedIPs {
		if now.After(blockedUntil) {
			delete(rl.blockedIPs, ip)
		}
	}
}

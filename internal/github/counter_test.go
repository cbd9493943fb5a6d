package github

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krex381/krexdll/internal/logging"
)

type stubFetcher struct {
	mu    sync.Mutex
	n     int
	err   error
	calls int
}

func (s *stubFetcher) PublicRepos(context.Context, string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.n, s.err
}

func (s *stubFetcher) set(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n, s.err = n, err
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestCounter_FallbackUntilFetched(t *testing.T) {
	f := &stubFetcher{err: errors.New("offline")}
	c := NewCounter(f, "Krex381", 17, logging.Nop(), nil)

	assert.Equal(t, 17, c.Count())
	require.Error(t, c.Refresh(context.Background()))
	assert.Equal(t, 17, c.Count())
	live, _ := c.Live()
	assert.False(t, live)
}

func TestCounter_KeepsLastGoodValue(t *testing.T) {
	f := &stubFetcher{n: 30}
	c := NewCounter(f, "Krex381", 17, logging.Nop(), nil)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 30, c.Count())

	f.set(0, errors.New("rate limited"))
	require.Error(t, c.Refresh(context.Background()))
	assert.Equal(t, 30, c.Count())

	live, at := c.Live()
	assert.True(t, live)
	assert.False(t, at.IsZero())
}

func TestCounter_ZeroReposIsAValue(t *testing.T) {
	c := NewCounter(&stubFetcher{n: 0}, "x", 17, logging.Nop(), nil)
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 0, c.Count())
}

func TestCounter_Run(t *testing.T) {
	f := &stubFetcher{n: 5}
	c := NewCounter(f, "x", 1, logging.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, 5*time.Millisecond) }()

	assert.Eventually(t, func() bool { return f.callCount() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 5, c.Count())

	cancel()
	assert.NoError(t, <-done)
}

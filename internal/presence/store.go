// Package presence holds the latest presence observed on the gateway and
// turns it into the model the page renders.
package presence

import (
	"sync"
	"time"

	"github.com/Krex381/krexdll/internal/lanyard"
)

// Snapshot is the state at one point in time. Presence is nil until the
// first payload arrives.
type Snapshot struct {
	Connected bool              `json:"connected"`
	Presence  *lanyard.Presence `json:"presence"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store keeps the last received presence. The last message wins; there is
// no ordering beyond arrival order.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
	subs map[int]chan Snapshot
	next int
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		subs: make(map[int]chan Snapshot),
		now:  time.Now,
	}
}

func (s *Store) SetPresence(p lanyard.Presence) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Presence = &p
	s.snap.UpdatedAt = s.now()
	s.publish()
}

func (s *Store) SetConnected(up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.Connected == up {
		return
	}
	s.snap.Connected = up
	s.snap.UpdatedAt = s.now()
	s.publish()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe returns a channel that immediately holds the current snapshot
// and then every later one. A subscriber that falls behind only sees the
// newest snapshot. cancel closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan Snapshot, 1)
	ch <- s.snap
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish must be called with mu held.
func (s *Store) publish() {
	for _, ch := range s.subs {
		select {
		case ch <- s.snap:
			continue
		default:
		}
		// Replace the stale snapshot nobody has read yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.snap:
		default:
		}
	}
}

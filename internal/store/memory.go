// internal/store/memory.go
//
// In-memory session store.
//
// Characteristics:
//   - Sessions keyed by ID in a hashicorp/golang-lru cache, so the number of
//     live boards (and their countdown timers) is bounded.
//   - Sessions idle longer than the TTL are treated as missing and removed,
//     unless a renderer is still subscribed to them.
//   - When full, the least recently used board without renderers is evicted;
//     live boards are skipped. A store holding only live boards is full.
//   - Every session leaving the store (eviction, expiry, Delete) is Closed,
//     which cancels its countdown.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/robalobadob/lettersort/internal/logging"
	"github.com/robalobadob/lettersort/internal/session"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("store: session not found")

	// ErrFull is returned by Save when every held session has renderers.
	ErrFull = errors.New("store: every session is in use")
)

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds or refreshes a session. It fails with ErrFull rather than
	// evict a session someone is watching.
	Save(ctx context.Context, s *session.Session) error

	// Get retrieves a session by ID and refreshes its idle deadline.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Delete removes and closes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep removes every expired session and reports how many went.
	Sweep(ctx context.Context) int

	// Len reports how many sessions are held.
	Len() int
}

type entry struct {
	sess     *session.Session
	lastSeen time.Time
}

// memory is an LRU-bounded Store implementation. The cache does its own
// locking.
type memory struct {
	cache *lru.Cache
	size  int
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore constructs a Store holding at most size sessions, each
// expiring after ttl without access. A non-positive ttl disables expiry.
func NewMemoryStore(size int, ttl time.Duration) (Store, error) {
	return newMemory(size, ttl, time.Now)
}

func newMemory(size int, ttl time.Duration, now func() time.Time) (*memory, error) {
	c, err := lru.NewWithEvict(size, func(_, value interface{}) {
		if e, ok := value.(*entry); ok {
			e.sess.Close()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("new lru: %w", err)
	}
	return &memory{cache: c, size: size, ttl: ttl, now: now}, nil
}

func (m *memory) Save(ctx context.Context, s *session.Session) error {
	if s == nil {
		return errors.New("store: nil session")
	}
	if !m.cache.Contains(s.ID) && m.cache.Len() >= m.size {
		if err := m.spareOldest(); err != nil {
			return err
		}
	}
	if evicted := m.cache.Add(s.ID, &entry{sess: s, lastSeen: m.now()}); evicted {
		logging.FromContext(ctx).Info().Msg("session store full, evicted least recently used")
	}
	return nil
}

// spareOldest promotes live sessions off the cold end of the cache until the
// oldest one can be evicted.
func (m *memory) spareOldest() error {
	for i := 0; i < m.cache.Len(); i++ {
		k, v, ok := m.cache.GetOldest()
		if !ok {
			return nil
		}
		if !live(v.(*entry)) {
			return nil
		}
		m.cache.Get(k)
	}
	return ErrFull
}

func (m *memory) Get(ctx context.Context, id string) (*session.Session, error) {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	e := v.(*entry)
	if m.expired(e) || e.sess.Closed() {
		m.cache.Remove(id)
		return nil, ErrNotFound
	}
	e.lastSeen = m.now()
	return e.sess, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.cache.Remove(id)
	return nil
}

func (m *memory) Sweep(ctx context.Context) int {
	n := 0
	for _, k := range m.cache.Keys() {
		v, ok := m.cache.Peek(k)
		if !ok {
			continue
		}
		if e := v.(*entry); m.expired(e) || e.sess.Closed() {
			m.cache.Remove(k)
			n++
		}
	}
	if n > 0 {
		logging.FromContext(ctx).Debug().Int("removed", n).Msg("swept expired sessions")
	}
	return n
}

func (m *memory) Len() int { return m.cache.Len() }

func (m *memory) expired(e *entry) bool {
	if live(e) {
		return false
	}
	return m.ttl > 0 && m.now().Sub(e.lastSeen) > m.ttl
}

func live(e *entry) bool {
	return !e.sess.Closed() && e.sess.Observers() > 0
}

// RunJanitor sweeps st every interval until ctx is done.
func RunJanitor(ctx context.Context, st Store, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			st.Sweep(ctx)
		}
	}
}

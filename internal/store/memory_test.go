package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/lettersort/internal/game"
	"github.com/robalobadob/lettersort/internal/session"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func newSess() (*session.Session, *session.Manual) {
	m := &session.Manual{}
	return session.New(session.Options{Scheduler: m}), m
}

func TestSaveGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, err := NewMemoryStore(4, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := newSess()
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEvictionClosesSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, err := NewMemoryStore(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	first, clock := newSess()
	first.Start()
	_ = st.Save(ctx, first)

	second, _ := newSess()
	_ = st.Save(ctx, second)

	if !first.Closed() {
		t.Fatal("evicted session must be closed")
	}
	if clock.Pending() != 0 {
		t.Fatal("evicted session must not keep a countdown")
	}
	if st.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", st.Len())
	}
	if _, err := st.Get(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for evicted session, got %v", err)
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := &fakeNow{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	st, err := newMemory(8, time.Minute, clk.now)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := newSess()
	b, _ := newSess()
	_ = st.Save(ctx, a)
	_ = st.Save(ctx, b)

	clk.t = clk.t.Add(45 * time.Second)
	if _, err := st.Get(ctx, a.ID); err != nil {
		t.Fatalf("a should still be live: %v", err)
	}

	clk.t = clk.t.Add(30 * time.Second)
	if n := st.Sweep(ctx); n != 1 {
		t.Fatalf("expected 1 swept, got %d", n)
	}
	if !b.Closed() || a.Closed() {
		t.Fatal("expected only b to be closed")
	}

	clk.t = clk.t.Add(2 * time.Minute)
	if _, err := st.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("expected empty store, got %d", st.Len())
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, _ := NewMemoryStore(2, 0)
	s, _ := newSess()
	_ = st.Save(ctx, s)
	_ = st.Delete(ctx, s.ID)
	_ = st.Delete(ctx, "unknown")
	if !s.Closed() || st.Len() != 0 {
		t.Fatal("delete must close and remove the session")
	}
}

func TestWatchedSessionOutlivesTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := &fakeNow{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	st, err := newMemory(4, time.Minute, clk.now)
	if err != nil {
		t.Fatal(err)
	}
	s, sched := newSess()
	_ = st.Save(ctx, s)
	if _, err := st.Get(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	frames := 0
	cancel := s.Subscribe(func(game.Snapshot) { frames++ })
	s.Start()

	for i := 0; i < 5; i++ {
		sched.Fire()
		s.DragStart([]rune(s.Snapshot().Pool[0])[0])
		clk.t = clk.t.Add(15 * time.Second)
	}
	if n := st.Sweep(ctx); n != 0 {
		t.Fatalf("swept %d sessions with a renderer attached", n)
	}
	if s.Closed() || s.Snapshot().State != game.StatePlaying {
		t.Fatal("watched session must stay open mid-game")
	}
	if _, err := st.Get(ctx, s.ID); err != nil {
		t.Fatalf("watched session must stay reachable: %v", err)
	}

	cancel()
	clk.t = clk.t.Add(2 * time.Minute)
	if n := st.Sweep(ctx); n != 1 || !s.Closed() {
		t.Fatalf("abandoned session must expire, swept %d", n)
	}
	if frames == 0 {
		t.Fatal("expected frames while subscribed")
	}
}

func TestEvictionSkipsWatchedSessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, err := NewMemoryStore(2, 0)
	if err != nil {
		t.Fatal(err)
	}
	watched, _ := newSess()
	_ = st.Save(ctx, watched)
	cancel := watched.Subscribe(func(game.Snapshot) {})
	defer cancel()

	idle, _ := newSess()
	_ = st.Save(ctx, idle)

	// watched is the least recently used entry here
	fresh, _ := newSess()
	if err := st.Save(ctx, fresh); err != nil {
		t.Fatal(err)
	}
	if watched.Closed() {
		t.Fatal("watched session was evicted")
	}
	if !idle.Closed() {
		t.Fatal("expected the unwatched session to be evicted")
	}

	other := fresh.Subscribe(func(game.Snapshot) {})
	defer other()
	extra, _ := newSess()
	if err := st.Save(ctx, extra); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	if watched.Closed() || fresh.Closed() || st.Len() != 2 {
		t.Fatal("a full store of watched sessions must not evict")
	}
}

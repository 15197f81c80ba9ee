// internal/session/session.go
//
// A Session binds one game.Game to its one-second countdown and to the
// renderers observing it.
//
// Every exported method is one event-handling turn: it takes the session
// lock, mutates the game, reschedules or cancels the countdown, and
// publishes a snapshot to observers before returning. Observers run under
// the lock and must not call back into the session.
//
// Timer discipline:
//   - Start schedules the first tick; every tick cancels and reschedules.
//   - The tick that times the game out does not reschedule.
//   - Close cancels the pending tick; a callback that already fired but lost
//     the race for the lock is discarded by its generation number.

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/lettersort/internal/daily"
	"github.com/robalobadob/lettersort/internal/game"
	"github.com/robalobadob/lettersort/internal/layout"
	"github.com/robalobadob/lettersort/internal/letters"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Mode selects where a session's letters come from.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeDaily  Mode = "daily"
)

// ParseMode maps user input to a Mode, defaulting to ModeRandom.
func ParseMode(s string) Mode {
	if Mode(s) == ModeDaily {
		return ModeDaily
	}
	return ModeRandom
}

// Options configure a Session. Zero values pick production defaults.
type Options struct {
	Mode      Mode
	Seconds   int
	Salt      string           // daily mode key
	Source    letters.Source   // random mode; nil uses letters.Default
	Scheduler Scheduler        // nil uses the wall clock
	Now       func() time.Time // daily mode date; nil uses time.Now
	Logger    *zerolog.Logger
}

// Observer receives a snapshot after every turn.
type Observer func(game.Snapshot)

// Session is safe for concurrent use.
type Session struct {
	ID        string
	Mode      Mode
	CreatedAt time.Time

	mu        sync.Mutex
	game      *game.Game
	opts      Options
	timer     Timer
	gen       uint64
	closed    bool
	observers map[int]Observer
	nextObs   int
	log       zerolog.Logger
}

// New returns an idle session.
func New(opts Options) *Session {
	if opts.Scheduler == nil {
		opts.Scheduler = WallClock
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Mode == "" {
		opts.Mode = ModeRandom
	}
	id := uuid.NewString()
	lg := zerolog.Nop()
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	return &Session{
		ID:        id,
		Mode:      opts.Mode,
		CreatedAt: opts.Now(),
		game:      game.New(opts.Seconds),
		opts:      opts,
		observers: make(map[int]Observer),
		log:       lg.With().Str("session", id).Str("mode", string(opts.Mode)).Logger(),
	}
}

// Subscribe registers fn and immediately sends it the current snapshot.
// The returned func removes the registration.
func (s *Session) Subscribe(fn Observer) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	fn(s.game.Snapshot())
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Observers reports how many renderers are subscribed.
func (s *Session) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Snapshot returns the current view.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Start is the start control: generates letters and begins the countdown.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if !s.game.Start(letters.Generate(s.source())) {
		return false
	}
	s.schedule()
	s.log.Info().Int("seconds", s.game.TimeLeft).Msg("game started")
	s.publish()
	return true
}

func (s *Session) source() letters.Source {
	if s.opts.Mode == ModeDaily {
		return daily.NewSource(s.opts.Now(), s.opts.Salt)
	}
	return s.opts.Source
}

// DragStart begins a pointer drag and returns the transfer payload.
func (s *Session) DragStart(letter rune) (string, bool) {
	var text string
	ok := s.turn(func(g *game.Game) bool {
		var ok bool
		text, ok = g.DragStart(letter)
		return ok
	})
	return text, ok
}

// DragEnter highlights a slot.
func (s *Session) DragEnter(index int) {
	s.turn(func(g *game.Game) bool { g.DragEnter(index); return true })
}

// DragLeave removes a slot highlight.
func (s *Session) DragLeave(index int) {
	s.turn(func(g *game.Game) bool { g.DragLeave(index); return true })
}

// Drop places the letter carried by transfer into slot index.
func (s *Session) Drop(index int, transfer string) bool {
	return s.turn(func(g *game.Game) bool { return g.Drop(index, transfer) })
}

// DragEnd aborts a pointer drag.
func (s *Session) DragEnd() {
	s.turn(func(g *game.Game) bool { g.DragEnd(); return true })
}

// TouchStart begins a touch drag at (x, y).
func (s *Session) TouchStart(letter rune, x, y float64) bool {
	return s.turn(func(g *game.Game) bool { return g.TouchStart(letter, x, y) })
}

// TouchMove reports whether the renderer should suppress scrolling.
func (s *Session) TouchMove(x, y float64) bool {
	return s.turn(func(g *game.Game) bool { return g.TouchMove(x, y) })
}

// TouchEnd finishes a touch drag.
func (s *Session) TouchEnd(x, y float64) {
	s.turn(func(g *game.Game) bool { g.TouchEnd(x, y); return true })
}

// SetLayout installs the renderer's slot geometry for touch hit-testing.
func (s *Session) SetLayout(l layout.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.SetHitTester(l)
}

// Close cancels the countdown and drops observers. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimer()
	s.game.DragEnd()
	s.observers = map[int]Observer{}
	s.log.Info().Msg("session closed")
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) turn(fn func(*game.Game) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	ok := fn(s.game)
	s.publish()
	return ok
}

// schedule must be called with mu held.
func (s *Session) schedule() {
	s.stopTimer()
	s.gen++
	gen := s.gen
	s.timer = s.opts.Scheduler.AfterFunc(TickInterval, func() { s.tick(gen) })
}

// stopTimer must be called with mu held.
func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}
	s.timer = nil
	if s.game.Tick() {
		s.log.Info().Str("result", string(s.game.Result)).Msg("game over")
	} else if s.game.State == game.StatePlaying {
		s.schedule()
	}
	s.publish()
}

// publish must be called with mu held.
func (s *Session) publish() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.game.Snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}

// internal/game/engine.go
//
// Game controller for a single lettersort board.
// Responsibilities:
//   - Drive the idle → playing → ended state machine (Start, Tick).
//   - Move letters from the pool into empty answer slots (Pickup, Place).
//   - Evaluate the arrangement once, when the countdown reaches zero.
//
// Invalid actions never fail: they are no-ops that report false.
package game

import (
	"github.com/robalobadob/lettersort/internal/events"
	"github.com/robalobadob/lettersort/internal/letters"
)

// New constructs an idle game with the given countdown length.
// A non-positive seconds value falls back to DefaultSeconds. The idle
// countdown shows the full round length.
func New(seconds int) *Game {
	if seconds <= 0 {
		seconds = DefaultSeconds
	}
	return &Game{
		State:     StateIdle,
		Seconds:   seconds,
		TimeLeft:  seconds,
		listeners: events.NewRegistry(),
	}
}

// Start begins a round with the given letters. It is accepted from idle and
// ended; while playing, or with a letter set that is not PoolSize distinct
// uppercase letters, it does nothing.
func (g *Game) Start(set []rune) bool {
	if g.State == StatePlaying || !letters.Valid(set) {
		return false
	}
	g.clearDrag()
	g.Pool = append([]rune(nil), set...)
	g.Slots = [SlotCount]rune{}
	g.hover = [SlotCount]bool{}
	g.TimeLeft = g.Seconds
	g.Result = ResultNone
	g.State = StatePlaying
	return true
}

// Tick advances the countdown by one second. It reports true when this tick
// ended the game.
func (g *Game) Tick() bool {
	if g.State != StatePlaying {
		return false
	}
	if g.TimeLeft > 0 {
		g.TimeLeft--
	}
	if g.TimeLeft == 0 {
		g.timeout()
		return true
	}
	return false
}

func (g *Game) timeout() {
	g.Result = Evaluate(g.Pool, g.Slots)
	g.State = StateEnded
	g.clearDrag()
	g.hover = [SlotCount]bool{}
}

// Pickup makes letter the dragged letter. Only pool letters of a running game
// can be picked up.
func (g *Game) Pickup(letter rune) bool {
	if g.State != StatePlaying || indexOf(g.Pool, letter) < 0 {
		return false
	}
	g.setDrag(letter)
	return true
}

// Place writes letter into slot index and removes it from the pool. An
// occupied or out-of-range slot, or a letter no longer in the pool, leaves
// the board untouched. The dragged letter is cleared on every path.
func (g *Game) Place(letter rune, index int) bool {
	defer g.clearDrag()
	if g.State != StatePlaying || index < 0 || index >= SlotCount {
		return false
	}
	if g.Slots[index] != 0 {
		return false
	}
	i := indexOf(g.Pool, letter)
	if i < 0 {
		return false
	}
	g.Slots[index] = letter
	g.Pool = append(g.Pool[:i:i], g.Pool[i+1:]...)
	return true
}

// Dragged returns the letter of the active gesture, if any.
func (g *Game) Dragged() (rune, bool) { return g.dragged, g.dragged != 0 }

// Letters returns the pool followed by every placed letter.
func (g *Game) Letters() []rune {
	out := append([]rune(nil), g.Pool...)
	for _, r := range g.Slots {
		if r != 0 {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate reconstructs the canonical order from the unplaced and placed
// letters together and compares it slot by slot. Any empty slot loses.
func Evaluate(pool []rune, slots [SlotCount]rune) Result {
	all := append([]rune(nil), pool...)
	for _, r := range slots {
		if r != 0 {
			all = append(all, r)
		}
	}
	sorted := letters.Sorted(all)
	for i, r := range slots {
		if i >= len(sorted) || r != sorted[i] {
			return ResultLost
		}
	}
	return ResultWon
}

// Snapshot copies the current state for rendering.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		State:    g.State,
		TimeLeft: g.TimeLeft,
		Pool:     make([]string, len(g.Pool)),
		Slots:    make([]string, SlotCount),
		Hover:    append([]bool(nil), g.hover[:]...),
		Result:   g.Result,
		Frozen:   g.State != StatePlaying,
	}
	for i, r := range g.Pool {
		s.Pool[i] = string(r)
	}
	for i, r := range g.Slots {
		if r != 0 {
			s.Slots[i] = string(r)
		}
	}
	if g.dragged != 0 {
		s.Dragged = string(g.dragged)
	}
	switch g.State {
	case StateIdle:
		s.Button = Button{Label: "Play", Enabled: true}
	case StatePlaying:
		s.Button = Button{Label: "Play", Enabled: false}
	case StateEnded:
		s.Button = Button{Label: "Play Again", Enabled: true}
	}
	return s
}

func indexOf(set []rune, r rune) int {
	for i, x := range set {
		if x == r {
			return i
		}
	}
	return -1
}

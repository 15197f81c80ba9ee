// internal/game/types.go
//
// Core type definitions for the lettersort game controller.
// Defines:
//   - State: idle / playing / ended.
//   - Result: the banner computed once when the countdown expires.
//   - Game: state for a single board (pool, slots, timer, drag gesture).
//   - Snapshot: the read-only view handed to renderers.

package game

import (
	"github.com/robalobadob/lettersort/internal/events"
	"github.com/robalobadob/lettersort/internal/letters"
)

// State is the controller's lifecycle phase.
type State string

const (
	StateIdle    State = "idle"
	StatePlaying State = "playing"
	StateEnded   State = "ended"
)

// Result is the banner shown after the game ends. Empty until then.
type Result string

const (
	ResultNone Result = ""
	ResultWon  Result = "You won!"
	ResultLost Result = "You lost!"
)

const (
	// SlotCount is the number of answer positions.
	SlotCount = letters.PoolSize
	// DefaultSeconds is the countdown length of a game.
	DefaultSeconds = 30
	// TouchDeadzone is how far (in either axis) a touch must travel from its
	// origin before it is treated as a drag rather than a scroll.
	TouchDeadzone = 10.0
)

// HitTester maps a screen point onto an answer slot.
type HitTester interface {
	SlotAt(x, y float64) (int, bool)
}

type point struct{ x, y float64 }

// Game holds the state of a single board. All methods are synchronous and
// must be called from one goroutine at a time (see session.Session).
type Game struct {
	State    State
	Pool     []rune          // letters not yet placed, in display order
	Slots    [SlotCount]rune // 0 marks an empty slot
	TimeLeft int             // seconds
	Seconds  int             // countdown length restored by Start
	Result   Result

	dragged   rune // 0 when no gesture is active
	hover     [SlotCount]bool
	origin    *point
	hits      HitTester
	listeners *events.Registry
	gesture   []events.ID
}

// Button describes the start control.
type Button struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// Snapshot is a copy of everything a renderer draws.
type Snapshot struct {
	State    State    `json:"state"`
	TimeLeft int      `json:"timeLeft"`
	Pool     []string `json:"pool"`
	Slots    []string `json:"slots"` // "" for empty
	Hover    []bool   `json:"hover"`
	Dragged  string   `json:"dragged,omitempty"`
	Result   Result   `json:"result,omitempty"`
	Button   Button   `json:"button"`
	Frozen   bool     `json:"frozen"` // tiles not draggable
}

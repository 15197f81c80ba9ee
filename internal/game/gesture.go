package game

import (
	"math"

	"github.com/robalobadob/lettersort/internal/events"
	"github.com/robalobadob/lettersort/internal/letters"
)

// setDrag starts a gesture. The touch-move/touch-end listeners exist exactly
// while a letter is being dragged.
func (g *Game) setDrag(letter rune) {
	if g.listeners == nil {
		g.listeners = events.NewRegistry()
	}
	g.dragged = letter
	if len(g.gesture) == 0 {
		g.gesture = append(g.gesture,
			g.listeners.On(events.TouchMove, g.onTouchMove),
			g.listeners.On(events.TouchEnd, g.onTouchEnd),
		)
	}
}

// clearDrag ends the gesture on every exit path: drop, invalid drop,
// touch-end, abort, timeout and restart.
func (g *Game) clearDrag() {
	g.dragged = 0
	g.origin = nil
	for _, id := range g.gesture {
		g.listeners.Off(id)
	}
	g.gesture = g.gesture[:0]
}

// ListenerCount reports how many gesture listeners are installed.
func (g *Game) ListenerCount() int {
	if g.listeners == nil {
		return 0
	}
	return g.listeners.Len()
}

// SetHitTester installs the slot geometry used by touch drags.
func (g *Game) SetHitTester(h HitTester) { g.hits = h }

// DragStart is a pointer drag beginning on the tile carrying letter. It
// returns the plain-text payload the renderer attaches to the drag transfer.
func (g *Game) DragStart(letter rune) (string, bool) {
	if !g.Pickup(letter) {
		return "", false
	}
	return string(letter), true
}

// DragEnter highlights slot index while a drag hovers over it.
func (g *Game) DragEnter(index int) {
	if g.State != StatePlaying || index < 0 || index >= SlotCount {
		return
	}
	g.hover[index] = true
}

// DragLeave removes the highlight from slot index.
func (g *Game) DragLeave(index int) {
	if index < 0 || index >= SlotCount {
		return
	}
	g.hover[index] = false
}

// Drop reads the letter from the transfer payload and places it in slot
// index. Occupancy is checked by Place, not here.
func (g *Game) Drop(index int, transfer string) bool {
	if index >= 0 && index < SlotCount {
		g.hover[index] = false
	}
	letter, ok := letters.Parse(transfer)
	if !ok {
		g.clearDrag()
		return false
	}
	return g.Place(letter, index)
}

// DragEnd aborts a pointer gesture that ended without a drop.
func (g *Game) DragEnd() {
	g.clearDrag()
	g.hover = [SlotCount]bool{}
}

// TouchStart picks up letter and records where the finger went down.
func (g *Game) TouchStart(letter rune, x, y float64) bool {
	if !g.Pickup(letter) {
		return false
	}
	g.origin = &point{x: x, y: y}
	return true
}

// TouchMove forwards a touch-move to the installed listeners. It reports
// whether the renderer should suppress scrolling for this move.
func (g *Game) TouchMove(x, y float64) bool {
	if g.listeners == nil {
		return false
	}
	ev := &events.Event{Kind: events.TouchMove, X: x, Y: y}
	g.listeners.Dispatch(ev)
	return ev.DefaultPrevented()
}

// TouchEnd finishes a touch gesture whether or not anything was placed.
func (g *Game) TouchEnd(x, y float64) {
	if g.listeners != nil {
		g.listeners.Dispatch(&events.Event{Kind: events.TouchEnd, X: x, Y: y})
	}
	g.clearDrag()
}

func (g *Game) onTouchMove(ev *events.Event) {
	if g.dragged == 0 || g.origin == nil {
		return
	}
	dx := math.Abs(ev.X - g.origin.x)
	dy := math.Abs(ev.Y - g.origin.y)
	if dx <= TouchDeadzone && dy <= TouchDeadzone {
		return
	}
	ev.PreventDefault()
	if g.hits == nil {
		return
	}
	// drop on hover, not on release
	if i, ok := g.hits.SlotAt(ev.X, ev.Y); ok {
		g.Place(g.dragged, i)
	}
}

func (g *Game) onTouchEnd(*events.Event) { g.clearDrag() }

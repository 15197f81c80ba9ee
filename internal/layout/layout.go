// Package layout names the addressable pieces of the board and hit-tests
// screen coordinates against the rendered answer slots.
//
// Renderers own the geometry: the browser reports its slot rectangles in
// CSS pixels, the terminal renderer in cells. The game only ever asks
// "which slot is under this point".
package layout

import (
	"strconv"
	"strings"
)

const slotPrefix = "slot-"

// Rect is an axis-aligned rectangle. Contains is half-open on the far edges.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout holds one rectangle per answer slot, indexed by slot.
type Layout struct {
	Slots []Rect `json:"slots"`
}

// SlotAt returns the index of the slot under (x, y).
func (l Layout) SlotAt(x, y float64) (int, bool) {
	for i, r := range l.Slots {
		if r.Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// Row lays out n equally sized cells left to right starting at (x, y),
// separated by gap.
func Row(n int, x, y, w, h, gap float64) []Rect {
	out := make([]Rect, n)
	for i := range out {
		out[i] = Rect{X: x + float64(i)*(w+gap), Y: y, W: w, H: h}
	}
	return out
}

// SlotID is the element identifier of slot i.
func SlotID(i int) string { return slotPrefix + strconv.Itoa(i) }

// ParseSlotID recovers the slot index from an identifier made by SlotID.
func ParseSlotID(id string) (int, bool) {
	if !strings.HasPrefix(id, slotPrefix) {
		return -1, false
	}
	i, err := strconv.Atoi(id[len(slotPrefix):])
	if err != nil || i < 0 {
		return -1, false
	}
	return i, true
}

// Package protocol defines the JSON frames exchanged with the browser over
// the websocket and applies client frames to a session.
//
// Client frames mirror the DOM events the page observes:
//
//	{"type":"start"}
//	{"type":"dragstart","letter":"Q"}
//	{"type":"dragenter","slot":"slot-2"}   {"type":"dragleave","slot":"slot-2"}
//	{"type":"drop","slot":"slot-2","text":"Q"}
//	{"type":"dragend"}
//	{"type":"touchstart","letter":"Q","x":10,"y":20}
//	{"type":"touchmove","x":10,"y":90}
//	{"type":"touchend","x":10,"y":90}
//	{"type":"layout","slots":[{"x":0,"y":0,"w":48,"h":48}, ...]}
//
// Slots are named by their element id; slot frames without a valid id are
// ignored. The server answers with "state" frames after every turn and a "touch"
// frame acknowledging each touchmove.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/robalobadob/lettersort/internal/game"
	"github.com/robalobadob/lettersort/internal/layout"
	"github.com/robalobadob/lettersort/internal/letters"
)

// Client frame types.
const (
	TypeStart      = "start"
	TypeDragStart  = "dragstart"
	TypeDragEnter  = "dragenter"
	TypeDragLeave  = "dragleave"
	TypeDrop       = "drop"
	TypeDragEnd    = "dragend"
	TypeTouchStart = "touchstart"
	TypeTouchMove  = "touchmove"
	TypeTouchEnd   = "touchend"
	TypeLayout     = "layout"
)

// Server frame types.
const (
	TypeState = "state"
	TypeTouch = "touch"
)

// ClientMessage is one event reported by the page.
type ClientMessage struct {
	Type   string        `json:"type"`
	Letter string        `json:"letter,omitempty"`
	Slot   string        `json:"slot,omitempty"` // element id, see layout.SlotID
	Text   string        `json:"text,omitempty"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Slots  []layout.Rect `json:"slots,omitempty"`
}

// ServerMessage is a frame sent to the page.
type ServerMessage struct {
	Type           string         `json:"type"`
	State          *game.Snapshot `json:"state,omitempty"`
	PreventDefault bool           `json:"preventDefault,omitempty"`
}

// StateFrame wraps a snapshot.
func StateFrame(s game.Snapshot) ServerMessage {
	return ServerMessage{Type: TypeState, State: &s}
}

// Target is what client frames act on; *session.Session implements it.
type Target interface {
	Start() bool
	DragStart(letter rune) (string, bool)
	DragEnter(index int)
	DragLeave(index int)
	Drop(index int, transfer string) bool
	DragEnd()
	TouchStart(letter rune, x, y float64) bool
	TouchMove(x, y float64) bool
	TouchEnd(x, y float64)
	SetLayout(l layout.Layout)
}

// Decode parses one client frame.
func Decode(b []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("decode frame: %w", err)
	}
	if m.Type == "" {
		return m, fmt.Errorf("decode frame: missing type")
	}
	return m, nil
}

// Apply dispatches m onto t. It returns a reply frame for message types that
// need one (touchmove) and reports whether the type was recognised.
func Apply(t Target, m ClientMessage) (reply *ServerMessage, known bool) {
	switch m.Type {
	case TypeStart:
		t.Start()
	case TypeDragStart:
		if r, ok := letters.Parse(m.Letter); ok {
			t.DragStart(r)
		}
	case TypeDragEnter:
		if i, ok := layout.ParseSlotID(m.Slot); ok {
			t.DragEnter(i)
		}
	case TypeDragLeave:
		if i, ok := layout.ParseSlotID(m.Slot); ok {
			t.DragLeave(i)
		}
	case TypeDrop:
		if i, ok := layout.ParseSlotID(m.Slot); ok {
			t.Drop(i, m.Text)
		}
	case TypeDragEnd:
		t.DragEnd()
	case TypeTouchStart:
		if r, ok := letters.Parse(m.Letter); ok {
			t.TouchStart(r, m.X, m.Y)
		}
	case TypeTouchMove:
		prevent := t.TouchMove(m.X, m.Y)
		return &ServerMessage{Type: TypeTouch, PreventDefault: prevent}, true
	case TypeTouchEnd:
		t.TouchEnd(m.X, m.Y)
	case TypeLayout:
		t.SetLayout(layout.Layout{Slots: m.Slots})
	default:
		return nil, false
	}
	return nil, true
}

// Package tui renders a session in the terminal and maps mouse gestures
// onto the same tile/slot events the browser sends: press on a tile starts
// a drag, moving with the button held hovers slots, releasing over a slot
// drops the letter there.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/lettersort/internal/game"
	"github.com/robalobadob/lettersort/internal/layout"
	"github.com/robalobadob/lettersort/internal/session"
)

// Board geometry in cells.
const (
	marginX  = 2
	timerY   = 1
	tileY    = 3
	slotY    = 8
	resultY  = 12
	buttonY  = 14
	helpY    = 16
	boxW     = 5
	boxH     = 3
	boxGap   = 2
	helpText = "drag letters into the slots in alphabetical order · p: play · q: quit"
)

var (
	styleText   = tcell.StyleDefault
	styleTile   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleFrozen = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSlot   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHover  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleWon    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleLost   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// UI is one terminal view of a session.
type UI struct {
	screen tcell.Screen
	sess   *session.Session
	slots  layout.Layout

	held     bool   // left button down
	dragging bool   // a tile was picked up by the current press
	transfer string // drag payload of the current gesture
	hover    int    // slot under a held drag, -1 for none
}

// New binds screen to sess and publishes the slot geometry.
func New(screen tcell.Screen, sess *session.Session) *UI {
	u := &UI{
		screen: screen,
		sess:   sess,
		slots:  layout.Layout{Slots: layout.Row(game.SlotCount, marginX, slotY, boxW, boxH, boxGap)},
		hover:  -1,
	}
	sess.SetLayout(u.slots)
	return u
}

// Run draws and handles input until ctx is done or the user quits. The
// caller owns the screen and must Fini it afterwards.
func (u *UI) Run(ctx context.Context) error {
	u.screen.EnableMouse()
	defer u.screen.DisableMouse()

	events := make(chan tcell.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	redraw := make(chan struct{}, 1)
	unsubscribe := u.sess.Subscribe(func(game.Snapshot) {
		select {
		case redraw <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !u.HandleEvent(ev) {
				return nil
			}
			u.Draw()
		case <-redraw:
			u.Draw()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (u *UI) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			u.sess.Start()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'p', 'P':
				u.sess.Start()
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		u.mouse(float64(x), float64(y), ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		u.screen.Sync()
	}
	return true
}

func (u *UI) mouse(x, y float64, down bool) {
	switch {
	case down && !u.held:
		u.held = true
		if buttonRect(u.sess.Snapshot().Button).Contains(x, y) {
			u.sess.Start()
			return
		}
		if r, ok := u.tileAt(x, y); ok {
			if text, ok := u.sess.DragStart(r); ok {
				u.dragging, u.transfer = true, text
			}
		}

	case down && u.held:
		if !u.dragging {
			return
		}
		i, ok := u.slots.SlotAt(x, y)
		if !ok {
			i = -1
		}
		if i != u.hover {
			if u.hover >= 0 {
				u.sess.DragLeave(u.hover)
			}
			if i >= 0 {
				u.sess.DragEnter(i)
			}
			u.hover = i
		}

	case !down && u.held:
		u.held = false
		if !u.dragging {
			return
		}
		if i, ok := u.slots.SlotAt(x, y); ok {
			u.sess.Drop(i, u.transfer)
		}
		u.sess.DragEnd()
		u.dragging, u.transfer, u.hover = false, "", -1
	}
}

func (u *UI) tileAt(x, y float64) (rune, bool) {
	pool := u.sess.Snapshot().Pool
	for i, r := range tileRects(len(pool)) {
		if r.Contains(x, y) {
			return []rune(pool[i])[0], true
		}
	}
	return 0, false
}

func tileRects(n int) []layout.Rect {
	return layout.Row(n, marginX, tileY, boxW, boxH, boxGap)
}

func buttonLabel(b game.Button) string { return "[ " + b.Label + " ]" }

func buttonRect(b game.Button) layout.Rect {
	return layout.Rect{X: marginX, Y: buttonY, W: float64(len(buttonLabel(b))), H: 1}
}

// Draw paints the current snapshot.
func (u *UI) Draw() {
	snap := u.sess.Snapshot()
	s := u.screen
	s.Clear()

	drawText(s, marginX, timerY, styleText.Bold(true), fmt.Sprintf("Time Left: %ds", snap.TimeLeft))

	if snap.State != game.StateIdle {
		tileStyle := styleTile
		if snap.Frozen {
			tileStyle = styleFrozen
		}
		for i, r := range tileRects(len(snap.Pool)) {
			st := tileStyle
			if snap.Pool[i] == snap.Dragged {
				st = st.Reverse(true)
			}
			drawBox(s, r, st, snap.Pool[i])
		}
		for i, r := range u.slots.Slots {
			st := styleSlot
			if snap.Hover[i] {
				st = styleHover
			}
			drawBox(s, r, st, snap.Slots[i])
		}
	}

	switch snap.Result {
	case game.ResultWon:
		drawText(s, marginX, resultY, styleWon, string(snap.Result))
	case game.ResultLost:
		drawText(s, marginX, resultY, styleLost, string(snap.Result))
	}

	bst := styleText.Bold(true)
	if !snap.Button.Enabled {
		bst = styleFrozen
	}
	drawText(s, marginX, buttonY, bst, buttonLabel(snap.Button))
	drawText(s, marginX, helpY, styleFrozen, helpText)
	s.Show()
}

func drawText(s tcell.Screen, x, y int, st tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}

func drawBox(s tcell.Screen, r layout.Rect, st tcell.Style, label string) {
	x0, y0 := int(r.X), int(r.Y)
	x1, y1 := x0+int(r.W)-1, y0+int(r.H)-1
	for x := x0 + 1; x < x1; x++ {
		s.SetContent(x, y0, '─', nil, st)
		s.SetContent(x, y1, '─', nil, st)
	}
	for y := y0 + 1; y < y1; y++ {
		s.SetContent(x0, y, '│', nil, st)
		s.SetContent(x1, y, '│', nil, st)
		for x := x0 + 1; x < x1; x++ {
			s.SetContent(x, y, ' ', nil, st)
		}
	}
	s.SetContent(x0, y0, '┌', nil, st)
	s.SetContent(x1, y0, '┐', nil, st)
	s.SetContent(x0, y1, '└', nil, st)
	s.SetContent(x1, y1, '┘', nil, st)
	if label != "" {
		drawText(s, (x0+x1)/2, (y0+y1)/2, st, label)
	}
}

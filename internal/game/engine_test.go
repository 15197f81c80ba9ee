package game

import (
	"testing"

	"github.com/robalobadob/lettersort/internal/layout"
	"github.com/robalobadob/lettersort/internal/letters"
)

func started(t *testing.T, set string) *Game {
	t.Helper()
	g := New(DefaultSeconds)
	if !g.Start([]rune(set)) {
		t.Fatalf("start with %q rejected", set)
	}
	return g
}

func assertConserved(t *testing.T, g *Game, set string) {
	t.Helper()
	got := string(letters.Sorted(g.Letters()))
	want := string(letters.Sorted([]rune(set)))
	if got != want {
		t.Fatalf("letters not conserved: got %q want %q", got, want)
	}
}

func runOut(g *Game) int {
	timeouts := 0
	for i := 0; i < g.Seconds+5; i++ {
		if g.Tick() {
			timeouts++
		}
	}
	return timeouts
}

func TestNewIsIdle(t *testing.T) {
	t.Parallel()

	g := New(0)
	if g.State != StateIdle || g.Seconds != DefaultSeconds || g.TimeLeft != DefaultSeconds {
		t.Fatalf("unexpected new game: state=%s seconds=%d", g.State, g.Seconds)
	}
	s := g.Snapshot()
	if s.Button.Label != "Play" || !s.Button.Enabled || !s.Frozen {
		t.Fatalf("unexpected idle snapshot: %+v", s)
	}
	if g.Place('A', 0) || g.Pickup('A') {
		t.Fatal("actions must be no-ops while idle")
	}
}

func TestStartResets(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	if g.State != StatePlaying || g.TimeLeft != 30 || string(g.Pool) != "DBECA" {
		t.Fatalf("unexpected start state: %+v", g.Snapshot())
	}
	if g.Start([]rune("VWXYZ")) {
		t.Fatal("start must be ignored while playing")
	}
	if g.Snapshot().Button.Enabled {
		t.Fatal("start control must be disabled while playing")
	}
	if New(30).Start([]rune("AABCD")) {
		t.Fatal("start must reject duplicate letters")
	}
}

func TestPlaceMovesLetter(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	g.Pickup('C')
	if !g.Place('C', 2) {
		t.Fatal("place into empty slot failed")
	}
	if g.Slots[2] != 'C' || string(g.Pool) != "DBEA" {
		t.Fatalf("unexpected board: slots=%q pool=%q", string(g.Slots[:]), string(g.Pool))
	}
	if _, ok := g.Dragged(); ok {
		t.Fatal("dragged letter must be cleared after place")
	}
	assertConserved(t, g, "DBECA")
}

func TestPlaceOccupiedIsNoop(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	g.Place('C', 2)
	before := g.Slots
	g.Pickup('A')
	if g.Place('A', 2) {
		t.Fatal("place into occupied slot must fail")
	}
	if g.Slots != before || string(g.Pool) != "DBEA" {
		t.Fatalf("occupied place changed board: slots=%q pool=%q", string(g.Slots[:]), string(g.Pool))
	}
	if _, ok := g.Dragged(); ok {
		t.Fatal("dragged letter must be cleared after a rejected place")
	}
	assertConserved(t, g, "DBECA")
}

func TestDoubleDropOfSameLetter(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	if !g.Drop(0, "A") {
		t.Fatal("first drop failed")
	}
	if g.Drop(1, "A") {
		t.Fatal("second drop of a placed letter must be ignored")
	}
	if g.Slots[1] != 0 {
		t.Fatal("slot 1 must stay empty")
	}
	assertConserved(t, g, "DBECA")
}

func TestPlaceOutOfRange(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	if g.Place('A', -1) || g.Place('A', SlotCount) {
		t.Fatal("out of range place must fail")
	}
	assertConserved(t, g, "DBECA")
}

func TestTickCountsDownAndTimesOutOnce(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	prev := g.TimeLeft
	for g.State == StatePlaying {
		g.Tick()
		if g.TimeLeft != prev-1 {
			t.Fatalf("expected time %d, got %d", prev-1, g.TimeLeft)
		}
		prev = g.TimeLeft
	}
	if g.TimeLeft != 0 || g.State != StateEnded {
		t.Fatalf("expected ended at 0, got %s at %d", g.State, g.TimeLeft)
	}
	if g.Tick() || g.TimeLeft != 0 {
		t.Fatal("ticks after the end must be no-ops")
	}

	g2 := started(t, "DBECA")
	if n := runOut(g2); n != 1 {
		t.Fatalf("expected exactly one timeout, got %d", n)
	}
}

func TestWinAndLose(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		order string // letters placed into slots 0..4; '_' leaves a slot empty
		want  Result
	}{
		{"sorted", "ABCDE", ResultWon},
		{"swapped", "BACDE", ResultLost},
		{"gap", "AB_DE", ResultLost},
		{"empty", "_____", ResultLost},
		{"reversed", "EDCBA", ResultLost},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			g := started(t, "CEADB")
			for i, r := range tc.order {
				if r != '_' {
					g.Pickup(r)
					g.Place(r, i)
				}
			}
			assertConserved(t, g, "CEADB")
			runOut(g)
			if g.Result != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, g.Result)
			}
			s := g.Snapshot()
			if s.Button.Label != "Play Again" || !s.Button.Enabled || !s.Frozen {
				t.Fatalf("unexpected ended snapshot: %+v", s)
			}
		})
	}
}

func TestEvaluateDirect(t *testing.T) {
	t.Parallel()

	if got := Evaluate(nil, [SlotCount]rune{'A', 'B', 'C', 'D', 'E'}); got != ResultWon {
		t.Fatalf("expected win, got %q", got)
	}
	if got := Evaluate(nil, [SlotCount]rune{'B', 'A', 'C', 'D', 'E'}); got != ResultLost {
		t.Fatalf("expected loss, got %q", got)
	}
	if got := Evaluate([]rune{'C'}, [SlotCount]rune{'A', 'B', 0, 'D', 'E'}); got != ResultLost {
		t.Fatalf("expected loss with empty slot, got %q", got)
	}
}

func TestFrozenAfterEnd(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	runOut(g)
	if g.Pickup('A') || g.Place('A', 0) || g.Drop(0, "A") {
		t.Fatal("board must be frozen after the end")
	}
	if _, ok := g.DragStart('B'); ok {
		t.Fatal("drag start must be refused after the end")
	}
}

func TestRestartResetsBoard(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	g.Place('A', 0)
	g.Place('B', 1)
	g.Pickup('C')
	runOut(g)

	if !g.Start([]rune("ZYXWV")) {
		t.Fatal("restart rejected")
	}
	if g.Slots != [SlotCount]rune{} || g.TimeLeft != 30 || g.Result != ResultNone {
		t.Fatalf("restart did not reset: %+v", g.Snapshot())
	}
	if string(g.Pool) != "ZYXWV" {
		t.Fatalf("expected fresh pool, got %q", string(g.Pool))
	}
	if _, ok := g.Dragged(); ok || g.ListenerCount() != 0 {
		t.Fatal("restart must cancel any in-flight drag")
	}
}

func TestPointerDragAndDrop(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	text, ok := g.DragStart('E')
	if !ok || text != "E" {
		t.Fatalf("DragStart = %q, %v", text, ok)
	}
	if g.ListenerCount() != 2 {
		t.Fatalf("expected gesture listeners, got %d", g.ListenerCount())
	}
	g.DragEnter(4)
	if !g.Snapshot().Hover[4] {
		t.Fatal("expected slot 4 highlighted")
	}
	g.DragLeave(4)
	g.DragEnter(3)
	if !g.Drop(3, text) {
		t.Fatal("drop failed")
	}
	s := g.Snapshot()
	if s.Hover[3] || s.Slots[3] != "E" || s.Dragged != "" {
		t.Fatalf("unexpected snapshot after drop: %+v", s)
	}
	if g.ListenerCount() != 0 {
		t.Fatalf("listeners leaked: %d", g.ListenerCount())
	}
}

func TestInvalidTransferClearsDrag(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	g.DragStart('D')
	if g.Drop(0, "not-a-letter") {
		t.Fatal("drop with bad payload must fail")
	}
	if _, ok := g.Dragged(); ok || g.ListenerCount() != 0 {
		t.Fatal("drag not cleared after invalid drop")
	}
}

func TestDragEndAborts(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	g.DragStart('D')
	g.DragEnter(1)
	g.DragEnd()
	s := g.Snapshot()
	if s.Dragged != "" || s.Hover[1] || g.ListenerCount() != 0 {
		t.Fatalf("abort did not clean up: %+v listeners=%d", s, g.ListenerCount())
	}
	assertConserved(t, g, "DBECA")
}

func TestTouchDeadzoneAndDropOnHover(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	g.SetHitTester(layout.Layout{Slots: layout.Row(SlotCount, 0, 100, 40, 40, 10)})

	if !g.TouchStart('A', 15, 20) {
		t.Fatal("touch start refused")
	}
	if g.TouchMove(20, 25) {
		t.Fatal("move inside the deadzone must not suppress scrolling")
	}
	if !g.TouchMove(15, 60) {
		t.Fatal("move past the deadzone must suppress scrolling")
	}
	if g.Slots[0] != 0 {
		t.Fatal("nothing should be placed outside a slot")
	}
	g.TouchMove(15, 110)
	if g.Slots[0] != 'A' {
		t.Fatalf("expected A placed on hover, got %q", string(g.Slots[:]))
	}
	if _, ok := g.Dragged(); ok {
		t.Fatal("drag must clear once placed")
	}
	g.TouchEnd(15, 110)
	if g.ListenerCount() != 0 {
		t.Fatalf("listeners leaked: %d", g.ListenerCount())
	}
	assertConserved(t, g, "DBECA")
}

func TestTouchEndWithoutPlacement(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	g.SetHitTester(layout.Layout{Slots: layout.Row(SlotCount, 0, 100, 40, 40, 10)})
	g.TouchStart('B', 0, 0)
	g.TouchMove(300, 300)
	g.TouchEnd(300, 300)
	if _, ok := g.Dragged(); ok || g.ListenerCount() != 0 {
		t.Fatal("touch end must clear the gesture")
	}
	if len(g.Pool) != 5 {
		t.Fatalf("expected untouched pool, got %q", string(g.Pool))
	}
}

func TestTouchMoveWithoutGestureIsIgnored(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	g.SetHitTester(layout.Layout{Slots: layout.Row(SlotCount, 0, 0, 40, 40, 10)})
	if g.TouchMove(10, 10) {
		t.Fatal("no listeners should be installed without a gesture")
	}
	if g.Slots[0] != 0 {
		t.Fatal("nothing should be placed without a gesture")
	}
}

func TestRepeatedGesturesDoNotAccumulateListeners(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	for i := 0; i < 10; i++ {
		g.Pickup('D')
		g.Pickup('B')
		if g.ListenerCount() != 2 {
			t.Fatalf("expected 2 listeners, got %d", g.ListenerCount())
		}
		g.DragEnd()
	}
	if g.ListenerCount() != 0 {
		t.Fatalf("listeners leaked: %d", g.ListenerCount())
	}
}

func TestTimeoutClearsDrag(t *testing.T) {
	t.Parallel()

	g := started(t, "DBECA")
	g.DragStart('D')
	runOut(g)
	if _, ok := g.Dragged(); ok || g.ListenerCount() != 0 {
		t.Fatal("timeout must cancel the in-flight drag")
	}
}

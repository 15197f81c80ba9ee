package daily

import (
	"testing"
	"time"

	"github.com/robalobadob/lettersort/internal/letters"
)

func TestDateKeyUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+10", 10*60*60)
	in := time.Date(2026, 10, 18, 5, 0, 0, 0, loc)
	if got := DateKey(in); got != "2026-10-17" {
		t.Fatalf("expected 2026-10-17, got %s", got)
	}
}

func TestSameDateSameLetters(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)

	a := letters.Generate(NewSource(day, "salt"))
	b := letters.Generate(NewSource(later, "salt"))
	if string(a) != string(b) {
		t.Fatalf("expected same letters for same date, got %q and %q", string(a), string(b))
	}
	if !letters.Valid(a) {
		t.Fatalf("invalid daily pool %q", string(a))
	}
}

func TestSourceRange(t *testing.T) {
	t.Parallel()

	s := NewSource(time.Now(), "x")
	for i := 0; i < 1000; i++ {
		if v := s.Uint32n(7); v >= 7 {
			t.Fatalf("value %d out of range", v)
		}
	}
	if v := s.Uint32n(0); v != 0 {
		t.Fatalf("expected 0 for empty range, got %d", v)
	}
}

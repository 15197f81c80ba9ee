package letters

import (
	"testing"
)

// seqSource replays fixed values, wrapping each into range.
type seqSource struct {
	vals []uint32
	i    int
}

func (s *seqSource) Uint32n(n uint32) uint32 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func TestGenerateDistinctUppercase(t *testing.T) {
	t.Parallel()

	for i := 0; i < 500; i++ {
		got := Generate(nil)
		if !Valid(got) {
			t.Fatalf("generated invalid pool %q", string(got))
		}
	}
}

func TestGenerateRejectsDuplicates(t *testing.T) {
	t.Parallel()

	// Draws A, A, B, B, C, D, E then shuffle indices of 0.
	src := &seqSource{vals: []uint32{0, 0, 1, 1, 2, 3, 4, 0, 0, 0, 0}}
	got := Generate(src)
	if !Valid(got) {
		t.Fatalf("expected valid pool, got %q", string(got))
	}
	if string(Sorted(got)) != "ABCDE" {
		t.Fatalf("expected letters ABCDE, got %q", string(Sorted(got)))
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"ABCDE", true},
		{"QWZXA", true},
		{"ABCD", false},
		{"ABCDEF", false},
		{"ABCDA", false},
		{"abcde", false},
		{"AB1DE", false},
	}
	for _, tc := range cases {
		if got := Valid([]rune(tc.in)); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	if r, ok := Parse("q"); !ok || r != 'Q' {
		t.Fatalf("Parse(q) = %q, %v", r, ok)
	}
	for _, in := range []string{"", "AB", "1", "é"} {
		if _, ok := Parse(in); ok {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

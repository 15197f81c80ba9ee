// internal/letters/letters.go
//
// Letter pool generation for lettersort.
//
// Responsibilities:
//   - Draw PoolSize distinct uppercase letters from the 26-letter alphabet,
//     rejecting duplicates, then return them in a random order.
//   - Provide the canonical (sorted) order a finished answer is checked against.
//   - Abstract the randomness behind Source so the daily mode and tests can
//     supply deterministic sequences.
//
// The default Source is valyala/fastrand, which is safe for concurrent use
// by many sessions without a shared lock.

package letters

import (
	"sort"

	"github.com/valyala/fastrand"
)

const (
	// Alphabet is the pool letters are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// PoolSize is the number of letters in every game.
	PoolSize = 5
)

// Source yields integers uniformly distributed in [0, n).
type Source interface {
	Uint32n(n uint32) uint32
}

type fastSource struct{}

func (fastSource) Uint32n(n uint32) uint32 { return fastrand.Uint32n(n) }

// Default is the process-wide random Source.
var Default Source = fastSource{}

// Generate returns PoolSize distinct letters in a random order.
// A nil src uses Default.
func Generate(src Source) []rune {
	if src == nil {
		src = Default
	}
	var seen [len(Alphabet)]bool
	out := make([]rune, 0, PoolSize)
	for len(out) < PoolSize {
		i := src.Uint32n(uint32(len(Alphabet)))
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, rune(Alphabet[i]))
	}

	// Fisher-Yates over the picked letters.
	for i := len(out) - 1; i > 0; i-- {
		j := int(src.Uint32n(uint32(i + 1)))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// IsLetter reports whether r is an uppercase A-Z letter.
func IsLetter(r rune) bool { return r >= 'A' && r <= 'Z' }

// Valid reports whether set holds exactly PoolSize distinct uppercase letters.
func Valid(set []rune) bool {
	if len(set) != PoolSize {
		return false
	}
	var seen [len(Alphabet)]bool
	for _, r := range set {
		if !IsLetter(r) || seen[r-'A'] {
			return false
		}
		seen[r-'A'] = true
	}
	return true
}

// Sorted returns an alphabetically ordered copy of set.
func Sorted(set []rune) []rune {
	out := append([]rune(nil), set...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Parse converts a one-letter string (as carried by a drag transfer) into a
// letter. Lowercase input is accepted and upper-cased.
func Parse(s string) (rune, bool) {
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, false
	}
	r := rs[0]
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return r, IsLetter(r)
}

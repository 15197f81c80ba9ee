// Package daily derives the letters of the "daily" mode: every player gets
// the same five letters for a given UTC date.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Source is a deterministic letters.Source keyed by date and salt.
// Each draw is HMAC(salt, "YYYY-MM-DD#n") reduced modulo the range.
type Source struct {
	key  []byte
	date string
	n    uint64
}

// NewSource returns a fresh stream for the date of t.
func NewSource(t time.Time, salt string) *Source {
	return &Source{key: []byte(salt), date: DateKey(t)}
}

// Uint32n returns the next value in [0, n).
func (s *Source) Uint32n(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(s.date))
	h.Write([]byte{'#'})
	h.Write([]byte(strconv.FormatUint(s.n, 10)))
	s.n++
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return uint32(v % uint64(n))
}

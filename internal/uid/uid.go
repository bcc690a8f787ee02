// Package uid generates control identifiers that are unique for the lifetime
// of an editor session: a millisecond timestamp followed by a crypto-random
// Crockford base-32 suffix.
package uid

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

// Crockford base-32 alphabet (excludes I, L, O, U).
const letters = "0123456789abcdefghjkmnpqrstvwxyz"

const suffixLen = 8

// Generator produces identifiers with a fixed prefix.
type Generator struct {
	prefix string
	now    func() time.Time
}

// New returns a generator using prefix (e.g. "ctrl") and the wall clock.
func New(prefix string) *Generator {
	return &Generator{prefix: strings.TrimSpace(prefix), now: time.Now}
}

// WithClock returns a copy of g that reads time from now.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	if now == nil {
		return g
	}
	clone := *g
	clone.now = now
	return &clone
}

// Next returns a new identifier such as "ctrl_lq2x9k3a_4f8d0c1z".
func (g *Generator) Next() string {
	stamp := strconv.FormatInt(g.now().UnixMilli(), 36)
	var b strings.Builder
	if g.prefix != "" {
		b.WriteString(g.prefix)
		b.WriteByte('_')
	}
	b.WriteString(stamp)
	b.WriteByte('_')
	b.WriteString(Random(suffixLen))
	return b.String()
}

// Random returns size crypto-random base-32 characters.
func Random(size int) string {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		panic("uid: crypto/rand read failed: " + err.Error())
	}
	out := make([]byte, size)
	for i := range buf {
		out[i] = letters[buf[i]&31]
	}
	return string(out)
}

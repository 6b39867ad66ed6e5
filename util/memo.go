package util

import "sync"

// Memoizer caches look-up tables by length. The zero value is ready for
// use and safe for concurrent use.
type Memoizer struct {
	fn func(float64) float64

	mu    sync.Mutex
	cache map[int]Lut
}

// NewMemoizer returns a Memoizer generating tables from fn. A nil fn uses
// the GenerateLut default.
func NewMemoizer(fn func(float64) float64) *Memoizer {
	return &Memoizer{fn: fn}
}

// Lut returns the table of the given length, generating it on first use.
// The returned table must not be modified.
func (m *Memoizer) Lut(length int) Lut {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lut, ok := m.cache[length]; ok {
		return lut
	}
	if m.cache == nil {
		m.cache = make(map[int]Lut)
	}
	lut := GenerateLut(length, m.fn)
	m.cache[length] = lut
	return lut
}

// Len returns the number of cached tables.
func (m *Memoizer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}

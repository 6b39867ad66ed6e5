// Package util provides helpers shared by the LED effects.
package util

import (
	"math"
	"math/rand/v2"

	"github.com/fogleman/ease"
)

// RandomRange returns a uniformly distributed value in [min, max).
func RandomRange(min, max float64) float64 {
	return rand.Float64()*(max-min) + min
}

// RandomIntRange returns a uniformly distributed integer in [min, max].
func RandomIntRange(min, max int) int {
	if max <= min {
		return min
	}
	return rand.IntN(max-min+1) + min
}

// Lut is a look-up table of an easing function sampled at evenly spaced
// points over [0, 1].
type Lut []float64

// GenerateLut samples fn at length points over [0, 1]. A nil fn samples
// ease.InOutQuad. Lengths below two are raised to two.
func GenerateLut(length int, fn func(float64) float64) Lut {
	if fn == nil {
		fn = ease.InOutQuad
	}
	length = max(length, 2)
	lut := make(Lut, length)
	step := 1 / float64(length-1)
	for i := range lut {
		lut[i] = fn(float64(i) * step)
	}
	lut[length-1] = fn(1)
	return lut
}

// At returns the table's value at t, interpolating linearly between
// samples. t is clamped to [0, 1].
func (l Lut) At(t float64) float64 {
	switch {
	case len(l) == 0:
		return t
	case t <= 0 || math.IsNaN(t):
		return l[0]
	case t >= 1:
		return l[len(l)-1]
	}
	pos := t * float64(len(l)-1)
	i := int(pos)
	frac := pos - float64(i)
	if i+1 >= len(l) {
		return l[len(l)-1]
	}
	return l[i] + (l[i+1]-l[i])*frac
}

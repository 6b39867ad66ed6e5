// Package stripe generates sequences of coloured stripes.
package stripe

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// A Stripe is a run of pixels of a single colour.
type Stripe struct {
	Colour colorful.Color
	Length int
}

// RandomStripeGenerator creates stripes of random length, choosing colours
// from a palette without repeating the previous colour.
type RandomStripeGenerator struct {
	palette   []colorful.Color
	current   int
	stripeMin int
	stripeMax int
	rnd       *rand.Rand
}

// NewRandomStripeGenerator returns a generator of stripes between min and
// max pixels long. If palette is empty, colours are chosen at random hues.
// If rnd is nil, the global source is used.
func NewRandomStripeGenerator(palette []colorful.Color, min, max int, rnd *rand.Rand) *RandomStripeGenerator {
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}
	return &RandomStripeGenerator{
		palette:   palette,
		current:   -1,
		stripeMin: min,
		stripeMax: max,
		rnd:       rnd,
	}
}

func (g *RandomStripeGenerator) intN(n int) int {
	if g.rnd == nil {
		return rand.IntN(n)
	}
	return g.rnd.IntN(n)
}

func (g *RandomStripeGenerator) float64() float64 {
	if g.rnd == nil {
		return rand.Float64()
	}
	return g.rnd.Float64()
}

// CreateStripe returns the next stripe.
func (g *RandomStripeGenerator) CreateStripe() Stripe {
	var colour colorful.Color
	switch len(g.palette) {
	case 0:
		colour = colorful.Hsl(g.float64()*360.0, 1.0, 0.2)
	case 1:
		g.current = 0
		colour = g.palette[0]
	default:
		// Choose a new colour that's different from the previous colour.
		var next int
		if g.current < 0 {
			next = g.intN(len(g.palette))
		} else if next = g.intN(len(g.palette) - 1); next >= g.current {
			next++
		}
		g.current = next
		colour = g.palette[g.current]
	}

	length := g.intN(g.stripeMax-g.stripeMin+1) + g.stripeMin
	return Stripe{Colour: colour, Length: length}
}

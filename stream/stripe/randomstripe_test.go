package stripe

import (
	"math/rand/v2"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestRandomStripeGenerator(t *testing.T) {
	palette := []colorful.Color{{R: 1}, {G: 1}, {B: 1}}
	g := NewRandomStripeGenerator(palette, 20, 30, rand.New(rand.NewPCG(1, 2)))
	seen := make(map[colorful.Color]bool)
	var prev colorful.Color
	for i := 0; i < 1000; i++ {
		s := g.CreateStripe()
		if s.Length < 20 || s.Length > 30 {
			t.Fatalf("stripe length out of range: %d", s.Length)
		}
		if i != 0 && s.Colour == prev {
			t.Fatalf("repeated colour at stripe %d: %v", i, s.Colour)
		}
		prev = s.Colour
		seen[s.Colour] = true
	}
	if len(seen) != len(palette) {
		t.Errorf("unexpected number of colours used: got:%d want:%d", len(seen), len(palette))
	}
}

func TestRandomStripeGeneratorDegenerate(t *testing.T) {
	one := colorful.Color{R: 0.5}
	g := NewRandomStripeGenerator([]colorful.Color{one}, 0, -5, nil)
	for i := 0; i < 10; i++ {
		s := g.CreateStripe()
		if s.Colour != one || s.Length != 1 {
			t.Errorf("unexpected stripe: %+v", s)
		}
	}

	g = NewRandomStripeGenerator(nil, 5, 5, nil)
	s := g.CreateStripe()
	if s.Length != 5 {
		t.Errorf("unexpected stripe length: got:%d want:5", s.Length)
	}
}

package stream

import (
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledanim/animation"
)

// A GradientTrail is an Effect that cycles a hue gradient along an led
// strip. The gradient repeats every trailLength pixels and scrolls by one
// trail length per period.
type GradientTrail struct {
	trailLength int
	chroma      float64
	luminance   float64

	anim *animation.Animation

	mu     sync.Mutex
	seeker *animation.Seeker[float64]
	offset float64
}

// NewGradientTrail creates an instance of a GradientTrail object.
func NewGradientTrail(loop *animation.Loop, gradient *animation.Frames[float64], cfg Config) *GradientTrail {
	g := &GradientTrail{
		trailLength: max(cfg.Gradient.TrailLength, 1),
		chroma:      cfg.Gradient.Chroma,
		luminance:   cfg.Gradient.Luminance,
		seeker:      animation.NewSeeker(gradient),
	}
	g.anim = animation.Create(loop, animation.TargetFunc(g.scroll), cfg.Gradient.Period, nil, animation.Linear, animation.Repeat|animation.NotNative)
	return g
}

func (g *GradientTrail) scroll(fraction float64) {
	g.mu.Lock()
	g.offset = fraction * float64(g.trailLength)
	g.mu.Unlock()
}

// Name implements the Effect interface.
func (g *GradientTrail) Name() string { return GradientTrailName }

// Start implements the Effect interface.
func (g *GradientTrail) Start() { g.anim.Start() }

// Stop implements the Effect interface.
func (g *GradientTrail) Stop() { g.anim.Stop() }

// Render implements the Effect interface.
func (g *GradientTrail) Render(f *Frame) {
	g.mu.Lock()
	defer g.mu.Unlock()
	trail := float64(g.trailLength)
	n := f.Len()
	for i := 0; i < n; i++ {
		t := math.Mod(float64(i)-g.offset+trail, trail) / trail
		f.pixels[i] = colorful.Hcl(g.seeker.Seek(t), g.chroma, g.luminance)
	}
}

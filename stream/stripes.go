package stream

import (
	"sync"
	"time"

	"github.com/matt-g-everett/ledanim/animation"
	"github.com/matt-g-everett/ledanim/stream/stripe"
)

// Stripes is an Effect that scrolls an endless run of random stripes along
// an led strip. A perspective factor stretches stripes towards the end of
// the strip.
type Stripes struct {
	gen         *stripe.RandomStripeGenerator
	speed       float64
	perspective float64

	anim *animation.Animation

	mu      sync.Mutex
	stripes []stripe.Stripe
	offset  float64 // pixels scrolled since start
	culled  float64 // length of the stripes scrolled past
}

// NewStripes creates an instance of a Stripes object.
func NewStripes(loop *animation.Loop, cfg Config) *Stripes {
	s := &Stripes{
		gen:         stripe.NewRandomStripeGenerator(colours(cfg.Palette), cfg.Stripes.MinLength, cfg.Stripes.MaxLength, nil),
		speed:       cfg.Stripes.Speed,
		perspective: cfg.Stripes.Perspective,
	}
	s.anim = animation.Create(loop, nil, time.Second, nil, animation.Linear, animation.Repeat|animation.NotNative)
	s.anim.SetOnFrame(s.advance)
	return s
}

func (s *Stripes) advance(_ *animation.Animation, t time.Duration) {
	s.mu.Lock()
	s.offset = s.speed * t.Seconds()
	s.mu.Unlock()
}

// Name implements the Effect interface.
func (s *Stripes) Name() string { return StripesName }

// Start implements the Effect interface.
func (s *Stripes) Start() {
	s.mu.Lock()
	s.stripes = s.stripes[:0]
	s.offset = 0
	s.culled = 0
	s.mu.Unlock()
	s.anim.Start()
}

// Stop implements the Effect interface.
func (s *Stripes) Stop() { s.anim.Stop() }

// Render implements the Effect interface.
func (s *Stripes) Render(f *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Cull stripes that have passed.
	for len(s.stripes) > 0 && s.offset-s.culled >= float64(s.stripes[0].Length) {
		s.culled += float64(s.stripes[0].Length)
		s.stripes = s.stripes[1:]
	}
	current := s.offset - s.culled

	n := f.Len()
	idx := 0
	end := s.length(idx)
	for i := 0; i < n; i++ {
		factor := 1 + s.perspective*(float64(i)/float64(n))
		pos := factor*float64(i) + current
		for pos >= end {
			idx++
			end += s.length(idx)
		}
		f.pixels[i] = s.stripes[idx].Colour
	}
}

// length returns the length of stripe idx, generating stripes as needed.
func (s *Stripes) length(idx int) float64 {
	for len(s.stripes) <= idx {
		s.stripes = append(s.stripes, s.gen.CreateStripe())
	}
	return float64(s.stripes[idx].Length)
}

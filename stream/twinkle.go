package stream

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledanim/animation"
	"github.com/matt-g-everett/ledanim/util"
)

// twinkleLuts holds the pulse shapes shared by all Twinkles.
var twinkleLuts util.Memoizer

// A particle is a single pulse of one pixel towards the highlight colour.
type particle struct {
	pixel  int
	colour colorful.Color
	lit    bool
	anim   *animation.Animation

	// next is the particle that replaces this one when it is spent.
	next *particle
}

// A Twinkle is an Effect that twinkles random particles over a background
// of palette colours.
//
// Each particle is an auto-reversing animation that the loop only
// observes; the Twinkle holds the particles alive. A particle's
// replacement is linked to it, so the loop starts the replacement as the
// particle stops.
type Twinkle struct {
	loop      *animation.Loop
	highlight colorful.Color
	minPulse  time.Duration
	maxPulse  time.Duration
	log       *slog.Logger

	mu         sync.Mutex
	background []colorful.Color
	particles  []*particle
	stopped    bool
}

// NewTwinkle creates an instance of a Twinkle object.
func NewTwinkle(loop *animation.Loop, cfg Config, log *slog.Logger) *Twinkle {
	if log == nil {
		log = slog.Default()
	}
	palette := colours(cfg.Background)
	t := &Twinkle{
		loop:       loop,
		highlight:  cfg.Highlight.Color,
		minPulse:   cfg.Twinkle.MinPulse,
		maxPulse:   cfg.Twinkle.MaxPulse,
		log:        log.With(slog.String("effect", TwinkleName)),
		background: make([]colorful.Color, cfg.Pixels),
		particles:  make([]*particle, max(cfg.Twinkle.Particles, 0)),
	}
	for i := range t.background {
		t.background[i] = palette[rand.IntN(len(palette))]
	}
	return t
}

// newParticle returns an idle particle on a random pixel. Its pulse is
// shaped by one of a small set of look-up tables.
func (t *Twinkle) newParticle(slot int) *particle {
	p := &particle{pixel: rand.IntN(max(len(t.background), 1))}
	if p.pixel < len(t.background) {
		p.colour = t.background[p.pixel]
	}
	pulse := time.Duration(util.RandomRange(float64(t.minPulse), float64(t.maxPulse)))
	target := animation.NewTween(p.colour, t.highlight, animation.ColorHcl, func(_ float64, c colorful.Color) {
		t.mu.Lock()
		p.colour = c
		p.lit = true
		t.mu.Unlock()
	})
	p.anim = animation.Create(t.loop, target, pulse, nil, animation.Custom, animation.AutoReverse|animation.NotSelfAlive|animation.NotUpdateWhenStart)
	p.anim.SetRepeatCount(1)
	p.anim.SetCustomCurve(twinkleLuts.Lut(util.RandomIntRange(6, 24) * 2).At)
	p.anim.SetOnStop(func() { t.spent(slot, p) })
	return p
}

// spent replaces p with its successor in slot and prepares the successor's
// own replacement before the loop starts it.
func (t *Twinkle) spent(slot int, p *particle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.particles[slot] != p {
		return
	}
	next := p.next
	if next == nil {
		return
	}
	next.next = t.newParticle(slot)
	next.anim.Link(next.next.anim)
	t.particles[slot] = next
	t.log.Debug("particle spent", slog.Int("slot", slot), slog.Int("pixel", p.pixel), slog.Int("next", next.pixel))
}

// Name implements the Effect interface.
func (t *Twinkle) Name() string { return TwinkleName }

// Start implements the Effect interface. Particles start with random
// delays so that they do not pulse in unison.
func (t *Twinkle) Start() {
	t.mu.Lock()
	t.stopped = false
	start := make([]*particle, len(t.particles))
	for slot := range t.particles {
		p := t.newParticle(slot)
		p.next = t.newParticle(slot)
		p.anim.Link(p.next.anim)
		p.anim.SetStartDelay(time.Duration(util.RandomRange(0, float64(t.maxPulse))))
		t.particles[slot] = p
		start[slot] = p
	}
	t.mu.Unlock()
	for _, p := range start {
		p.anim.Start()
	}
}

// Stop implements the Effect interface.
func (t *Twinkle) Stop() {
	t.mu.Lock()
	t.stopped = true
	particles := t.particles
	t.particles = make([]*particle, len(particles))
	t.mu.Unlock()
	for _, p := range particles {
		if p == nil {
			continue
		}
		p.anim.UnlinkAll()
		p.anim.Stop()
		if p.next != nil {
			p.next.anim.UnlinkAll()
			p.next.anim.Stop()
		}
	}
}

// Render implements the Effect interface.
func (t *Twinkle) Render(f *Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := copy(f.pixels, t.background)
	clear(f.pixels[n:])
	for _, p := range t.particles {
		if p != nil && p.lit {
			f.SetPixel(p.pixel, p.colour)
		}
	}
}

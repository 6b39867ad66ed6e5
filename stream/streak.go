package stream

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledanim/animation"
)

// easeGain interpolates with an ease-in-out profile.
func easeGain(start, end, t float64) float64 {
	return start + (end-start)*ease.InOutQuad(t)
}

// streakGain is the brightness profile of a streak over its life: it
// fades in to full brightness half way along its path and out again.
var streakGain = func() *animation.Frames[float64] {
	f := animation.NewFrames(0.0, 0.0, easeGain)
	f.Add(0.5, 1)
	return f
}()

type streakParticle struct {
	colour colorful.Color
	length float64
	pos    float64
	gain   float64
	anim   *animation.Animation
}

// A Streak is an Effect that sends streaks along the strip that fade in
// and then out. A repeating spawner animation starts a new streak on each
// of its cycles. Each streak is a single animation driving two targets,
// its position and its gain.
type Streak struct {
	loop       *animation.Loop
	background colorful.Color
	palette    []colorful.Color
	pixels     int
	length     int
	duration   time.Duration

	spawner *animation.Animation

	mu      sync.Mutex
	streaks map[uint64]*streakParticle
}

// NewStreak creates an instance of a Streak object.
func NewStreak(loop *animation.Loop, cfg Config) *Streak {
	s := &Streak{
		loop:       loop,
		background: cfg.Background[0].Color,
		palette:    colours(cfg.Palette),
		pixels:     cfg.Pixels,
		length:     max(cfg.Streak.Length, 1),
		duration:   cfg.Streak.Duration,
		streaks:    make(map[uint64]*streakParticle),
	}
	s.spawner = animation.Create(loop, nil, cfg.Streak.Interval, nil, animation.Linear, animation.Repeat|animation.NotNative)
	s.spawner.SetOnRepeat(func(*animation.Animation, int) { s.spawn() })
	return s
}

// spawn starts a streak from a random point in a random direction.
func (s *Streak) spawn() {
	p := &streakParticle{
		colour: s.palette[rand.IntN(len(s.palette))],
		length: float64(s.length),
	}
	start := rand.Float64() * float64(s.pixels)
	travel := float64(s.pixels) / 2
	if rand.IntN(2) == 0 {
		travel = -travel
	}
	pos := animation.NewTween(start, start+travel, animation.Float64, func(_ float64, v float64) {
		s.mu.Lock()
		p.pos = v
		s.mu.Unlock()
	})
	gain := animation.NewValueTarget(streakGain, func(_ float64, v float64) {
		s.mu.Lock()
		p.gain = v
		s.mu.Unlock()
	})
	p.anim = animation.New(s.loop, s.duration)
	p.anim.SetCurve(animation.Linear)
	p.anim.SetNativeEnabled(false)
	p.anim.AddTarget(pos)
	p.anim.AddTarget(gain)
	p.anim.SetOnStopAnimation(func(a *animation.Animation) {
		s.mu.Lock()
		delete(s.streaks, a.ID())
		s.mu.Unlock()
	})

	s.mu.Lock()
	s.streaks[p.anim.ID()] = p
	s.mu.Unlock()
	p.anim.Start()
}

// Name implements the Effect interface.
func (s *Streak) Name() string { return StreakName }

// Start implements the Effect interface.
func (s *Streak) Start() { s.spawner.Start() }

// Stop implements the Effect interface.
func (s *Streak) Stop() {
	s.spawner.Stop()
	s.mu.Lock()
	var running []*animation.Animation
	for _, p := range s.streaks {
		running = append(running, p.anim)
	}
	s.mu.Unlock()
	for _, a := range running {
		a.Stop()
	}
}

// Len returns the number of live streaks.
func (s *Streak) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streaks)
}

// Render implements the Effect interface.
func (s *Streak) Render(f *Frame) {
	f.Fill(s.background)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.streaks {
		start := max(int(math.Ceil(p.pos)), 0)
		end := min(int(math.Floor(p.pos+p.length)), f.Len()-1)
		for i := start; i <= end; i++ {
			f.pixels[i] = f.pixels[i].BlendHcl(p.colour, p.gain)
		}
	}
}

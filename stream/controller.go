package stream

import (
	"log/slog"
	"sync"

	"github.com/matt-g-everett/ledanim/animation"
)

// Status is a snapshot of a Controller's state.
type Status struct {
	Effect     string  `json:"effect"`
	Next       string  `json:"next,omitempty"`
	Transition float64 `json:"transition"`
	Paused     bool    `json:"paused"`
}

// Controller cycles through the configured effects, cross-fading from one
// to the next. The effects, the cycle timer and the cross-fade are all
// animations on the controller's loop, so pausing the controller pauses
// everything it shows.
type Controller struct {
	loop *animation.Loop
	log  *slog.Logger

	cycle      *animation.Animation
	transition *animation.Animation

	mu      sync.Mutex
	cfg     Config
	index   int
	current Effect
	next    Effect
	mix     float64
	scratch *Frame
}

// NewController creates an instance of a Controller showing the first
// configured effect. The controller is idle until Start is called.
func NewController(loop *animation.Loop, cfg Config, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{
		loop: loop,
		log:  log.With(slog.String("component", "controller")),
		cfg:  cfg,
	}
	c.current = c.newEffect(0)

	c.cycle = animation.Create(loop, nil, cfg.Cycle, nil, animation.Linear, animation.Repeat|animation.NotNative)
	c.cycle.SetOnRepeat(func(*animation.Animation, int) { c.Next() })

	c.transition = animation.Create(loop, animation.TargetFunc(c.fade), cfg.Transition, c.swap, cfg.Curve(), animation.NotNative)
	return c
}

func (c *Controller) newEffect(index int) Effect {
	name := c.cfg.Effects[index%len(c.cfg.Effects)]
	return effects[name](c.loop, c.cfg, c.log)
}

// Start starts the current effect and the effect cycle.
func (c *Controller) Start() {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	current.Start()
	c.cycle.Start()
	c.log.Info("start", slog.String("effect", current.Name()))
}

// Stop stops the effects and the effect cycle.
func (c *Controller) Stop() {
	c.cycle.Stop()
	c.transition.Stop()
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	current.Stop()
}

// Next starts a cross-fade to the next configured effect. It does nothing
// while a cross-fade is in progress.
func (c *Controller) Next() {
	c.mu.Lock()
	if c.next != nil {
		c.mu.Unlock()
		return
	}
	c.index = (c.index + 1) % len(c.cfg.Effects)
	next := c.newEffect(c.index)
	c.next = next
	c.mix = 0
	c.mu.Unlock()

	c.log.Info("transition", slog.String("next", next.Name()))
	next.Start()
	c.transition.Start()
}

// fade is the transition's target.
func (c *Controller) fade(fraction float64) {
	c.mu.Lock()
	c.mix = fraction
	c.mu.Unlock()
}

// swap completes a cross-fade when the transition stops.
func (c *Controller) swap() {
	c.mu.Lock()
	prev := c.current
	if c.next != nil {
		c.current = c.next
		c.next = nil
	}
	c.mix = 0
	current := c.current
	c.mu.Unlock()

	if prev != current {
		prev.Stop()
		c.log.Info("transition complete", slog.String("effect", current.Name()))
	}
}

// Pause freezes all animation.
func (c *Controller) Pause() {
	c.loop.Pause()
	c.log.Info("pause")
}

// Resume undoes Pause.
func (c *Controller) Resume() {
	c.loop.Resume()
	c.log.Info("resume")
}

// SetConfig applies a new configuration. Effect settings apply from the
// next effect on; cycle and transition timing apply immediately.
func (c *Controller) SetConfig(cfg Config) {
	c.mu.Lock()
	c.cfg = cfg
	c.index %= len(cfg.Effects)
	c.mu.Unlock()
	c.cycle.SetDuration(cfg.Cycle)
	c.transition.SetDuration(cfg.Transition)
	c.transition.SetCurve(cfg.Curve())
	c.log.Info("config updated")
}

// Status returns the controller's state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Status{
		Effect: c.current.Name(),
		Paused: c.loop.IsPaused(),
	}
	if c.next != nil {
		s.Next = c.next.Name()
		s.Transition = c.mix
	}
	return s
}

// Render renders the current effect into f, blended with the next effect
// while a cross-fade is in progress.
func (c *Controller) Render(f *Frame) {
	c.mu.Lock()
	current, next, mix := c.current, c.next, c.mix
	if next != nil && (c.scratch == nil || c.scratch.Len() != f.Len()) {
		c.scratch = NewFrame(f.Len())
	}
	scratch := c.scratch
	c.mu.Unlock()

	current.Render(f)
	if next == nil {
		return
	}
	next.Render(scratch)
	f.Blend(scratch, mix)
}

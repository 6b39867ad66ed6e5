package stream

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matt-g-everett/ledanim/animation"
)

func TestControllerCycle(t *testing.T) {
	clock := newTestClock()
	loop := animation.NewLoop(clock, nil)
	cfg := testEffectConfig()
	cfg.Pixels = 20
	cfg.Effects = []string{GradientTrailName, StripesName}
	cfg.Cycle = 10 * time.Second
	cfg.Transition = time.Second
	cfg.TransitionCurve = "linear"
	cfg.Stripes.Perspective = 0

	c := NewController(loop, cfg, nil)
	c.Start()
	loop.Step()
	if got, want := c.Status(), (Status{Effect: GradientTrailName}); got != want {
		t.Errorf("unexpected initial status: got:%+v want:%+v", got, want)
	}
	first := c.current.(*GradientTrail)

	step(loop, clock, time.Second, 10)
	if got, want := c.Status(), (Status{Effect: GradientTrailName, Next: StripesName}); got != want {
		t.Errorf("unexpected status at cycle: got:%+v want:%+v", got, want)
	}

	step(loop, clock, 500*time.Millisecond, 1)
	c.Next()
	if got, want := c.Status(), (Status{Effect: GradientTrailName, Next: StripesName, Transition: 0.5}); got != want {
		t.Errorf("unexpected status during transition: got:%+v want:%+v", got, want)
	}

	f := NewFrame(cfg.Pixels)
	c.Render(f)
	want := NewFrame(cfg.Pixels)
	c.current.Render(want)
	next := NewFrame(cfg.Pixels)
	c.next.Render(next)
	want.Blend(next, 0.5)
	if !cmp.Equal(f.pixels, want.pixels) {
		t.Errorf("unexpected cross-fade frame:\n--- want:\n+++ got:\n%s", cmp.Diff(want.pixels, f.pixels))
	}

	step(loop, clock, 500*time.Millisecond, 1)
	if got, want := c.Status(), (Status{Effect: StripesName}); got != want {
		t.Errorf("unexpected status after transition: got:%+v want:%+v", got, want)
	}
	if !first.anim.IsStopped() {
		t.Error("expected outgoing effect to be stopped")
	}

	c.Pause()
	if !c.Status().Paused {
		t.Error("expected paused status")
	}
	c.Resume()
	if c.Status().Paused {
		t.Error("expected resumed status")
	}

	cfg.Cycle = 20 * time.Second
	cfg.Transition = 2 * time.Second
	c.SetConfig(cfg)
	if got := c.cycle.Duration(); got != cfg.Cycle {
		t.Errorf("unexpected cycle duration after reload: got:%v want:%v", got, cfg.Cycle)
	}
	if got := c.transition.Duration(); got != cfg.Transition {
		t.Errorf("unexpected transition duration after reload: got:%v want:%v", got, cfg.Transition)
	}

	c.Stop()
	if loop.Len() != 0 {
		t.Errorf("unexpected animations left on loop: %d", loop.Len())
	}
}

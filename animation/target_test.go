package animation

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestValueTargetBinding(t *testing.T) {
	loop := NewLoop(newManualClock(), nil)
	target := NewTween(0, 100, Int, nil)
	a := Create(loop, target, time.Second, nil, Linear, 0)
	if got := target.Animation(); got != a {
		t.Errorf("unexpected bound animation: got:%p want:%p", got, a)
	}
	if n := len(a.Targets()); n != 1 {
		t.Errorf("unexpected number of targets: got:%d want:1", n)
	}

	a.RemoveTarget(target)
	if got := target.Animation(); got != nil {
		t.Errorf("expected target to be unbound, got %p", got)
	}
	if n := len(a.Targets()); n != 0 {
		t.Errorf("unexpected number of targets after removal: %d", n)
	}
}

func TestRemoveTargetFunc(t *testing.T) {
	loop := NewLoop(newManualClock(), nil)
	fn := TargetFunc(func(float64) {})
	other := NewTween(0.0, 1.0, Float64, nil)
	a := New(loop, time.Second)
	a.AddTarget(fn)
	a.AddTarget(other)

	a.RemoveTarget(fn)
	if n := len(a.Targets()); n != 2 {
		t.Errorf("unexpected number of targets after removing func: got:%d want:2", n)
	}
	a.RemoveTarget(other)
	if n := len(a.Targets()); n != 1 {
		t.Errorf("unexpected number of targets after removing tween: got:%d want:1", n)
	}
	a.RemoveAllTargets()
	if n := len(a.Targets()); n != 0 {
		t.Errorf("unexpected number of targets after removing all: got:%d want:0", n)
	}
}

func TestValueTargetKeyframes(t *testing.T) {
	clock := newManualClock()
	loop := NewLoop(clock, nil)
	frames := NewFrames(0.0, 1.0, Float64)
	frames.Add(0.5, 10)

	var got []float64
	target := NewValueTarget(frames, func(_ float64, v float64) { got = append(got, v) })
	Animate(loop, target, time.Second, nil, Linear, 0)
	loop.Step()
	stepBy(loop, clock, 250*time.Millisecond, 4)

	want := []float64{0, 0, 5, 10, 5.5, 1}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected values:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}
	if v, ok := target.Value(); !ok || v != 1 {
		t.Errorf("unexpected last value: got:%v,%t want:1,true", v, ok)
	}
}

func TestForceUpdate(t *testing.T) {
	loop := NewLoop(newManualClock(), nil)
	var got []int
	target := NewTween(0, 10, Int, func(_ float64, v int) { got = append(got, v) })
	a := Create(loop, target, time.Second, nil, Linear, 0)
	a.SetTime(300*time.Millisecond, false)

	target.ForceUpdate()
	target.ForceUpdate()
	a.SetTime(800*time.Millisecond, true)
	target.ForceUpdate()

	want := []int{3, 3, 8, 8}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected values:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}

	unbound := NewTween(0, 10, Int, func(float64, int) { t.Error("unexpected apply of unbound target") })
	unbound.ForceUpdate()
}

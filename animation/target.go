package animation

import (
	"weak"
)

// A Target consumes the curved fraction of an Animation once per frame.
// The fraction is nominally in [0, 1] but may leave it for overshooting
// curves.
type Target interface {
	Apply(fraction float64)
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func(fraction float64)

func (fn TargetFunc) Apply(fraction float64) { fn(fraction) }

// Binder is implemented by targets that want to know the animation that
// owns them. Bind is called with the owner when the target is added and
// with nil when it is removed.
type Binder interface {
	Bind(a *Animation)
}

// ValueTarget is a Target that resolves each fraction to a value of type
// T through a keyframe Seeker and hands it to an apply function.
//
// ValueTarget holds only a weak reference to its animation. It must not be
// applied from more than one goroutine at a time.
type ValueTarget[T any] struct {
	seeker *Seeker[T]
	apply  func(fraction float64, value T)

	anim weak.Pointer[Animation]

	resolved     bool
	lastFraction float64
	lastValue    T
}

// NewValueTarget returns a ValueTarget that seeks through a snapshot of
// frames and calls apply with every resolved value.
func NewValueTarget[T any](frames *Frames[T], apply func(fraction float64, value T)) *ValueTarget[T] {
	return &ValueTarget[T]{
		seeker: NewSeeker(frames),
		apply:  apply,
	}
}

// NewTween returns a ValueTarget between start and end with no
// intermediate keyframes.
func NewTween[T any](start, end T, interp Interpolator[T], apply func(fraction float64, value T)) *ValueTarget[T] {
	return NewValueTarget(NewFrames(start, end, interp), apply)
}

// Apply implements the Target interface.
func (t *ValueTarget[T]) Apply(fraction float64) {
	v := t.seeker.Seek(fraction)
	t.resolved = true
	t.lastFraction = fraction
	t.lastValue = v
	if t.apply != nil {
		t.apply(fraction, v)
	}
}

// Bind implements the Binder interface.
func (t *ValueTarget[T]) Bind(a *Animation) {
	if a == nil {
		t.anim = weak.Pointer[Animation]{}
		return
	}
	t.anim = weak.Make(a)
}

// Animation returns the owning animation, or nil if the target is unbound
// or the animation has been collected.
func (t *ValueTarget[T]) Animation() *Animation {
	return t.anim.Value()
}

// Seeker returns the target's keyframe seeker.
func (t *ValueTarget[T]) Seeker() *Seeker[T] { return t.seeker }

// Value returns the most recently resolved value and whether any value has
// been resolved.
func (t *ValueTarget[T]) Value() (T, bool) {
	return t.lastValue, t.resolved
}

// ForceUpdate re-applies the most recently resolved value. It is used to
// resynchronise a consumer whose property was changed behind the
// animation's back. If nothing has been resolved yet, the owning
// animation's current fraction is resolved and applied instead.
func (t *ValueTarget[T]) ForceUpdate() {
	if !t.resolved {
		a := t.Animation()
		if a == nil {
			return
		}
		t.Apply(a.CurvedFraction())
		return
	}
	if t.apply != nil {
		t.apply(t.lastFraction, t.lastValue)
	}
}

package animation

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
	"weak"
)

// NoWait is returned by Loop.Step when no animation needs further ticks.
const NoWait time.Duration = -1

// Clock is a source of the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Waker is implemented by the driver of a Loop. RequestWake asks the
// driver to call Step again as soon as possible. It must not block.
type Waker interface {
	RequestWake()
}

// NativeBackend is implemented by facilities that can step an animation
// themselves, for example on a device. StartNative returns whether it took
// over stepping of a. While it does, the loop does not tick a, and the
// backend must call Loop.NativeFinished when a completes.
type NativeBackend interface {
	StartNative(a *Animation) bool
	StopNative(a *Animation)
}

// Registration is the kind of reference a Loop holds to an animation.
type Registration int

const (
	Unregistered Registration = iota
	Owned                            // strong reference, keeps the animation alive
	Observed                         // weak reference
)

// Loop is a scheduler that advances all its running animations in lock
// step. A Loop does not run itself; a driver calls Step repeatedly and
// sleeps for the returned duration, or until woken through its Waker.
//
// The loop's lock guards only its registries and is never held while an
// animation is updated.
type Loop struct {
	clock Clock
	log   *slog.Logger

	mu       sync.Mutex
	owned    map[uint64]*Animation
	observed map[uint64]weak.Pointer[Animation]
	order    []uint64
	dirty    bool
	adds     uint64
	last     time.Time
	ticking  bool
	paused   bool
	waker    Waker
	native   NativeBackend
}

// NewLoop returns a new Loop using the provided clock. If clock is nil, the
// system clock is used. If log is nil, slog.Default is used.
func NewLoop(clock Clock, log *slog.Logger) *Loop {
	if clock == nil {
		clock = systemClock{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		clock:    clock,
		log:      log,
		owned:    make(map[uint64]*Animation),
		observed: make(map[uint64]weak.Pointer[Animation]),
	}
}

var (
	defaultOnce sync.Once
	defaultLoop *Loop
)

// DefaultLoop returns the process-wide loop. It is driven by a Driver
// running at DefaultFrameInterval that is started on first use.
func DefaultLoop() *Loop {
	defaultOnce.Do(func() {
		defaultLoop = NewLoop(nil, slog.Default())
		d := NewDriver(defaultLoop, DefaultFrameInterval, slog.Default())
		go d.Run(context.Background())
	})
	return defaultLoop
}

// SetWaker sets the loop's waker.
func (l *Loop) SetWaker(w Waker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waker = w
}

// SetNativeBackend sets the backend that native enabled animations are
// offered to when they start or resume.
func (l *Loop) SetNativeBackend(b NativeBackend) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.native = b
}

func (l *Loop) now() time.Time { return l.clock.Now() }

// add registers a as owned or observed. It is idempotent and moves a
// between registries if its ownership has changed.
func (l *Loop) add(a *Animation, selfAlive bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, isOwned := l.owned[a.id]
	_, isObserved := l.observed[a.id]
	if !isOwned && !isObserved {
		// A removed id stays in order until the next prune.
		if !l.dirty || !slices.Contains(l.order, a.id) {
			l.order = append(l.order, a.id)
		}
		l.adds++
		l.log.Debug("add animation", slog.Uint64("id", a.id), slog.Bool("self_alive", selfAlive))
	}
	if selfAlive {
		delete(l.observed, a.id)
		l.owned[a.id] = a
	} else {
		delete(l.owned, a.id)
		l.observed[a.id] = weak.Make(a)
	}
}

// remove unregisters a. It is safe to call for animations that are not
// registered.
func (l *Loop) remove(a *Animation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeID(a.id)
}

// removeID must be called with l.mu held.
func (l *Loop) removeID(id uint64) {
	_, isOwned := l.owned[id]
	_, isObserved := l.observed[id]
	if !isOwned && !isObserved {
		return
	}
	delete(l.owned, id)
	delete(l.observed, id)
	l.dirty = true
	l.log.Debug("remove animation", slog.Uint64("id", id))
}

// Registration returns how a is registered with the loop.
func (l *Loop) Registration(a *Animation) Registration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.owned[a.id]; ok {
		return Owned
	}
	if _, ok := l.observed[a.id]; ok {
		return Observed
	}
	return Unregistered
}

// Len returns the number of registered animations, including observed
// animations that have been collected but not yet pruned by Step.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.owned) + len(l.observed)
}

// Pause stops the loop from advancing its animations. Time that passes
// while the loop is paused is not delivered to relative time animations.
func (l *Loop) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = true
	l.ticking = false
}

// Resume undoes Pause.
func (l *Loop) Resume() {
	l.mu.Lock()
	l.paused = false
	l.ticking = false
	l.mu.Unlock()
	l.wake()
}

// IsPaused returns whether the loop is paused.
func (l *Loop) IsPaused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// wake asks the driver to step the loop.
func (l *Loop) wake() {
	l.mu.Lock()
	w := l.waker
	l.mu.Unlock()
	if w != nil {
		w.RequestWake()
	}
}

func (l *Loop) startNative(a *Animation) bool {
	l.mu.Lock()
	b := l.native
	l.mu.Unlock()
	return b != nil && b.StartNative(a)
}

func (l *Loop) stopNative(a *Animation) {
	l.mu.Lock()
	b := l.native
	l.mu.Unlock()
	if b != nil {
		b.StopNative(a)
	}
}

// NativeFinished is called by a NativeBackend when an animation it was
// stepping has completed. The animation is stopped as if it had completed
// on the loop.
func (l *Loop) NativeFinished(a *Animation) {
	a.stop(true)
}

// Step advances every running animation by the time elapsed since the
// previous step and returns how long the driver may wait before the next
// step. It returns zero when a frame is due at the driver's frame rate,
// the time until the earliest start delay expires when all animations are
// delayed, and NoWait when nothing is running.
//
// All animations updated by a step see the same delta and the same clock
// reading.
func (l *Loop) Step() time.Duration {
	now := l.clock.Now()

	l.mu.Lock()
	if l.paused {
		l.mu.Unlock()
		return NoWait
	}
	var delta time.Duration
	if l.ticking {
		delta = max(now.Sub(l.last), 0)
	}
	l.last = now
	running := l.snapshot()
	l.ticking = len(running) != 0
	adds := l.adds
	l.mu.Unlock()

	for _, a := range running {
		l.update(a, now, delta)
	}

	wait := NoWait
	for _, a := range running {
		w, ok := a.wait()
		if !ok {
			continue
		}
		if wait == NoWait || w < wait {
			wait = w
		}
	}
	if wait == NoWait {
		l.mu.Lock()
		if l.adds != adds {
			// Started by a callback during this step.
			l.ticking = true
			wait = 0
		} else {
			// The next step must not deliver the idle gap.
			l.ticking = false
		}
		l.mu.Unlock()
	}
	return wait
}

// snapshot returns strong references to the registered animations in
// registration order, pruning collected observed animations. It must be
// called with l.mu held.
func (l *Loop) snapshot() []*Animation {
	if l.dirty {
		l.order = slices.DeleteFunc(l.order, func(id uint64) bool {
			_, isOwned := l.owned[id]
			_, isObserved := l.observed[id]
			return !isOwned && !isObserved
		})
		l.dirty = false
	}
	running := make([]*Animation, 0, len(l.order))
	for _, id := range l.order {
		if a, ok := l.owned[id]; ok {
			running = append(running, a)
			continue
		}
		if a := l.observed[id].Value(); a != nil {
			running = append(running, a)
			continue
		}
		l.removeID(id)
	}
	return running
}

// update steps a, recovering from panics in targets and callbacks so that
// a faulty consumer cannot stop the driver.
func (l *Loop) update(a *Animation, now time.Time, delta time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Warn("animation update panicked", slog.Uint64("id", a.id), slog.Any("panic", r))
		}
	}()
	a.step(now, delta)
}

package animation

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// MinDuration is the shortest duration an Animation may have. Shorter
// durations are raised to it.
const MinDuration = 100 * time.Microsecond

// State is the playback state of an Animation.
type State int

const (
	Idle State = iota
	Running
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Flags modify the construction of an Animation by Create and Animate.
type Flags int

const (
	AutoStart          Flags = 1 << iota // start on creation
	Repeat                               // repeat forever
	AutoReverse                          // play odd cycles backwards
	NotNative                            // never hand stepping to a native backend
	NotUpdateWhenStart                   // do not apply the start frame on start
	NotSelfAlive                         // the loop only observes the animation
)

var lastID atomic.Uint64

// Animation is a timeline that drives a set of targets with a curved
// fraction of its progress. An Animation is created idle, runs on a Loop
// between Start and Stop, and may be paused and resumed in between.
//
// All methods are safe for concurrent use. Callbacks and targets are
// called without the animation's lock held, on the goroutine that drives
// the loop or on the goroutine calling the control method that caused
// them.
type Animation struct {
	id   uint64
	loop *Loop

	mu sync.Mutex

	targets []Target
	linked  []*Animation

	selfAlive       bool
	nativeEnabled   bool
	updateWhenStart bool

	time         time.Duration
	origin       time.Time
	duration     time.Duration
	delay        time.Duration
	repeatCount  int
	autoReverse  bool
	absoluteTime bool

	curve  Curve
	params CurveParams

	started      bool
	running      bool
	paused       bool
	native       bool
	lastRepeated int

	onStop          func()
	onFrame         func(a *Animation, t time.Duration)
	onRepeat        func(a *Animation, remaining int)
	onStopAnimation func(a *Animation)
}

// New returns an idle Animation of the given duration on loop. If loop is
// nil, the default loop is used.
func New(loop *Loop, duration time.Duration) *Animation {
	if loop == nil {
		loop = DefaultLoop()
	}
	return &Animation{
		id:              lastID.Add(1),
		loop:            loop,
		selfAlive:       true,
		nativeEnabled:   true,
		updateWhenStart: true,
		duration:        max(duration, MinDuration),
		curve:           Default,
		params:          DefaultCurveParams(),
	}
}

// Create returns an Animation on loop driving target, configured by curve
// and flags. onStop, if not nil, is called when the animation stops. The
// animation is started if flags includes AutoStart.
func Create(loop *Loop, target Target, duration time.Duration, onStop func(), curve Curve, flags Flags) *Animation {
	a := New(loop, duration)
	if target != nil {
		a.AddTarget(target)
	}
	a.onStop = onStop
	a.curve = curve
	if flags&Repeat != 0 {
		a.repeatCount = -1
	}
	a.autoReverse = flags&AutoReverse != 0
	a.nativeEnabled = flags&NotNative == 0
	a.updateWhenStart = flags&NotUpdateWhenStart == 0
	a.selfAlive = flags&NotSelfAlive == 0
	if flags&AutoStart != 0 {
		a.Start()
	}
	return a
}

// Animate is Create with AutoStart.
func Animate(loop *Loop, target Target, duration time.Duration, onStop func(), curve Curve, flags Flags) *Animation {
	return Create(loop, target, duration, onStop, curve, flags|AutoStart)
}

// ID returns the animation's identity within its loop's registries.
func (a *Animation) ID() uint64 { return a.id }

// Loop returns the loop the animation runs on.
func (a *Animation) Loop() *Loop { return a.loop }

// Targets returns a copy of the animation's targets.
func (a *Animation) Targets() []Target {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.targets)
}

// AddTarget appends t to the animation's targets.
func (a *Animation) AddTarget(t Target) {
	a.mu.Lock()
	a.targets = append(a.targets, t)
	a.mu.Unlock()
	if b, ok := t.(Binder); ok {
		b.Bind(a)
	}
}

// RemoveTarget removes t from the animation's targets. Targets with
// dynamic types that are not comparable, such as TargetFunc, can only be
// removed by RemoveAllTargets.
func (a *Animation) RemoveTarget(t Target) {
	a.mu.Lock()
	var removed []Target
	a.targets = slices.DeleteFunc(a.targets, func(e Target) bool {
		if sameTarget(e, t) {
			removed = append(removed, e)
			return true
		}
		return false
	})
	a.mu.Unlock()
	unbind(removed)
}

// RemoveAllTargets removes all the animation's targets.
func (a *Animation) RemoveAllTargets() {
	a.mu.Lock()
	removed := a.targets
	a.targets = nil
	a.mu.Unlock()
	unbind(removed)
}

func sameTarget(a, b Target) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}

func unbind(targets []Target) {
	for _, t := range targets {
		if b, ok := t.(Binder); ok {
			b.Bind(nil)
		}
	}
}

// Link arranges for b to be started when a stops.
func (a *Animation) Link(b *Animation) {
	if b == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !slices.Contains(a.linked, b) {
		a.linked = append(a.linked, b)
	}
}

// Unlink removes b from a's linked animations.
func (a *Animation) Unlink(b *Animation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.linked = slices.DeleteFunc(a.linked, func(e *Animation) bool { return e == b })
}

// UnlinkAll removes all of a's linked animations.
func (a *Animation) UnlinkAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.linked = nil
}

// IsSelfAlive returns whether the loop holds a strong reference to the
// animation while it runs.
func (a *Animation) IsSelfAlive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selfAlive
}

// SetSelfAlive sets whether the loop keeps the animation alive while it
// runs. An animation that is not self-alive is only observed by the loop
// and is dropped from it if it is collected; its owner must keep a
// reference for as long as it should run.
func (a *Animation) SetSelfAlive(alive bool) {
	a.mu.Lock()
	a.selfAlive = alive
	running := a.running
	a.mu.Unlock()
	if running {
		a.loop.add(a, alive)
	}
}

// IsNativeEnabled returns whether the animation may be stepped by the
// loop's native backend.
func (a *Animation) IsNativeEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nativeEnabled
}

// SetNativeEnabled sets whether the animation may be stepped by the loop's
// native backend. It takes effect at the next start or resume.
func (a *Animation) SetNativeEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nativeEnabled = enabled
}

// IsUpdateWhenStart returns whether starting applies the start frame.
func (a *Animation) IsUpdateWhenStart() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updateWhenStart
}

// SetUpdateWhenStart sets whether starting applies the start frame to the
// targets immediately rather than at the next tick.
func (a *Animation) SetUpdateWhenStart(update bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updateWhenStart = update
}

// Time returns the accumulated time of the animation, including its start
// delay.
func (a *Animation) Time() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.time
}

// SetTime sets the accumulated time of the animation. Negative times are
// treated as zero. If updateFrame is true, the targets are updated to the
// new time immediately.
func (a *Animation) SetTime(t time.Duration, updateFrame bool) {
	now := a.loop.now()
	a.mu.Lock()
	a.setTime(t, now)
	a.mu.Unlock()
	if updateFrame {
		a.applyFrame()
	}
}

// setTime must be called with a.mu held.
func (a *Animation) setTime(t time.Duration, now time.Time) {
	a.time = max(t, 0)
	a.origin = now.Add(-a.time)
	_, a.lastRepeated, _ = a.progress(a.time)
}

// Duration returns the duration of one cycle.
func (a *Animation) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duration
}

// SetDuration sets the duration of one cycle. Durations below MinDuration
// are raised to it.
func (a *Animation) SetDuration(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.duration = max(d, MinDuration)
}

// StartDelay returns the delay before the first cycle begins.
func (a *Animation) StartDelay() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.delay
}

// SetStartDelay sets the delay before the first cycle begins. Negative
// delays are treated as zero.
func (a *Animation) SetStartDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delay = max(d, 0)
}

// RepeatCount returns the number of times the animation repeats after its
// first cycle. A negative count repeats forever.
func (a *Animation) RepeatCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.repeatCount
}

// SetRepeatCount sets the number of times the animation repeats after its
// first cycle. A negative count repeats forever.
func (a *Animation) SetRepeatCount(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.repeatCount = n
}

// IsRepeatForever returns whether the animation repeats forever.
func (a *Animation) IsRepeatForever() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.repeatCount < 0
}

// SetRepeatForever sets whether the animation repeats forever. Clearing it
// on a forever repeating animation leaves a single cycle.
func (a *Animation) SetRepeatForever(forever bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case forever:
		a.repeatCount = -1
	case a.repeatCount < 0:
		a.repeatCount = 0
	}
}

// IsAutoReverse returns whether odd cycles play backwards.
func (a *Animation) IsAutoReverse() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.autoReverse
}

// SetAutoReverse sets whether odd cycles play backwards.
func (a *Animation) SetAutoReverse(reverse bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.autoReverse = reverse
}

// IsAbsoluteTime returns whether the animation's time follows the loop
// clock rather than accumulating tick deltas.
func (a *Animation) IsAbsoluteTime() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.absoluteTime
}

// SetAbsoluteTime sets whether the animation's time follows the loop
// clock. An absolute time animation is set to the time elapsed on the
// clock since it started, less its own pauses, at every tick; a pause of
// the loop does not hold it back.
func (a *Animation) SetAbsoluteTime(absolute bool) {
	now := a.loop.now()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.absoluteTime = absolute
	a.origin = now.Add(-a.time)
}

// Curve returns the animation's curve.
func (a *Animation) Curve() Curve {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.curve
}

// SetCurve sets the animation's curve.
func (a *Animation) SetCurve(c Curve) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.curve = c
}

// CurveParams returns the parameters of the animation's curve.
func (a *Animation) CurveParams() CurveParams {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.params
}

// SetCurveEaseFactor sets the power factor of the ease curves.
func (a *Animation) SetCurveEaseFactor(factor float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.params.EaseFactor = factor
}

// SetCurveCycles sets the number of periods of the Cycle curve.
func (a *Animation) SetCurveCycles(cycles float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.params.Cycles = cycles
}

// SetCurveTension sets the tension of the Anticipate and Overshoot curves.
func (a *Animation) SetCurveTension(tension float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.params.Tension = tension
}

// SetCustomCurve sets the function used by the Custom curve and selects
// the Custom curve.
func (a *Animation) SetCustomCurve(fn func(float64) float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.params.Func = fn
	a.curve = Custom
}

// SetOnStop sets the function called when the animation stops.
func (a *Animation) SetOnStop(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onStop = fn
}

// SetOnFrame sets the function called after every frame with the
// animation's accumulated time.
func (a *Animation) SetOnFrame(fn func(a *Animation, t time.Duration)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onFrame = fn
}

// SetOnRepeat sets the function called when the animation enters a new
// cycle. remaining is the number of cycles left after the one entered, or
// -1 for animations that repeat forever.
func (a *Animation) SetOnRepeat(fn func(a *Animation, remaining int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onRepeat = fn
}

// SetOnStopAnimation sets the function called with the animation after
// the stop callback and before linked animations are started.
func (a *Animation) SetOnStopAnimation(fn func(a *Animation)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onStopAnimation = fn
}

// progress returns the cycle fraction, after auto-reverse, and the cycle
// index at time t, and whether the animation has run out of cycles by t.
// It must be called with a.mu held.
//
// At the boundary between two cycles the fraction is that of the start of
// the new cycle. Only the end of the final cycle reports the end fraction.
func (a *Animation) progress(t time.Duration) (fraction float64, cycle int, finished bool) {
	e := max(t-a.delay, 0)
	raw := float64(e) / float64(a.duration)
	if a.repeatCount >= 0 && raw >= float64(a.repeatCount)+1 {
		cycle = a.repeatCount
		fraction = 1
		finished = true
	} else {
		c := math.Floor(raw)
		cycle = int(c)
		fraction = raw - c
	}
	if a.autoReverse && cycle%2 == 1 {
		fraction = 1 - fraction
	}
	return fraction, cycle, finished
}

// CurrentTime returns the time elapsed within the current cycle and the
// number of completed cycles.
func (a *Animation) CurrentTime() (t time.Duration, repeated int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e := max(a.time-a.delay, 0)
	raw := float64(e) / float64(a.duration)
	if a.repeatCount >= 0 && raw >= float64(a.repeatCount)+1 {
		return a.duration, a.repeatCount
	}
	repeated = int(e / a.duration)
	return e - time.Duration(repeated)*a.duration, repeated
}

// RepeatedCount returns the number of completed cycles.
func (a *Animation) RepeatedCount() int {
	_, n := a.CurrentTime()
	return n
}

// Fraction returns the linear fraction of the current cycle, after
// auto-reverse has been applied.
func (a *Animation) Fraction() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, _, _ := a.progress(a.time)
	return f
}

// CurvedFraction returns the current fraction after the curve has been
// applied; this is the value the targets receive.
func (a *Animation) CurvedFraction() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, _, _ := a.progress(a.time)
	return a.curve.Apply(f, a.params)
}

// State returns the playback state.
func (a *Animation) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case !a.started:
		return Idle
	case a.running && a.paused:
		return Paused
	case a.running:
		return Running
	default:
		return Stopped
	}
}

// IsStarted returns whether the animation has ever been started.
func (a *Animation) IsStarted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}

// IsRunning returns whether the animation is between start and stop. A
// paused animation is running.
func (a *Animation) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// IsPaused returns whether the animation is running but paused.
func (a *Animation) IsPaused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running && a.paused
}

// IsStopped returns whether the animation has been started and then
// stopped.
func (a *Animation) IsStopped() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started && !a.running
}

// Start starts the animation from the beginning. Starting a running
// animation does nothing.
func (a *Animation) Start() { a.startAt(0, false) }

// StartAt starts the animation at time t. Starting a running animation
// does nothing.
func (a *Animation) StartAt(t time.Duration) { a.startAt(t, false) }

// Restart starts the animation from the beginning, resetting it if it is
// running. No stop callbacks are called for the interrupted run.
func (a *Animation) Restart() { a.startAt(0, true) }

// RestartAt is Restart at time t.
func (a *Animation) RestartAt(t time.Duration) { a.startAt(t, true) }

func (a *Animation) startAt(t time.Duration, restart bool) {
	now := a.loop.now()
	a.mu.Lock()
	if a.running && !restart {
		a.mu.Unlock()
		return
	}
	wasNative := a.native
	a.started = true
	a.running = true
	a.paused = false
	a.native = false
	a.setTime(t, now)
	selfAlive := a.selfAlive
	nativeEnabled := a.nativeEnabled
	updateWhenStart := a.updateWhenStart
	a.mu.Unlock()

	if wasNative {
		a.loop.stopNative(a)
	}
	a.loop.add(a, selfAlive)
	if nativeEnabled {
		a.startNative()
	}
	if updateWhenStart {
		a.applyFrame()
	}
	a.loop.wake()
}

func (a *Animation) startNative() {
	if !a.loop.startNative(a) {
		return
	}
	a.mu.Lock()
	a.native = a.running && !a.paused
	a.mu.Unlock()
}

// Stop stops the animation, removing it from its loop, calling the stop
// callbacks and starting the linked animations. Stopping an animation that
// is not running does nothing. A frame being applied concurrently on the
// loop's goroutine is not interrupted.
func (a *Animation) Stop() { a.stop(false) }

func (a *Animation) stop(fromNative bool) {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.paused = false
	native := a.native
	a.native = false
	a.mu.Unlock()

	if native && !fromNative {
		a.loop.stopNative(a)
	}
	a.finish()
}

// finish runs the stop sequence. It is called exactly once per run by the
// caller that cleared a.running.
func (a *Animation) finish() {
	a.loop.remove(a)

	a.mu.Lock()
	onStop := a.onStop
	onStopAnimation := a.onStopAnimation
	linked := slices.Clone(a.linked)
	a.mu.Unlock()

	if onStop != nil {
		onStop()
	}
	if onStopAnimation != nil {
		onStopAnimation(a)
	}
	for _, l := range linked {
		l.Start()
	}
}

// Pause freezes the animation's time without removing it from its loop.
// Pausing an animation that is not running does nothing.
func (a *Animation) Pause() {
	a.mu.Lock()
	if !a.running || a.paused {
		a.mu.Unlock()
		return
	}
	a.paused = true
	native := a.native
	a.native = false
	a.mu.Unlock()
	if native {
		a.loop.stopNative(a)
	}
}

// Resume continues a paused animation from the time at which it was
// paused.
func (a *Animation) Resume() {
	now := a.loop.now()
	a.mu.Lock()
	if !a.running || !a.paused {
		a.mu.Unlock()
		return
	}
	a.paused = false
	a.origin = now.Add(-a.time)
	nativeEnabled := a.nativeEnabled
	a.mu.Unlock()
	if nativeEnabled {
		a.startNative()
	}
	a.loop.wake()
}

// Update advances the animation by delta and applies the resulting frame
// to its targets. It is called by the loop once per tick and may be called
// directly to drive an animation by hand.
func (a *Animation) Update(delta time.Duration) {
	a.step(time.Time{}, delta)
}

// step advances the animation. Absolute time animations take their time
// from now when it is not zero.
func (a *Animation) step(now time.Time, delta time.Duration) {
	a.mu.Lock()
	if !a.running || a.paused || a.native {
		a.mu.Unlock()
		return
	}
	if a.absoluteTime && !now.IsZero() {
		a.time = max(now.Sub(a.origin), 0)
	} else {
		a.time += delta
	}
	if a.time < a.delay {
		a.mu.Unlock()
		return
	}
	f, cycle, finished := a.progress(a.time)
	curved := a.curve.Apply(f, a.params)
	prev := a.lastRepeated
	a.lastRepeated = cycle
	repeatCount := a.repeatCount
	t := a.time
	targets := slices.Clone(a.targets)
	onFrame := a.onFrame
	onRepeat := a.onRepeat
	if finished {
		a.running = false
		a.paused = false
	}
	a.mu.Unlock()

	if finished {
		// The stop sequence must run even if a target or callback panics.
		defer a.finish()
	}
	for _, tgt := range targets {
		tgt.Apply(curved)
	}
	if onFrame != nil {
		onFrame(a, t)
	}
	if onRepeat != nil {
		for c := prev + 1; c <= cycle; c++ {
			remaining := -1
			if repeatCount >= 0 {
				remaining = repeatCount - c
			}
			onRepeat(a, remaining)
		}
	}
}

// applyFrame applies the frame at the current time to the targets without
// advancing time or calling callbacks.
func (a *Animation) applyFrame() {
	a.mu.Lock()
	f, _, _ := a.progress(a.time)
	curved := a.curve.Apply(f, a.params)
	targets := slices.Clone(a.targets)
	a.mu.Unlock()
	for _, t := range targets {
		t.Apply(curved)
	}
}

// wait returns how long the animation can go without a tick and whether it
// needs ticks at all. Animations in their start delay can wait out the
// delay; animations that are playing need the next frame.
func (a *Animation) wait() (time.Duration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running || a.paused || a.native {
		return 0, false
	}
	if a.time < a.delay {
		return a.delay - a.time, true
	}
	return 0, true
}

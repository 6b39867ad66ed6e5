// Package animation schedules time-based animations and interpolates
// keyframed values along them.
//
// An Animation maps elapsed time to a fraction of its cycle, shapes it with
// a Curve and hands the result to its Targets. Animations run on a Loop,
// which advances every running animation in lock step from a single clock
// reading per tick. A Driver steps a Loop on a timer and sleeps while
// nothing is playing.
//
// Frames holds the keyframes of a value and a Seeker evaluates them
// efficiently for the mostly monotonic fractions an animation produces.
// ValueTarget joins the two: it is a Target that resolves fractions to
// values and passes them on.
package animation

package animation

import (
	"math"
	"slices"
	"sort"
)

// Keyframe is a control point of a Frames set.
type Keyframe[T any] struct {
	Fraction float64
	Value    T
}

// Frames is a set of keyframes ordered by strictly increasing fraction and
// bounded by Start at fraction 0 and End at fraction 1. Values between
// control points are produced by the set's Interpolator.
//
// Frames is not safe for concurrent mutation. Seekers take a copy of the
// set when they are created, so later additions do not affect them.
type Frames[T any] struct {
	Start T
	End   T

	interp Interpolator[T]
	frames []Keyframe[T]
}

// NewFrames returns an empty keyframe set between start and end. If interp
// is nil, lookups step to the nearer control point.
func NewFrames[T any](start, end T, interp Interpolator[T]) *Frames[T] {
	return &Frames[T]{Start: start, End: end, interp: interp}
}

// Add inserts a keyframe at fraction, which is clamped to [0, 1]. A keyframe
// already present at the same fraction is replaced. NaN fractions are
// ignored.
func (f *Frames[T]) Add(fraction float64, value T) {
	if math.IsNaN(fraction) {
		return
	}
	fraction = math.Min(math.Max(fraction, 0), 1)
	i := sort.Search(len(f.frames), func(i int) bool {
		return f.frames[i].Fraction >= fraction
	})
	if i < len(f.frames) && f.frames[i].Fraction == fraction {
		f.frames[i].Value = value
		return
	}
	f.frames = slices.Insert(f.frames, i, Keyframe[T]{Fraction: fraction, Value: value})
}

// Len returns the number of keyframes, excluding the bounds.
func (f *Frames[T]) Len() int { return len(f.frames) }

// Frame returns the ith keyframe.
func (f *Frames[T]) Frame(i int) Keyframe[T] { return f.frames[i] }

// Value returns the value of the set at fraction. Fractions before the
// first keyframe interpolate from Start, and fractions after the last
// keyframe interpolate towards End; fractions outside [0, 1] extrapolate
// along the outermost segment.
func (f *Frames[T]) Value(fraction float64) T {
	i := segmentOf(f.frames, fraction)
	return evalSegment(f.Start, f.End, f.frames, f.interp, i, fraction)
}

// segmentOf returns the index of the segment holding fraction. Segment i
// spans from keyframe i-1 (or the start bound) to keyframe i (or the end
// bound), so the result is the number of keyframes at or before fraction.
func segmentOf[T any](frames []Keyframe[T], fraction float64) int {
	return sort.Search(len(frames), func(i int) bool {
		return frames[i].Fraction > fraction
	})
}

// segmentBounds returns the endpoints of segment i.
func segmentBounds[T any](start, end T, frames []Keyframe[T], i int) (lo, hi Keyframe[T]) {
	if i == 0 {
		lo = Keyframe[T]{Fraction: 0, Value: start}
	} else {
		lo = frames[i-1]
	}
	if i == len(frames) {
		hi = Keyframe[T]{Fraction: 1, Value: end}
	} else {
		hi = frames[i]
	}
	return lo, hi
}

// evalSegment resolves fraction within segment i. Both the stateless and
// the seeking lookups go through here, so they agree exactly.
func evalSegment[T any](start, end T, frames []Keyframe[T], interp Interpolator[T], i int, fraction float64) T {
	lo, hi := segmentBounds(start, end, frames, i)
	width := hi.Fraction - lo.Fraction
	if width <= 0 {
		if fraction <= hi.Fraction {
			return lo.Value
		}
		return hi.Value
	}
	local := (fraction - lo.Fraction) / width
	if interp == nil {
		if local < 0.5 {
			return lo.Value
		}
		return hi.Value
	}
	return interp(lo.Value, hi.Value, local)
}

// Seeker is a cursor over a copy of a keyframe set that remembers the last
// resolved segment. Seeking forward through the set costs amortised O(1)
// per call; seeking backwards falls back to a binary search. Seek always
// returns the same value as Frames.Value for the same fraction.
//
// A Seeker is not safe for concurrent use.
type Seeker[T any] struct {
	start  T
	end    T
	frames []Keyframe[T]
	interp Interpolator[T]

	index  int
	lo, hi float64
}

// NewSeeker returns a Seeker over a snapshot of f.
func NewSeeker[T any](f *Frames[T]) *Seeker[T] {
	s := &Seeker[T]{
		start:  f.Start,
		end:    f.End,
		frames: slices.Clone(f.frames),
		interp: f.interp,
	}
	s.setBounds()
	return s
}

// Start returns the start bound value.
func (s *Seeker[T]) Start() T { return s.start }

// End returns the end bound value.
func (s *Seeker[T]) End() T { return s.end }

// Len returns the number of keyframes, excluding the bounds.
func (s *Seeker[T]) Len() int { return len(s.frames) }

// Frame returns the ith keyframe.
func (s *Seeker[T]) Frame(i int) Keyframe[T] { return s.frames[i] }

// Seek returns the value at fraction.
func (s *Seeker[T]) Seek(fraction float64) T {
	switch {
	case s.lo <= fraction && fraction < s.hi:
	case fraction >= s.hi:
		for s.index < len(s.frames) && fraction >= s.hi {
			s.index++
			s.setBounds()
		}
	default:
		s.index = segmentOf(s.frames, fraction)
		s.setBounds()
	}
	return evalSegment(s.start, s.end, s.frames, s.interp, s.index, fraction)
}

// setBounds sets the cached fraction interval of the current segment. The
// outermost segments are open-ended so that extrapolated fractions stay in
// them.
func (s *Seeker[T]) setBounds() {
	if s.index == 0 {
		s.lo = math.Inf(-1)
	} else {
		s.lo = s.frames[s.index-1].Fraction
	}
	if s.index == len(s.frames) {
		s.hi = math.Inf(1)
	} else {
		s.hi = s.frames[s.index].Fraction
	}
}

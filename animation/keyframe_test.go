package animation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFramesAdd(t *testing.T) {
	f := NewFrames(0.0, 10.0, Float64)
	f.Add(0.75, 3)
	f.Add(0.25, 1)
	f.Add(0.5, 2)
	f.Add(0.25, 4)
	f.Add(-1, 5)
	f.Add(2, 6)
	f.Add(math.NaN(), 7)

	var got []Keyframe[float64]
	for i := 0; i < f.Len(); i++ {
		got = append(got, f.Frame(i))
	}
	want := []Keyframe[float64]{
		{Fraction: 0, Value: 5},
		{Fraction: 0.25, Value: 4},
		{Fraction: 0.5, Value: 2},
		{Fraction: 0.75, Value: 3},
		{Fraction: 1, Value: 6},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected keyframes:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}
}

var framesValueTests = []struct {
	name   string
	frames func() *Frames[float64]
	at     []float64
	want   []float64
}{
	{
		name:   "empty",
		frames: func() *Frames[float64] { return NewFrames(0.0, 10.0, Float64) },
		at:     []float64{-0.5, 0, 0.25, 1, 1.5},
		want:   []float64{-5, 0, 2.5, 10, 15},
	},
	{
		name: "one",
		frames: func() *Frames[float64] {
			f := NewFrames(0.0, 10.0, Float64)
			f.Add(0.5, 2)
			return f
		},
		at:   []float64{-0.5, 0, 0.25, 0.5, 0.75, 1, 1.5},
		want: []float64{-2, 0, 1, 2, 6, 10, 18},
	},
	{
		name: "bounds",
		frames: func() *Frames[float64] {
			f := NewFrames(0.0, 10.0, Float64)
			f.Add(0, 4)
			f.Add(1, 8)
			return f
		},
		at:   []float64{-0.5, 0, 0.5, 1, 1.5},
		want: []float64{0, 4, 6, 8, 10},
	},
	{
		name: "end",
		frames: func() *Frames[float64] {
			f := NewFrames(0.0, 10.0, Float64)
			f.Add(0.5, 2)
			f.Add(1, 8)
			return f
		},
		at:   []float64{0.5, 0.75, 1},
		want: []float64{2, 5, 8},
	},
	{
		name: "step",
		frames: func() *Frames[float64] {
			f := NewFrames(0.0, 10.0, nil)
			f.Add(0.5, 2)
			return f
		},
		at:   []float64{0, 0.2, 0.3, 0.5, 0.7, 0.8, 1},
		want: []float64{0, 0, 2, 2, 2, 10, 10},
	},
}

func TestFramesValue(t *testing.T) {
	for _, test := range framesValueTests {
		t.Run(test.name, func(t *testing.T) {
			f := test.frames()
			var got []float64
			for _, x := range test.at {
				got = append(got, f.Value(x))
			}
			if !cmp.Equal(got, test.want) {
				t.Errorf("unexpected values:\n--- want:\n+++ got:\n%s", cmp.Diff(test.want, got))
			}
		})
	}
}

func TestSeekerMatchesValue(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	frames := NewFrames(-3.0, 7.0, Float64)
	for i := 0; i < 20; i++ {
		frames.Add(rnd.Float64(), rnd.NormFloat64())
	}
	frames.Add(0, 1)
	frames.Add(1, 2)

	sweeps := map[string][]float64{
		"forward":  nil,
		"backward": nil,
		"random":   nil,
		"pingpong": nil,
	}
	for i := -100; i <= 1100; i++ {
		sweeps["forward"] = append(sweeps["forward"], float64(i)/1000)
		sweeps["backward"] = append(sweeps["backward"], float64(1000-i)/1000)
		sweeps["random"] = append(sweeps["random"], rnd.Float64()*1.4-0.2)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j <= 100; j++ {
			x := float64(j) / 100
			if i%2 == 1 {
				x = 1 - x
			}
			sweeps["pingpong"] = append(sweeps["pingpong"], x)
		}
	}
	// Boundaries of every segment.
	for i := 0; i < frames.Len(); i++ {
		sweeps["forward"] = append(sweeps["forward"], frames.Frame(i).Fraction)
	}
	sweeps["forward"] = append(sweeps["forward"], math.Inf(1))

	for name, sweep := range sweeps {
		t.Run(name, func(t *testing.T) {
			s := NewSeeker(frames)
			for _, x := range sweep {
				got := s.Seek(x)
				want := frames.Value(x)
				if got != want {
					t.Errorf("unexpected value at %v: got:%v want:%v", x, got, want)
				}
			}
		})
	}
}

func TestSeekerSnapshot(t *testing.T) {
	frames := NewFrames(0.0, 10.0, Float64)
	frames.Add(0.5, 2)
	s := NewSeeker(frames)
	frames.Add(0.5, 8)
	frames.Add(0.25, 9)

	if got := s.Len(); got != 1 {
		t.Errorf("unexpected seeker length: got:%d want:1", got)
	}
	if got := s.Seek(0.5); got != 2 {
		t.Errorf("unexpected value: got:%v want:2", got)
	}
}

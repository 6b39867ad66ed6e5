package animation

import (
	"image"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var intTests = []struct {
	start, end int
	t          float64
	want       int
}{
	{start: 0, end: 10, t: 0, want: 0},
	{start: 0, end: 10, t: 0.44, want: 4},
	{start: 0, end: 10, t: 0.46, want: 5},
	{start: 0, end: 10, t: 1, want: 10},
	{start: 0, end: 10, t: 1.26, want: 13},
	{start: 0, end: 10, t: -0.26, want: -3},
	{start: 5, end: -5, t: 0.25, want: 2},
	{start: 5, end: -5, t: 1.5, want: -10},
}

func TestInt(t *testing.T) {
	for _, test := range intTests {
		if got := Int(test.start, test.end, test.t); got != test.want {
			t.Errorf("unexpected value for Int(%d, %d, %v): got:%d want:%d", test.start, test.end, test.t, got, test.want)
		}
	}
}

func TestFloat32(t *testing.T) {
	for _, test := range []struct {
		t    float64
		want float32
	}{
		{t: 0, want: 1},
		{t: 0.5, want: 2},
		{t: 1, want: 3},
		{t: -1, want: -1},
		{t: 2, want: 5},
	} {
		if got := Float32(1, 3, test.t); got != test.want {
			t.Errorf("unexpected value at %v: got:%v want:%v", test.t, got, test.want)
		}
	}
}

func TestPoint(t *testing.T) {
	start := image.Point{}
	end := image.Point{X: 10, Y: -10}
	for _, test := range []struct {
		t    float64
		want image.Point
	}{
		{t: 0, want: image.Point{}},
		{t: 0.25, want: image.Point{X: 3, Y: -3}},
		{t: 1, want: end},
		{t: -0.5, want: image.Point{X: -5, Y: 5}},
	} {
		if got := Point(start, end, test.t); got != test.want {
			t.Errorf("unexpected point at %v: got:%v want:%v", test.t, got, test.want)
		}
	}
}

func TestColorRGB(t *testing.T) {
	black := colorful.Color{}
	grey := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	for _, test := range []struct {
		t    float64
		want colorful.Color
	}{
		{t: 0, want: black},
		{t: 0.5, want: colorful.Color{R: 0.25, G: 0.25, B: 0.25}},
		{t: 1, want: grey},
		{t: 1.5, want: colorful.Color{R: 0.75, G: 0.75, B: 0.75}},
	} {
		if got := ColorRGB(black, grey, test.t); got != test.want {
			t.Errorf("unexpected colour at %v: got:%v want:%v", test.t, got, test.want)
		}
	}
}

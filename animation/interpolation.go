package animation

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// An Interpolator returns the value between start and end at t. Values of t
// outside [0, 1] must extrapolate along the same law, since curves such as
// Overshoot and Anticipate leave the unit interval.
type Interpolator[T any] func(start, end T, t float64) T

// Float64 interpolates linearly between float64 values.
func Float64(start, end, t float64) float64 {
	return start + (end-start)*t
}

// Float32 interpolates linearly between float32 values.
func Float32(start, end float32, t float64) float32 {
	return start + (end-start)*float32(t)
}

// Int interpolates linearly between int values, rounding to the nearest
// integer.
func Int(start, end int, t float64) int {
	return start + int(math.Round(float64(end-start)*t))
}

// Point interpolates linearly between image points, rounding each
// coordinate to the nearest integer.
func Point(start, end image.Point, t float64) image.Point {
	return image.Point{X: Int(start.X, end.X, t), Y: Int(start.Y, end.Y, t)}
}

// ColorRGB interpolates colours linearly in RGB space.
func ColorRGB(start, end colorful.Color, t float64) colorful.Color {
	return start.BlendRgb(end, t)
}

// ColorHcl interpolates colours in HCL space, taking the shorter way
// around the hue circle.
func ColorHcl(start, end colorful.Color, t float64) colorful.Color {
	return start.BlendHcl(end, t)
}

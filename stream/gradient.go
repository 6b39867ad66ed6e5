package stream

import (
	"github.com/matt-g-everett/ledanim/animation"
)

// A GradientStop is a hue at a position along a gradient.
type GradientStop struct {
	Pos float64
	Hue float64
}

// NewHueGradient returns the keyframes of a hue gradient through stops.
// Hues are interpolated linearly between stops without wrapping, so a
// gradient that should pass through red going upwards must say 360
// rather than 0.
func NewHueGradient(stops ...GradientStop) *animation.Frames[float64] {
	g := animation.NewFrames(0.0, 0.0, animation.Float64)
	if len(stops) == 0 {
		return g
	}
	g.Start = stops[0].Hue
	g.End = stops[len(stops)-1].Hue
	for _, s := range stops {
		g.Add(s.Pos, s.Hue)
	}
	return g
}

// RainbowGradient returns a gradient through the colours of the rainbow
// that wraps back to its start.
func RainbowGradient() *animation.Frames[float64] {
	return NewHueGradient(
		GradientStop{0.0, 0.0},
		GradientStop{0.04, 6.0},   // Pink
		GradientStop{0.14, 87.0},  // Red
		GradientStop{0.28, 88.0},  // Orange
		GradientStop{0.42, 98.0},  // Yellow
		GradientStop{0.56, 180.0}, // Green
		GradientStop{0.70, 190.0}, // Turquoise
		GradientStop{0.84, 320.0}, // Blue
		GradientStop{0.91, 328.0}, // Violet
		GradientStop{1.0, 360.0},  // Pink wrap
	)
}

package stream

import (
	"log/slog"
	"slices"

	"github.com/matt-g-everett/ledanim/animation"
)

// An Effect renders a moving pattern into frames. An effect owns the
// animations that move it; they run on a loop between Start and Stop.
// Render may be called concurrently with the loop stepping the effect's
// animations.
type Effect interface {
	Name() string
	Start()
	Stop()
	Render(f *Frame)
}

// Effect names used in configuration.
const (
	GradientTrailName = "gradient"
	TwinkleName       = "twinkle"
	StripesName       = "stripes"
	StreakName        = "streak"
)

// effects are the constructors of the named effects.
var effects = map[string]func(loop *animation.Loop, cfg Config, log *slog.Logger) Effect{
	GradientTrailName: func(loop *animation.Loop, cfg Config, _ *slog.Logger) Effect {
		return NewGradientTrail(loop, RainbowGradient(), cfg)
	},
	TwinkleName: func(loop *animation.Loop, cfg Config, log *slog.Logger) Effect {
		return NewTwinkle(loop, cfg, log)
	},
	StripesName: func(loop *animation.Loop, cfg Config, _ *slog.Logger) Effect {
		return NewStripes(loop, cfg)
	},
	StreakName: func(loop *animation.Loop, cfg Config, _ *slog.Logger) Effect {
		return NewStreak(loop, cfg)
	},
}

// EffectNames returns the names of all known effects.
func EffectNames() []string {
	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

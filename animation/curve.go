package animation

import (
	"fmt"
	"math"
	"strings"

	"github.com/fogleman/ease"
)

// Curve selects the function used to remap the linear cycle fraction of
// an Animation before it is handed to the targets.
type Curve int

const (
	Linear     Curve = 0
	EaseInOut  Curve = 1 // slow start and end, fast middle
	EaseIn     Curve = 2 // slow start, accelerating
	EaseOut    Curve = 3 // fast start, decelerating
	Cycle      Curve = 4 // sinusoidal, repeated Cycles times within one cycle
	Bounce     Curve = 5 // bounces at the end
	Anticipate Curve = 6 // backs up then flings forward
	Overshoot  Curve = 7 // flings past the end then settles back
	Custom     Curve = 50
	Default    Curve = 100
)

// Default curve parameters.
const (
	DefaultEaseFactor = 1.0
	DefaultCycles     = 1.0
	DefaultTension    = 2.0
)

var curveNames = map[Curve]string{
	Linear:     "linear",
	EaseInOut:  "ease-in-out",
	EaseIn:     "ease-in",
	EaseOut:    "ease-out",
	Cycle:      "cycle",
	Bounce:     "bounce",
	Anticipate: "anticipate",
	Overshoot:  "overshoot",
	Custom:     "custom",
	Default:    "default",
}

func (c Curve) String() string {
	if s, ok := curveNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Curve(%d)", int(c))
}

// ParseCurve returns the Curve with the given name. Names are matched
// case-insensitively and ignore '-' and '_', so "EaseInOut", "ease_in_out"
// and "ease-in-out" are equivalent.
func ParseCurve(name string) (Curve, error) {
	norm := func(s string) string {
		return strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	}
	want := norm(name)
	for c, s := range curveNames {
		if norm(s) == want {
			return c, nil
		}
	}
	return Default, fmt.Errorf("unknown curve: %q", name)
}

// CurveParams holds the parameters of the parameterised curves.
type CurveParams struct {
	// EaseFactor is the power factor of EaseIn, EaseOut and EaseInOut.
	// A factor of 1 gives the quadratic (sinusoidal for EaseInOut) form.
	EaseFactor float64

	// Cycles is the number of sine periods of the Cycle curve.
	Cycles float64

	// Tension controls the amount of Anticipate and Overshoot.
	Tension float64

	// Func is the curve used by Custom. A nil Func is linear.
	Func func(float64) float64
}

// DefaultCurveParams returns the default curve parameters.
func DefaultCurveParams() CurveParams {
	return CurveParams{
		EaseFactor: DefaultEaseFactor,
		Cycles:     DefaultCycles,
		Tension:    DefaultTension,
	}
}

// Apply remaps the linear fraction f using the curve c. The result is not
// clamped; Anticipate, Overshoot and Cycle leave [0, 1] on purpose.
func (c Curve) Apply(f float64, p CurveParams) float64 {
	switch c {
	case Linear:
		return f
	case EaseInOut, Default:
		if p.EaseFactor == 1 {
			return ease.InOutSine(f)
		}
		if f < 0.5 {
			return 0.5 * math.Pow(2*f, 2*p.EaseFactor)
		}
		return 1 - 0.5*math.Pow(2*(1-f), 2*p.EaseFactor)
	case EaseIn:
		if p.EaseFactor == 1 {
			return ease.InQuad(f)
		}
		return math.Pow(f, 2*p.EaseFactor)
	case EaseOut:
		if p.EaseFactor == 1 {
			return ease.OutQuad(f)
		}
		return 1 - math.Pow(1-f, 2*p.EaseFactor)
	case Cycle:
		return math.Sin(2 * math.Pi * p.Cycles * f)
	case Bounce:
		return ease.OutBounce(f)
	case Anticipate:
		return f * f * ((p.Tension+1)*f - p.Tension)
	case Overshoot:
		g := f - 1
		return g*g*((p.Tension+1)*g+p.Tension) + 1
	case Custom:
		if p.Func == nil {
			return f
		}
		return p.Func(f)
	default:
		return f
	}
}

package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/ledanim/animation"
)

// Config is the streaming service configuration.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"clientId"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`

	// Listen is the address of the HTTP control server. It is disabled
	// when empty.
	Listen string `yaml:"listen"`
	// Static is a directory of client pages served by the control server.
	Static string `yaml:"static"`

	FrameRate float64 `yaml:"frameRate"`
	Pixels    int     `yaml:"pixels"`

	// Effects is the order in which effects are cycled.
	Effects         []string      `yaml:"effects"`
	Cycle           time.Duration `yaml:"cycle"`
	Transition      time.Duration `yaml:"transition"`
	TransitionCurve string        `yaml:"transitionCurve"`

	Palette    []Colour `yaml:"palette"`
	Background []Colour `yaml:"background"`
	Highlight  Colour   `yaml:"highlight"`

	Gradient struct {
		TrailLength int           `yaml:"trailLength"`
		Period      time.Duration `yaml:"period"`
		Chroma      float64       `yaml:"chroma"`
		Luminance   float64       `yaml:"luminance"`
	} `yaml:"gradient"`

	Twinkle struct {
		Particles int           `yaml:"particles"`
		MinPulse  time.Duration `yaml:"minPulse"`
		MaxPulse  time.Duration `yaml:"maxPulse"`
	} `yaml:"twinkle"`

	Stripes struct {
		Speed       float64 `yaml:"speed"` // pixels per second
		MinLength   int     `yaml:"minLength"`
		MaxLength   int     `yaml:"maxLength"`
		Perspective float64 `yaml:"perspective"`
	} `yaml:"stripes"`

	Streak struct {
		Interval time.Duration `yaml:"interval"`
		Duration time.Duration `yaml:"duration"`
		Length   int           `yaml:"length"`
	} `yaml:"streak"`
}

// DefaultConfig returns the configuration used for fields that a
// configuration file leaves unset.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "ledanim"
	c.Mqtt.Topics.Stream = "home/xmastree/stream"
	c.Mqtt.Topics.Control = "home/xmastree/control"
	c.FrameRate = 30
	c.Pixels = 500
	c.Effects = []string{GradientTrailName, TwinkleName, StripesName, StreakName}
	c.Cycle = 5 * time.Minute
	c.Transition = 5 * time.Second
	c.TransitionCurve = animation.EaseInOut.String()
	c.Palette = []Colour{
		mustHex("#ff1493"),
		mustHex("#ff8c00"),
		{colorful.Hcl(280, 1, 0.06)},
	}
	c.Background = []Colour{mustHex("#000005"), mustHex("#050005"), mustHex("#050200")}
	c.Highlight = mustHex("#808080")
	c.Gradient.TrailLength = 180
	c.Gradient.Period = 6 * time.Second
	c.Gradient.Chroma = 1
	c.Gradient.Luminance = 0.05
	c.Twinkle.Particles = 60
	c.Twinkle.MinPulse = 400 * time.Millisecond
	c.Twinkle.MaxPulse = 1500 * time.Millisecond
	c.Stripes.Speed = 30
	c.Stripes.MinLength = 150
	c.Stripes.MaxLength = 400
	c.Stripes.Perspective = 1.4
	c.Streak.Interval = 700 * time.Millisecond
	c.Streak.Duration = 3 * time.Second
	c.Streak.Length = 10
	return c
}

// LoadConfig reads a YAML configuration from path over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// ReadConfig reads a YAML configuration from r over DefaultConfig.
func ReadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	err := yaml.NewDecoder(r).Decode(&c)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	err = c.Validate()
	if err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the configuration for values the service cannot run
// with.
func (c Config) Validate() error {
	var errs []error
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("invalid frame rate: %v", c.FrameRate))
	}
	if c.Pixels <= 0 || c.Pixels > 0xffff {
		errs = append(errs, fmt.Errorf("invalid pixel count: %d", c.Pixels))
	}
	if len(c.Effects) == 0 {
		errs = append(errs, errors.New("no effects"))
	}
	for _, name := range c.Effects {
		if _, ok := effects[name]; !ok {
			errs = append(errs, fmt.Errorf("unknown effect: %q", name))
		}
	}
	if c.Cycle <= 0 {
		errs = append(errs, fmt.Errorf("invalid cycle time: %v", c.Cycle))
	}
	if c.Transition <= 0 {
		errs = append(errs, fmt.Errorf("invalid transition time: %v", c.Transition))
	}
	if c.Gradient.Period <= 0 {
		errs = append(errs, fmt.Errorf("invalid gradient period: %v", c.Gradient.Period))
	}
	if _, err := animation.ParseCurve(c.TransitionCurve); err != nil {
		errs = append(errs, err)
	}
	if len(c.Palette) == 0 {
		errs = append(errs, errors.New("empty palette"))
	}
	if len(c.Background) == 0 {
		errs = append(errs, errors.New("empty background"))
	}
	if c.Stripes.MinLength <= 0 || c.Stripes.MaxLength < c.Stripes.MinLength {
		errs = append(errs, fmt.Errorf("invalid stripe lengths: [%d, %d]", c.Stripes.MinLength, c.Stripes.MaxLength))
	}
	if c.Twinkle.MinPulse <= 0 || c.Twinkle.MaxPulse < c.Twinkle.MinPulse {
		errs = append(errs, fmt.Errorf("invalid twinkle pulse: [%v, %v]", c.Twinkle.MinPulse, c.Twinkle.MaxPulse))
	}
	if c.Gradient.TrailLength <= 0 {
		errs = append(errs, fmt.Errorf("invalid gradient trail length: %d", c.Gradient.TrailLength))
	}
	return errors.Join(errs...)
}

// FrameInterval returns the interval between frames.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.FrameRate)
}

// Curve returns the transition curve.
func (c Config) Curve() animation.Curve {
	curve, err := animation.ParseCurve(c.TransitionCurve)
	if err != nil {
		return animation.Default
	}
	return curve
}

func colours(c []Colour) []colorful.Color {
	cols := make([]colorful.Color, len(c))
	for i, v := range c {
		cols[i] = v.Color
	}
	return cols
}

// Colour is a colour that is configured either as a hex triplet or as an
// SVG colour name.
type Colour struct {
	colorful.Color
}

// ParseColour parses a hex triplet such as "#ff8000" or an SVG colour
// name such as "darkorange".
func ParseColour(s string) (Colour, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Colour{}, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		return Colour{c}, nil
	}
	rgba, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return Colour{}, fmt.Errorf("unknown colour name: %q", s)
	}
	c, _ := colorful.MakeColor(rgba)
	return Colour{c}, nil
}

func mustHex(s string) Colour {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return Colour{c}
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *Colour) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	err := unmarshal(&s)
	if err != nil {
		return err
	}
	*c, err = ParseColour(s)
	return err
}

// MarshalYAML implements the yaml.Marshaler interface.
func (c Colour) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

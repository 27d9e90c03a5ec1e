package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/san-kum/orbitgif/internal/encode"
	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/render"
	"github.com/san-kum/orbitgif/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStep         = 1.0 / 60.0
	DefaultTotalFrames  = 600
	DefaultImageSize    = 800
	DefaultZoom         = 300.0
	DefaultTailLength   = 100
	DefaultTailWidth    = 2.0
	DefaultG            = 1.0
	DefaultAliasScale   = 2
	DefaultBodyRadius   = 5.0
	DefaultFrameDelayMS = 20
	DefaultScenario     = "figure8"
	DefaultOutput       = "out.gif"

	// PaletteSize is the number of GIF palette entries shared between the
	// foreground and the body colours.
	PaletteSize = 256
)

var (
	ErrInvalid         = errors.New("config: invalid")
	ErrUnknownScenario = errors.New("config: unknown scenario")
)

// Scenarios names the built-in initial conditions.
var Scenarios = []string{"figure8", "lagrange", "binary"}

type Config struct {
	Scenario     string       `yaml:"scenario"`
	Step         float64      `yaml:"step"`
	PreSimFrames int          `yaml:"pre_sim_frames"`
	TotalFrames  int          `yaml:"total_frames"`
	ImageWidth   int          `yaml:"image_width"`
	ImageHeight  int          `yaml:"image_height"`
	Zoom         float64      `yaml:"zoom"`
	TailLength   int          `yaml:"tail_length"`
	TailWidth    float64      `yaml:"tail_width"`
	G            float64      `yaml:"g"`
	AliasScale   int          `yaml:"alias_scale"`
	BodyRadius   float64      `yaml:"body_radius"`
	FollowCenter bool         `yaml:"follow_center"`
	FrameDelayMS int          `yaml:"frame_delay_ms"`
	Background   string       `yaml:"background"`
	Foreground   string       `yaml:"foreground"`
	Workers      int          `yaml:"workers"`
	BodyColors   []string     `yaml:"body_colors,omitempty"`
	Bodies       []BodyConfig `yaml:"bodies,omitempty"`
	Output       string       `yaml:"output"`
}

// BodyConfig describes one body explicitly. A zero Radius falls back to
// Config.BodyRadius and an empty Color to Config.BodyColors, then to
// Config.Foreground.
type BodyConfig struct {
	Mass     float64    `yaml:"mass"`
	Radius   float64    `yaml:"radius,omitempty"`
	Position [2]float64 `yaml:"position,flow"`
	Velocity [2]float64 `yaml:"velocity,flow"`
	Color    string     `yaml:"color,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:     DefaultScenario,
		Step:         DefaultStep,
		TotalFrames:  DefaultTotalFrames,
		ImageWidth:   DefaultImageSize,
		ImageHeight:  DefaultImageSize,
		Zoom:         DefaultZoom,
		TailLength:   DefaultTailLength,
		TailWidth:    DefaultTailWidth,
		G:            DefaultG,
		AliasScale:   DefaultAliasScale,
		BodyRadius:   DefaultBodyRadius,
		FrameDelayMS: DefaultFrameDelayMS,
		Background:   "#ffffff",
		Foreground:   "#000000",
		Workers:      1,
		Output:       DefaultOutput,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base; keys missing from the file keep
// base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	out.BodyColors = append([]string(nil), c.BodyColors...)
	return &out
}

func (c *Config) Validate() error {
	for _, f := range []struct {
		key string
		v   float64
	}{
		{"step", c.Step},
		{"zoom", c.Zoom},
		{"g", c.G},
		{"tail_width", c.TailWidth},
		{"body_radius", c.BodyRadius},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalid, f.key, f.v)
		}
	}

	switch {
	case c.Step <= 0:
		return fmt.Errorf("%w: step must be positive, got %g", ErrInvalid, c.Step)
	case c.PreSimFrames < 0:
		return fmt.Errorf("%w: pre_sim_frames must be non-negative, got %d", ErrInvalid, c.PreSimFrames)
	case c.TotalFrames < 0:
		return fmt.Errorf("%w: total_frames must be non-negative, got %d", ErrInvalid, c.TotalFrames)
	case c.ImageWidth <= 0 || c.ImageHeight <= 0:
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalid, c.ImageWidth, c.ImageHeight)
	case c.Zoom <= 0:
		return fmt.Errorf("%w: zoom must be positive, got %g", ErrInvalid, c.Zoom)
	case c.TailLength < 0:
		return fmt.Errorf("%w: tail_length must be non-negative, got %d", ErrInvalid, c.TailLength)
	case c.TailWidth < 0:
		return fmt.Errorf("%w: tail_width must be non-negative, got %g", ErrInvalid, c.TailWidth)
	case c.AliasScale < 1:
		return fmt.Errorf("%w: alias_scale must be at least 1, got %d", ErrInvalid, c.AliasScale)
	case c.BodyRadius <= 0:
		return fmt.Errorf("%w: body_radius must be positive, got %g", ErrInvalid, c.BodyRadius)
	case c.FrameDelayMS < 0:
		return fmt.Errorf("%w: frame_delay_ms must be non-negative, got %d", ErrInvalid, c.FrameDelayMS)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}

	if _, err := render.ParseColor(c.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalid, err)
	}
	if _, err := render.ParseColor(c.Foreground); err != nil {
		return fmt.Errorf("%w: foreground: %v", ErrInvalid, err)
	}

	for i, hex := range c.BodyColors {
		if _, err := render.ParseColor(hex); err != nil {
			return fmt.Errorf("%w: body_colors[%d]: %v", ErrInvalid, i, err)
		}
	}

	if len(c.Bodies) == 0 {
		if !isScenario(c.Scenario) {
			return fmt.Errorf("%w: %q (available: %v)", ErrUnknownScenario, c.Scenario, Scenarios)
		}
		return nil
	}
	for i, b := range c.Bodies {
		if !finite(b.Mass, b.Radius, b.Position[0], b.Position[1], b.Velocity[0], b.Velocity[1]) {
			return fmt.Errorf("%w: body %d has a non-finite value", ErrInvalid, i)
		}
		if b.Mass <= 0 {
			return fmt.Errorf("%w: body %d mass must be positive, got %g", ErrInvalid, i, b.Mass)
		}
		if b.Radius < 0 {
			return fmt.Errorf("%w: body %d radius must be positive, got %g", ErrInvalid, i, b.Radius)
		}
		if b.Color != "" {
			if _, err := render.ParseColor(b.Color); err != nil {
				return fmt.Errorf("%w: body %d color: %v", ErrInvalid, i, err)
			}
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func isScenario(name string) bool {
	for _, s := range Scenarios {
		if s == name {
			return true
		}
	}
	return false
}

// InitialBodies returns the explicit bodies if any are configured, the
// named scenario otherwise.
func (c *Config) InitialBodies() ([]physics.Body, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var bodies []physics.Body
	if len(c.Bodies) == 0 {
		var err error
		bodies, err = scenario(c.Scenario, c.G, c.BodyRadius, c.TailLength)
		if err != nil {
			return nil, err
		}
	} else {
		bodies = make([]physics.Body, len(c.Bodies))
		for i, bc := range c.Bodies {
			radius := bc.Radius
			if radius == 0 {
				radius = c.BodyRadius
			}
			bodies[i] = physics.NewBody(bc.Mass, radius,
				physics.V(bc.Position[0], bc.Position[1]),
				physics.V(bc.Velocity[0], bc.Velocity[1]),
				c.TailLength)
		}
	}

	for i := range bodies {
		if hex := c.bodyColor(i); hex != "" {
			col, _ := render.ParseColor(hex)
			bodies[i] = bodies[i].WithColor(col)
		}
	}
	return bodies, nil
}

// bodyColor is the configured colour of body i, or "" for the foreground.
// BodyColors is cycled when there are more bodies than colours.
func (c *Config) bodyColor(i int) string {
	if i < len(c.Bodies) && c.Bodies[i].Color != "" {
		return c.Bodies[i].Color
	}
	if len(c.BodyColors) > 0 {
		return c.BodyColors[i%len(c.BodyColors)]
	}
	return ""
}

func scenario(name string, g, radius float64, tail int) ([]physics.Body, error) {
	switch name {
	case "figure8":
		return physics.FigureEight(radius, tail), nil
	case "lagrange":
		return physics.Lagrange(g, 1, radius, tail), nil
	case "binary":
		return physics.Binary(g, 1, radius, tail), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
}

func (c *Config) Projector() render.Projector {
	return render.Projector{
		Zoom:         c.Zoom,
		Width:        c.ImageWidth,
		Height:       c.ImageHeight,
		FollowCenter: c.FollowCenter,
	}
}

func (c *Config) RenderOptions() (render.Options, error) {
	bg, err := render.ParseColor(c.Background)
	if err != nil {
		return render.Options{}, fmt.Errorf("%w: background: %v", ErrInvalid, err)
	}
	fg, err := render.ParseColor(c.Foreground)
	if err != nil {
		return render.Options{}, fmt.Errorf("%w: foreground: %v", ErrInvalid, err)
	}
	return render.Options{
		Width:      c.ImageWidth,
		Height:     c.ImageHeight,
		AliasScale: c.AliasScale,
		TailWidth:  c.TailWidth,
		Background: bg,
		Foreground: fg,
	}, nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:           c.Step,
		PreSimFrames: c.PreSimFrames,
		TotalFrames:  c.TotalFrames,
		Workers:      c.Workers,
	}
}

func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.FrameDelayMS) * time.Millisecond
}

// Palette ramps from the background to the foreground and to every
// distinct body colour.
func (c *Config) Palette() (color.Palette, error) {
	opts, err := c.RenderOptions()
	if err != nil {
		return nil, err
	}
	inks := []color.Color{opts.Foreground}
	seen := map[color.RGBA]bool{opts.Foreground.(color.RGBA): true}

	n := max(len(c.Bodies), len(c.BodyColors))
	for i := 0; i < n; i++ {
		hex := c.bodyColor(i)
		if hex == "" {
			continue
		}
		col, err := render.ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: body %d color: %v", ErrInvalid, i, err)
		}
		if !seen[col] {
			seen[col] = true
			inks = append(inks, col)
		}
	}
	return encode.RampPalette(opts.Background, inks, PaletteSize), nil
}

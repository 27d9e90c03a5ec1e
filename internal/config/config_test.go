package config

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/orbitgif/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "figure8" {
		t.Errorf("expected scenario figure8, got %s", cfg.Scenario)
	}
	if cfg.Step != 1.0/60.0 {
		t.Errorf("expected step 1/60, got %g", cfg.Step)
	}
	if cfg.TotalFrames != 600 || cfg.PreSimFrames != 0 {
		t.Errorf("expected 0+600 frames, got %d+%d", cfg.PreSimFrames, cfg.TotalFrames)
	}
	if cfg.ImageWidth != 800 || cfg.ImageHeight != 800 {
		t.Errorf("expected 800x800, got %dx%d", cfg.ImageWidth, cfg.ImageHeight)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"zero step", func(c *Config) { c.Step = 0 }, ErrInvalid},
		{"negative warm-up", func(c *Config) { c.PreSimFrames = -1 }, ErrInvalid},
		{"negative frames", func(c *Config) { c.TotalFrames = -1 }, ErrInvalid},
		{"zero width", func(c *Config) { c.ImageWidth = 0 }, ErrInvalid},
		{"negative height", func(c *Config) { c.ImageHeight = -5 }, ErrInvalid},
		{"zero zoom", func(c *Config) { c.Zoom = 0 }, ErrInvalid},
		{"negative tail", func(c *Config) { c.TailLength = -1 }, ErrInvalid},
		{"negative tail width", func(c *Config) { c.TailWidth = -1 }, ErrInvalid},
		{"zero alias", func(c *Config) { c.AliasScale = 0 }, ErrInvalid},
		{"zero radius", func(c *Config) { c.BodyRadius = 0 }, ErrInvalid},
		{"no workers", func(c *Config) { c.Workers = 0 }, ErrInvalid},
		{"bad background", func(c *Config) { c.Background = "white" }, ErrInvalid},
		{"bad foreground", func(c *Config) { c.Foreground = "#12" }, ErrInvalid},
		{"unknown scenario", func(c *Config) { c.Scenario = "solar" }, ErrUnknownScenario},
		{"massless body", func(c *Config) { c.Bodies = []BodyConfig{{Mass: 0}} }, ErrInvalid},
		{"bad body colour", func(c *Config) { c.Bodies = []BodyConfig{{Mass: 1, Color: "red"}} }, ErrInvalid},
		{"bad body_colors entry", func(c *Config) { c.BodyColors = []string{"#fff", "blue"} }, ErrInvalid},
		{"explicit bodies ignore scenario", func(c *Config) {
			c.Scenario = "solar"
			c.Bodies = []BodyConfig{{Mass: 1}}
		}, nil},
		{"NaN step", func(c *Config) { c.Step = math.NaN() }, ErrInvalid},
		{"infinite step", func(c *Config) { c.Step = math.Inf(1) }, ErrInvalid},
		{"infinite zoom", func(c *Config) { c.Zoom = math.Inf(1) }, ErrInvalid},
		{"NaN g", func(c *Config) { c.G = math.NaN() }, ErrInvalid},
		{"infinite g", func(c *Config) { c.G = math.Inf(-1) }, ErrInvalid},
		{"NaN tail width", func(c *Config) { c.TailWidth = math.NaN() }, ErrInvalid},
		{"infinite radius", func(c *Config) { c.BodyRadius = math.Inf(1) }, ErrInvalid},
		{"NaN body velocity", func(c *Config) {
			c.Bodies = []BodyConfig{{Mass: 1, Velocity: [2]float64{math.NaN(), 0}}}
		}, ErrInvalid},
		{"infinite body mass", func(c *Config) { c.Bodies = []BodyConfig{{Mass: math.Inf(1)}} }, ErrInvalid},
		{"zero frames", func(c *Config) { c.TotalFrames = 0 }, nil},
		{"zero tail", func(c *Config) { c.TailLength = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbit.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "binary"
	cfg.FollowCenter = true
	cfg.Bodies = []BodyConfig{
		{Mass: 2, Position: [2]float64{1, 0}, Velocity: [2]float64{0, 0.5}, Color: "#ff0000"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Scenario != "binary" || !loaded.FollowCenter {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.Bodies) != 1 || loaded.Bodies[0].Velocity != [2]float64{0, 0.5} {
		t.Errorf("round trip lost bodies: %+v", loaded.Bodies)
	}
}

func TestLoadOverKeepsBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("zoom: 120\ntotal_frames: 30\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("figure8", "warmup")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Zoom != 120 || cfg.TotalFrames != 30 {
		t.Errorf("file values not applied: zoom %g frames %d", cfg.Zoom, cfg.TotalFrames)
	}
	if cfg.PreSimFrames != 300 {
		t.Errorf("expected preset warm-up 300 to survive, got %d", cfg.PreSimFrames)
	}
	if base.Zoom != DefaultZoom {
		t.Errorf("base was modified: zoom %g", base.Zoom)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("zoom: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestInitialBodies(t *testing.T) {
	tests := []struct {
		scenario string
		expected int
	}{
		{"figure8", 3},
		{"lagrange", 3},
		{"binary", 2},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Scenario = tt.scenario
		cfg.TailLength = 7
		bodies, err := cfg.InitialBodies()
		if err != nil {
			t.Fatalf("scenario %s: %v", tt.scenario, err)
		}
		if len(bodies) != tt.expected {
			t.Errorf("scenario %s: expected %d bodies, got %d", tt.scenario, tt.expected, len(bodies))
		}
		for i, b := range bodies {
			if b.Radius != DefaultBodyRadius {
				t.Errorf("scenario %s body %d: radius %g", tt.scenario, i, b.Radius)
			}
			if b.Trail().Max() != 7 {
				t.Errorf("scenario %s body %d: trail max %d", tt.scenario, i, b.Trail().Max())
			}
		}
	}
}

func TestInitialBodiesFigureEight(t *testing.T) {
	bodies, err := DefaultConfig().InitialBodies()
	if err != nil {
		t.Fatal(err)
	}
	if bodies[0].Position != physics.V(0.97000436, -0.24308753) {
		t.Errorf("unexpected first position %v", bodies[0].Position)
	}
	if bodies[2].Velocity != physics.V(-0.93240737, -0.86473146) {
		t.Errorf("unexpected third velocity %v", bodies[2].Velocity)
	}
}

func TestInitialBodiesExplicit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = []BodyConfig{
		{Mass: 3, Position: [2]float64{1, 2}, Velocity: [2]float64{-1, 0}, Color: "#00ff00"},
		{Mass: 1, Radius: 9},
	}

	bodies, err := cfg.InitialBodies()
	if err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	if bodies[0].Mass != 3 || bodies[0].Position != physics.V(1, 2) || bodies[0].Velocity != physics.V(-1, 0) {
		t.Errorf("unexpected body %v", bodies[0])
	}
	if bodies[0].Radius != DefaultBodyRadius || bodies[1].Radius != 9 {
		t.Errorf("unexpected radii %g, %g", bodies[0].Radius, bodies[1].Radius)
	}
	if bodies[0].Color != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("unexpected colour %v", bodies[0].Color)
	}
	if bodies[1].Color != nil {
		t.Errorf("expected no colour override, got %v", bodies[1].Color)
	}
}

func TestInitialBodiesBodyColors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BodyColors = []string{"#ff0000", "#0000ff"}

	bodies, err := cfg.InitialBodies()
	if err != nil {
		t.Fatal(err)
	}
	if bodies[0].Color != (color.RGBA{255, 0, 0, 255}) || bodies[1].Color != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("unexpected colours %v, %v", bodies[0].Color, bodies[1].Color)
	}
	if bodies[2].Color != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("expected body_colors to cycle back to red, got %v", bodies[2].Color)
	}

	cfg.Bodies = []BodyConfig{{Mass: 1, Color: "#00ff00"}, {Mass: 1, Position: [2]float64{1, 0}}}
	bodies, err = cfg.InitialBodies()
	if err != nil {
		t.Fatal(err)
	}
	if bodies[0].Color != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("explicit colour should win, got %v", bodies[0].Color)
	}
	if bodies[1].Color != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("expected body_colors fallback, got %v", bodies[1].Color)
	}
}

func TestInitialBodiesBodyColorsCycle(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}

	tests := []struct {
		name   string
		colors []string
		bodies []BodyConfig
		want   []color.Color
	}{
		{
			name:   "single colour on figure8",
			colors: []string{"#ff0000"},
			want:   []color.Color{red, red, red},
		},
		{
			name:   "three colours on five bodies",
			colors: []string{"#ff0000", "#00ff00", "#0000ff"},
			bodies: []BodyConfig{
				{Mass: 1, Position: [2]float64{0, 0}},
				{Mass: 1, Position: [2]float64{1, 0}},
				{Mass: 1, Position: [2]float64{2, 0}},
				{Mass: 1, Position: [2]float64{3, 0}},
				{Mass: 1, Position: [2]float64{4, 0}},
			},
			want: []color.Color{red, green, blue, red, green},
		},
		{
			name:   "explicit colour inside the cycle",
			colors: []string{"#ff0000", "#00ff00"},
			bodies: []BodyConfig{
				{Mass: 1, Position: [2]float64{0, 0}},
				{Mass: 1, Position: [2]float64{1, 0}},
				{Mass: 1, Position: [2]float64{2, 0}, Color: "#0000ff"},
				{Mass: 1, Position: [2]float64{3, 0}},
			},
			want: []color.Color{red, green, blue, green},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.BodyColors = tt.colors
			cfg.Bodies = tt.bodies

			bodies, err := cfg.InitialBodies()
			if err != nil {
				t.Fatal(err)
			}
			if len(bodies) != len(tt.want) {
				t.Fatalf("expected %d bodies, got %d", len(tt.want), len(bodies))
			}
			for i, want := range tt.want {
				if bodies[i].Color != want {
					t.Errorf("body %d: expected %v, got %v", i, want, bodies[i].Color)
				}
			}

			pal, err := cfg.Palette()
			if err != nil {
				t.Fatal(err)
			}
			for i, want := range tt.want {
				if got := pal[pal.Index(want)]; got != want {
					t.Errorf("palette lacks colour of body %d, nearest is %v", i, got)
				}
			}
		})
	}
}

func TestInitialBodiesInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scenario = "nope"
	if _, err := cfg.InitialBodies(); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestDerivedSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FollowCenter = true
	cfg.Workers = 4
	cfg.PreSimFrames = 10

	proj := cfg.Projector()
	if proj.Zoom != 300 || proj.Width != 800 || !proj.FollowCenter {
		t.Errorf("unexpected projector %+v", proj)
	}

	opts, err := cfg.RenderOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.AliasScale != 2 || opts.TailWidth != 2 {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Background != (color.RGBA{255, 255, 255, 255}) || opts.Foreground != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("unexpected colours %v %v", opts.Background, opts.Foreground)
	}

	sc := cfg.SimConfig()
	if sc.Dt != cfg.Step || sc.PreSimFrames != 10 || sc.TotalFrames != 600 || sc.Workers != 4 {
		t.Errorf("unexpected sim config %+v", sc)
	}

	if cfg.FrameDelay() != 20*time.Millisecond {
		t.Errorf("expected 20ms delay, got %v", cfg.FrameDelay())
	}
}

func TestPalette(t *testing.T) {
	cfg := DefaultConfig()
	pal, err := cfg.Palette()
	if err != nil {
		t.Fatal(err)
	}
	if len(pal) != PaletteSize {
		t.Errorf("expected %d entries, got %d", PaletteSize, len(pal))
	}

	cfg.Bodies = []BodyConfig{
		{Mass: 1, Color: "#ff0000"},
		{Mass: 1, Color: "#ff0000"},
		{Mass: 1, Color: "#0000ff"},
	}
	pal, err = cfg.Palette()
	if err != nil {
		t.Fatal(err)
	}
	red := color.RGBA{255, 0, 0, 255}
	if pal[pal.Index(red)] != red {
		t.Errorf("palette lacks red, nearest is %v", pal[pal.Index(red)])
	}
	if len(pal) > PaletteSize {
		t.Errorf("palette too large: %d", len(pal))
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("figure8", "warmup")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.PreSimFrames != 300 {
		t.Errorf("expected warm-up 300, got %d", cfg.PreSimFrames)
	}

	cfg.PreSimFrames = 1
	if again := GetPreset("figure8", "warmup"); again.PreSimFrames != 300 {
		t.Error("preset was modified through a returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("figure8", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "classic")
	if cfg != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("figure8")
	if len(presets) == 0 {
		t.Error("expected presets for figure8")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestPresetsValid(t *testing.T) {
	for scenario, byName := range Presets {
		for name, cfg := range byName {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", scenario, name, err)
			}
			if len(cfg.Bodies) == 0 && cfg.Scenario != scenario {
				t.Errorf("%s/%s: scenario %q", scenario, name, cfg.Scenario)
			}
		}
	}
}

package config

import "sort"

// Presets holds named variants per scenario. Each entry is a complete
// configuration; GetPreset hands out copies.
var Presets = map[string]map[string]*Config{
	"figure8": {
		"classic": preset(func(c *Config) {}),
		"warmup": preset(func(c *Config) {
			c.PreSimFrames = 300
			c.TailLength = 200
		}),
		"follow": preset(func(c *Config) {
			c.FollowCenter = true
			c.Zoom = 200
			c.Bodies = []BodyConfig{
				{Mass: 1, Position: [2]float64{0.97000436, -0.24308753}, Velocity: [2]float64{0.466203685, 0.43236573}, Color: "#d62728"},
				{Mass: 1, Position: [2]float64{-0.97000436, 0.24308753}, Velocity: [2]float64{0.466203685, 0.43236573}, Color: "#1f77b4"},
				{Mass: 1, Velocity: [2]float64{-0.93240737, -0.86473146}, Color: "#2ca02c"},
			}
		}),
		"dark": preset(func(c *Config) {
			c.Background = "#101018"
			c.Foreground = "#f0f0f0"
			c.AliasScale = 4
		}),
	},
	"lagrange": {
		"triangle": preset(func(c *Config) {
			c.Scenario = "lagrange"
			c.Zoom = 250
		}),
		"long": preset(func(c *Config) {
			c.Scenario = "lagrange"
			c.Zoom = 250
			c.TotalFrames = 1200
			c.TailLength = 400
		}),
	},
	"binary": {
		"circular": preset(func(c *Config) {
			c.Scenario = "binary"
			c.Zoom = 250
		}),
		"heavy": preset(func(c *Config) {
			c.Scenario = "binary"
			c.G = 4
			c.Zoom = 250
			c.Step = 1.0 / 120.0
		}),
	},
}

func preset(apply func(c *Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

func GetPreset(scenario, name string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

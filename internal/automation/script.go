package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/orbitgif/internal/config"
	"gopkg.in/yaml.v3"
)

// Script is a list of render jobs run one after another.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Jobs        []Job  `yaml:"jobs"`
}

// Job starts from the defaults, or from Preset of Scenario, and applies
// Set on top. Set uses the configuration file keys.
type Job struct {
	Name     string         `yaml:"name"`
	Scenario string         `yaml:"scenario"`
	Preset   string         `yaml:"preset"`
	Set      map[string]any `yaml:"set"`
	Output   string         `yaml:"output"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if len(script.Jobs) == 0 {
		return nil, fmt.Errorf("script %s has no jobs", path)
	}

	return &script, nil
}

// Config resolves the job into a validated configuration.
func (j Job) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if j.Scenario != "" {
		cfg.Scenario = j.Scenario
	}
	if j.Preset != "" {
		scenario := cfg.Scenario
		cfg = config.GetPreset(scenario, j.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", j.Preset, config.ListPresets(scenario))
		}
	}

	if len(j.Set) > 0 {
		data, err := yaml.Marshal(j.Set)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("set: %w", err)
		}
	}
	if j.Output != "" {
		cfg.Output = j.Output
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunFunc renders one resolved job.
type RunFunc func(ctx context.Context, name string, cfg *config.Config) error

// RunScript resolves every job before running any, so a typo in the last
// job does not waste the earlier renders.
func RunScript(ctx context.Context, script *Script, run RunFunc) error {
	cfgs := make([]*config.Config, len(script.Jobs))
	for i, job := range script.Jobs {
		cfg, err := job.Config()
		if err != nil {
			return fmt.Errorf("job %d (%s): %w", i+1, job.Name, err)
		}
		cfgs[i] = cfg
	}

	for i, job := range script.Jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := job.Name
		if name == "" {
			name = fmt.Sprintf("job-%d", i+1)
		}
		if err := run(ctx, name, cfgs[i]); err != nil {
			return fmt.Errorf("job %d (%s): %w", i+1, name, err)
		}
	}
	return nil
}

// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Animal    AnimalConfig    `yaml:"animal"`
	Plant     PlantConfig     `yaml:"plant"`
	Neural    NeuralConfig    `yaml:"neural"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds viewer window settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds arena and pacing parameters.
// The arena is a rectangle of ArenaWidth x ArenaHeight centered at the origin.
type WorldConfig struct {
	ArenaWidth  float64 `yaml:"arena_width"`
	ArenaHeight float64 `yaml:"arena_height"`
	TickDelayMS float64 `yaml:"tick_delay_ms"` // sleep between ticks
	DT          float64 `yaml:"dt"`            // integration step
	Seed        int64   `yaml:"seed"`          // 0 = time-based
}

// AnimalConfig holds animal lifecycle parameters.
type AnimalConfig struct {
	MinCount       int     `yaml:"min_count"`
	MaxSpeed       float64 `yaml:"max_speed"`
	FeedFactor     float64 `yaml:"feed_factor"`     // fraction of plant score gained when eating
	TimeFine       float64 `yaml:"time_fine"`       // score lost per tick for existing
	MoveFine       float64 `yaml:"move_fine"`       // score lost per tick at max speed
	BreedThreshold float64 `yaml:"breed_threshold"` // split when score exceeds this
	InitScore      float64 `yaml:"init_score"`
	Variation      float64 `yaml:"variation"` // mutation sigma applied to offspring weights
}

// PlantConfig holds plant parameters.
type PlantConfig struct {
	MaxCount  int     `yaml:"max_count"`
	MaxScore  float64 `yaml:"max_score"`
	GrowSpeed float64 `yaml:"grow_speed"` // score gained per tick
}

// NeuralConfig holds controller dimensions.
type NeuralConfig struct {
	HiddenSize int `yaml:"hidden_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
	PerfWindow  int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HalfWidth  float64       // ArenaWidth / 2
	HalfHeight float64       // ArenaHeight / 2
	TickDelay  time.Duration // TickDelayMS as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ComputeDerived()

	return cfg, nil
}

// ComputeDerived recalculates values derived from the loaded config.
// Call it again after changing fields programmatically.
func (c *Config) ComputeDerived() {
	c.Derived.HalfWidth = c.World.ArenaWidth / 2
	c.Derived.HalfHeight = c.World.ArenaHeight / 2
	c.Derived.TickDelay = time.Duration(c.World.TickDelayMS * float64(time.Millisecond))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Package config provides configuration loading and access for the solver.
package config

import (
	_ "embed"
	"fmt"
	"math/bits"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/stablefluids/parallel"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all solver and application configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Solver    SolverConfig    `yaml:"solver"`
	Tiling    parallel.Tiling `yaml:"tiling"`
	Particles ParticlesConfig `yaml:"particles"`
	Initial   InitialConfig   `yaml:"initial"`
	Scenario  ScenarioConfig  `yaml:"scenario"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`
	Render    RenderConfig    `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SolverConfig holds the domain parameters. They are fixed for a run.
type SolverConfig struct {
	Dim         int     `yaml:"dim"`
	PitchAlign  int     `yaml:"pitch_align"`
	DT          float64 `yaml:"dt"`
	Viscosity   float64 `yaml:"viscosity"`
	ForceScale  float64 `yaml:"force_scale"`  // Multiplied by Dim
	ForceRadius int     `yaml:"force_radius"` // Cells
	MaxForce    float64 `yaml:"max_force"`    // Multiple of the absolute force scale
	Boundary    string  `yaml:"boundary"`     // clamp | wrap
	Workers     int     `yaml:"workers"`      // 0 = GOMAXPROCS
}

// ParticlesConfig holds tracer particle seeding parameters.
type ParticlesConfig struct {
	PerSide int     `yaml:"per_side"`
	Jitter  float64 `yaml:"jitter"`
	Seed    int64   `yaml:"seed"`
}

// InitialConfig holds the initial velocity field parameters.
type InitialConfig struct {
	NoiseAmplitude float64 `yaml:"noise_amplitude"`
	NoiseScale     float64 `yaml:"noise_scale"`
	Seed           int64   `yaml:"seed"`
}

// ScenarioConfig holds scripted force injections for headless runs.
type ScenarioConfig struct {
	Impulses []ImpulseConfig `yaml:"impulses"`
}

// ImpulseConfig is one scripted drag. X, Y and DX, DY are normalized
// domain coordinates, the same units a mouse drag produces.
type ImpulseConfig struct {
	Tick int     `yaml:"tick"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	DX   float64 `yaml:"dx"`
	DY   float64 `yaml:"dy"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow    int `yaml:"perf_window"`
	LogEvery      int `yaml:"log_every"`
	SnapshotEvery int `yaml:"snapshot_every"`
}

// StreamConfig holds websocket stream parameters.
type StreamConfig struct {
	Addr         string `yaml:"addr"`
	Interval     int    `yaml:"interval"`
	MaxParticles int    `yaml:"max_particles"`
	Queue        int    `yaml:"queue"`
}

// RenderConfig holds display toggles.
type RenderConfig struct {
	ShowField     bool    `yaml:"show_field"`
	ShowParticles bool    `yaml:"show_particles"`
	FieldGain     float64 `yaml:"field_gain"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32       float32 // Solver.DT as float32
	ForceScale float32 // Solver.ForceScale * Solver.Dim
	MaxForce   float32 // Solver.MaxForce * ForceScale
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the fixed-at-initialization invariants. A bad domain is
// rejected here so the solver never discovers it mid-run.
func (c *Config) Validate() error {
	s := c.Solver
	if s.Dim < 2 || bits.OnesCount(uint(s.Dim)) != 1 {
		return fmt.Errorf("solver.dim must be a power of two >= 2, got %d", s.Dim)
	}
	if s.PitchAlign < 0 {
		return fmt.Errorf("solver.pitch_align must be >= 0, got %d", s.PitchAlign)
	}
	if s.DT <= 0 {
		return fmt.Errorf("solver.dt must be positive, got %g", s.DT)
	}
	if s.Viscosity < 0 {
		return fmt.Errorf("solver.viscosity must be >= 0, got %g", s.Viscosity)
	}
	if s.ForceRadius < 0 {
		return fmt.Errorf("solver.force_radius must be >= 0, got %d", s.ForceRadius)
	}
	if s.MaxForce <= 0 {
		return fmt.Errorf("solver.max_force must be positive, got %g", s.MaxForce)
	}
	switch s.Boundary {
	case "clamp", "wrap":
	default:
		return fmt.Errorf("solver.boundary must be clamp or wrap, got %q", s.Boundary)
	}
	if err := c.Tiling.Validate(); err != nil {
		return fmt.Errorf("tiling: %w", err)
	}
	if c.Particles.PerSide < 0 {
		return fmt.Errorf("particles.per_side must be >= 0, got %d", c.Particles.PerSide)
	}
	if c.Stream.Interval < 1 {
		c.Stream.Interval = 1
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Solver.DT)
	c.Derived.ForceScale = float32(c.Solver.ForceScale * float64(c.Solver.Dim))
	c.Derived.MaxForce = float32(c.Solver.MaxForce) * c.Derived.ForceScale
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

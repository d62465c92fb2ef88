// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Grass     GrassConfig     `yaml:"grass"`
	Creature  CreatureConfig  `yaml:"creature"`
	Vision    VisionConfig    `yaml:"vision"`
	Bite      BiteConfig      `yaml:"bite"`
	Neural    NeuralConfig    `yaml:"neural"`
	Mutation  MutationConfig  `yaml:"mutation"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world dimensions and population floors.
// Width and Height are grass grid cell counts; one cell is one world unit.
type WorldConfig struct {
	Width             int `yaml:"width"`
	Height            int `yaml:"height"`
	InitialPopulation int `yaml:"initial_population"`
	MinPopulation     int `yaml:"min_population"`
	MinFamilies       int `yaml:"min_families"`
}

// GrassConfig holds grass field parameters.
type GrassConfig struct {
	Max         uint32  `yaml:"max"`
	Recharge    uint32  `yaml:"recharge"`
	EatFraction float64 `yaml:"eat_fraction"`
}

// CreatureConfig holds creature energy, movement and reproduction parameters.
type CreatureConfig struct {
	StartEnergy        int     `yaml:"start_energy"`
	TickCost           int     `yaml:"tick_cost"`
	WalkCost           int     `yaml:"walk_cost"`
	MaxAge             int     `yaml:"max_age"`
	WalkStep           float64 `yaml:"walk_step"`
	TurnStep           float64 `yaml:"turn_step"`
	SpawnOffset        float64 `yaml:"spawn_offset"`        // in walk steps
	ReplicateThreshold int     `yaml:"replicate_threshold"` // multiple of start energy
	ReplicateCost      int     `yaml:"replicate_cost"`      // multiple of start energy
	VegEffMin          float64 `yaml:"veg_eff_min"`
	VegEffMax          float64 `yaml:"veg_eff_max"`
}

// VisionConfig holds observation parameters.
type VisionConfig struct {
	Sites       int     `yaml:"sites"`
	HalfAngle   float64 `yaml:"half_angle"`
	MaxDist     float64 `yaml:"max_dist"`
	GrassRadius int     `yaml:"grass_radius"`
}

// BiteConfig holds bite parameters.
type BiteConfig struct {
	Range  float64 `yaml:"range"`
	Damage float64 `yaml:"damage"`
}

// NeuralConfig holds neural network parameters.
type NeuralConfig struct {
	HiddenLayers []int `yaml:"hidden_layers"` // Sizes of hidden layers, e.g. [16, 8]
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	BrainStd  float64 `yaml:"brain_std"`
	VegEffStd float64 `yaml:"veg_eff_std"`
}

// ParallelConfig controls data-parallel tick phases.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"`
	Workers   int `yaml:"workers"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"`
	PerfWindow  int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW          float64 // World.Width as float64
	WorldH          float64 // World.Height as float64
	GridStep        float64 // Spatial grid step; equals vision distance
	Cells           int     // Number of grass cells
	ReplicateEnergy int     // Energy above which a creature may replicate
	ReplicateCharge int     // Energy deducted from a replicating parent
	MaxGrassTotal   uint64  // Cells * grass max
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

func invalid(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, field, fmt.Sprintf(format, args...))
}

// Validate checks the configuration and recomputes derived values.
// Callers that edit a Config by hand must call it before use.
func (c *Config) Validate() error {
	switch {
	case c.World.Width <= 0:
		return invalid("world.width", "must be positive, got %d", c.World.Width)
	case c.World.Height <= 0:
		return invalid("world.height", "must be positive, got %d", c.World.Height)
	case c.World.InitialPopulation < 0:
		return invalid("world.initial_population", "must not be negative")
	case c.World.MinPopulation < 0:
		return invalid("world.min_population", "must not be negative")
	case c.World.MinFamilies < 0:
		return invalid("world.min_families", "must not be negative")
	case c.Grass.Max == 0:
		return invalid("grass.max", "must be positive")
	case c.Grass.EatFraction <= 0 || c.Grass.EatFraction > 1:
		return invalid("grass.eat_fraction", "must be in (0, 1], got %g", c.Grass.EatFraction)
	case c.Creature.StartEnergy <= 0:
		return invalid("creature.start_energy", "must be positive")
	case c.Creature.TickCost < 0 || c.Creature.WalkCost < 0:
		return invalid("creature.tick_cost", "costs must not be negative")
	case c.Creature.MaxAge <= 0:
		return invalid("creature.max_age", "must be positive")
	case c.Creature.WalkStep <= 0:
		return invalid("creature.walk_step", "must be positive")
	case c.Creature.ReplicateCost <= 0 || c.Creature.ReplicateThreshold < c.Creature.ReplicateCost:
		return invalid("creature.replicate_cost", "must be positive and not above replicate_threshold")
	case c.Creature.VegEffMin <= 0 || c.Creature.VegEffMax >= 1 || c.Creature.VegEffMin > c.Creature.VegEffMax:
		return invalid("creature.veg_eff_min", "need 0 < veg_eff_min <= veg_eff_max < 1")
	case c.Vision.Sites <= 0:
		return invalid("vision.sites", "must be positive")
	case c.Vision.HalfAngle <= 0 || c.Vision.HalfAngle > math.Pi:
		return invalid("vision.half_angle", "must be in (0, pi]")
	case c.Vision.MaxDist <= 0:
		return invalid("vision.max_dist", "must be positive")
	case c.Vision.GrassRadius < 0:
		return invalid("vision.grass_radius", "must not be negative")
	case c.Bite.Range <= 0 || c.Bite.Range > c.Vision.MaxDist:
		return invalid("bite.range", "must be in (0, vision.max_dist]")
	case c.Bite.Range+2*c.Creature.WalkStep > c.Vision.MaxDist:
		// Bite candidates come from the index built before movement, when
		// actor and target may each still be one step away.
		return invalid("bite.range", "bite.range + 2*creature.walk_step must not exceed vision.max_dist")
	case c.Bite.Damage < 0:
		return invalid("bite.damage", "must not be negative")
	case c.Mutation.BrainStd < 0 || c.Mutation.VegEffStd < 0:
		return invalid("mutation", "standard deviations must not be negative")
	case c.Telemetry.StatsWindow <= 0:
		return invalid("telemetry.stats_window", "must be positive")
	}
	for i, h := range c.Neural.HiddenLayers {
		if h <= 0 {
			return invalid("neural.hidden_layers", "layer %d has size %d", i, h)
		}
	}

	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldW = float64(c.World.Width)
	c.Derived.WorldH = float64(c.World.Height)
	c.Derived.GridStep = c.Vision.MaxDist
	c.Derived.Cells = c.World.Width * c.World.Height
	c.Derived.ReplicateEnergy = c.Creature.StartEnergy * c.Creature.ReplicateThreshold
	c.Derived.ReplicateCharge = c.Creature.StartEnergy * c.Creature.ReplicateCost
	c.Derived.MaxGrassTotal = uint64(c.Derived.Cells) * uint64(c.Grass.Max)
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Neural.HiddenLayers = append([]int(nil), c.Neural.HiddenLayers...)
	return &cp
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

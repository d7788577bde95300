// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Terrain      TerrainConfig      `yaml:"terrain"`
	Time         TimeConfig         `yaml:"time"`
	Sun          SunConfig          `yaml:"sun"`
	Population   PopulationConfig   `yaml:"population"`
	Plants       PlantConfig        `yaml:"plants"`
	Animals      AnimalConfig       `yaml:"animals"`
	Carcass      CarcassConfig      `yaml:"carcass"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the tile grid dimensions.
type WorldConfig struct {
	Rows     int     `yaml:"rows"`
	Cols     int     `yaml:"cols"`
	TileSize float64 `yaml:"tile_size"`
}

// TerrainConfig holds biome classification parameters.
// Elevation comes from simplex noise, moisture from perlin noise.
type TerrainConfig struct {
	ElevationScale float64 `yaml:"elevation_scale"` // noise frequency per tile
	MoistureScale  float64 `yaml:"moisture_scale"`
	WaterLevel     float64 `yaml:"water_level"`     // elevation below this = water
	RockLevel      float64 `yaml:"rock_level"`      // elevation above this = rock
	SandMoisture   float64 `yaml:"sand_moisture"`   // moisture below this = sand
	ForestMoisture float64 `yaml:"forest_moisture"` // moisture above this = forest
	Humidity       float64 `yaml:"humidity"`        // plant energy multiplier
}

// TimeConfig holds time unit ratios.
type TimeConfig struct {
	TimeUnitsPerDay  int `yaml:"time_units_per_day"`
	DecisionInterval int `yaml:"decision_interval"` // forced re-decision period (0 = never)
}

// SunConfig holds environmental light parameters.
type SunConfig struct {
	Output     float64 `yaml:"output"`      // energy per unit leaf area per time unit at day
	NightRatio float64 `yaml:"night_ratio"` // fraction of output available at night
}

// PopulationConfig holds initial world population parameters.
type PopulationConfig struct {
	InitialPlants  int     `yaml:"initial_plants"`
	InitialAnimals int     `yaml:"initial_animals"`
	HerbivoreShare float64 `yaml:"herbivore_share"`
	CarnivoreShare float64 `yaml:"carnivore_share"` // remainder is omnivores
	SpawnAttempts  int     `yaml:"spawn_attempts"`  // tries to find a permitted tile
}

// FloatGeneConfig configures a FloatGene.
type FloatGeneConfig struct {
	InitialFraction float64 `yaml:"initial_fraction"`
	Multiplier      float64 `yaml:"multiplier"`
	Offset          float64 `yaml:"offset"`
}

// IntGeneConfig configures an IntGene.
type IntGeneConfig struct {
	InitialFraction float64 `yaml:"initial_fraction"`
	Min             int     `yaml:"min"`
	Max             int     `yaml:"max"`
}

// DistributionConfig describes a clamped normal distribution.
type DistributionConfig struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
	Min    float64 `yaml:"min"`
}

// SpeciesConfig holds parameters shared by plants and animals.
type SpeciesConfig struct {
	MaxHP                FloatGeneConfig `yaml:"max_hp"`
	AgePenalty           FloatGeneConfig `yaml:"age_penalty"`
	Consumption          FloatGeneConfig `yaml:"consumption"`
	MaxActiveEnergy      FloatGeneConfig `yaml:"max_active_energy"`
	EnergyPerMassUnit    FloatGeneConfig `yaml:"energy_per_mass_unit"`
	MaturityAge          IntGeneConfig   `yaml:"maturity_age"`
	ReproductionCooldown IntGeneConfig   `yaml:"reproduction_cooldown"`

	StartingAge          DistributionConfig `yaml:"starting_age"`
	StartingMass         DistributionConfig `yaml:"starting_mass"`
	StartingActiveEnergy float64            `yaml:"starting_active_energy"` // fraction of cap
	ReproductionCost     float64            `yaml:"reproduction_cost"`      // energy each parent pays
	SpawnRadius          float64            `yaml:"spawn_radius"`           // offspring ring outer radius
}

// PlantConfig holds plant species parameters.
type PlantConfig struct {
	SpeciesConfig `yaml:",inline"`
	Photosynthesis FloatGeneConfig `yaml:"photosynthesis"`
	Pollination    FloatGeneConfig `yaml:"pollination"`
	MaxPerTile     int             `yaml:"max_per_tile"` // live plants a tile accepts from spawning (0 = unlimited)
}

// AnimalConfig holds animal species parameters.
type AnimalConfig struct {
	SpeciesConfig    `yaml:",inline"`
	Speed            FloatGeneConfig `yaml:"speed"`
	SightRange       FloatGeneConfig `yaml:"sight_range"`
	AttackDamage     FloatGeneConfig `yaml:"attack_damage"`
	ActionRange      FloatGeneConfig `yaml:"action_range"`
	IdleTimeUnits    int             `yaml:"idle_time_units"`   // DoingNothing duration when no reachable point is found
	FallbackAttempts int             `yaml:"fallback_attempts"` // random destination samples
}

// CarcassConfig holds carcass decay parameters.
type CarcassConfig struct {
	DecayFraction float64 `yaml:"decay_fraction"` // fraction of starting mass lost per time unit
}

// ReproductionConfig holds inheritance parameters.
type ReproductionConfig struct {
	MutationChance float64 `yaml:"mutation_chance"` // per-allele mutation probability at birth
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // time units per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldWidth  float64 // Cols * TileSize
	WorldHeight float64 // Rows * TileSize
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
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation core treats as contract violations.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Rows <= 0 || c.World.Cols <= 0 {
		errs = append(errs, fmt.Errorf("world: rows and cols must be positive, got %dx%d", c.World.Rows, c.World.Cols))
	}
	if c.World.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("world: tile_size must be positive, got %v", c.World.TileSize))
	}
	if c.Time.TimeUnitsPerDay <= 0 {
		errs = append(errs, fmt.Errorf("time: time_units_per_day must be positive, got %d", c.Time.TimeUnitsPerDay))
	}
	if c.Carcass.DecayFraction <= 0 || c.Carcass.DecayFraction > 1 {
		errs = append(errs, fmt.Errorf("carcass: decay_fraction must be in (0,1], got %v", c.Carcass.DecayFraction))
	}

	errs = append(errs, c.Plants.validate("plants")...)
	errs = append(errs, validateFloatGene("plants.photosynthesis", c.Plants.Photosynthesis))
	errs = append(errs, validateFloatGene("plants.pollination", c.Plants.Pollination))
	if c.Plants.MaxPerTile < 0 {
		errs = append(errs, fmt.Errorf("plants: max_per_tile must be >= 0, got %d", c.Plants.MaxPerTile))
	}

	errs = append(errs, c.Animals.validate("animals")...)
	errs = append(errs, validateFloatGene("animals.speed", c.Animals.Speed))
	errs = append(errs, validateFloatGene("animals.sight_range", c.Animals.SightRange))
	errs = append(errs, validateFloatGene("animals.attack_damage", c.Animals.AttackDamage))
	errs = append(errs, validateFloatGene("animals.action_range", c.Animals.ActionRange))

	return errors.Join(errs...)
}

func (s *SpeciesConfig) validate(name string) []error {
	errs := []error{
		validateFloatGene(name+".max_hp", s.MaxHP),
		validateFloatGene(name+".age_penalty", s.AgePenalty),
		validateFloatGene(name+".consumption", s.Consumption),
		validateFloatGene(name+".max_active_energy", s.MaxActiveEnergy),
		validateFloatGene(name+".energy_per_mass_unit", s.EnergyPerMassUnit),
		validateIntGene(name+".maturity_age", s.MaturityAge),
		validateIntGene(name+".reproduction_cooldown", s.ReproductionCooldown),
	}
	if s.ReproductionCooldown.Min < 1 {
		errs = append(errs, fmt.Errorf("%s.reproduction_cooldown: min must be >= 1, got %d", name, s.ReproductionCooldown.Min))
	}
	if s.StartingMass.Min <= 0 {
		errs = append(errs, fmt.Errorf("%s.starting_mass: min must be positive, got %v", name, s.StartingMass.Min))
	}
	return errs
}

func validateFloatGene(name string, g FloatGeneConfig) error {
	if g.Multiplier <= 0 {
		return fmt.Errorf("%s: multiplier must be > 0, got %v", name, g.Multiplier)
	}
	if g.Offset < 0 {
		return fmt.Errorf("%s: offset must be >= 0, got %v", name, g.Offset)
	}
	return nil
}

func validateIntGene(name string, g IntGeneConfig) error {
	if g.Max < g.Min {
		return fmt.Errorf("%s: max (%d) < min (%d)", name, g.Max, g.Min)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldWidth = float64(c.World.Cols) * c.World.TileSize
	c.Derived.WorldHeight = float64(c.World.Rows) * c.World.TileSize
}

// Clone returns a deep copy, recomputing derived values.
func (c *Config) Clone() *Config {
	out := *c
	out.computeDerived()
	return &out
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

// Package main provides CMA-ES optimization for terrarium simulation parameters.
package main

import (
	"github.com/pthm-cable/terrarium/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Environment
			{Name: "sun_output", Path: "sun.output", Min: 0.2, Max: 4, Default: 1,
				get: func(c *config.Config) float64 { return c.Sun.Output },
				set: func(c *config.Config, v float64) { c.Sun.Output = v }},
			{Name: "night_ratio", Path: "sun.night_ratio", Min: 0, Max: 0.8, Default: 0.2,
				get: func(c *config.Config) float64 { return c.Sun.NightRatio },
				set: func(c *config.Config, v float64) { c.Sun.NightRatio = v }},
			{Name: "humidity", Path: "terrain.humidity", Min: 0.3, Max: 2, Default: 1,
				get: func(c *config.Config) float64 { return c.Terrain.Humidity },
				set: func(c *config.Config, v float64) { c.Terrain.Humidity = v }},
			// Plants
			{Name: "plant_repro_cost", Path: "plants.reproduction_cost", Min: 10, Max: 60, Default: 22,
				get: func(c *config.Config) float64 { return c.Plants.ReproductionCost },
				set: func(c *config.Config, v float64) { c.Plants.ReproductionCost = v }},
			{Name: "photosynthesis", Path: "plants.photosynthesis.multiplier", Min: 0.5, Max: 6, Default: 2,
				get: func(c *config.Config) float64 { return c.Plants.Photosynthesis.Multiplier },
				set: func(c *config.Config, v float64) { c.Plants.Photosynthesis.Multiplier = v }},
			// Animals
			{Name: "animal_repro_cost", Path: "animals.reproduction_cost", Min: 15, Max: 80, Default: 36,
				get: func(c *config.Config) float64 { return c.Animals.ReproductionCost },
				set: func(c *config.Config, v float64) { c.Animals.ReproductionCost = v }},
			{Name: "animal_consumption", Path: "animals.consumption.multiplier", Min: 0.05, Max: 1.5, Default: 0.4,
				get: func(c *config.Config) float64 { return c.Animals.Consumption.Multiplier },
				set: func(c *config.Config, v float64) { c.Animals.Consumption.Multiplier = v }},
			{Name: "attack_damage", Path: "animals.attack_damage.multiplier", Min: 5, Max: 80, Default: 30,
				get: func(c *config.Config) float64 { return c.Animals.AttackDamage.Multiplier },
				set: func(c *config.Config, v float64) { c.Animals.AttackDamage.Multiplier = v }},
			// Carcasses
			{Name: "decay_fraction", Path: "carcass.decay_fraction", Min: 0.01, Max: 0.3, Default: 0.05,
				get: func(c *config.Config) float64 { return c.Carcass.DecayFraction },
				set: func(c *config.Config, v float64) { c.Carcass.DecayFraction = v }},
			// Population
			{Name: "herbivore_share", Path: "population.herbivore_share", Min: 0.2, Max: 0.9, Default: 0.6,
				get: func(c *config.Config) float64 { return c.Population.HerbivoreShare },
				set: func(c *config.Config, v float64) { c.Population.HerbivoreShare = v }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies clamped parameter values to cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	// Shares must leave room for omnivores
	if cfg.Population.HerbivoreShare+cfg.Population.CarnivoreShare > 1 {
		cfg.Population.CarnivoreShare = 1 - cfg.Population.HerbivoreShare
	}
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}

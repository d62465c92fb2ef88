package main

import (
	"math"

	"github.com/pthm-cable/grazers/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before it is applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Grass
			{Name: "grass_recharge", Path: "grass.recharge", Min: 1, Max: 8, Default: 1, Integer: true},
			{Name: "eat_fraction", Path: "grass.eat_fraction", Min: 0.05, Max: 1.0, Default: 0.5},
			// Predation
			{Name: "bite_damage", Path: "bite.damage", Min: 5, Max: 150, Default: 40},
			// Metabolism
			{Name: "tick_cost", Path: "creature.tick_cost", Min: 0, Max: 5, Default: 1, Integer: true},
			// Mutation
			{Name: "brain_std", Path: "mutation.brain_std", Min: 0.01, Max: 0.5, Default: 0.1},
			{Name: "veg_eff_std", Path: "mutation.veg_eff_std", Min: 0.01, Max: 1.0, Default: 0.2},
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

// Clamp ensures all values are within bounds, rounding integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct and revalidates it.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)

	cfg.Grass.Recharge = uint32(clamped[0])
	cfg.Grass.EatFraction = clamped[1]
	cfg.Bite.Damage = clamped[2]
	cfg.Creature.TickCost = int(clamped[3])
	cfg.Mutation.BrainStd = clamped[4]
	cfg.Mutation.VegEffStd = clamped[5]

	return cfg.Validate()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Grass.Recharge),
		cfg.Grass.EatFraction,
		cfg.Bite.Damage,
		float64(cfg.Creature.TickCost),
		cfg.Mutation.BrainStd,
		cfg.Mutation.VegEffStd,
	}
}

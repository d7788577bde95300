package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
)

// SurvivalCost returns the energy an organism burns per time unit:
// mass * consumption * age penalty.
func SurvivalCost(energy *components.EnergyData, age *components.Age, met *components.Metabolism) float64 {
	return energy.Mass * met.Consumption() * age.Penalty()
}

// ConsumeEnergyToSurvive pays the survival cost from active energy.
// The unmet remainder is taken from health 1:1 as starvation damage.
// Returns the damage dealt.
func ConsumeEnergyToSurvive(
	energy *components.EnergyData,
	health *components.Health,
	age *components.Age,
	met *components.Metabolism,
) float64 {
	remainder := energy.ConsumeFromActiveEnergy(SurvivalCost(energy, age, met))
	health.TakeDamage(remainder, components.CauseStarvation)
	return remainder
}

// AdvanceLifecycle ages an organism by one time unit.
func AdvanceLifecycle(age *components.Age, maturity *components.SexualMaturity) {
	age.Increment()
	maturity.Tick()
}

// LifecycleSystem ages every living organism.
type LifecycleSystem struct {
	filter ecs.Filter2[components.Age, components.SexualMaturity]
}

// NewLifecycleSystem creates a new lifecycle system.
func NewLifecycleSystem(w *ecs.World) *LifecycleSystem {
	return &LifecycleSystem{
		filter: *ecs.NewFilter2[components.Age, components.SexualMaturity](w),
	}
}

// Update advances age and maturity for all organisms.
func (s *LifecycleSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		age, maturity := query.Get()
		AdvanceLifecycle(age, maturity)
	}
}

// SurvivalSystem charges every living organism its metabolic cost.
type SurvivalSystem struct {
	filter ecs.Filter4[components.EnergyData, components.Health, components.Age, components.Metabolism]
}

// NewSurvivalSystem creates a new survival system.
func NewSurvivalSystem(w *ecs.World) *SurvivalSystem {
	return &SurvivalSystem{
		filter: *ecs.NewFilter4[components.EnergyData, components.Health, components.Age, components.Metabolism](w),
	}
}

// Update applies survival costs. Returns the total starvation damage dealt.
func (s *SurvivalSystem) Update() float64 {
	var damage float64
	query := s.filter.Query()
	for query.Next() {
		energy, health, age, met := query.Get()
		if health.IsDead() {
			continue
		}
		damage += ConsumeEnergyToSurvive(energy, health, age, met)
	}
	return damage
}

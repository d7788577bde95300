package components

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/terrarium/genetics"
)

// ErrInsufficientEnergy is returned when an organism cannot pay an energy cost.
var ErrInsufficientEnergy = errors.New("insufficient energy")

// SatiationThreshold is the active-energy fill ratio above which an organism is satiated.
const SatiationThreshold = 0.75

// HungerLevel classifies an organism's active energy.
type HungerLevel uint8

const (
	Satiated HungerLevel = iota
	Hungry
)

// EnergyData tracks the two energy pools of an organism.
// Active energy is short-term and capped; mass is long-term and unbounded.
// Total stored energy = ActiveEnergy + Mass*EnergyPerMassUnit.
type EnergyData struct {
	ActiveEnergy float64 `inspect:"bar"`
	Mass         float64 `inspect:"label,fmt:%.3f"`

	MaxActiveEnergyGene   genetics.FloatGene `inspect:"skip"`
	EnergyPerMassUnitGene genetics.FloatGene `inspect:"skip"`
}

// MaxActiveEnergy returns the active energy cap.
func (e *EnergyData) MaxActiveEnergy() float64 {
	return e.MaxActiveEnergyGene.Phenotype()
}

// EnergyPerMassUnit returns the mass to energy conversion factor.
func (e *EnergyData) EnergyPerMassUnit() float64 {
	return e.EnergyPerMassUnitGene.Phenotype()
}

// TotalEnergy returns active energy plus the energy equivalent of mass.
func (e *EnergyData) TotalEnergy() float64 {
	return e.ActiveEnergy + e.Mass*e.EnergyPerMassUnit()
}

// Size returns the cube root of mass (unit density).
func (e *EnergyData) Size() float64 {
	return math.Cbrt(e.Mass)
}

// StoreEnergy fills active energy up to its cap and converts the excess to mass.
func (e *EnergyData) StoreEnergy(amount float64) {
	if amount <= 0 {
		return
	}
	space := e.MaxActiveEnergy() - e.ActiveEnergy
	if space < 0 {
		space = 0
	}
	if amount <= space {
		e.ActiveEnergy += amount
		return
	}
	e.ActiveEnergy += space
	e.Mass += (amount - space) / e.EnergyPerMassUnit()
}

// ConsumeFromActiveEnergy drains up to amount and returns the unmet remainder.
func (e *EnergyData) ConsumeFromActiveEnergy(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	if e.ActiveEnergy >= amount {
		e.ActiveEnergy -= amount
		return 0
	}
	remainder := amount - e.ActiveEnergy
	e.ActiveEnergy = 0
	return remainder
}

// TryToConsumeEnergy drains active energy first and covers the rest from mass.
// If mass cannot cover the remainder while staying positive, nothing is
// changed and an error wrapping ErrInsufficientEnergy is returned.
func (e *EnergyData) TryToConsumeEnergy(amount float64) error {
	if amount <= 0 {
		return nil
	}
	if e.ActiveEnergy >= amount {
		e.ActiveEnergy -= amount
		return nil
	}
	massNeeded := (amount - e.ActiveEnergy) / e.EnergyPerMassUnit()
	if massNeeded >= e.Mass {
		return fmt.Errorf("consuming %.3f energy needs %.3f mass, have %.3f: %w",
			amount, massNeeded, e.Mass, ErrInsufficientEnergy)
	}
	e.ActiveEnergy = 0
	e.Mass -= massNeeded
	return nil
}

// HungerLevel returns Satiated above SatiationThreshold of the cap, Hungry otherwise.
func (e *EnergyData) HungerLevel() HungerLevel {
	limit := e.MaxActiveEnergy()
	if limit > 0 && e.ActiveEnergy/limit > SatiationThreshold {
		return Satiated
	}
	return Hungry
}

// DamageCause records what last lowered an organism's health.
type DamageCause uint8

const (
	CauseNone DamageCause = iota
	CauseStarvation
	CauseKilled
	CauseReproduction
)

// Health tracks hit points. HP <= 0 means the organism dies this tick.
type Health struct {
	HP         float64            `inspect:"bar"`
	MaxHPGene  genetics.FloatGene `inspect:"skip"`
	LastDamage DamageCause        `inspect:"label"`
}

// NewHealth starts at half of the max-hp phenotype.
func NewHealth(maxHP genetics.FloatGene) Health {
	return Health{HP: maxHP.Phenotype() / 2, MaxHPGene: maxHP}
}

// MaxHP returns the max-hp phenotype.
func (h *Health) MaxHP() float64 {
	return h.MaxHPGene.Phenotype()
}

// TakeDamage lowers HP and records the cause. Non-positive damage is ignored.
func (h *Health) TakeDamage(amount float64, cause DamageCause) {
	if amount <= 0 {
		return
	}
	h.HP -= amount
	h.LastDamage = cause
}

// Kill drops HP to zero.
func (h *Health) Kill(cause DamageCause) {
	h.HP = 0
	h.LastDamage = cause
}

// IsDead reports whether HP has reached zero.
func (h *Health) IsDead() bool {
	return h.HP <= 0
}

// Age counts elapsed time units.
type Age struct {
	Value       int                `inspect:"label"`
	PenaltyGene genetics.FloatGene `inspect:"skip"`
}

// Increment advances age by one time unit.
func (a *Age) Increment() {
	a.Value++
}

// Penalty returns the energy cost multiplier penalty * sqrt(age+1).
func (a *Age) Penalty() float64 {
	return a.PenaltyGene.Phenotype() * math.Sqrt(float64(a.Value+1))
}

// MaturityLevel is the reproduction eligibility state.
type MaturityLevel uint8

const (
	Young MaturityLevel = iota
	Adult
)

// SexualMaturity gates reproduction. While Young, Counter counts time units
// up to the maturity age; while Adult, it counts the cooldown down to zero.
type SexualMaturity struct {
	Level   MaturityLevel `inspect:"label"`
	Counter int           `inspect:"label"`

	MaturityAgeGene          genetics.IntGene `inspect:"skip"`
	ReproductionCooldownGene genetics.IntGene `inspect:"skip"`
}

// NewSexualMaturity starts Young at startingAge, or Adult and ready if the
// starting age already reaches the maturity age.
func NewSexualMaturity(startingAge int, maturityAge, cooldown genetics.IntGene) SexualMaturity {
	sm := SexualMaturity{
		Level:                    Young,
		Counter:                  startingAge,
		MaturityAgeGene:          maturityAge,
		ReproductionCooldownGene: cooldown,
	}
	if startingAge >= maturityAge.Phenotype() {
		sm.Level = Adult
		sm.Counter = 0
	}
	return sm
}

// Tick advances the state machine by one time unit.
func (s *SexualMaturity) Tick() {
	switch s.Level {
	case Young:
		s.Counter++
		if s.Counter >= s.MaturityAgeGene.Phenotype() {
			s.Level = Adult
			s.Counter = 0
		}
	case Adult:
		if s.Counter > 0 {
			s.Counter--
		}
	}
}

// IsReadyToReproduce reports Adult with an expired cooldown.
func (s *SexualMaturity) IsReadyToReproduce() bool {
	return s.Level == Adult && s.Counter == 0
}

// ResetReproductionCooldown restarts the cooldown. Panics unless Adult.
func (s *SexualMaturity) ResetReproductionCooldown() {
	if s.Level != Adult {
		panic("components: reproduction cooldown reset on a non-adult organism")
	}
	s.Counter = s.ReproductionCooldownGene.Phenotype()
}

// Metabolism holds the per-mass energy consumption rate.
type Metabolism struct {
	ConsumptionGene genetics.FloatGene `inspect:"skip"`
}

// Consumption returns the consumption phenotype.
func (m *Metabolism) Consumption() float64 {
	return m.ConsumptionGene.Phenotype()
}

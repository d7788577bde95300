package components

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/genetics"
)

// fullGene expresses exactly 1.0 so phenotypes equal their multipliers.
func fullGene() genetics.Gene {
	return genetics.NewGene(1)
}

func newEnergy(maxActive, perMass, active, mass float64) EnergyData {
	return EnergyData{
		ActiveEnergy:          active,
		Mass:                  mass,
		MaxActiveEnergyGene:   genetics.NewFloatGene(fullGene(), maxActive, 0),
		EnergyPerMassUnitGene: genetics.NewFloatGene(fullGene(), perMass, 0),
	}
}

func TestStoreEnergy_FillsActiveThenMass(t *testing.T) {
	e := newEnergy(100, 4, 90, 1)
	e.StoreEnergy(20)

	if e.ActiveEnergy != 100 {
		t.Errorf("expected active capped at 100, got %f", e.ActiveEnergy)
	}
	wantMass := 1 + 10.0/4
	if math.Abs(e.Mass-wantMass) > 1e-12 {
		t.Errorf("expected mass %f, got %f", wantMass, e.Mass)
	}
}

func TestStoreEnergy_BelowCapOnlyTouchesActive(t *testing.T) {
	e := newEnergy(100, 4, 10, 1)
	e.StoreEnergy(5)
	if e.ActiveEnergy != 15 || e.Mass != 1 {
		t.Errorf("expected active=15 mass=1, got active=%f mass=%f", e.ActiveEnergy, e.Mass)
	}
}

func TestConsumeFromActiveEnergy_ReturnsRemainder(t *testing.T) {
	e := newEnergy(100, 4, 30, 1)
	if r := e.ConsumeFromActiveEnergy(10); r != 0 {
		t.Errorf("expected no remainder, got %f", r)
	}
	if r := e.ConsumeFromActiveEnergy(50); r != 30 {
		t.Errorf("expected remainder 30, got %f", r)
	}
	if e.ActiveEnergy != 0 {
		t.Errorf("expected active drained to 0, got %f", e.ActiveEnergy)
	}
	if e.Mass != 1 {
		t.Errorf("mass must not change, got %f", e.Mass)
	}
}

func TestEnergyConservation(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 2))
	e := newEnergy(50, 3, 25, 2)
	expected := e.TotalEnergy()

	for i := 0; i < 1000; i++ {
		amount := rng.Float64() * 40
		if rng.IntN(2) == 0 {
			e.StoreEnergy(amount)
			expected += amount
		} else {
			remainder := e.ConsumeFromActiveEnergy(amount)
			expected -= amount - remainder
		}
		if math.Abs(e.TotalEnergy()-expected) > 1e-6 {
			t.Fatalf("step %d: total %f drifted from expected %f", i, e.TotalEnergy(), expected)
		}
	}
}

func TestTryToConsumeEnergy_UsesMass(t *testing.T) {
	e := newEnergy(100, 10, 5, 3)
	before := e.TotalEnergy()
	if err := e.TryToConsumeEnergy(15); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ActiveEnergy != 0 {
		t.Errorf("expected active drained, got %f", e.ActiveEnergy)
	}
	if math.Abs(e.Mass-2) > 1e-12 {
		t.Errorf("expected mass 2, got %f", e.Mass)
	}
	if math.Abs(before-15-e.TotalEnergy()) > 1e-9 {
		t.Errorf("total energy should drop by exactly 15")
	}
}

func TestTryToConsumeEnergy_FailureMutatesNothing(t *testing.T) {
	e := newEnergy(100, 10, 0, 0.5)
	err := e.TryToConsumeEnergy(100)
	if !errors.Is(err, ErrInsufficientEnergy) {
		t.Fatalf("expected ErrInsufficientEnergy, got %v", err)
	}
	if e.Mass != 0.5 || e.ActiveEnergy != 0 {
		t.Errorf("failed consumption changed state: active=%f mass=%f", e.ActiveEnergy, e.Mass)
	}

	// Active energy is also kept on the failure path.
	e2 := newEnergy(100, 10, 7, 0.5)
	if err := e2.TryToConsumeEnergy(100); err == nil {
		t.Fatal("expected failure")
	}
	if e2.ActiveEnergy != 7 {
		t.Errorf("expected active energy 7 to be untouched, got %f", e2.ActiveEnergy)
	}
}

func TestHungerLevel(t *testing.T) {
	e := newEnergy(100, 1, 76, 1)
	if e.HungerLevel() != Satiated {
		t.Error("76% full should be satiated")
	}
	e.ActiveEnergy = 75
	if e.HungerLevel() != Hungry {
		t.Error("exactly 75% full should be hungry")
	}
}

func TestSize(t *testing.T) {
	e := newEnergy(1, 1, 0, 27)
	if math.Abs(e.Size()-3) > 1e-12 {
		t.Errorf("expected size 3, got %f", e.Size())
	}
}

func TestHealthStartsAtHalf(t *testing.T) {
	h := NewHealth(genetics.NewFloatGene(fullGene(), 80, 0))
	if h.HP != 40 {
		t.Errorf("expected 40 hp, got %f", h.HP)
	}
	h.TakeDamage(40, CauseKilled)
	if !h.IsDead() || h.LastDamage != CauseKilled {
		t.Errorf("expected dead by Killed, got hp=%f cause=%v", h.HP, h.LastDamage)
	}
}

func TestAgePenaltyMonotonic(t *testing.T) {
	a := Age{PenaltyGene: genetics.NewFloatGene(fullGene(), 2, 0)}
	if a.Penalty() != 2 {
		t.Errorf("expected penalty 2 at age 0, got %f", a.Penalty())
	}
	prev := a.Penalty()
	for i := 0; i < 50; i++ {
		a.Increment()
		if a.Penalty() <= prev {
			t.Fatalf("penalty must increase with age")
		}
		prev = a.Penalty()
	}
	if math.Abs(a.Penalty()-2*math.Sqrt(51)) > 1e-9 {
		t.Errorf("unexpected penalty %f", a.Penalty())
	}
}

func newMaturity(startingAge, maturityAge, cooldown int) SexualMaturity {
	return NewSexualMaturity(startingAge,
		genetics.NewIntGene(fullGene(), maturityAge, maturityAge),
		genetics.NewIntGene(fullGene(), cooldown, cooldown))
}

func TestSexualMaturity_YoungToAdult(t *testing.T) {
	sm := newMaturity(0, 5, 3)
	for i := 0; i < 4; i++ {
		sm.Tick()
		if sm.Level != Young {
			t.Fatalf("became adult after %d ticks, maturity age is 5", i+1)
		}
	}
	sm.Tick()
	if sm.Level != Adult || !sm.IsReadyToReproduce() {
		t.Fatalf("expected ready adult after 5 ticks, got %v counter=%d", sm.Level, sm.Counter)
	}
}

func TestSexualMaturity_StartsAdultWhenOldEnough(t *testing.T) {
	sm := newMaturity(10, 5, 3)
	if sm.Level != Adult || !sm.IsReadyToReproduce() {
		t.Errorf("expected ready adult, got %v counter=%d", sm.Level, sm.Counter)
	}
}

func TestSexualMaturity_CooldownCycle(t *testing.T) {
	sm := newMaturity(5, 5, 3)
	sm.ResetReproductionCooldown()
	if sm.IsReadyToReproduce() {
		t.Fatal("must not be ready right after reset")
	}
	for i := 0; i < 2; i++ {
		sm.Tick()
		if sm.IsReadyToReproduce() {
			t.Fatalf("ready after only %d ticks", i+1)
		}
	}
	sm.Tick()
	if !sm.IsReadyToReproduce() {
		t.Error("expected ready after 3 ticks")
	}
}

func TestSexualMaturity_ResetOnYoungPanics(t *testing.T) {
	sm := newMaturity(0, 5, 3)
	defer func() {
		if recover() == nil {
			t.Error("expected panic resetting a young organism")
		}
	}()
	sm.ResetReproductionCooldown()
}

func TestObjectsInTile_AddRemoveIdempotent(t *testing.T) {
	world := ecs.NewWorld()
	e := ecs.NewMap[Position](world).NewEntity(&Position{})

	var o ObjectsInTile
	if !o.Add(OccupantPlant, e) {
		t.Fatal("first add should succeed")
	}
	if o.Add(OccupantPlant, e) {
		t.Error("duplicate add should report false")
	}
	if len(o.Plants) != 1 {
		t.Errorf("duplicate add must not grow the list, got %d", len(o.Plants))
	}
	if o.Remove(OccupantAnimal, e) {
		t.Error("removing from the wrong list should report false")
	}
	if kind, ok := o.RemoveAny(e); !ok || kind != OccupantPlant {
		t.Errorf("RemoveAny should find the plant entry, got %v %v", kind, ok)
	}
	if o.Len() != 0 {
		t.Errorf("expected empty tile, got %d", o.Len())
	}
	if o.Remove(OccupantPlant, e) {
		t.Error("removing an absent entity should report false")
	}
}

func TestCarcassDecayTerminates(t *testing.T) {
	c := Carcass{Mass: 8, StartingMass: 8}
	const fraction = 0.15
	limit := int(math.Ceil(1 / fraction))
	ticks := 0
	for !c.Decay(fraction) {
		ticks++
		if ticks > limit {
			t.Fatalf("carcass not gone after %d ticks", ticks)
		}
	}
	if c.Mass != 0 {
		t.Errorf("expected mass clamped to 0, got %f", c.Mass)
	}
}

func TestCarcassTakeMass(t *testing.T) {
	c := Carcass{Mass: 3, StartingMass: 5}
	if got := c.TakeMass(2); got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
	if got := c.TakeMass(2); got != 1 {
		t.Errorf("expected the remaining 1, got %f", got)
	}
	if got := c.TakeMass(2); got != 0 {
		t.Errorf("expected nothing left, got %f", got)
	}
}

func TestDietRules(t *testing.T) {
	if !Herbivore.HuntsPlants() || Herbivore.HuntsAnimals() {
		t.Error("herbivores hunt plants only")
	}
	if !Carnivore.EatsAnimalCarcasses() || Carnivore.EatsPlantCarcasses() {
		t.Error("carnivores eat animal carcasses only")
	}
	if !Omnivore.HuntsPlants() || !Omnivore.HuntsAnimals() ||
		!Omnivore.EatsPlantCarcasses() || !Omnivore.EatsAnimalCarcasses() {
		t.Error("omnivores eat everything")
	}
}

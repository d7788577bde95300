package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/terrarium/components"
)

func TestCollector_CountsEvents(t *testing.T) {
	c := NewCollector(10)
	c.Record(NewBirthEvent(1, 10, 1, components.KindPlant))
	c.Record(NewBirthEvent(1, 11, 2, components.KindAnimal))
	c.Record(NewDeathEvent(2, 3, components.KindAnimal, components.CauseKilled, 2))
	c.Record(NewDeathEvent(2, 4, components.KindPlant, components.CauseStarvation, 5))
	c.Record(NewDeathEvent(3, 5, components.KindAnimal, components.CauseReproduction, 1))
	c.Record(NewAttackEvent(2, 7, 3, 30))
	c.Record(NewAttackEvent(2, 7, 3, 30))
	c.Record(NewKillEvent(2, 7, 3))
	c.Record(NewMatingEvent(4, 8, 9, components.KindAnimal))
	c.Record(NewMealEvent(5, 7, 3, 1.5))
	c.Record(NewMealEvent(6, 7, 3, 0.5))
	c.Record(NewDecayedEvent(9, 12, components.KindPlant))
	c.RecordLifespan(100)
	c.RecordLifespan(300)

	s := c.Flush(10, PopulationSample{Day: 1, Herbivores: 2, AnimalEnergies: []float64{10, 20}})

	if s.PlantBirths != 1 || s.AnimalBirths != 1 {
		t.Errorf("births: plants=%d animals=%d", s.PlantBirths, s.AnimalBirths)
	}
	if s.PlantDeaths != 1 || s.AnimalDeaths != 2 {
		t.Errorf("deaths: plants=%d animals=%d", s.PlantDeaths, s.AnimalDeaths)
	}
	if s.Starved != 1 || s.Killed != 1 || s.ReproductionDied != 1 {
		t.Errorf("causes: starved=%d killed=%d reproduction=%d", s.Starved, s.Killed, s.ReproductionDied)
	}
	if s.Attacks != 2 || s.Kills != 1 || math.Abs(s.KillRate-0.5) > 1e-12 {
		t.Errorf("hunting: attacks=%d kills=%d rate=%v", s.Attacks, s.Kills, s.KillRate)
	}
	if s.Matings != 1 || s.Decayed != 1 || math.Abs(s.MassEaten-2) > 1e-12 {
		t.Errorf("matings=%d decayed=%d eaten=%v", s.Matings, s.Decayed, s.MassEaten)
	}
	if s.Lifespan.Mean != 200 || s.AnimalEnergy.Mean != 15 {
		t.Errorf("distributions: lifespan=%v energy=%v", s.Lifespan.Mean, s.AnimalEnergy.Mean)
	}
	if s.Herbivores != 2 || s.Day != 1 {
		t.Error("population sample not copied")
	}
}

func TestCollector_FlushResetsWindow(t *testing.T) {
	c := NewCollector(10)
	if c.ShouldFlush(9) {
		t.Error("window not yet complete")
	}
	if !c.ShouldFlush(10) {
		t.Error("window should be complete at tick 10")
	}

	c.Record(NewMatingEvent(3, 1, 2, components.KindPlant))
	c.RecordLifespan(5)
	first := c.Flush(10, PopulationSample{})
	if first.WindowStartTick != 0 || first.WindowEndTick != 10 {
		t.Errorf("unexpected window bounds %d..%d", first.WindowStartTick, first.WindowEndTick)
	}

	second := c.Flush(20, PopulationSample{})
	if second.Matings != 0 || second.Lifespan.Mean != 0 {
		t.Error("counters must reset between windows")
	}
	if second.WindowStartTick != 10 {
		t.Errorf("next window should start at 10, got %d", second.WindowStartTick)
	}
	if c.ShouldFlush(29) || !c.ShouldFlush(30) {
		t.Error("flush schedule should follow the last flush")
	}
}

func TestCollector_MinimumWindow(t *testing.T) {
	if got := NewCollector(0).WindowDurationTicks(); got != 1 {
		t.Errorf("expected window clamped to 1, got %d", got)
	}
}

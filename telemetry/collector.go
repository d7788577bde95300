package telemetry

import "github.com/pthm-cable/terrarium/components"

// PopulationSample is the world state captured by the caller at a window
// boundary.
type PopulationSample struct {
	Day int

	Plants          int
	Herbivores      int
	Carnivores      int
	Omnivores       int
	PlantCarcasses  int
	AnimalCarcasses int

	PlantMasses    []float64
	AnimalMasses   []float64
	AnimalEnergies []float64

	TotalOrganismEnergy float64
	TotalCarcassEnergy  float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	plantBirths      int
	animalBirths     int
	plantDeaths      int
	animalDeaths     int
	starved          int
	killed           int
	reproductionDied int
	attacks          int
	kills            int
	matings          int
	massEaten        float64
	decayed          int
	lifespans        []float64
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	return &Collector{windowDurationTicks: max(windowTicks, 1)}
}

// Record counts a single event into the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventBirth:
		if ev.Kind == components.KindPlant {
			c.plantBirths++
		} else {
			c.animalBirths++
		}
	case EventDeath:
		if ev.Kind == components.KindPlant {
			c.plantDeaths++
		} else {
			c.animalDeaths++
		}
		switch ev.Cause {
		case components.CauseStarvation:
			c.starved++
		case components.CauseKilled:
			c.killed++
		case components.CauseReproduction:
			c.reproductionDied++
		}
	case EventAttack:
		c.attacks++
	case EventKill:
		c.kills++
	case EventMating:
		c.matings++
	case EventMeal:
		c.massEaten += ev.Amount
	case EventDecayed:
		c.decayed++
	}
}

// RecordLifespan adds the age in ticks of an organism that died.
func (c *Collector) RecordLifespan(ticks int32) {
	c.lifespans = append(c.lifespans, float64(ticks))
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample PopulationSample) WindowStats {
	var killRate float64
	if c.attacks > 0 {
		killRate = float64(c.kills) / float64(c.attacks)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Day:             sample.Day,

		Plants:          sample.Plants,
		Herbivores:      sample.Herbivores,
		Carnivores:      sample.Carnivores,
		Omnivores:       sample.Omnivores,
		PlantCarcasses:  sample.PlantCarcasses,
		AnimalCarcasses: sample.AnimalCarcasses,

		PlantBirths:  c.plantBirths,
		AnimalBirths: c.animalBirths,
		PlantDeaths:  c.plantDeaths,
		AnimalDeaths: c.animalDeaths,

		Starved:          c.starved,
		Killed:           c.killed,
		ReproductionDied: c.reproductionDied,

		Attacks:   c.attacks,
		Kills:     c.kills,
		KillRate:  killRate,
		Matings:   c.matings,
		MassEaten: c.massEaten,
		Decayed:   c.decayed,

		PlantMass:    ComputeDistribution(sample.PlantMasses),
		AnimalMass:   ComputeDistribution(sample.AnimalMasses),
		AnimalEnergy: ComputeDistribution(sample.AnimalEnergies),
		Lifespan:     ComputeDistribution(c.lifespans),

		TotalOrganismEnergy: sample.TotalOrganismEnergy,
		TotalCarcassEnergy:  sample.TotalCarcassEnergy,
	}

	// Reset for next window
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		windowStartTick:     currentTick,
		lifespans:           c.lifespans[:0],
	}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

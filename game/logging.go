package game

import (
	"log/slog"

	"github.com/pthm-cable/terrarium/components"
)

// logWorldState logs a summary of the living population and what the
// animals are currently doing.
func (g *Game) logWorldState() {
	var plants, animals int
	var herbivores, carnivores, omnivores int
	var plantEnergy, animalEnergy float64
	var minAnimalEnergy, maxAnimalEnergy float64 = -1, 0
	var readyToMate int

	query := g.organismFilter.Query()
	for query.Next() {
		org, energy, health := query.Get()
		if health.IsDead() {
			continue
		}
		e := query.Entity()

		if g.maturityMap.Get(e).IsReadyToReproduce() {
			readyToMate++
		}

		if org.Kind == components.KindPlant {
			plants++
			plantEnergy += energy.TotalEnergy()
			continue
		}

		animals++
		animalEnergy += energy.ActiveEnergy
		if minAnimalEnergy < 0 || energy.ActiveEnergy < minAnimalEnergy {
			minAnimalEnergy = energy.ActiveEnergy
		}
		if energy.ActiveEnergy > maxAnimalEnergy {
			maxAnimalEnergy = energy.ActiveEnergy
		}
		switch g.animalMap.Get(e).Diet {
		case components.Herbivore:
			herbivores++
		case components.Carnivore:
			carnivores++
		default:
			omnivores++
		}
	}

	avgPlantEnergy := 0.0
	if plants > 0 {
		avgPlantEnergy = plantEnergy / float64(plants)
	}
	avgAnimalEnergy := 0.0
	if animals > 0 {
		avgAnimalEnergy = animalEnergy / float64(animals)
	}
	if minAnimalEnergy < 0 {
		minAnimalEnergy = 0
	}

	slog.Info("world_state",
		"tick", g.tick,
		"day", g.sun.Day(),
		"daytime", g.sun.IsDay(),
		"plants", plants,
		"plant_energy_avg", avgPlantEnergy,
		"animals", animals,
		"herbivores", herbivores,
		"carnivores", carnivores,
		"omnivores", omnivores,
		"animal_energy_avg", avgAnimalEnergy,
		"animal_energy_min", minAnimalEnergy,
		"animal_energy_max", maxAnimalEnergy,
		"ready_to_mate", readyToMate,
		"plant_carcasses", g.occ.Count(components.OccupantPlantCarcass),
		"animal_carcasses", g.occ.Count(components.OccupantAnimalCarcass),
	)

	counts := g.actionCounts()
	attrs := make([]any, 0, 2*len(counts))
	for i, name := range components.ActionKindNames() {
		attrs = append(attrs, name, counts[i])
	}
	slog.Info("actions", attrs...)
}

// actionCounts tallies living animals by current action kind.
func (g *Game) actionCounts() []int {
	counts := make([]int, len(components.ActionKindNames()))
	query := g.actionFilter.Query()
	for query.Next() {
		action := query.Get()
		if int(action.Kind) < len(counts) {
			counts[action.Kind]++
		}
	}
	return counts
}

package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/systems"
)

// species returns the shared parameters of kind.
func (g *Game) species(kind components.Kind) config.SpeciesConfig {
	if kind == components.KindAnimal {
		return g.cfg.Animals.SpeciesConfig
	}
	return g.cfg.Plants.SpeciesConfig
}

// spawnInitialPopulation places founders on tiles their kind can live on.
func (g *Game) spawnInitialPopulation() {
	pop := g.cfg.Population

	for i := 0; i < pop.InitialPlants; i++ {
		g.spawnFounder(components.KindPlant, components.Herbivore)
	}
	for i := 0; i < pop.InitialAnimals; i++ {
		g.spawnFounder(components.KindAnimal, g.randomDiet())
	}
}

// randomDiet draws a founder diet from the configured shares.
func (g *Game) randomDiet() components.Diet {
	r := g.rng.Float64()
	switch {
	case r < g.cfg.Population.HerbivoreShare:
		return components.Herbivore
	case r < g.cfg.Population.HerbivoreShare+g.cfg.Population.CarnivoreShare:
		return components.Carnivore
	default:
		return components.Omnivore
	}
}

// spawnFounder creates one organism with the configured founder genome.
func (g *Game) spawnFounder(kind components.Kind, diet components.Diet) (ecs.Entity, bool) {
	pos, ok := g.randomPermittedPosition(kind)
	if !ok {
		slog.Warn("spawn_no_permitted_tile", "kind", kind.String(), "attempts", g.cfg.Population.SpawnAttempts)
		return ecs.Entity{}, false
	}
	genome := systems.NewGenome(kind, g.species(kind), g.cfg.Plants, g.cfg.Animals, diet)
	return g.spawnOrganism(kind, genome, pos), true
}

// randomPermittedPosition samples uniformly over the world until it hits a
// tile with room for kind.
func (g *Game) randomPermittedPosition(kind components.Kind) (components.Position, bool) {
	for i := 0; i < max(g.cfg.Population.SpawnAttempts, 1); i++ {
		pos := components.Position{
			X: g.rng.Float64() * g.layout.Width(),
			Y: g.rng.Float64() * g.layout.Height(),
		}
		if g.canPlace(kind, pos) {
			return pos, true
		}
	}
	return components.Position{}, false
}

// canPlace reports whether a new organism of kind may spawn at pos: the
// biome must allow it and, for plants, the tile must be below max_per_tile.
func (g *Game) canPlace(kind components.Kind, pos components.Position) bool {
	if !g.layout.KindCanLiveAt(kind, pos) {
		return false
	}
	limit := g.cfg.Plants.MaxPerTile
	if kind != components.KindPlant || limit == 0 {
		return true
	}
	objects := g.occ.At(pos)
	return objects != nil && len(objects.List(components.OccupantPlant)) < limit
}

// offspringPosition samples the ring around a parent for a tile with room.
func (g *Game) offspringPosition(kind components.Kind, parent components.Position) (components.Position, bool) {
	species := g.species(kind)
	outer := species.SpawnRadius
	inner := g.layout.TileSize / 2
	if inner >= outer {
		inner = 0
	}
	for i := 0; i < max(g.cfg.Population.SpawnAttempts, 1); i++ {
		pos := g.layout.RandomPositionInRing(parent, outer, inner, g.rng)
		if g.canPlace(kind, pos) {
			return pos, true
		}
	}
	return components.Position{}, false
}

// spawnOrganism creates a living organism from genome at pos with a freshly
// sampled starting age and mass, and registers it in its tile.
func (g *Game) spawnOrganism(kind components.Kind, genome systems.Genome, pos components.Position) ecs.Entity {
	species := g.species(kind)

	startingAge := int(systems.SampleClamped(species.StartingAge, g.rng))
	mass := systems.SampleClamped(species.StartingMass, g.rng)

	id := g.nextID
	g.nextID++

	org := components.Organism{ID: id, Kind: kind, Born: int(g.tick)}
	energy := components.EnergyData{
		Mass:                  mass,
		MaxActiveEnergyGene:   genome.MaxActiveEnergy,
		EnergyPerMassUnitGene: genome.EnergyPerMassUnit,
	}
	energy.ActiveEnergy = energy.MaxActiveEnergy() * species.StartingActiveEnergy
	health := components.NewHealth(genome.MaxHP)
	age := components.Age{Value: startingAge, PenaltyGene: genome.AgePenalty}
	maturity := components.NewSexualMaturity(startingAge, genome.MaturityAge, genome.ReproductionCooldown)
	metabolism := components.Metabolism{ConsumptionGene: genome.Consumption}

	entity := g.organismMapper.NewEntity(&pos, &org, &energy, &health, &age, &maturity, &metabolism)

	diet := components.Herbivore
	switch kind {
	case components.KindPlant:
		plant := genome.Plant
		g.plantMap.Add(entity, &plant)
	case components.KindAnimal:
		animal := genome.Animal
		action := components.DoNothing(0)
		mobile := components.Mobile{}
		g.behaviorMapper.Add(entity, &animal, &action, &mobile)
		diet = animal.Diet
	}

	g.occ.Add(kind.LiveOccupant(), entity, pos)
	g.lifetimeTracker.Register(entity.ID(), g.tick, kind, diet)

	return entity
}

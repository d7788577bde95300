package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/genetics"
)

func newTestRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// fullFloat returns a FloatGene whose phenotype equals v.
func fullFloat(v float64) genetics.FloatGene {
	return genetics.NewFloatGene(genetics.NewGene(1), v, 0)
}

// fixedInt returns an IntGene whose phenotype equals v.
func fixedInt(v int) genetics.IntGene {
	return genetics.NewIntGene(genetics.NewGene(1), v, v)
}

func allGrass(_, _ int) components.Biome { return components.BiomeGrass }

type testWorld struct {
	w      *ecs.World
	layout *TileLayout
	occ    *Occupancy
}

func newTestWorld(rows, cols int, tileSize float64, biomeAt func(row, col int) components.Biome) *testWorld {
	w := ecs.NewWorld()
	layout := NewTileLayout(w, rows, cols, tileSize, biomeAt)
	return &testWorld{w: w, layout: layout, occ: NewOccupancy(w, layout)}
}

func addComponent[T any](w *ecs.World, e ecs.Entity, c T) {
	ecs.NewMap[T](w).Add(e, &c)
}

type animalSpec struct {
	diet        components.Diet
	active      float64
	maxActive   float64
	mass        float64
	speed       float64
	sight       float64
	attack      float64
	actionRange float64
	ready       bool
}

func defaultAnimal() animalSpec {
	return animalSpec{
		diet:        components.Herbivore,
		active:      100,
		maxActive:   100,
		mass:        1,
		speed:       10,
		sight:       20,
		attack:      2,
		actionRange: 1,
	}
}

func (tw *testWorld) spawnAnimal(pos components.Position, spec animalSpec) ecs.Entity {
	e := ecs.NewMap2[components.Position, components.Organism](tw.w).NewEntity(
		&pos, &components.Organism{Kind: components.KindAnimal})

	startingAge := 0
	if spec.ready {
		startingAge = 10
	}
	addComponent(tw.w, e, components.EnergyData{
		ActiveEnergy:          spec.active,
		Mass:                  spec.mass,
		MaxActiveEnergyGene:   fullFloat(spec.maxActive),
		EnergyPerMassUnitGene: fullFloat(10),
	})
	addComponent(tw.w, e, components.NewHealth(fullFloat(100)))
	addComponent(tw.w, e, components.Age{PenaltyGene: fullFloat(1)})
	addComponent(tw.w, e, components.NewSexualMaturity(startingAge, fixedInt(5), fixedInt(3)))
	addComponent(tw.w, e, components.Metabolism{ConsumptionGene: fullFloat(1)})
	addComponent(tw.w, e, components.Animal{
		Diet:             spec.diet,
		SpeedGene:        fullFloat(spec.speed),
		SightRangeGene:   fullFloat(spec.sight),
		AttackDamageGene: fullFloat(spec.attack),
		ActionRangeGene:  fullFloat(spec.actionRange),
	})
	addComponent(tw.w, e, components.DoNothing(0))
	addComponent(tw.w, e, components.Mobile{})
	tw.occ.Add(components.OccupantAnimal, e, pos)
	return e
}

func (tw *testWorld) spawnPlant(pos components.Position, ready bool, pollination float64) ecs.Entity {
	e := ecs.NewMap2[components.Position, components.Organism](tw.w).NewEntity(
		&pos, &components.Organism{Kind: components.KindPlant})

	startingAge := 0
	if ready {
		startingAge = 10
	}
	addComponent(tw.w, e, components.EnergyData{
		ActiveEnergy:          10,
		Mass:                  8,
		MaxActiveEnergyGene:   fullFloat(100),
		EnergyPerMassUnitGene: fullFloat(10),
	})
	addComponent(tw.w, e, components.NewHealth(fullFloat(100)))
	addComponent(tw.w, e, components.Age{PenaltyGene: fullFloat(1)})
	addComponent(tw.w, e, components.NewSexualMaturity(startingAge, fixedInt(5), fixedInt(3)))
	addComponent(tw.w, e, components.Metabolism{ConsumptionGene: fullFloat(0.1)})
	addComponent(tw.w, e, components.Plant{
		PhotosynthesisGene: fullFloat(2),
		PollinationGene:    fullFloat(pollination),
	})
	tw.occ.Add(components.OccupantPlant, e, pos)
	return e
}

func (tw *testWorld) spawnCarcass(pos components.Position, kind components.Kind, mass float64) ecs.Entity {
	e := ecs.NewMap2[components.Position, components.Carcass](tw.w).NewEntity(
		&pos, &components.Carcass{Kind: kind, Mass: mass, StartingMass: mass, EnergyPerMassUnit: 10})
	tw.occ.Add(kind.CarcassOccupant(), e, pos)
	return e
}

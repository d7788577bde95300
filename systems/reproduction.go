package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/genetics"
)

// Genome bundles every heritable gene of an organism.
// Plant is zero for animals and Animal is zero for plants.
type Genome struct {
	MaxHP             genetics.FloatGene
	AgePenalty        genetics.FloatGene
	Consumption       genetics.FloatGene
	MaxActiveEnergy   genetics.FloatGene
	EnergyPerMassUnit genetics.FloatGene

	MaturityAge          genetics.IntGene
	ReproductionCooldown genetics.IntGene

	Plant  components.Plant
	Animal components.Animal
}

// CrossGenomes builds a child genome from two parents of kind. Each gene
// pair is crossed with the first parent's scaling; diet comes from p1.
// With mutationChance > 0 every child allele may flip its mutation bit.
func CrossGenomes(kind components.Kind, p1, p2 Genome, rng *rand.Rand, mutationChance float64) Genome {
	mixF := func(a, b genetics.FloatGene) genetics.FloatGene {
		child := a.MixedWith(b, rng)
		if mutationChance > 0 {
			child = child.WithGene(child.Gene().Mutated(rng, mutationChance))
		}
		return child
	}
	mixI := func(a, b genetics.IntGene) genetics.IntGene {
		child := a.MixedWith(b, rng)
		if mutationChance > 0 {
			child = child.WithGene(child.Gene().Mutated(rng, mutationChance))
		}
		return child
	}

	child := Genome{
		MaxHP:                mixF(p1.MaxHP, p2.MaxHP),
		AgePenalty:           mixF(p1.AgePenalty, p2.AgePenalty),
		Consumption:          mixF(p1.Consumption, p2.Consumption),
		MaxActiveEnergy:      mixF(p1.MaxActiveEnergy, p2.MaxActiveEnergy),
		EnergyPerMassUnit:    mixF(p1.EnergyPerMassUnit, p2.EnergyPerMassUnit),
		MaturityAge:          mixI(p1.MaturityAge, p2.MaturityAge),
		ReproductionCooldown: mixI(p1.ReproductionCooldown, p2.ReproductionCooldown),
	}

	switch kind {
	case components.KindPlant:
		child.Plant = components.Plant{
			PhotosynthesisGene: mixF(p1.Plant.PhotosynthesisGene, p2.Plant.PhotosynthesisGene),
			PollinationGene:    mixF(p1.Plant.PollinationGene, p2.Plant.PollinationGene),
		}
	case components.KindAnimal:
		child.Animal = components.Animal{
			Diet:             p1.Animal.Diet,
			SpeedGene:        mixF(p1.Animal.SpeedGene, p2.Animal.SpeedGene),
			SightRangeGene:   mixF(p1.Animal.SightRangeGene, p2.Animal.SightRangeGene),
			AttackDamageGene: mixF(p1.Animal.AttackDamageGene, p2.Animal.AttackDamageGene),
			ActionRangeGene:  mixF(p1.Animal.ActionRangeGene, p2.Animal.ActionRangeGene),
		}
	}
	return child
}

// NewGenome builds a founder genome from species configuration.
func NewGenome(kind components.Kind, species config.SpeciesConfig, plants config.PlantConfig, animals config.AnimalConfig, diet components.Diet) Genome {
	g := Genome{
		MaxHP:                FloatGeneFromConfig(species.MaxHP),
		AgePenalty:           FloatGeneFromConfig(species.AgePenalty),
		Consumption:          FloatGeneFromConfig(species.Consumption),
		MaxActiveEnergy:      FloatGeneFromConfig(species.MaxActiveEnergy),
		EnergyPerMassUnit:    FloatGeneFromConfig(species.EnergyPerMassUnit),
		MaturityAge:          IntGeneFromConfig(species.MaturityAge),
		ReproductionCooldown: IntGeneFromConfig(species.ReproductionCooldown),
	}
	switch kind {
	case components.KindPlant:
		g.Plant = components.Plant{
			PhotosynthesisGene: FloatGeneFromConfig(plants.Photosynthesis),
			PollinationGene:    FloatGeneFromConfig(plants.Pollination),
		}
	case components.KindAnimal:
		g.Animal = components.Animal{
			Diet:             diet,
			SpeedGene:        FloatGeneFromConfig(animals.Speed),
			SightRangeGene:   FloatGeneFromConfig(animals.SightRange),
			AttackDamageGene: FloatGeneFromConfig(animals.AttackDamage),
			ActionRangeGene:  FloatGeneFromConfig(animals.ActionRange),
		}
	}
	return g
}

// FloatGeneFromConfig builds a FloatGene at the configured initial fraction.
func FloatGeneFromConfig(c config.FloatGeneConfig) genetics.FloatGene {
	return genetics.NewFloatGene(genetics.NewGene(c.InitialFraction), c.Multiplier, c.Offset)
}

// IntGeneFromConfig builds an IntGene at the configured initial fraction.
func IntGeneFromConfig(c config.IntGeneConfig) genetics.IntGene {
	return genetics.NewIntGene(genetics.NewGene(c.InitialFraction), c.Min, c.Max)
}

// SampleClamped draws from a normal distribution and clamps below at Min.
func SampleClamped(d config.DistributionConfig, rng *rand.Rand) float64 {
	if d.StdDev <= 0 {
		return max(d.Mean, d.Min)
	}
	n := distuv.Normal{Mu: d.Mean, Sigma: d.StdDev, Src: rng}
	return max(n.Rand(), d.Min)
}

// GenomeReader extracts genomes from organism entities.
type GenomeReader struct {
	healthMap   *ecs.Map[components.Health]
	ageMap      *ecs.Map[components.Age]
	maturityMap *ecs.Map[components.SexualMaturity]
	energyMap   *ecs.Map[components.EnergyData]
	metMap      *ecs.Map[components.Metabolism]
	plantMap    *ecs.Map[components.Plant]
	animalMap   *ecs.Map[components.Animal]
}

// NewGenomeReader creates a genome reader for w.
func NewGenomeReader(w *ecs.World) *GenomeReader {
	return &GenomeReader{
		healthMap:   ecs.NewMap[components.Health](w),
		ageMap:      ecs.NewMap[components.Age](w),
		maturityMap: ecs.NewMap[components.SexualMaturity](w),
		energyMap:   ecs.NewMap[components.EnergyData](w),
		metMap:      ecs.NewMap[components.Metabolism](w),
		plantMap:    ecs.NewMap[components.Plant](w),
		animalMap:   ecs.NewMap[components.Animal](w),
	}
}

// Read returns the genome of a living organism.
func (r *GenomeReader) Read(e ecs.Entity) Genome {
	maturity := r.maturityMap.Get(e)
	energy := r.energyMap.Get(e)
	g := Genome{
		MaxHP:                r.healthMap.Get(e).MaxHPGene,
		AgePenalty:           r.ageMap.Get(e).PenaltyGene,
		Consumption:          r.metMap.Get(e).ConsumptionGene,
		MaxActiveEnergy:      energy.MaxActiveEnergyGene,
		EnergyPerMassUnit:    energy.EnergyPerMassUnitGene,
		MaturityAge:          maturity.MaturityAgeGene,
		ReproductionCooldown: maturity.ReproductionCooldownGene,
	}
	if r.plantMap.Has(e) {
		g.Plant = *r.plantMap.Get(e)
	}
	if r.animalMap.Has(e) {
		g.Animal = *r.animalMap.Get(e)
	}
	return g
}

type pollinator struct {
	entity ecs.Entity
	pos    components.Position
	reach  float64
}

// PollinationSystem pairs ready plants for reproduction.
type PollinationSystem struct {
	world       *ecs.World
	filter      *ecs.Filter4[components.Position, components.Plant, components.SexualMaturity, components.Health]
	occ         *Occupancy
	maturityMap *ecs.Map[components.SexualMaturity]

	ready []pollinator
}

// NewPollinationSystem creates a new pollination system.
func NewPollinationSystem(w *ecs.World, occ *Occupancy) *PollinationSystem {
	return &PollinationSystem{
		world:       w,
		filter:      ecs.NewFilter4[components.Position, components.Plant, components.SexualMaturity, components.Health](w),
		occ:         occ,
		maturityMap: ecs.NewMap[components.SexualMaturity](w),
	}
}

// Update pairs each ready plant with the first other unpaired ready plant
// within its pollination range, resets both cooldowns after the query and
// returns one request per pair.
func (s *PollinationSystem) Update() []ReproductionRequest {
	s.ready = s.ready[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, plant, maturity, health := query.Get()
		if health.IsDead() || !maturity.IsReadyToReproduce() {
			continue
		}
		s.ready = append(s.ready, pollinator{entity: query.Entity(), pos: *pos, reach: plant.PollinationGene.Phenotype()})
	}
	if len(s.ready) < 2 {
		return nil
	}

	available := make(map[ecs.Entity]components.Position, len(s.ready))
	for _, p := range s.ready {
		available[p.entity] = p.pos
	}

	var requests []ReproductionRequest
	for _, p := range s.ready {
		if _, ok := available[p.entity]; !ok {
			continue
		}
		for _, other := range s.occ.InRange(components.OccupantPlant, p.pos, p.reach) {
			otherPos, ok := available[other]
			if !ok || other == p.entity || p.pos.DistanceTo(otherPos) > p.reach {
				continue
			}
			delete(available, p.entity)
			delete(available, other)
			requests = append(requests, ReproductionRequest{Parent1: p.entity, Parent2: other, Kind: components.KindPlant})
			break
		}
	}

	for _, r := range requests {
		ResetCooldowns(s.world, s.maturityMap, r.Parent1, r.Parent2)
	}
	return requests
}

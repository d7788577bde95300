package components

import "github.com/pthm-cable/terrarium/genetics"

// Diet determines which food sources an animal pursues.
type Diet uint8

const (
	Herbivore Diet = iota
	Carnivore
	Omnivore
)

// EatsPlantCarcasses reports whether plant remains are food.
func (d Diet) EatsPlantCarcasses() bool { return d == Herbivore || d == Omnivore }

// EatsAnimalCarcasses reports whether animal remains are food.
func (d Diet) EatsAnimalCarcasses() bool { return d == Carnivore || d == Omnivore }

// HuntsPlants reports whether live plants are prey.
func (d Diet) HuntsPlants() bool { return d == Herbivore || d == Omnivore }

// HuntsAnimals reports whether live animals are prey.
func (d Diet) HuntsAnimals() bool { return d == Carnivore || d == Omnivore }

// Plant holds plant-specific genes.
type Plant struct {
	PhotosynthesisGene genetics.FloatGene `inspect:"skip"`
	PollinationGene    genetics.FloatGene `inspect:"skip"` // pollination range
}

// Animal holds animal-specific genes and diet.
type Animal struct {
	Diet Diet `inspect:"label"`

	SpeedGene        genetics.FloatGene `inspect:"skip"`
	SightRangeGene   genetics.FloatGene `inspect:"skip"`
	AttackDamageGene genetics.FloatGene `inspect:"skip"`
	ActionRangeGene  genetics.FloatGene `inspect:"skip"`
}

// Speed returns the distance covered per time unit.
func (a *Animal) Speed() float64 { return a.SpeedGene.Phenotype() }

// SightRange returns the perception radius.
func (a *Animal) SightRange() float64 { return a.SightRangeGene.Phenotype() }

// AttackDamage returns the damage per attack, also the mass eaten per bite.
func (a *Animal) AttackDamage() float64 { return a.AttackDamageGene.Phenotype() }

// ActionRange returns the reach for eating, attacking and mating.
func (a *Animal) ActionRange() float64 { return a.ActionRangeGene.Phenotype() }

// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Kind distinguishes the two organism kingdoms.
type Kind uint8

const (
	KindPlant Kind = iota
	KindAnimal
)

// LiveOccupant returns the tile list used while the organism is alive.
func (k Kind) LiveOccupant() OccupantKind {
	if k == KindAnimal {
		return OccupantAnimal
	}
	return OccupantPlant
}

// CarcassOccupant returns the tile list used once the organism is dead.
func (k Kind) CarcassOccupant() OccupantKind {
	if k == KindAnimal {
		return OccupantAnimalCarcass
	}
	return OccupantPlantCarcass
}

// Organism identifies a living plant or animal.
type Organism struct {
	ID   uint32 `inspect:"label"`
	Kind Kind   `inspect:"label"`
	Born int    `inspect:"label"` // tick of birth
}

// ActionKind tags the active variant of an Action.
type ActionKind uint8

const (
	ActionDoingNothing ActionKind = iota
	ActionGoingTo
	ActionEating
	ActionAttacking
	ActionMating
)

// Action is the single active behaviour of an animal.
// Hours is used by DoingNothing, Position by GoingTo and Target by the
// entity-targeted variants. Targets are lookup handles, never ownership.
type Action struct {
	Kind     ActionKind `inspect:"label"`
	Hours    int        `inspect:"label"`
	Position Position   `inspect:"skip"`
	Target   ecs.Entity `inspect:"skip"`
}

// DoNothing idles for hours time units; zero requests a new decision.
func DoNothing(hours int) Action { return Action{Kind: ActionDoingNothing, Hours: hours} }

// GoTo walks to a fixed position.
func GoTo(p Position) Action { return Action{Kind: ActionGoingTo, Position: p} }

// Eat consumes a carcass.
func Eat(food ecs.Entity) Action { return Action{Kind: ActionEating, Target: food} }

// Attack damages a live organism.
func Attack(enemy ecs.Entity) Action { return Action{Kind: ActionAttacking, Target: enemy} }

// Mate pursues a reproduction partner.
func Mate(partner ecs.Entity) Action { return Action{Kind: ActionMating, Target: partner} }

// NeedsDecision reports whether the action has expired.
func (a *Action) NeedsDecision() bool {
	return a.Kind == ActionDoingNothing && a.Hours <= 0
}

// Carcass is the decaying remnant of a dead organism.
type Carcass struct {
	Kind              Kind    `inspect:"label"`
	Mass              float64 `inspect:"bar"`
	StartingMass      float64 `inspect:"label,fmt:%.3f"`
	EnergyPerMassUnit float64 `inspect:"label,fmt:%.2f"`
}

// Decay removes fraction of the starting mass and reports whether the carcass is gone.
func (c *Carcass) Decay(fraction float64) bool {
	c.Mass -= c.StartingMass * fraction
	if c.Mass <= 0 {
		c.Mass = 0
		return true
	}
	return false
}

// TakeMass removes up to amount and returns what was actually taken.
func (c *Carcass) TakeMass(amount float64) float64 {
	if amount <= 0 || c.Mass <= 0 {
		return 0
	}
	if amount > c.Mass {
		amount = c.Mass
	}
	c.Mass -= amount
	return amount
}

package game

import (
	"fmt"
	"io"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/inspector"
)

// OrganismSnapshot is a read-only copy of one living organism.
type OrganismSnapshot struct {
	Entity       ecs.Entity
	ID           uint32
	Kind         components.Kind
	Diet         components.Diet // Herbivore for plants
	Position     components.Position
	HP           float64
	MaxHP        float64
	ActiveEnergy float64
	Mass         float64
	Age          int
	Maturity     components.MaturityLevel
	Ready        bool
	Action       components.ActionKind
}

// CarcassSnapshot is a read-only copy of one carcass.
type CarcassSnapshot struct {
	Entity   ecs.Entity
	Kind     components.Kind
	Position components.Position
	Mass     float64
}

// Organisms returns a snapshot of every living organism.
func (g *Game) Organisms() []OrganismSnapshot {
	var out []OrganismSnapshot

	query := g.organismFilter.Query()
	for query.Next() {
		org, energy, health := query.Get()
		if health.IsDead() {
			continue
		}
		e := query.Entity()
		mat := g.maturityMap.Get(e)

		s := OrganismSnapshot{
			Entity:       e,
			ID:           org.ID,
			Kind:         org.Kind,
			Position:     *g.posMap.Get(e),
			HP:           health.HP,
			MaxHP:        health.MaxHP(),
			ActiveEnergy: energy.ActiveEnergy,
			Mass:         energy.Mass,
			Age:          g.ageMap.Get(e).Value,
			Maturity:     mat.Level,
			Ready:        mat.IsReadyToReproduce(),
		}
		if g.animalMap.Has(e) {
			s.Diet = g.animalMap.Get(e).Diet
			s.Action = g.actionMap.Get(e).Kind
		}
		out = append(out, s)
	}
	return out
}

// Carcasses returns a snapshot of every carcass still decaying.
func (g *Game) Carcasses() []CarcassSnapshot {
	var out []CarcassSnapshot

	query := g.carcassFilter.Query()
	for query.Next() {
		c := query.Get()
		e := query.Entity()
		out = append(out, CarcassSnapshot{
			Entity:   e,
			Kind:     c.Kind,
			Position: *g.posMap.Get(e),
			Mass:     c.Mass,
		})
	}
	return out
}

// FindOrganism returns the living organism with the given run-unique ID.
func (g *Game) FindOrganism(id uint32) (ecs.Entity, bool) {
	query := g.organismFilter.Query()
	for query.Next() {
		org, _, _ := query.Get()
		if org.ID == id {
			e := query.Entity()
			query.Close()
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// Inspect writes every component of e to w.
func (g *Game) Inspect(w io.Writer, e ecs.Entity) error {
	sections := g.inspector.Inspect(e)
	if sections == nil {
		return fmt.Errorf("entity %d is not alive", e.ID())
	}
	return inspector.Write(w, fmt.Sprintf("entity %d @ tick %d", e.ID(), g.tick), sections)
}

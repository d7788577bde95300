package game

import (
	"errors"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/systems"
	"github.com/pthm-cable/terrarium/telemetry"
)

// isLiving reports whether e is a spawned organism that has not died yet.
func (g *Game) isLiving(e ecs.Entity) bool {
	return g.world.Alive(e) && g.healthMap.Has(e) && !g.healthMap.Get(e).IsDead()
}

// applyReproduction charges both parents and then spawns one child per
// request. Each parent pays the reproduction cost on its own; a parent that
// cannot pay is killed and turns into a carcass in the deaths phase. The
// payment is kept even when no permitted tile is found for the child.
func (g *Game) applyReproduction(requests []systems.ReproductionRequest) {
	for _, r := range requests {
		if !g.isLiving(r.Parent1) || !g.isLiving(r.Parent2) {
			continue
		}

		g.emit(telemetry.NewMatingEvent(g.tick, r.Parent1.ID(), r.Parent2.ID(), r.Kind))

		cost := g.species(r.Kind).ReproductionCost
		g.payReproduction(r.Parent1, cost)
		g.payReproduction(r.Parent2, cost)

		parentPos := *g.posMap.Get(r.Parent1)
		pos, ok := g.offspringPosition(r.Kind, parentPos)
		if !ok {
			slog.Debug("offspring_no_permitted_tile", "kind", r.Kind.String(), "parent", r.Parent1.ID())
			continue
		}

		genome := systems.CrossGenomes(r.Kind,
			g.genomes.Read(r.Parent1), g.genomes.Read(r.Parent2),
			g.rng, g.cfg.Reproduction.MutationChance)
		child := g.spawnOrganism(r.Kind, genome, pos)
		g.emit(telemetry.NewBirthEvent(g.tick, child.ID(), r.Parent1.ID(), r.Kind))
	}
}

// payReproduction charges cost to parent, killing it if it cannot pay.
func (g *Game) payReproduction(parent ecs.Entity, cost float64) {
	err := g.energyMap.Get(parent).TryToConsumeEnergy(cost)
	if err == nil {
		return
	}
	if errors.Is(err, components.ErrInsufficientEnergy) {
		slog.Debug("reproduction_payment_failed", "entity", parent.ID(), "error", err)
	}
	g.healthMap.Get(parent).Kill(components.CauseReproduction)
}

// recordCombat turns the last action pass into telemetry events.
func (g *Game) recordCombat() {
	for _, a := range g.action.Attacks() {
		g.emit(telemetry.NewAttackEvent(g.tick, a.Attacker.ID(), a.Victim.ID(), a.Damage))
		if a.Lethal {
			g.emit(telemetry.NewKillEvent(g.tick, a.Attacker.ID(), a.Victim.ID()))
		}
	}
	for _, m := range g.action.Meals() {
		g.emit(telemetry.NewMealEvent(g.tick, m.Eater.ID(), m.Carcass.ID(), m.Mass))
	}
}

type deadInfo struct {
	entity ecs.Entity
	kind   components.Kind
	pos    components.Position
	cause  components.DamageCause
	mass   float64
	epm    float64
}

// processDeaths turns every organism at zero HP into a carcass of the same
// entity: it leaves the live tile list, loses its organism components and
// joins the carcass list of its kind.
func (g *Game) processDeaths() {
	// First pass: collect dead organisms (must complete before modifying)
	var dead []deadInfo

	query := g.organismFilter.Query()
	for query.Next() {
		org, energy, health := query.Get()
		if !health.IsDead() {
			continue
		}
		e := query.Entity()
		dead = append(dead, deadInfo{
			entity: e,
			kind:   org.Kind,
			pos:    *g.posMap.Get(e),
			cause:  health.LastDamage,
			mass:   energy.Mass,
			epm:    energy.EnergyPerMassUnit(),
		})
	}

	// Second pass: structural changes (query iteration complete)
	for _, d := range dead {
		g.occ.Remove(d.kind.LiveOccupant(), d.entity, d.pos)

		g.vitalsMapper.Remove(d.entity)
		switch d.kind {
		case components.KindPlant:
			g.plantMap.Remove(d.entity)
		case components.KindAnimal:
			g.behaviorMapper.Remove(d.entity)
		}

		carcass := components.Carcass{
			Kind:              d.kind,
			Mass:              d.mass,
			StartingMass:      d.mass,
			EnergyPerMassUnit: d.epm,
		}
		g.carcassMap.Add(d.entity, &carcass)
		g.occ.Add(d.kind.CarcassOccupant(), d.entity, d.pos)

		if stats, ok := g.lifetimeTracker.Remove(d.entity.ID()); ok {
			g.collector.RecordLifespan(stats.Lifespan(g.tick))
		}
		g.emit(telemetry.NewDeathEvent(g.tick, d.entity.ID(), d.kind, d.cause, d.mass))
	}
}

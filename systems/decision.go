package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
)

// MakeDecision asks for a new action for one animal.
type MakeDecision struct {
	Entity ecs.Entity
}

// Decision is the outcome of a MakeDecision request.
type Decision struct {
	Entity ecs.Entity
	Action components.Action
}

// DecisionSystem chooses new actions for animals.
// Requests are collected in a read pass over all animals, decided against
// the shared state, then applied once the query is closed.
type DecisionSystem struct {
	world    *ecs.World
	filter   *ecs.Filter2[components.Action, components.Health]
	occ      *Occupancy
	rng      *rand.Rand
	interval int
	idle     int
	attempts int

	posMap      *ecs.Map[components.Position]
	animalMap   *ecs.Map[components.Animal]
	energyMap   *ecs.Map[components.EnergyData]
	healthMap   *ecs.Map[components.Health]
	maturityMap *ecs.Map[components.SexualMaturity]
	carcassMap  *ecs.Map[components.Carcass]
	actionMap   *ecs.Map[components.Action]

	requests  []MakeDecision
	decisions []Decision
}

// NewDecisionSystem creates a new decision system.
func NewDecisionSystem(w *ecs.World, occ *Occupancy, rng *rand.Rand, timeCfg config.TimeConfig, animals config.AnimalConfig) *DecisionSystem {
	return &DecisionSystem{
		world:       w,
		filter:      ecs.NewFilter2[components.Action, components.Health](w).With(ecs.C[components.Animal]()),
		occ:         occ,
		rng:         rng,
		interval:    timeCfg.DecisionInterval,
		idle:        animals.IdleTimeUnits,
		attempts:    animals.FallbackAttempts,
		posMap:      ecs.NewMap[components.Position](w),
		animalMap:   ecs.NewMap[components.Animal](w),
		energyMap:   ecs.NewMap[components.EnergyData](w),
		healthMap:   ecs.NewMap[components.Health](w),
		maturityMap: ecs.NewMap[components.SexualMaturity](w),
		carcassMap:  ecs.NewMap[components.Carcass](w),
		actionMap:   ecs.NewMap[components.Action](w),
	}
}

// Update collects, decides and applies new actions for tick.
// Returns the decisions that were applied.
func (s *DecisionSystem) Update(tick int) []Decision {
	s.decisions = s.decisions[:0]
	for _, req := range s.Collect(tick) {
		s.decisions = append(s.decisions, Decision{Entity: req.Entity, Action: s.Decide(req.Entity)})
	}
	for _, d := range s.decisions {
		*s.actionMap.Get(d.Entity) = d.Action
	}
	return s.decisions
}

// Collect returns a request for every living animal whose action expired,
// or for every living animal when tick falls on the decision interval.
func (s *DecisionSystem) Collect(tick int) []MakeDecision {
	s.requests = s.requests[:0]
	periodic := s.interval > 0 && tick > 0 && tick%s.interval == 0

	query := s.filter.Query()
	for query.Next() {
		action, health := query.Get()
		if health.IsDead() {
			continue
		}
		if periodic || action.NeedsDecision() {
			s.requests = append(s.requests, MakeDecision{Entity: query.Entity()})
		}
	}
	return s.requests
}

// Decide evaluates needs in priority order: reproduction, carcasses when
// hungry, live prey when hungry, then a random reachable point. Within a
// branch the farthest candidate in sight wins; ties keep the first found.
func (s *DecisionSystem) Decide(e ecs.Entity) components.Action {
	pos := *s.posMap.Get(e)
	animal := s.animalMap.Get(e)
	sight := animal.SightRange()

	if s.maturityMap.Get(e).IsReadyToReproduce() {
		if mate, ok := s.farthest(e, pos, sight, s.isReadyMate, components.OccupantAnimal); ok {
			return components.Mate(mate)
		}
	}

	if s.energyMap.Get(e).HungerLevel() == components.Hungry {
		if food, ok := s.farthest(e, pos, sight, s.isFood, carcassKinds(animal.Diet)...); ok {
			return components.Eat(food)
		}
		if prey, ok := s.farthest(e, pos, sight, s.isPrey, preyKinds(animal.Diet)...); ok {
			return components.Attack(prey)
		}
	}

	for i := 0; i < s.attempts; i++ {
		p := s.occ.Layout().RandomPositionInRing(pos, sight, 0, s.rng)
		if s.occ.Layout().KindCanLiveAt(components.KindAnimal, p) {
			return components.GoTo(p)
		}
	}
	return components.DoNothing(s.idle)
}

// farthest scans the occupant lists of kinds around pos and returns the
// accepted candidate at the greatest distance not exceeding sight.
func (s *DecisionSystem) farthest(self ecs.Entity, pos components.Position, sight float64, accept func(ecs.Entity) bool, kinds ...components.OccupantKind) (ecs.Entity, bool) {
	var best ecs.Entity
	bestDist := -1.0
	for _, kind := range kinds {
		for _, c := range s.occ.InRange(kind, pos, sight) {
			if c == self || !s.world.Alive(c) || !accept(c) {
				continue
			}
			d := pos.DistanceTo(*s.posMap.Get(c))
			if d <= sight && d > bestDist {
				best, bestDist = c, d
			}
		}
	}
	return best, bestDist >= 0
}

func (s *DecisionSystem) isReadyMate(c ecs.Entity) bool {
	if !s.animalMap.Has(c) || !s.maturityMap.Has(c) {
		return false
	}
	return !s.healthMap.Get(c).IsDead() && s.maturityMap.Get(c).IsReadyToReproduce()
}

func (s *DecisionSystem) isFood(c ecs.Entity) bool {
	return s.carcassMap.Has(c) && s.carcassMap.Get(c).Mass > 0
}

func (s *DecisionSystem) isPrey(c ecs.Entity) bool {
	return s.healthMap.Has(c) && !s.healthMap.Get(c).IsDead()
}

// carcassKinds returns the carcass lists a diet feeds on.
func carcassKinds(diet components.Diet) []components.OccupantKind {
	var kinds []components.OccupantKind
	if diet.EatsPlantCarcasses() {
		kinds = append(kinds, components.OccupantPlantCarcass)
	}
	if diet.EatsAnimalCarcasses() {
		kinds = append(kinds, components.OccupantAnimalCarcass)
	}
	return kinds
}

// preyKinds returns the live occupant lists a diet hunts.
func preyKinds(diet components.Diet) []components.OccupantKind {
	var kinds []components.OccupantKind
	if diet.HuntsPlants() {
		kinds = append(kinds, components.OccupantPlant)
	}
	if diet.HuntsAnimals() {
		kinds = append(kinds, components.OccupantAnimal)
	}
	return kinds
}

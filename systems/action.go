package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
)

// arrivalEpsilon is the distance under which a GoingTo target counts as reached.
const arrivalEpsilon = 1e-6

// ReproductionRequest asks for one offspring of two parents.
type ReproductionRequest struct {
	Parent1 ecs.Entity
	Parent2 ecs.Entity
	Kind    components.Kind
}

// Attack records one successful hit.
type Attack struct {
	Attacker ecs.Entity
	Victim   ecs.Entity
	Damage   float64
	Lethal   bool
}

// Meal records mass eaten from a carcass.
type Meal struct {
	Eater   ecs.Entity
	Carcass ecs.Entity
	Mass    float64
}

// ActionSystem advances each animal's current action by one time unit.
// Only the acting animal and, for attacks, the victim's health are written
// during the query. Mating side effects are deferred to ApplyMatings.
type ActionSystem struct {
	world  *ecs.World
	filter *ecs.Filter6[components.Position, components.Animal, components.Action, components.Mobile, components.EnergyData, components.Health]

	posMap      *ecs.Map[components.Position]
	healthMap   *ecs.Map[components.Health]
	maturityMap *ecs.Map[components.SexualMaturity]
	carcassMap  *ecs.Map[components.Carcass]
	animalMap   *ecs.Map[components.Animal]

	matings []ReproductionRequest
	attacks []Attack
	meals   []Meal
}

// NewActionSystem creates a new action system.
func NewActionSystem(w *ecs.World) *ActionSystem {
	return &ActionSystem{
		world:       w,
		filter:      ecs.NewFilter6[components.Position, components.Animal, components.Action, components.Mobile, components.EnergyData, components.Health](w),
		posMap:      ecs.NewMap[components.Position](w),
		healthMap:   ecs.NewMap[components.Health](w),
		maturityMap: ecs.NewMap[components.SexualMaturity](w),
		carcassMap:  ecs.NewMap[components.Carcass](w),
		animalMap:   ecs.NewMap[components.Animal](w),
	}
}

// Execute runs every animal's action. Attacks and meals of this pass are
// available from Attacks and Meals until the next call.
func (s *ActionSystem) Execute() {
	s.matings = s.matings[:0]
	s.attacks = s.attacks[:0]
	s.meals = s.meals[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, animal, action, mobile, energy, health := query.Get()
		if health.IsDead() {
			continue
		}
		self := query.Entity()

		switch action.Kind {
		case components.ActionDoingNothing:
			mobile.ClearDestination()
			if action.Hours > 0 {
				action.Hours--
			}
		case components.ActionGoingTo:
			if pos.DistanceTo(action.Position) <= arrivalEpsilon {
				mobile.ClearDestination()
				*action = components.DoNothing(0)
			} else {
				mobile.SetDestination(action.Position)
			}
		case components.ActionEating:
			s.eat(self, *pos, animal, action, mobile, energy)
		case components.ActionAttacking:
			s.attack(self, *pos, animal, action, mobile)
		case components.ActionMating:
			s.mate(self, *pos, animal, action, mobile)
		}
	}
}

func (s *ActionSystem) eat(self ecs.Entity, pos components.Position, animal *components.Animal, action *components.Action, mobile *components.Mobile, energy *components.EnergyData) {
	food := action.Target
	if !s.world.Alive(food) || !s.carcassMap.Has(food) || s.carcassMap.Get(food).Mass <= 0 {
		s.giveUp(action, mobile)
		return
	}
	foodPos := *s.posMap.Get(food)
	if pos.DistanceTo(foodPos) > animal.ActionRange() {
		mobile.SetDestination(foodPos)
		return
	}

	mobile.ClearDestination()
	carcass := s.carcassMap.Get(food)
	taken := carcass.TakeMass(math.Min(animal.AttackDamage(), carcass.Mass))
	energy.StoreEnergy(taken * carcass.EnergyPerMassUnit)
	s.meals = append(s.meals, Meal{Eater: self, Carcass: food, Mass: taken})

	if energy.HungerLevel() == components.Satiated {
		*action = components.DoNothing(0)
	}
}

func (s *ActionSystem) attack(self ecs.Entity, pos components.Position, animal *components.Animal, action *components.Action, mobile *components.Mobile) {
	enemy := action.Target
	if !s.world.Alive(enemy) || !s.healthMap.Has(enemy) || s.healthMap.Get(enemy).IsDead() {
		s.giveUp(action, mobile)
		return
	}
	enemyPos := *s.posMap.Get(enemy)
	if pos.DistanceTo(enemyPos) > animal.ActionRange() {
		mobile.SetDestination(enemyPos)
		return
	}

	mobile.ClearDestination()
	victim := s.healthMap.Get(enemy)
	damage := animal.AttackDamage()
	victim.TakeDamage(damage, components.CauseKilled)
	lethal := victim.IsDead()
	s.attacks = append(s.attacks, Attack{Attacker: self, Victim: enemy, Damage: damage, Lethal: lethal})

	if lethal {
		*action = components.DoNothing(0)
	}
}

func (s *ActionSystem) mate(self ecs.Entity, pos components.Position, animal *components.Animal, action *components.Action, mobile *components.Mobile) {
	partner := action.Target
	if !s.world.Alive(partner) || !s.animalMap.Has(partner) || !s.maturityMap.Has(partner) ||
		s.healthMap.Get(partner).IsDead() || !s.maturityMap.Get(partner).IsReadyToReproduce() {
		s.giveUp(action, mobile)
		return
	}
	partnerPos := *s.posMap.Get(partner)
	if pos.DistanceTo(partnerPos) > animal.ActionRange() {
		mobile.SetDestination(partnerPos)
		return
	}

	mobile.ClearDestination()
	s.matings = append(s.matings, ReproductionRequest{Parent1: self, Parent2: partner, Kind: components.KindAnimal})
	*action = components.DoNothing(0)
}

// giveUp drops a vanished or invalid target.
func (s *ActionSystem) giveUp(action *components.Action, mobile *components.Mobile) {
	mobile.ClearDestination()
	*action = components.DoNothing(0)
}

// ApplyMatings resets both partners' cooldowns for every mating collected
// by Execute. A pair is dropped if either side is no longer ready, which
// also removes the mirror request when two animals chose each other.
func (s *ActionSystem) ApplyMatings() []ReproductionRequest {
	requests := make([]ReproductionRequest, 0, len(s.matings))
	for _, m := range s.matings {
		if !ResetCooldowns(s.world, s.maturityMap, m.Parent1, m.Parent2) {
			continue
		}
		requests = append(requests, m)
	}
	s.matings = s.matings[:0]
	return requests
}

// Attacks returns the hits landed by the last Execute.
func (s *ActionSystem) Attacks() []Attack { return s.attacks }

// Meals returns the carcass bites taken by the last Execute.
func (s *ActionSystem) Meals() []Meal { return s.meals }

// ResetCooldowns restarts both parents' reproduction cooldowns if both are
// alive and ready. Reports whether the reset happened.
func ResetCooldowns(w *ecs.World, maturityMap *ecs.Map[components.SexualMaturity], a, b ecs.Entity) bool {
	if a == b || !w.Alive(a) || !w.Alive(b) || !maturityMap.Has(a) || !maturityMap.Has(b) {
		return false
	}
	ma, mb := maturityMap.Get(a), maturityMap.Get(b)
	if !ma.IsReadyToReproduce() || !mb.IsReadyToReproduce() {
		return false
	}
	ma.ResetReproductionCooldown()
	mb.ResetReproductionCooldown()
	return true
}

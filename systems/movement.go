package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
)

// StepToward returns the position after moving at most speed from pos
// toward dest, and whether dest was reached.
func StepToward(pos, dest components.Position, speed float64) (components.Position, bool) {
	dist := pos.DistanceTo(dest)
	if dist <= speed || dist == 0 {
		return dest, true
	}
	t := speed / dist
	return components.Position{
		X: pos.X + (dest.X-pos.X)*t,
		Y: pos.Y + (dest.Y-pos.Y)*t,
	}, false
}

type tileMove struct {
	entity   ecs.Entity
	from, to components.Position
}

// MovementSystem moves animals toward their destination in a straight line.
type MovementSystem struct {
	filter *ecs.Filter5[components.Position, components.Mobile, components.Animal, components.Action, components.Health]
	occ    *Occupancy
	moves  []tileMove
}

// NewMovementSystem creates a new movement system.
func NewMovementSystem(w *ecs.World, occ *Occupancy) *MovementSystem {
	return &MovementSystem{
		filter: ecs.NewFilter5[components.Position, components.Mobile, components.Animal, components.Action, components.Health](w),
		occ:    occ,
	}
}

// Update moves every animal with a destination by min(distance, speed).
// A step onto terrain animals cannot use is refused: the destination is
// cleared and the action reset so the animal decides again. Tile
// membership is updated after the query.
func (s *MovementSystem) Update() {
	s.moves = s.moves[:0]
	layout := s.occ.Layout()

	query := s.filter.Query()
	for query.Next() {
		pos, mobile, animal, action, health := query.Get()
		if !mobile.HasDestination || health.IsDead() {
			continue
		}

		next, arrived := StepToward(*pos, mobile.Destination, animal.Speed())
		if !layout.KindCanLiveAt(components.KindAnimal, next) {
			mobile.ClearDestination()
			*action = components.DoNothing(0)
			continue
		}

		s.moves = append(s.moves, tileMove{entity: query.Entity(), from: *pos, to: next})
		*pos = next
		if arrived {
			mobile.ClearDestination()
		}
	}

	for _, m := range s.moves {
		s.occ.Move(components.OccupantAnimal, m.entity, m.from, m.to)
	}
}

package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
)

// Decayed records a carcass that rotted away.
type Decayed struct {
	Entity ecs.Entity
	Kind   components.Kind
	Pos    components.Position
}

// CarcassSystem rots carcasses and despawns the ones that are gone.
type CarcassSystem struct {
	world    *ecs.World
	filter   *ecs.Filter2[components.Position, components.Carcass]
	occ      *Occupancy
	fraction float64

	gone []Decayed
}

// NewCarcassSystem creates a carcass system losing fraction of the
// starting mass per time unit.
func NewCarcassSystem(w *ecs.World, occ *Occupancy, fraction float64) *CarcassSystem {
	return &CarcassSystem{
		world:    w,
		filter:   ecs.NewFilter2[components.Position, components.Carcass](w),
		occ:      occ,
		fraction: fraction,
	}
}

// Update decays every carcass. Carcasses at zero mass are removed from
// their tile and despawned after the query.
func (s *CarcassSystem) Update() []Decayed {
	s.gone = s.gone[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, carcass := query.Get()
		if carcass.Decay(s.fraction) {
			s.gone = append(s.gone, Decayed{Entity: query.Entity(), Kind: carcass.Kind, Pos: *pos})
		}
	}

	for _, d := range s.gone {
		s.occ.Remove(d.Kind.CarcassOccupant(), d.Entity, d.Pos)
		s.world.RemoveEntity(d.Entity)
		slog.Debug("carcass_despawned", "entity", d.Entity.ID(), "kind", d.Kind.String())
	}
	return s.gone
}

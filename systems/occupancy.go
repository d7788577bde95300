package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
)

// Occupancy keeps the per-tile occupant lists in step with entity positions.
// Violations (double add, missing remove, unknown position) are logged and
// ignored: the lists are a cache over Position, not the source of truth.
type Occupancy struct {
	layout  *TileLayout
	objects *ecs.Map[components.ObjectsInTile]
}

// NewOccupancy creates an occupancy index over layout's tiles.
func NewOccupancy(w *ecs.World, layout *TileLayout) *Occupancy {
	return &Occupancy{
		layout:  layout,
		objects: ecs.NewMap[components.ObjectsInTile](w),
	}
}

// Layout returns the underlying tile layout.
func (o *Occupancy) Layout() *TileLayout { return o.layout }

// Objects returns the occupant lists of a tile entity.
func (o *Occupancy) Objects(tile ecs.Entity) *components.ObjectsInTile {
	return o.objects.Get(tile)
}

// At returns the occupant lists of the tile containing pos, or nil when out of bounds.
func (o *Occupancy) At(pos components.Position) *components.ObjectsInTile {
	tile, err := o.layout.TileEntityForPosition(pos)
	if err != nil {
		return nil
	}
	return o.objects.Get(tile)
}

// Add registers e under kind in the tile containing pos.
func (o *Occupancy) Add(kind components.OccupantKind, e ecs.Entity, pos components.Position) bool {
	objs := o.At(pos)
	if objs == nil {
		slog.Warn("tile_add_out_of_bounds", "entity", e.ID(), "kind", kind.String(), "x", pos.X, "y", pos.Y)
		return false
	}
	if !objs.Add(kind, e) {
		slog.Warn("tile_add_duplicate", "entity", e.ID(), "kind", kind.String(), "x", pos.X, "y", pos.Y)
		return false
	}
	return true
}

// Remove unregisters e from kind in the tile containing pos.
func (o *Occupancy) Remove(kind components.OccupantKind, e ecs.Entity, pos components.Position) bool {
	objs := o.At(pos)
	if objs == nil || !objs.Remove(kind, e) {
		slog.Warn("tile_remove_missing", "entity", e.ID(), "kind", kind.String(), "x", pos.X, "y", pos.Y)
		return false
	}
	return true
}

// RemoveAny unregisters e from whichever list of pos's tile holds it.
func (o *Occupancy) RemoveAny(e ecs.Entity, pos components.Position) (components.OccupantKind, bool) {
	objs := o.At(pos)
	if objs == nil {
		slog.Warn("tile_remove_missing", "entity", e.ID(), "x", pos.X, "y", pos.Y)
		return 0, false
	}
	kind, ok := objs.RemoveAny(e)
	if !ok {
		slog.Warn("tile_remove_missing", "entity", e.ID(), "x", pos.X, "y", pos.Y)
	}
	return kind, ok
}

// Move re-registers e when moving from one tile to another.
// Moves within a tile are a no-op.
func (o *Occupancy) Move(kind components.OccupantKind, e ecs.Entity, from, to components.Position) {
	fromTile, errFrom := o.layout.TileEntityForPosition(from)
	toTile, errTo := o.layout.TileEntityForPosition(to)
	if errFrom == nil && errTo == nil && fromTile == toTile {
		return
	}
	o.Remove(kind, e, from)
	o.Add(kind, e, to)
}

// InRange returns the entities of kind registered in the tiles sampled
// around center. Entities beyond radius may be included; callers check
// exact distances.
func (o *Occupancy) InRange(kind components.OccupantKind, center components.Position, radius float64) []ecs.Entity {
	var result []ecs.Entity
	for _, tile := range o.layout.TileEntitiesInRange(center, radius) {
		result = append(result, o.objects.Get(tile).List(kind)...)
	}
	return result
}

// Count returns the number of entities registered under kind across all tiles.
func (o *Occupancy) Count(kind components.OccupantKind) int {
	n := 0
	for _, tile := range o.layout.Tiles() {
		n += len(o.objects.Get(tile).List(kind))
	}
	return n
}

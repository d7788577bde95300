package components

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// DistanceTo returns the euclidean distance between two positions.
func (p Position) DistanceTo(o Position) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Mobile holds the movement destination resolved each tick by the movement system.
type Mobile struct {
	Destination    Position `inspect:"skip"`
	HasDestination bool     `inspect:"bool"`
}

// SetDestination points the mover at p.
func (m *Mobile) SetDestination(p Position) {
	m.Destination = p
	m.HasDestination = true
}

// ClearDestination stops the mover.
func (m *Mobile) ClearDestination() {
	m.HasDestination = false
}

// Tile identifies one cell of the uniform grid.
type Tile struct {
	Row, Col int
}

// Biome is the read-only terrain classification of a tile.
type Biome uint8

const (
	BiomeWater Biome = iota
	BiomeSand
	BiomeGrass
	BiomeForest
	BiomeRock
)

// PlantsCanLiveHere reports whether plants may spawn on the biome.
func (b Biome) PlantsCanLiveHere() bool {
	return b == BiomeGrass || b == BiomeForest
}

// AnimalsCanLiveHere reports whether animals may walk or spawn on the biome.
func (b Biome) AnimalsCanLiveHere() bool {
	return b != BiomeWater
}

// OccupantKind selects one of the four occupant lists of a tile.
type OccupantKind uint8

const (
	OccupantPlant OccupantKind = iota
	OccupantAnimal
	OccupantPlantCarcass
	OccupantAnimalCarcass
	occupantKindCount
)

// ObjectsInTile holds the entities currently registered in a tile.
// Each entity belongs to at most one list.
type ObjectsInTile struct {
	Plants          []ecs.Entity
	Animals         []ecs.Entity
	PlantCarcasses  []ecs.Entity
	AnimalCarcasses []ecs.Entity
}

// List returns the list for kind.
func (o *ObjectsInTile) List(kind OccupantKind) []ecs.Entity {
	return *o.list(kind)
}

// Contains reports whether e is registered under kind.
func (o *ObjectsInTile) Contains(kind OccupantKind, e ecs.Entity) bool {
	return indexOf(*o.list(kind), e) >= 0
}

// Add registers e under kind. Returns false without change if already present.
func (o *ObjectsInTile) Add(kind OccupantKind, e ecs.Entity) bool {
	l := o.list(kind)
	if indexOf(*l, e) >= 0 {
		return false
	}
	*l = append(*l, e)
	return true
}

// Remove unregisters e from kind. Returns false without change if absent.
func (o *ObjectsInTile) Remove(kind OccupantKind, e ecs.Entity) bool {
	l := o.list(kind)
	i := indexOf(*l, e)
	if i < 0 {
		return false
	}
	*l = append((*l)[:i], (*l)[i+1:]...)
	return true
}

// RemoveAny removes e from the first list that contains it.
func (o *ObjectsInTile) RemoveAny(e ecs.Entity) (OccupantKind, bool) {
	for k := OccupantKind(0); k < occupantKindCount; k++ {
		if o.Remove(k, e) {
			return k, true
		}
	}
	return 0, false
}

// Len returns the total number of registered entities.
func (o *ObjectsInTile) Len() int {
	return len(o.Plants) + len(o.Animals) + len(o.PlantCarcasses) + len(o.AnimalCarcasses)
}

func (o *ObjectsInTile) list(kind OccupantKind) *[]ecs.Entity {
	switch kind {
	case OccupantPlant:
		return &o.Plants
	case OccupantAnimal:
		return &o.Animals
	case OccupantPlantCarcass:
		return &o.PlantCarcasses
	case OccupantAnimalCarcass:
		return &o.AnimalCarcasses
	default:
		panic("components: unknown occupant kind")
	}
}

func indexOf(list []ecs.Entity, e ecs.Entity) int {
	for i, x := range list {
		if x == e {
			return i
		}
	}
	return -1
}

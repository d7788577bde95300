package systems

import (
	"errors"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
)

func TestTileEntityForPosition(t *testing.T) {
	tw := newTestWorld(4, 5, 10, allGrass)
	tiles := ecs.NewMap[components.Tile](tw.w)

	tests := []struct {
		name     string
		pos      components.Position
		row, col int
	}{
		{"origin", components.Position{X: 0, Y: 0}, 0, 0},
		{"interior", components.Position{X: 23, Y: 31}, 3, 2},
		{"just below border", components.Position{X: 49.9, Y: 0}, 0, 4},
		{"far corner clamps", components.Position{X: 50, Y: 40}, 3, 4},
		{"tile boundary", components.Position{X: 10, Y: 10}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := tw.layout.TileEntityForPosition(tt.pos)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tile := tiles.Get(e)
			if tile.Row != tt.row || tile.Col != tt.col {
				t.Errorf("expected (%d,%d), got (%d,%d)", tt.row, tt.col, tile.Row, tile.Col)
			}
		})
	}
}

func TestTileEntityForPosition_OutOfBounds(t *testing.T) {
	tw := newTestWorld(4, 5, 10, allGrass)
	for _, pos := range []components.Position{{X: -0.1, Y: 0}, {X: 0, Y: -1}, {X: 50.1, Y: 5}, {X: 5, Y: 40.5}} {
		if _, err := tw.layout.TileEntityForPosition(pos); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%+v: expected ErrOutOfBounds, got %v", pos, err)
		}
	}
}

func TestTileEntitiesInRange(t *testing.T) {
	tw := newTestWorld(10, 10, 10, allGrass)

	got := tw.layout.TileEntitiesInRange(components.Position{X: 25, Y: 25}, 10)
	if len(got) != 9 {
		t.Errorf("expected 3x3 tiles around interior point, got %d", len(got))
	}

	corner := tw.layout.TileEntitiesInRange(components.Position{X: 0, Y: 0}, 10)
	if len(corner) != 4 {
		t.Errorf("expected clamped samples to cover 2x2 tiles, got %d", len(corner))
	}

	for _, result := range [][]ecs.Entity{got, corner} {
		seen := make(map[ecs.Entity]bool)
		for _, e := range result {
			if seen[e] {
				t.Fatalf("duplicate tile %v in a single query", e)
			}
			seen[e] = true
		}
	}
}

func TestTileEntitiesInRange_IncludesCenterTile(t *testing.T) {
	tw := newTestWorld(10, 10, 10, allGrass)
	center := components.Position{X: 55, Y: 55}
	own, _ := tw.layout.TileEntityForPosition(center)
	if !contains(tw.layout.TileEntitiesInRange(center, 0), own) {
		t.Error("zero-radius query must return the center tile")
	}
}

func TestRandomPositionInRing(t *testing.T) {
	tw := newTestWorld(20, 20, 10, allGrass)
	rng := newTestRNG(7)
	center := components.Position{X: 100, Y: 100}

	for i := 0; i < 1000; i++ {
		p := tw.layout.RandomPositionInRing(center, 30, 10, rng)
		d := center.DistanceTo(p)
		if d < 10-1e-9 || d > 30+1e-9 {
			t.Fatalf("sample %d at distance %f outside ring [10,30]", i, d)
		}
	}
}

func TestRandomPositionInRing_StaysInsideMap(t *testing.T) {
	tw := newTestWorld(5, 5, 10, allGrass)
	rng := newTestRNG(8)
	for i := 0; i < 1000; i++ {
		p := tw.layout.RandomPositionInRing(components.Position{X: 1, Y: 49}, 100, 50, rng)
		if p.X < 5 || p.X > 45 || p.Y < 5 || p.Y > 45 {
			t.Fatalf("sample %+v not nudged half a tile inside the map", p)
		}
	}
}

func TestKindCanLiveAt(t *testing.T) {
	biomes := func(_, col int) components.Biome {
		switch col {
		case 0:
			return components.BiomeWater
		case 1:
			return components.BiomeSand
		default:
			return components.BiomeForest
		}
	}
	tw := newTestWorld(1, 3, 10, biomes)

	water := components.Position{X: 5, Y: 5}
	sand := components.Position{X: 15, Y: 5}
	forest := components.Position{X: 25, Y: 5}

	if tw.layout.KindCanLiveAt(components.KindAnimal, water) || tw.layout.KindCanLiveAt(components.KindPlant, water) {
		t.Error("nothing lives on water")
	}
	if !tw.layout.KindCanLiveAt(components.KindAnimal, sand) || tw.layout.KindCanLiveAt(components.KindPlant, sand) {
		t.Error("sand allows animals only")
	}
	if !tw.layout.KindCanLiveAt(components.KindPlant, forest) {
		t.Error("plants grow in forests")
	}
	if tw.layout.KindCanLiveAt(components.KindAnimal, components.Position{X: -1, Y: 0}) {
		t.Error("out of bounds is never habitable")
	}
}

func TestOccupancy_MoveAndExclusivity(t *testing.T) {
	tw := newTestWorld(2, 2, 10, allGrass)
	a := tw.spawnAnimal(components.Position{X: 5, Y: 5}, defaultAnimal())

	if tw.occ.Add(components.OccupantAnimal, a, components.Position{X: 5, Y: 5}) {
		t.Error("duplicate add should be refused")
	}

	tw.occ.Move(components.OccupantAnimal, a, components.Position{X: 5, Y: 5}, components.Position{X: 15, Y: 5})
	if tw.occ.At(components.Position{X: 5, Y: 5}).Contains(components.OccupantAnimal, a) {
		t.Error("animal still registered in old tile")
	}
	if !tw.occ.At(components.Position{X: 15, Y: 5}).Contains(components.OccupantAnimal, a) {
		t.Error("animal not registered in new tile")
	}

	total := 0
	for _, tile := range tw.layout.Tiles() {
		objs := tw.occ.Objects(tile)
		for k := components.OccupantPlant; k <= components.OccupantAnimalCarcass; k++ {
			if objs.Contains(k, a) {
				total++
			}
		}
	}
	if total != 1 {
		t.Errorf("entity must appear in exactly one list, found %d", total)
	}

	if tw.occ.Remove(components.OccupantPlant, a, components.Position{X: 15, Y: 5}) {
		t.Error("removing from the wrong list should be refused")
	}
	if kind, ok := tw.occ.RemoveAny(a, components.Position{X: 15, Y: 5}); !ok || kind != components.OccupantAnimal {
		t.Errorf("RemoveAny: got %v %v", kind, ok)
	}
	if tw.occ.Count(components.OccupantAnimal) != 0 {
		t.Error("expected empty index")
	}
}

func contains(list []ecs.Entity, e ecs.Entity) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}

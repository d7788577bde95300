// Package systems provides ECS systems for the simulation.
package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
)

// ErrOutOfBounds is returned for positions outside the tile layout.
var ErrOutOfBounds = errors.New("position out of bounds")

// TileLayout maps world positions to tile entities on a fixed rows x cols grid.
// One entity per cell carries Tile, ObjectsInTile and Biome.
type TileLayout struct {
	Rows     int
	Cols     int
	TileSize float64

	width  float64
	height float64
	tiles  []ecs.Entity // row-major
	biomes *ecs.Map[components.Biome]
}

// NewTileLayout spawns the tile entities. biomeAt classifies each cell.
func NewTileLayout(w *ecs.World, rows, cols int, tileSize float64, biomeAt func(row, col int) components.Biome) *TileLayout {
	if rows <= 0 || cols <= 0 || tileSize <= 0 {
		panic(fmt.Sprintf("systems: invalid tile layout %dx%d size %v", rows, cols, tileSize))
	}

	mapper := ecs.NewMap3[components.Tile, components.ObjectsInTile, components.Biome](w)
	l := &TileLayout{
		Rows:     rows,
		Cols:     cols,
		TileSize: tileSize,
		width:    float64(cols) * tileSize,
		height:   float64(rows) * tileSize,
		tiles:    make([]ecs.Entity, 0, rows*cols),
		biomes:   ecs.NewMap[components.Biome](w),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			biome := components.BiomeGrass
			if biomeAt != nil {
				biome = biomeAt(row, col)
			}
			l.tiles = append(l.tiles, mapper.NewEntity(
				&components.Tile{Row: row, Col: col},
				&components.ObjectsInTile{},
				&biome,
			))
		}
	}
	return l
}

// Width returns the world width.
func (l *TileLayout) Width() float64 { return l.width }

// Height returns the world height.
func (l *TileLayout) Height() float64 { return l.height }

// Tiles returns all tile entities in row-major order.
func (l *TileLayout) Tiles() []ecs.Entity { return l.tiles }

// TileAt returns the tile entity for a row and column.
func (l *TileLayout) TileAt(row, col int) ecs.Entity {
	return l.tiles[row*l.Cols+col]
}

// Contains reports whether pos lies inside [0,width]x[0,height].
func (l *TileLayout) Contains(pos components.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X <= l.width && pos.Y <= l.height
}

// TileEntityForPosition returns the tile containing pos.
// Positions on the far border belong to the last row or column.
func (l *TileLayout) TileEntityForPosition(pos components.Position) (ecs.Entity, error) {
	idx, err := l.index(pos)
	if err != nil {
		return ecs.Entity{}, err
	}
	return l.tiles[idx], nil
}

// BiomeAt returns the biome of the tile containing pos.
func (l *TileLayout) BiomeAt(pos components.Position) (components.Biome, error) {
	tile, err := l.TileEntityForPosition(pos)
	if err != nil {
		return components.BiomeWater, err
	}
	return *l.biomes.Get(tile), nil
}

// KindCanLiveAt reports whether organisms of kind may occupy pos.
// Out of bounds positions are never habitable.
func (l *TileLayout) KindCanLiveAt(kind components.Kind, pos components.Position) bool {
	biome, err := l.BiomeAt(pos)
	if err != nil {
		return false
	}
	if kind == components.KindAnimal {
		return biome.AnimalsCanLiveHere()
	}
	return biome.PlantsCanLiveHere()
}

// TileEntitiesInRange returns the tiles sampled from the square of side
// 2*radius around center. Sample points advance in tile-size steps and always
// include the far edge; each is clamped to the map. The result is
// deduplicated but approximate: callers filter by exact distance.
func (l *TileLayout) TileEntitiesInRange(center components.Position, radius float64) []ecs.Entity {
	if radius < 0 {
		radius = 0
	}
	xs := l.samples(center.X-radius, center.X+radius, l.width)
	ys := l.samples(center.Y-radius, center.Y+radius, l.height)

	seen := make(map[int]struct{}, len(xs)*len(ys))
	result := make([]ecs.Entity, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			idx, err := l.index(components.Position{X: x, Y: y})
			if err != nil {
				continue
			}
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			result = append(result, l.tiles[idx])
		}
	}
	return result
}

// samples returns sample coordinates from lo to hi in tile steps, clamped to [0, limit].
func (l *TileLayout) samples(lo, hi, limit float64) []float64 {
	var out []float64
	for v := lo; v < hi; v += l.TileSize {
		out = append(out, clamp(v, 0, limit))
	}
	return append(out, clamp(hi, 0, limit))
}

// RandomPositionInRing samples a uniform angle and a uniform radius in
// [inner, outer). The density is higher near the center than an
// area-uniform sample. Results are kept half a tile away from the border.
func (l *TileLayout) RandomPositionInRing(center components.Position, outer, inner float64, rng *rand.Rand) components.Position {
	if outer < inner {
		outer, inner = inner, outer
	}
	angle := rng.Float64() * 2 * math.Pi
	r := inner + rng.Float64()*(outer-inner)

	half := l.TileSize / 2
	return components.Position{
		X: clamp(center.X+r*math.Cos(angle), half, l.width-half),
		Y: clamp(center.Y+r*math.Sin(angle), half, l.height-half),
	}
}

// index returns the row-major tile index for pos.
func (l *TileLayout) index(pos components.Position) (int, error) {
	if !l.Contains(pos) || math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
		return 0, fmt.Errorf("tile for (%.2f, %.2f) in %.0fx%.0f map: %w", pos.X, pos.Y, l.width, l.height, ErrOutOfBounds)
	}
	col := int(pos.X / l.TileSize)
	row := int(pos.Y / l.TileSize)
	if col >= l.Cols {
		col = l.Cols - 1
	}
	if row >= l.Rows {
		row = l.Rows - 1
	}
	return row*l.Cols + col, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

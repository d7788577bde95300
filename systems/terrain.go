package systems

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
)

// Perlin parameters for the moisture field.
const (
	moistureAlpha   = 1.8
	moistureBeta    = 2
	moistureOctaves = 3
)

// Terrain classifies tiles into biomes from two noise fields.
// Elevation decides water and rock, moisture splits the rest into sand,
// grass and forest.
type Terrain struct {
	cfg       config.TerrainConfig
	elevation opensimplex.Noise
	moisture  *perlin.Perlin
}

// NewTerrain creates a terrain classifier for seed.
func NewTerrain(cfg config.TerrainConfig, seed int64) *Terrain {
	return &Terrain{
		cfg:       cfg,
		elevation: opensimplex.NewNormalized(seed),
		moisture:  perlin.NewPerlin(moistureAlpha, moistureBeta, moistureOctaves, seed+1),
	}
}

// Elevation returns the normalized elevation in [0,1] of a tile.
func (t *Terrain) Elevation(row, col int) float64 {
	return t.elevation.Eval2(float64(col)*t.cfg.ElevationScale, float64(row)*t.cfg.ElevationScale)
}

// Moisture returns the normalized moisture in [0,1] of a tile.
func (t *Terrain) Moisture(row, col int) float64 {
	// Noise2D is roughly in [-1,1]
	m := (t.moisture.Noise2D(float64(col)*t.cfg.MoistureScale, float64(row)*t.cfg.MoistureScale) + 1) / 2
	return clamp(m, 0, 1)
}

// BiomeAt classifies a tile. Its signature matches NewTileLayout's biomeAt.
func (t *Terrain) BiomeAt(row, col int) components.Biome {
	e := t.Elevation(row, col)
	switch {
	case e < t.cfg.WaterLevel:
		return components.BiomeWater
	case e > t.cfg.RockLevel:
		return components.BiomeRock
	}

	m := t.Moisture(row, col)
	switch {
	case m < t.cfg.SandMoisture:
		return components.BiomeSand
	case m > t.cfg.ForestMoisture:
		return components.BiomeForest
	default:
		return components.BiomeGrass
	}
}

// Humidity returns the plant energy multiplier.
func (t *Terrain) Humidity() float64 {
	return t.cfg.Humidity
}

package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
)

// PlantEnergyGain returns the energy a plant produces this time unit:
// sun energy * photosynthesis * size^2 * humidity.
func PlantEnergyGain(sunEnergy, humidity float64, energy *components.EnergyData, plant *components.Plant) float64 {
	size := energy.Size()
	return sunEnergy * plant.PhotosynthesisGene.Phenotype() * size * size * humidity
}

// PhotosynthesisSystem feeds plants from the sun.
type PhotosynthesisSystem struct {
	filter   ecs.Filter3[components.EnergyData, components.Health, components.Plant]
	sun      *Sun
	humidity float64
}

// NewPhotosynthesisSystem creates a new photosynthesis system.
func NewPhotosynthesisSystem(w *ecs.World, sun *Sun, humidity float64) *PhotosynthesisSystem {
	return &PhotosynthesisSystem{
		filter:   *ecs.NewFilter3[components.EnergyData, components.Health, components.Plant](w),
		sun:      sun,
		humidity: humidity,
	}
}

// Update stores this time unit's production in every living plant.
// Returns the total energy produced.
func (s *PhotosynthesisSystem) Update() float64 {
	sunEnergy := s.sun.EnergyForPlant()
	var total float64

	query := s.filter.Query()
	for query.Next() {
		energy, health, plant := query.Get()
		if health.IsDead() {
			continue
		}
		gain := PlantEnergyGain(sunEnergy, s.humidity, energy, plant)
		energy.StoreEnergy(gain)
		total += gain
	}
	return total
}

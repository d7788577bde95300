package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`
	Day             int   `csv:"day"`

	// Population counts at window end
	Plants          int `csv:"plants"`
	Herbivores      int `csv:"herbivores"`
	Carnivores      int `csv:"carnivores"`
	Omnivores       int `csv:"omnivores"`
	PlantCarcasses  int `csv:"plant_carcasses"`
	AnimalCarcasses int `csv:"animal_carcasses"`

	// Events during window
	PlantBirths  int `csv:"plant_births"`
	AnimalBirths int `csv:"animal_births"`
	PlantDeaths  int `csv:"plant_deaths"`
	AnimalDeaths int `csv:"animal_deaths"`

	Starved          int `csv:"starved"`
	Killed           int `csv:"killed"`
	ReproductionDied int `csv:"reproduction_died"`

	Attacks   int     `csv:"attacks"`
	Kills     int     `csv:"kills"`
	KillRate  float64 `csv:"kill_rate"`
	Matings   int     `csv:"matings"`
	MassEaten float64 `csv:"mass_eaten"`
	Decayed   int     `csv:"decayed"`

	// Distributions sampled at window end (flattened by ToCSV)
	PlantMass    Distribution `csv:"-"`
	AnimalMass   Distribution `csv:"-"`
	AnimalEnergy Distribution `csv:"-"`

	// Lifespans of organisms that died during the window
	Lifespan Distribution `csv:"-"`

	// Energy pools
	TotalOrganismEnergy float64 `csv:"total_organism_energy"`
	TotalCarcassEnergy  float64 `csv:"total_carcass_energy"`
}

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// ComputeDistribution calculates mean, std, and percentiles. Empty input
// yields the zero Distribution.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
	if len(sorted) > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// Percentile returns the p-th quantile of a sorted slice using the
// empirical CDF. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(min(max(p, 0), 1), stat.Empirical, sorted, nil)
}

// LogValue implements slog.LogValuer.
func (d Distribution) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("mean", d.Mean),
		slog.Float64("std", d.Std),
		slog.Float64("p10", d.P10),
		slog.Float64("p50", d.P50),
		slog.Float64("p90", d.P90),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("day", s.Day),
		slog.Int("plants", s.Plants),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("omnivores", s.Omnivores),
		slog.Int("plant_carcasses", s.PlantCarcasses),
		slog.Int("animal_carcasses", s.AnimalCarcasses),
		slog.Int("plant_births", s.PlantBirths),
		slog.Int("animal_births", s.AnimalBirths),
		slog.Int("plant_deaths", s.PlantDeaths),
		slog.Int("animal_deaths", s.AnimalDeaths),
		slog.Int("starved", s.Starved),
		slog.Int("killed", s.Killed),
		slog.Int("reproduction_died", s.ReproductionDied),
		slog.Int("attacks", s.Attacks),
		slog.Int("kills", s.Kills),
		slog.Float64("kill_rate", s.KillRate),
		slog.Int("matings", s.Matings),
		slog.Float64("mass_eaten", s.MassEaten),
		slog.Int("decayed", s.Decayed),
		slog.Any("plant_mass", s.PlantMass),
		slog.Any("animal_mass", s.AnimalMass),
		slog.Any("animal_energy", s.AnimalEnergy),
		slog.Any("lifespan", s.Lifespan),
		slog.Float64("total_organism_energy", s.TotalOrganismEnergy),
		slog.Float64("total_carcass_energy", s.TotalCarcassEnergy),
	)
}

// Animals returns the live animal count.
func (s WindowStats) Animals() int {
	return s.Herbivores + s.Carnivores + s.Omnivores
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

// WindowStatsCSV is a flat struct for CSV export of window stats.
type WindowStatsCSV struct {
	WindowStats

	PlantMassMean    float64 `csv:"plant_mass_mean"`
	PlantMassP50     float64 `csv:"plant_mass_p50"`
	AnimalMassMean   float64 `csv:"animal_mass_mean"`
	AnimalMassP50    float64 `csv:"animal_mass_p50"`
	AnimalEnergyMean float64 `csv:"animal_energy_mean"`
	AnimalEnergyStd  float64 `csv:"animal_energy_std"`
	AnimalEnergyP10  float64 `csv:"animal_energy_p10"`
	AnimalEnergyP50  float64 `csv:"animal_energy_p50"`
	AnimalEnergyP90  float64 `csv:"animal_energy_p90"`
	LifespanMean     float64 `csv:"lifespan_mean"`
	LifespanP90      float64 `csv:"lifespan_p90"`
}

// ToCSV converts WindowStats to a flat CSV-friendly struct.
func (s WindowStats) ToCSV() WindowStatsCSV {
	return WindowStatsCSV{
		WindowStats:      s,
		PlantMassMean:    s.PlantMass.Mean,
		PlantMassP50:     s.PlantMass.P50,
		AnimalMassMean:   s.AnimalMass.Mean,
		AnimalMassP50:    s.AnimalMass.P50,
		AnimalEnergyMean: s.AnimalEnergy.Mean,
		AnimalEnergyStd:  s.AnimalEnergy.Std,
		AnimalEnergyP10:  s.AnimalEnergy.P10,
		AnimalEnergyP50:  s.AnimalEnergy.P50,
		AnimalEnergyP90:  s.AnimalEnergy.P90,
		LifespanMean:     s.Lifespan.Mean,
		LifespanP90:      s.Lifespan.P90,
	}
}

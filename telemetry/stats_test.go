package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
		{"clamped", []float64{1, 2, 3}, 1.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", d.Mean)
	}
	if math.Abs(d.Std-0.3028) > 0.001 {
		t.Errorf("std = %v, want ~0.3028", d.Std)
	}
	if d.P10 > d.P50 || d.P50 > d.P90 {
		t.Errorf("percentiles out of order: %+v", d)
	}
	if values[0] != 1.0 {
		t.Error("input must not be reordered")
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty input should give zero distribution, got %+v", d)
	}
	if d := ComputeDistribution([]float64{4}); d.Std != 0 || d.Mean != 4 {
		t.Errorf("single value should have zero std, got %+v", d)
	}
}

func TestWindowStats_ToCSV(t *testing.T) {
	s := WindowStats{
		WindowEndTick: 240,
		Herbivores:    3,
		Carnivores:    2,
		AnimalEnergy:  Distribution{Mean: 12, P90: 30},
		Lifespan:      Distribution{Mean: 100},
	}
	rec := s.ToCSV()
	if rec.AnimalEnergyMean != 12 || rec.AnimalEnergyP90 != 30 || rec.LifespanMean != 100 {
		t.Errorf("distribution fields not flattened: %+v", rec)
	}
	if rec.WindowEndTick != 240 || s.Animals() != 5 {
		t.Error("embedded window stats lost")
	}
}

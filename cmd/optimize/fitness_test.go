package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/telemetry"
)

func TestParamVector_NormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: round trip %f != %f", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestParamVector_ApplyAndExtract(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()

	values := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		values[i] = spec.Max + 1 // out of range, must clamp
	}
	pv.ApplyToConfig(cfg, values)

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Max {
			t.Errorf("%s: expected clamp to %f, got %f", spec.Name, spec.Max, got[i])
		}
	}
	if cfg.Population.HerbivoreShare+cfg.Population.CarnivoreShare > 1+1e-12 {
		t.Errorf("diet shares exceed 1: %f + %f", cfg.Population.HerbivoreShare, cfg.Population.CarnivoreShare)
	}
}

func TestComputeQuality(t *testing.T) {
	if q := computeQuality(nil); q != 0 {
		t.Errorf("no windows should score 0, got %f", q)
	}

	steady := make([]telemetry.WindowStats, 8)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Plants: 99, Herbivores: 20, Attacks: 10, Kills: 3, KillRate: 0.3}
	}
	q := computeQuality(steady)
	if math.Abs(q-1) > 1e-9 {
		t.Errorf("steady ecosystem at target ratios should score 1, got %f", q)
	}

	collapsed := make([]telemetry.WindowStats, 8)
	for i := range collapsed {
		collapsed[i] = telemetry.WindowStats{Plants: 200, Herbivores: 1}
	}
	if q := computeQuality(collapsed); q != 0 {
		t.Errorf("windows below min population should score 0, got %f", q)
	}
}

func TestComputeFitness_SurvivalDominates(t *testing.T) {
	short := computeFitness(&runResult{survivalTicks: 100})
	long := computeFitness(&runResult{survivalTicks: 1000})
	if long >= short {
		t.Errorf("longer survival should have lower fitness: %f vs %f", long, short)
	}
}

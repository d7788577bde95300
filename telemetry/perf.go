package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase identifies one part of a simulation step.
type Phase uint8

// Step phases in execution order.
const (
	PhaseSun Phase = iota
	PhaseLifecycle
	PhasePhotosynthesis
	PhaseSurvival
	PhaseDecision
	PhaseAction
	PhaseMovement
	PhasePollination
	PhaseReproduction
	PhaseDeaths
	PhaseDecay
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"sun", "lifecycle", "photosynthesis", "survival", "decision", "action",
	"movement", "pollination", "reproduction", "deaths", "decay", "telemetry",
}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

const noPhase = numPhases

// phaseTimes holds one duration per phase.
type phaseTimes [numPhases]time.Duration

// PerfCollector times step phases over a rolling window of ticks.
type PerfCollector struct {
	ticks  []time.Duration
	phases []phaseTimes
	next   int
	filled int

	current    phaseTimes
	tickStart  time.Time
	phaseStart time.Time
	active     Phase
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	windowSize = max(windowSize, 1)
	return &PerfCollector{
		ticks:  make([]time.Duration, windowSize),
		phases: make([]phaseTimes, windowSize),
		active: noPhase,
	}
}

// StartTick begins timing a new step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = phaseTimes{}
	p.active = noPhase
}

// StartPhase closes the running phase and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.active = phase
}

// EndTick closes the running phase and records the step.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	p.ticks[p.next] = now.Sub(p.tickStart)
	p.phases[p.next] = p.current
	p.next = (p.next + 1) % len(p.ticks)
	p.filled = min(p.filled+1, len(p.ticks))
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active < numPhases {
		p.current[p.active] += now.Sub(p.phaseStart)
	}
	p.active = noPhase
}

// PerfStats holds aggregated step timings.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration
	P99Tick time.Duration

	PhaseAvg phaseTimes
	PhasePct [numPhases]float64 // share of the average tick

	TicksPerSecond float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.filled == 0 {
		return s
	}

	samples := make([]float64, p.filled)
	for i := 0; i < p.filled; i++ {
		samples[i] = float64(p.ticks[i])
		for ph, d := range p.phases[i] {
			s.PhaseAvg[ph] += d
		}
	}
	slices.Sort(samples)

	n := time.Duration(p.filled)
	s.AvgTick = time.Duration(stat.Mean(samples, nil))
	s.MinTick = time.Duration(samples[0])
	s.MaxTick = time.Duration(samples[len(samples)-1])
	s.P99Tick = time.Duration(stat.Quantile(0.99, stat.Empirical, samples, nil))

	for ph := range s.PhaseAvg {
		s.PhaseAvg[ph] /= n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats logs the window with phases above 0.1% of a tick.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"p99_tick_us", s.P99Tick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd         int32   `csv:"window_end"`
	AvgTickUS         int64   `csv:"avg_tick_us"`
	MinTickUS         int64   `csv:"min_tick_us"`
	MaxTickUS         int64   `csv:"max_tick_us"`
	P99TickUS         int64   `csv:"p99_tick_us"`
	TicksPerSec       float64 `csv:"ticks_per_sec"`
	SunPct            float64 `csv:"sun_pct"`
	LifecyclePct      float64 `csv:"lifecycle_pct"`
	PhotosynthesisPct float64 `csv:"photosynthesis_pct"`
	SurvivalPct       float64 `csv:"survival_pct"`
	DecisionPct       float64 `csv:"decision_pct"`
	ActionPct         float64 `csv:"action_pct"`
	MovementPct       float64 `csv:"movement_pct"`
	PollinationPct    float64 `csv:"pollination_pct"`
	ReproductionPct   float64 `csv:"reproduction_pct"`
	DeathsPct         float64 `csv:"deaths_pct"`
	DecayPct          float64 `csv:"decay_pct"`
	TelemetryPct      float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:         windowEnd,
		AvgTickUS:         s.AvgTick.Microseconds(),
		MinTickUS:         s.MinTick.Microseconds(),
		MaxTickUS:         s.MaxTick.Microseconds(),
		P99TickUS:         s.P99Tick.Microseconds(),
		TicksPerSec:       s.TicksPerSecond,
		SunPct:            pct[PhaseSun],
		LifecyclePct:      pct[PhaseLifecycle],
		PhotosynthesisPct: pct[PhasePhotosynthesis],
		SurvivalPct:       pct[PhaseSurvival],
		DecisionPct:       pct[PhaseDecision],
		ActionPct:         pct[PhaseAction],
		MovementPct:       pct[PhaseMovement],
		PollinationPct:    pct[PhasePollination],
		ReproductionPct:   pct[PhaseReproduction],
		DeathsPct:         pct[PhaseDeaths],
		DecayPct:          pct[PhaseDecay],
		TelemetryPct:      pct[PhaseTelemetry],
	}
}

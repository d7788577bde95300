package game

import (
	"log/slog"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/telemetry"
)

// emit routes an event to the collector, the lifetime tracker, the CSV
// buffer and every subscriber.
func (g *Game) emit(ev telemetry.Event) {
	g.collector.Record(ev)
	g.lifetimeTracker.Observe(ev)
	if g.outputManager != nil {
		g.pendingEvents = append(g.pendingEvents, ev)
	}
	for _, fn := range g.subscribers {
		fn(ev)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logWorldState()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.outputManager.WriteEvents(g.pendingEvents); err != nil {
			slog.Error("failed to write events", "error", err)
		}
		g.pendingEvents = g.pendingEvents[:0]
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// samplePopulation counts organisms and carcasses and collects the
// distributions reported at a window boundary.
func (g *Game) samplePopulation() telemetry.PopulationSample {
	s := telemetry.PopulationSample{Day: g.sun.Day()}

	query := g.organismFilter.Query()
	for query.Next() {
		org, energy, health := query.Get()
		if health.IsDead() {
			continue
		}
		s.TotalOrganismEnergy += energy.TotalEnergy()

		if org.Kind == components.KindPlant {
			s.Plants++
			s.PlantMasses = append(s.PlantMasses, energy.Mass)
			continue
		}

		switch g.animalMap.Get(query.Entity()).Diet {
		case components.Herbivore:
			s.Herbivores++
		case components.Carnivore:
			s.Carnivores++
		default:
			s.Omnivores++
		}
		s.AnimalMasses = append(s.AnimalMasses, energy.Mass)
		s.AnimalEnergies = append(s.AnimalEnergies, energy.ActiveEnergy)
	}

	carcasses := g.carcassFilter.Query()
	for carcasses.Next() {
		c := carcasses.Get()
		if c.Kind == components.KindPlant {
			s.PlantCarcasses++
		} else {
			s.AnimalCarcasses++
		}
		s.TotalCarcassEnergy += c.Mass * c.EnergyPerMassUnit
	}

	return s
}

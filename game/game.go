// Package game owns the simulation world and runs it one time unit at a time.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/inspector"
	"github.com/pthm-cable/terrarium/systems"
	"github.com/pthm-cable/terrarium/telemetry"
)

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	// Spatial index and environment
	terrain *systems.Terrain
	layout  *systems.TileLayout
	occ     *systems.Occupancy
	sun     *systems.Sun

	// Systems, in step order
	lifecycle      *systems.LifecycleSystem
	photosynthesis *systems.PhotosynthesisSystem
	survival       *systems.SurvivalSystem
	decision       *systems.DecisionSystem
	action         *systems.ActionSystem
	movement       *systems.MovementSystem
	pollination    *systems.PollinationSystem
	carcasses      *systems.CarcassSystem
	genomes        *systems.GenomeReader

	// Entity mappers
	organismMapper *ecs.Map7[
		components.Position,
		components.Organism,
		components.EnergyData,
		components.Health,
		components.Age,
		components.SexualMaturity,
		components.Metabolism,
	]
	// vitalsMapper covers the organism components stripped at death.
	vitalsMapper *ecs.Map6[
		components.Organism,
		components.EnergyData,
		components.Health,
		components.Age,
		components.SexualMaturity,
		components.Metabolism,
	]
	behaviorMapper *ecs.Map3[components.Animal, components.Action, components.Mobile]

	// Individual component mappers for lookups
	posMap      *ecs.Map[components.Position]
	orgMap      *ecs.Map[components.Organism]
	energyMap   *ecs.Map[components.EnergyData]
	healthMap   *ecs.Map[components.Health]
	ageMap      *ecs.Map[components.Age]
	maturityMap *ecs.Map[components.SexualMaturity]
	plantMap    *ecs.Map[components.Plant]
	animalMap   *ecs.Map[components.Animal]
	actionMap   *ecs.Map[components.Action]
	mobileMap   *ecs.Map[components.Mobile]
	carcassMap  *ecs.Map[components.Carcass]

	organismFilter *ecs.Filter3[components.Organism, components.EnergyData, components.Health]
	carcassFilter  *ecs.Filter1[components.Carcass]
	actionFilter   *ecs.Filter1[components.Action]

	inspector *inspector.Inspector

	// Telemetry
	collector        *telemetry.Collector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	logStats         bool
	pendingEvents    []telemetry.Event
	subscribers      []func(telemetry.Event)
	dayHooks         []func(day int)
	statsCallback    func(telemetry.WindowStats)

	// State
	tick   int32
	nextID uint32
}

// NewGame builds a world from cfg: terrain, tiles and the initial population.
// cfg is not read after construction except through the values copied here.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	world := ecs.NewWorld()
	seed := uint64(opts.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rng,

		organismMapper: ecs.NewMap7[
			components.Position,
			components.Organism,
			components.EnergyData,
			components.Health,
			components.Age,
			components.SexualMaturity,
			components.Metabolism,
		](world),
		vitalsMapper: ecs.NewMap6[
			components.Organism,
			components.EnergyData,
			components.Health,
			components.Age,
			components.SexualMaturity,
			components.Metabolism,
		](world),
		behaviorMapper: ecs.NewMap3[components.Animal, components.Action, components.Mobile](world),

		posMap:      ecs.NewMap[components.Position](world),
		orgMap:      ecs.NewMap[components.Organism](world),
		energyMap:   ecs.NewMap[components.EnergyData](world),
		healthMap:   ecs.NewMap[components.Health](world),
		ageMap:      ecs.NewMap[components.Age](world),
		maturityMap: ecs.NewMap[components.SexualMaturity](world),
		plantMap:    ecs.NewMap[components.Plant](world),
		animalMap:   ecs.NewMap[components.Animal](world),
		actionMap:   ecs.NewMap[components.Action](world),
		mobileMap:   ecs.NewMap[components.Mobile](world),
		carcassMap:  ecs.NewMap[components.Carcass](world),

		organismFilter: ecs.NewFilter3[components.Organism, components.EnergyData, components.Health](world),
		carcassFilter:  ecs.NewFilter1[components.Carcass](world),
		actionFilter:   ecs.NewFilter1[components.Action](world),

		inspector: inspector.NewInspector(world),

		logStats: opts.LogStats,
	}

	// Environment
	g.terrain = systems.NewTerrain(cfg.Terrain, opts.Seed)
	g.layout = systems.NewTileLayout(world, cfg.World.Rows, cfg.World.Cols, cfg.World.TileSize, g.terrain.BiomeAt)
	g.occ = systems.NewOccupancy(world, g.layout)
	g.sun = systems.NewSun(cfg.Sun, cfg.Time)

	// Systems
	g.lifecycle = systems.NewLifecycleSystem(world)
	g.photosynthesis = systems.NewPhotosynthesisSystem(world, g.sun, g.terrain.Humidity())
	g.survival = systems.NewSurvivalSystem(world)
	g.decision = systems.NewDecisionSystem(world, g.occ, rng, cfg.Time, cfg.Animals)
	g.action = systems.NewActionSystem(world)
	g.movement = systems.NewMovementSystem(world, g.occ)
	g.pollination = systems.NewPollinationSystem(world, g.occ)
	g.carcasses = systems.NewCarcassSystem(world, g.occ, cfg.Carcass.DecayFraction)
	g.genomes = systems.NewGenomeReader(world)

	// Telemetry
	window := opts.StatsWindow
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(int32(window))
	g.lifetimeTracker = telemetry.NewLifetimeTracker()
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)
	g.perfCollector = telemetry.NewPerfCollector(max(window, 1))

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g.spawnInitialPopulation()

	slog.Info("world_created",
		"seed", opts.Seed,
		"rows", cfg.World.Rows,
		"cols", cfg.World.Cols,
		"plants", g.occ.Count(components.OccupantPlant),
		"animals", g.occ.Count(components.OccupantAnimal),
	)

	return g, nil
}

// Step advances the simulation by one time unit.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSun)
	if g.sun.Advance() {
		for _, hook := range g.dayHooks {
			hook(g.sun.Day())
		}
	}

	g.perfCollector.StartPhase(telemetry.PhaseLifecycle)
	g.lifecycle.Update()

	g.perfCollector.StartPhase(telemetry.PhasePhotosynthesis)
	g.photosynthesis.Update()

	g.perfCollector.StartPhase(telemetry.PhaseSurvival)
	g.survival.Update()

	g.perfCollector.StartPhase(telemetry.PhaseDecision)
	g.decision.Update(int(g.tick))

	g.perfCollector.StartPhase(telemetry.PhaseAction)
	g.action.Execute()
	g.recordCombat()
	requests := g.action.ApplyMatings()

	g.perfCollector.StartPhase(telemetry.PhaseMovement)
	g.movement.Update()

	g.perfCollector.StartPhase(telemetry.PhasePollination)
	requests = append(requests, g.pollination.Update()...)

	g.perfCollector.StartPhase(telemetry.PhaseReproduction)
	g.applyReproduction(requests)

	g.perfCollector.StartPhase(telemetry.PhaseDeaths)
	g.processDeaths()

	g.perfCollector.StartPhase(telemetry.PhaseDecay)
	for _, d := range g.carcasses.Update() {
		g.emit(telemetry.NewDecayedEvent(g.tick, d.Entity.ID(), d.Kind))
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Run steps the simulation n times or until every organism is gone.
// Returns the number of steps taken.
func (g *Game) Run(n int) int {
	for i := 0; i < n; i++ {
		if g.Extinct() {
			return i
		}
		g.Step()
	}
	return n
}

// Extinct reports whether no living organism remains.
func (g *Game) Extinct() bool {
	return g.occ.Count(components.OccupantPlant) == 0 && g.occ.Count(components.OccupantAnimal) == 0
}

// Subscribe registers fn to receive every simulation event.
func (g *Game) Subscribe(fn func(telemetry.Event)) {
	g.subscribers = append(g.subscribers, fn)
}

// OnDay registers fn to run at each day boundary.
func (g *Game) OnDay(fn func(day int)) {
	g.dayHooks = append(g.dayHooks, fn)
}

// SetStatsCallback sets a callback invoked after each telemetry window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 {
	return g.tick
}

// Day returns the number of completed days.
func (g *Game) Day() int {
	return g.sun.Day()
}

// Sun returns the day/night cycle.
func (g *Game) Sun() *systems.Sun {
	return g.sun
}

// Layout returns the tile grid.
func (g *Game) Layout() *systems.TileLayout {
	return g.layout
}

// Occupancy returns the per-tile occupant index.
func (g *Game) Occupancy() *systems.Occupancy {
	return g.occ
}

// World returns the underlying ECS world.
func (g *Game) World() *ecs.World {
	return g.world
}

// Close flushes pending events and closes output files.
func (g *Game) Close() error {
	if err := g.outputManager.WriteEvents(g.pendingEvents); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	g.pendingEvents = g.pendingEvents[:0]
	return g.outputManager.Close()
}

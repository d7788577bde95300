package game

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/systems"
	"github.com/pthm-cable/terrarium/telemetry"
)

// newTestGame builds a small all-grass world from the embedded defaults.
func newTestGame(t *testing.T, opts Options, mutate func(*config.Config)) *Game {
	t.Helper()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.World.Rows = 10
	cfg.World.Cols = 10
	cfg.Terrain.WaterLevel = -1
	cfg.Terrain.RockLevel = 2
	cfg.Terrain.SandMoisture = -1
	cfg.Terrain.ForestMoisture = 2
	cfg.Population.InitialPlants = 20
	cfg.Population.InitialAnimals = 6
	if mutate != nil {
		mutate(cfg)
	}

	g, err := NewGame(cfg, opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func firstOfKind(t *testing.T, g *Game, kind components.Kind) OrganismSnapshot {
	t.Helper()
	for _, o := range g.Organisms() {
		if o.Kind == kind {
			return o
		}
	}
	t.Fatalf("no living %s", kind)
	return OrganismSnapshot{}
}

func TestNewGame_SpawnsPopulation(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1}, nil)

	if n := g.Occupancy().Count(components.OccupantPlant); n != 20 {
		t.Errorf("expected 20 plants in tiles, got %d", n)
	}
	if n := g.Occupancy().Count(components.OccupantAnimal); n != 6 {
		t.Errorf("expected 6 animals in tiles, got %d", n)
	}

	seen := make(map[uint32]bool)
	for _, o := range g.Organisms() {
		if seen[o.ID] {
			t.Errorf("duplicate organism ID %d", o.ID)
		}
		seen[o.ID] = true
		if !g.Layout().KindCanLiveAt(o.Kind, o.Position) {
			t.Errorf("%s %d spawned on forbidden tile at %+v", o.Kind, o.ID, o.Position)
		}
		if o.HP != o.MaxHP/2 {
			t.Errorf("organism %d should start at half HP, got %f of %f", o.ID, o.HP, o.MaxHP)
		}
		if o.Kind == components.KindAnimal && o.Action != components.ActionDoingNothing {
			t.Errorf("animal %d should start doing nothing, got %s", o.ID, o.Action)
		}
	}
	if len(seen) != 26 {
		t.Errorf("expected 26 organisms, got %d", len(seen))
	}
}

func TestStep_SameSeedSameWorld(t *testing.T) {
	a := newTestGame(t, Options{Seed: 42}, nil)
	b := newTestGame(t, Options{Seed: 42}, nil)

	a.Run(60)
	b.Run(60)

	oa, ob := a.Organisms(), b.Organisms()
	if len(oa) != len(ob) {
		t.Fatalf("population diverged: %d vs %d", len(oa), len(ob))
	}
	for i := range oa {
		if oa[i].ID != ob[i].ID || oa[i].Position != ob[i].Position || oa[i].ActiveEnergy != ob[i].ActiveEnergy {
			t.Fatalf("organism %d diverged: %+v vs %+v", i, oa[i], ob[i])
		}
	}
	if a.Tick() != 60 || b.Tick() != 60 {
		t.Errorf("expected tick 60, got %d and %d", a.Tick(), b.Tick())
	}
}

func TestProcessDeaths_LeavesCarcassInPlace(t *testing.T) {
	g := newTestGame(t, Options{Seed: 3}, nil)
	victim := firstOfKind(t, g, components.KindAnimal)

	var deaths []telemetry.Event
	g.Subscribe(func(ev telemetry.Event) {
		if ev.Type == telemetry.EventDeath {
			deaths = append(deaths, ev)
		}
	})

	g.healthMap.Get(victim.Entity).Kill(components.CauseStarvation)
	g.processDeaths()

	if !g.world.Alive(victim.Entity) {
		t.Fatal("dead organism should keep its entity as a carcass")
	}
	if g.healthMap.Has(victim.Entity) || g.animalMap.Has(victim.Entity) || g.actionMap.Has(victim.Entity) {
		t.Error("organism components should be stripped at death")
	}
	carcass := g.carcassMap.Get(victim.Entity)
	if carcass == nil || carcass.Kind != components.KindAnimal || carcass.Mass != victim.Mass {
		t.Fatalf("expected animal carcass with mass %f, got %+v", victim.Mass, carcass)
	}
	if *g.posMap.Get(victim.Entity) != victim.Position {
		t.Error("carcass should stay where the organism died")
	}

	objects := g.occ.At(victim.Position)
	if objects.Contains(components.OccupantAnimal, victim.Entity) {
		t.Error("carcass still listed as a live animal")
	}
	if !objects.Contains(components.OccupantAnimalCarcass, victim.Entity) {
		t.Error("carcass not listed in its tile")
	}

	if len(deaths) != 1 || deaths[0].Cause != components.CauseStarvation || deaths[0].EntityID != victim.Entity.ID() {
		t.Errorf("expected one starvation death event, got %+v", deaths)
	}
	if g.lifetimeTracker.Get(victim.Entity.ID()) != nil {
		t.Error("lifetime entry should be removed at death")
	}

	carcasses := g.Carcasses()
	if len(carcasses) != 1 || carcasses[0].Entity != victim.Entity {
		t.Errorf("expected the victim as the only carcass, got %+v", carcasses)
	}
}

func TestApplyReproduction_ParentThatCannotPayDies(t *testing.T) {
	g := newTestGame(t, Options{Seed: 5}, nil)

	var plants []ecs.Entity
	for _, o := range g.Organisms() {
		if o.Kind == components.KindPlant {
			plants = append(plants, o.Entity)
		}
	}
	rich, broke := plants[0], plants[1]
	g.energyMap.Get(rich).ActiveEnergy = 1000
	brokeEnergy := g.energyMap.Get(broke)
	brokeEnergy.ActiveEnergy = 0
	brokeEnergy.Mass = 1e-6

	var births []telemetry.Event
	g.Subscribe(func(ev telemetry.Event) {
		if ev.Type == telemetry.EventBirth {
			births = append(births, ev)
		}
	})

	before := g.occ.Count(components.OccupantPlant)
	g.applyReproduction([]systems.ReproductionRequest{{Parent1: rich, Parent2: broke, Kind: components.KindPlant}})

	if len(births) != 1 {
		t.Fatalf("expected one birth, got %d", len(births))
	}
	if g.occ.Count(components.OccupantPlant) != before+1 {
		t.Error("child should be registered in its tile")
	}
	cost := g.cfg.Plants.ReproductionCost
	if got := g.energyMap.Get(rich).ActiveEnergy; got != 1000-cost {
		t.Errorf("rich parent should pay %f, has %f", cost, got)
	}
	health := g.healthMap.Get(broke)
	if !health.IsDead() || health.LastDamage != components.CauseReproduction {
		t.Errorf("broke parent should die of reproduction, got %+v", health)
	}
	if brokeEnergy.Mass != 1e-6 {
		t.Error("failed payment must leave energy untouched")
	}

	g.processDeaths()
	if !g.carcassMap.Has(broke) {
		t.Error("broke parent should become a carcass")
	}
}

func TestOnDay_FiresAtDayBoundary(t *testing.T) {
	g := newTestGame(t, Options{Seed: 7}, nil)

	var days []int
	g.OnDay(func(day int) { days = append(days, day) })

	perDay := g.cfg.Time.TimeUnitsPerDay
	for i := 0; i < 2*perDay; i++ {
		g.Step()
	}
	if len(days) != 2 || days[0] != 1 || days[1] != 2 {
		t.Errorf("expected day hooks [1 2], got %v", days)
	}
	if g.Day() != 2 {
		t.Errorf("expected day 2, got %d", g.Day())
	}
}

func TestRun_StopsWhenExtinct(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1}, func(c *config.Config) {
		c.Population.InitialPlants = 0
		c.Population.InitialAnimals = 0
	})

	if !g.Extinct() {
		t.Fatal("empty world should be extinct")
	}
	if n := g.Run(10); n != 0 {
		t.Errorf("expected 0 steps on an extinct world, got %d", n)
	}
}

func TestStatsCallback_FiresPerWindow(t *testing.T) {
	g := newTestGame(t, Options{Seed: 9, StatsWindow: 10}, nil)

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) })
	g.Run(30)

	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	if windows[2].WindowEndTick != 30 {
		t.Errorf("last window should end at tick 30, got %d", windows[2].WindowEndTick)
	}
	if windows[0].Plants == 0 {
		t.Error("window should count living plants")
	}
}

func TestOutputDir_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, Options{Seed: 11, StatsWindow: 5, OutputDir: dir}, nil)
	g.Run(10)
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "events.csv", "bookmarks.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header plus 2 windows, got %d lines", len(lines))
	}
}

func TestInspect_RendersComponents(t *testing.T) {
	g := newTestGame(t, Options{Seed: 13}, nil)
	animal := firstOfKind(t, g, components.KindAnimal)

	found, ok := g.FindOrganism(animal.ID)
	if !ok || found != animal.Entity {
		t.Fatalf("FindOrganism(%d) = %v, %v", animal.ID, found, ok)
	}

	var buf bytes.Buffer
	if err := g.Inspect(&buf, animal.Entity); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Organism", "Energy", "Health", "Animal", "Action"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("inspect output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestApplyReproduction_ParentsPayWithoutRoomForChild(t *testing.T) {
	g := newTestGame(t, Options{Seed: 17}, func(c *config.Config) {
		c.World.Rows = 1
		c.World.Cols = 1
		c.Population.InitialPlants = 2
		c.Population.InitialAnimals = 0
		c.Plants.MaxPerTile = 2
	})

	var plants []ecs.Entity
	for _, o := range g.Organisms() {
		plants = append(plants, o.Entity)
	}
	if len(plants) != 2 {
		t.Fatalf("expected 2 founders in the only tile, got %d", len(plants))
	}
	for _, e := range plants {
		g.energyMap.Get(e).ActiveEnergy = 100
	}

	var matings, births int
	g.Subscribe(func(ev telemetry.Event) {
		switch ev.Type {
		case telemetry.EventMating:
			matings++
		case telemetry.EventBirth:
			births++
		}
	})

	g.applyReproduction([]systems.ReproductionRequest{{Parent1: plants[0], Parent2: plants[1], Kind: components.KindPlant}})

	if matings != 1 || births != 0 {
		t.Errorf("expected a mating without a birth, got %d matings and %d births", matings, births)
	}
	cost := g.cfg.Plants.ReproductionCost
	for _, e := range plants {
		if got := g.energyMap.Get(e).ActiveEnergy; got != 100-cost {
			t.Errorf("parent should pay %f even without a child, has %f", cost, got)
		}
	}
	if n := g.occ.Count(components.OccupantPlant); n != 2 {
		t.Errorf("full tile should not accept a child, got %d plants", n)
	}
}

func TestDefaults_ReproductionCostCoversChild(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range []components.Kind{components.KindPlant, components.KindAnimal} {
		species := cfg.Plants.SpeciesConfig
		if kind == components.KindAnimal {
			species = cfg.Animals.SpeciesConfig
		}
		genome := systems.NewGenome(kind, species, cfg.Plants, cfg.Animals, components.Herbivore)
		child := species.StartingMass.Mean*genome.EnergyPerMassUnit.Phenotype() +
			species.StartingActiveEnergy*genome.MaxActiveEnergy.Phenotype()
		if species.ReproductionCost < child {
			t.Errorf("%s: each parent pays %.2f but an average child starts with %.2f", kind, species.ReproductionCost, child)
		}
	}
}

func TestRun_DefaultsStayBounded(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1, StatsWindow: 24}, nil)

	maxPlants := g.cfg.World.Rows*g.cfg.World.Cols*g.cfg.Plants.MaxPerTile + g.cfg.Population.InitialPlants
	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) })

	g.Run(30 * g.cfg.Time.TimeUnitsPerDay)

	if len(windows) == 0 {
		t.Fatal("expected window stats")
	}
	for _, w := range windows {
		if w.Plants > maxPlants {
			t.Fatalf("tick %d: %d plants exceed the tile capacity %d", w.WindowEndTick, w.Plants, maxPlants)
		}
		living := w.Plants + w.Animals()
		if living > 0 && w.TotalOrganismEnergy > float64(living)*1000 {
			t.Fatalf("tick %d: %.0f energy across %d organisms", w.WindowEndTick, w.TotalOrganismEnergy, living)
		}
	}
}

package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType names a notable moment in a run.
type BookmarkType string

const (
	BookmarkHuntBreakthrough BookmarkType = "hunt_breakthrough"
	BookmarkAnimalRecovery   BookmarkType = "animal_recovery"
	BookmarkAnimalExtinction BookmarkType = "animal_extinction"
	BookmarkPredatorCollapse BookmarkType = "predator_collapse"
	BookmarkPlantCrash       BookmarkType = "plant_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark marks the window at which something notable happened.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark", "type", string(b.Type), "tick", b.Tick, "description", b.Description)
}

func newBookmark(typ BookmarkType, s WindowStats, format string, args ...any) *Bookmark {
	return &Bookmark{Type: typ, Tick: s.WindowEndTick, Description: fmt.Sprintf(format, args...)}
}

const (
	stableWindows  = 5
	stableLookback = 4
	maxStableCV2   = 0.04 // coefficient of variation below 0.2
)

// BookmarkDetector compares each closed window against a short history.
type BookmarkDetector struct {
	history []WindowStats
	next    int
	n       int

	animalLow     int // -1 until the first window
	plantPeak     int
	animalsGone   bool
	predatorsGone bool
	stableRun     int
}

// NewBookmarkDetector keeps the last historySize windows, at least five.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	return &BookmarkDetector{
		history:   make([]WindowStats, max(historySize, stableWindows)),
		animalLow: -1,
	}
}

var bookmarkRules = []func(*BookmarkDetector, WindowStats) *Bookmark{
	(*BookmarkDetector).animalExtinction,
	(*BookmarkDetector).huntBreakthrough,
	(*BookmarkDetector).animalRecovery,
	(*BookmarkDetector).predatorCollapse,
	(*BookmarkDetector).plantCrash,
	(*BookmarkDetector).stableEcosystem,
}

// Check records s and returns the bookmarks it triggers. The first window
// only seeds the history.
func (bd *BookmarkDetector) Check(s WindowStats) []Bookmark {
	var out []Bookmark
	if bd.n > 0 {
		for _, rule := range bookmarkRules {
			if b := rule(bd, s); b != nil {
				out = append(out, *b)
			}
		}
	}

	bd.history[bd.next] = s
	bd.next = (bd.next + 1) % len(bd.history)
	bd.n = min(bd.n+1, len(bd.history))

	if a := s.Animals(); bd.animalLow < 0 || a < bd.animalLow {
		bd.animalLow = a
	}
	bd.plantPeak = max(bd.plantPeak, s.Plants)
	return out
}

// recent returns up to k windows, oldest first.
func (bd *BookmarkDetector) recent(k int) []WindowStats {
	k = min(k, bd.n)
	out := make([]WindowStats, k)
	size := len(bd.history)
	for i := range out {
		out[i] = bd.history[(bd.next-k+i+size)%size]
	}
	return out
}

func (bd *BookmarkDetector) animalExtinction(s WindowStats) *Bookmark {
	if s.Animals() > 0 {
		bd.animalsGone = false
		return nil
	}
	if bd.animalsGone {
		return nil
	}
	bd.animalsGone = true
	return newBookmark(BookmarkAnimalExtinction, s, "No animals left alive")
}

// predatorCollapse fires when the last meat eater dies while herbivores live on.
func (bd *BookmarkDetector) predatorCollapse(s WindowStats) *Bookmark {
	predators := s.Carnivores + s.Omnivores
	if predators > 0 {
		bd.predatorsGone = false
		return nil
	}
	prev := bd.recent(1)
	if bd.predatorsGone || s.Herbivores == 0 || prev[0].Carnivores+prev[0].Omnivores == 0 {
		return nil
	}
	bd.predatorsGone = true
	return newBookmark(BookmarkPredatorCollapse, s, "Predators died out, %d herbivores remain", s.Herbivores)
}

// huntBreakthrough fires when the kill rate doubles the historical average.
func (bd *BookmarkDetector) huntBreakthrough(s WindowStats) *Bookmark {
	history := bd.recent(len(bd.history))
	if len(history) < 3 || s.Attacks == 0 || s.Kills < 3 {
		return nil
	}

	var kills, attacks int
	for _, h := range history {
		kills += h.Kills
		attacks += h.Attacks
	}
	if kills == 0 || attacks == 0 {
		return nil
	}
	avg := float64(kills) / float64(attacks)
	if s.KillRate <= 2*avg {
		return nil
	}
	return newBookmark(BookmarkHuntBreakthrough, s,
		"Kill rate %.2f is %.1fx average (%.2f)", s.KillRate, s.KillRate/avg, avg)
}

// animalRecovery fires when a population of at most three triples to six or more.
func (bd *BookmarkDetector) animalRecovery(s WindowStats) *Bookmark {
	low := bd.animalLow
	if low <= 0 || low > 3 {
		return nil
	}
	a := s.Animals()
	if a < 3*low || a < 6 {
		return nil
	}
	bd.animalLow = a
	return newBookmark(BookmarkAnimalRecovery, s, "Animal population recovered from %d to %d", low, a)
}

// plantCrash fires when plants fall more than 30% (and more than ten) below the peak.
func (bd *BookmarkDetector) plantCrash(s WindowStats) *Bookmark {
	peak := bd.plantPeak
	if peak == 0 {
		return nil
	}
	drop := 1 - float64(s.Plants)/float64(peak)
	if drop <= 0.30 || s.Plants >= peak-10 {
		return nil
	}
	bd.plantPeak = s.Plants
	return newBookmark(BookmarkPlantCrash, s, "Plants crashed %.0f%% from peak %d to %d", drop*100, peak, s.Plants)
}

// stableEcosystem fires once both kingdoms have varied little for five
// consecutive windows.
func (bd *BookmarkDetector) stableEcosystem(s WindowStats) *Bookmark {
	if s.Plants < 10 || s.Animals() < 3 {
		bd.stableRun = 0
		return nil
	}
	history := bd.recent(stableLookback)
	if len(history) < stableLookback {
		return nil
	}

	plants := make([]float64, len(history))
	animals := make([]float64, len(history))
	for i, h := range history {
		plants[i] = float64(h.Plants)
		animals[i] = float64(h.Animals())
	}
	if steady(plants) && steady(animals) {
		bd.stableRun++
	} else {
		bd.stableRun = 0
	}

	if bd.stableRun != stableWindows {
		return nil
	}
	return newBookmark(BookmarkStableEcosystem, s,
		"Stable ecosystem with %d plants, %d animals over %d+ windows", s.Plants, s.Animals(), stableWindows)
}

func steady(values []float64) bool {
	mean, variance := stat.PopMeanVariance(values, nil)
	return mean != 0 && variance/(mean*mean) < maxStableCV2
}

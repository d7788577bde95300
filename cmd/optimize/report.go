package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/telemetry"
)

// tracker logs every evaluation to CSV and prints progress.
// The log has one column per parameter, so it uses csv.Writer directly.
type tracker struct {
	file     *os.File
	w        *csv.Writer
	params   *ParamVector
	maxEvals int
	dayTicks int

	evals   int
	start   time.Time
	bestFit float64
	best    []float64
}

func newTracker(path string, params *ParamVector, maxEvals int, dayTicks int) (*tracker, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	t := &tracker{
		file:     f,
		w:        csv.NewWriter(f),
		params:   params,
		maxEvals: maxEvals,
		dayTicks: max(dayTicks, 1),
		start:    time.Now(),
		bestFit:  1e9,
	}

	header := []string{"eval", "fitness", "quality"}
	for _, p := range params.Specs {
		header = append(header, p.Name)
	}
	if err := t.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing eval log header: %w", err)
	}
	return t, nil
}

// Record logs one evaluation and keeps the best parameter vector.
func (t *tracker) Record(values []float64, fitness, quality float64) {
	t.evals++
	if fitness < t.bestFit {
		t.bestFit = fitness
		t.best = values
	}

	row := make([]string, 0, 3+len(values))
	row = append(row,
		strconv.Itoa(t.evals),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(quality, 'f', 4, 64),
	)
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	_ = t.w.Write(row)
	t.w.Flush()

	elapsed := time.Since(t.start)
	eta := elapsed / time.Duration(t.evals) * time.Duration(max(t.maxEvals-t.evals, 0))
	// fitness = -(survival_ticks * (1 + 0.2*quality))
	days := -fitness / (1 + 0.2*quality) / float64(t.dayTicks)
	fmt.Printf("eval %d/%d: survived=%.1fd quality=%.2f best=%.0f | %s elapsed, eta %s\n",
		t.evals, t.maxEvals, days, quality, t.bestFit, formatDuration(elapsed), formatDuration(eta))
}

// Summary prints the best parameters found.
func (t *tracker) Summary() {
	fmt.Printf("\n%d evaluations in %s, best fitness %.0f\n", t.evals, formatDuration(time.Since(t.start)), t.bestFit)
	for i, p := range t.params.Specs {
		if i < len(t.best) {
			fmt.Printf("  %-20s %-40s %.6f\n", p.Name, p.Path, t.best[i])
		}
	}
}

func (t *tracker) Close() error {
	t.w.Flush()
	return t.file.Close()
}

// writeResults saves the best config and the window stats of its best run.
func writeResults(dir string, params *ParamVector, base *config.Config, best []float64, stats []telemetry.WindowStats) error {
	cfg := base.Clone()
	params.ApplyToConfig(cfg, best)

	path := filepath.Join(dir, "best_config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("best config saved to %s\n", path)

	if len(stats) == 0 {
		return nil
	}
	records := make([]telemetry.WindowStatsCSV, len(stats))
	for i, s := range stats {
		records[i] = s.ToCSV()
	}
	f, err := os.Create(filepath.Join(dir, "best_telemetry.csv"))
	if err != nil {
		return fmt.Errorf("creating best telemetry: %w", err)
	}
	defer f.Close()
	return gocsv.MarshalFile(&records, f)
}

// formatDuration renders d as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

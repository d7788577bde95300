// Package main searches for simulation parameters under which plants,
// herbivores and carnivores keep coexisting, using CMA-ES.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/terrarium/config"
)

type options struct {
	configPath string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&o.maxTicks, "max-ticks", 24*200, "Tick cap per run")
	flag.IntVar(&o.seeds, "seeds", 3, "Seeds per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 200, "Evaluation budget")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()
	if opts.outputDir == "" {
		log.Fatal("--output is required")
	}

	// Per-run simulation logs drown the progress lines.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	base := config.Cfg()

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = 42 + int64(i)*1000
	}
	evaluator := NewFitnessEvaluator(params, int32(opts.maxTicks), seeds, base)

	tr, err := newTracker(filepath.Join(opts.outputDir, "optimize_log.csv"), params, opts.maxEvals, base.Time.TimeUnitsPerDay)
	if err != nil {
		return err
	}
	defer tr.Close()

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Denormalize(x)
			fitness := evaluator.Evaluate(values)
			tr.Record(params.Clamp(values), fitness, evaluator.LastQuality())
			return fitness
		},
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	// Concurrent stays 0: seeds already run in parallel inside Evaluate.
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	fmt.Printf("CMA-ES: %d parameters, population=%d, max_evals=%d, seeds=%d, max_ticks=%d\n",
		params.Dim(), popSize, opts.maxEvals, opts.seeds, opts.maxTicks)

	result, err := optimize.Minimize(problem, params.Normalize(params.ExtractFromConfig(base)), settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := tr.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return fmt.Errorf("no evaluation completed")
	}
	tr.Summary()

	return writeResults(opts.outputDir, params, base, best, evaluator.BestStats())
}

// Package experiment runs the four policy and reporting scenarios for each
// seed, prints and persists their metrics, and sweeps misreporting grids.
package experiment

import (
	"fmt"
	"io"
	"io/ioutil"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/schedsim/common/stats"
	"github.com/twitter/schedsim/simulator/config"
	"github.com/twitter/schedsim/simulator/domain"
	"github.com/twitter/schedsim/simulator/generator"
	"github.com/twitter/schedsim/simulator/metrics"
	"github.com/twitter/schedsim/simulator/results"
	"github.com/twitter/schedsim/simulator/scheduler"
	"github.com/twitter/schedsim/simulator/simulation"
)

var scenarioTitles = map[string]string{
	"base_truth": "Base Truthful",
	"base_strat": "Base Strategic",
	"da_truth":   "DA Truthful",
	"da_strat":   "DA Strategic",
}

type RunnerConfig struct {
	Run config.RunConfig
	// Written to the config column of every metrics row.
	ConfigName string
	// Directory receiving metrics files and schedule dumps.
	ResultsDir string
	// Write one schedule dump per scenario.
	DumpSchedule bool
	// Receives the human readable metrics blocks, discarded when nil.
	Out io.Writer
}

// Outcome is the result of one scenario of one seed. Records holds the
// finished executions followed by those still open at the horizon.
type Outcome struct {
	Label   string
	RunID   string
	Seed    int64
	Metrics metrics.Metrics
	Records []domain.RunRecord
}

type Runner struct {
	config RunnerConfig
	sink   *results.Sink
	stat   stats.StatsReceiver
}

func NewRunner(rc RunnerConfig, sink *results.Sink, stat stats.StatsReceiver) *Runner {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	if sink == nil {
		sink = results.NewSink(stat)
	}
	if rc.Out == nil {
		rc.Out = ioutil.Discard
	}
	return &Runner{config: rc, sink: sink, stat: stat}
}

// Run runs NumSeeds consecutive seeds starting at the configured seed and
// appends every outcome to the results file.
func (r *Runner) Run() ([]Outcome, error) {
	return r.runSeeds(r.config.Run.Generator, r.baseSeed(), results.MetricsPath(r.config.ResultsDir))
}

// Sweep repeats Run for every (misreport probability, amplitude) pair,
// each cell writing its own results file. Every cell runs the same seeds.
func (r *Runner) Sweep(probs, alphas []float64) ([]Outcome, error) {
	base := r.baseSeed()
	var all []Outcome
	for _, p := range probs {
		for _, a := range alphas {
			gen := r.config.Run.Generator
			gen.MisreportProb = p
			gen.MisreportAlpha = a
			log.Infof("Sweep cell misreportProb=%g misreportAlpha=%g", p, a)
			out, err := r.runSeeds(gen, base, results.SweepPath(r.config.ResultsDir, p, a))
			if err != nil {
				return all, err
			}
			all = append(all, out...)
		}
	}
	return all, nil
}

func (r *Runner) baseSeed() int64 {
	base, auto := r.config.Run.ResolveSeed()
	if auto {
		log.Infof("Auto-generated seed = %d", base)
	} else {
		log.Infof("Using configured seed = %d", base)
	}
	return base
}

func (r *Runner) runSeeds(gen config.GeneratorConfig, base int64, path string) ([]Outcome, error) {
	var all []Outcome
	for s := 0; s < r.config.Run.NumSeeds; s++ {
		gen.Seed = base + int64(s)
		out, err := r.RunSeed(gen, path)
		if err != nil {
			return all, err
		}
		all = append(all, out...)
	}
	return all, nil
}

// RunSeed generates the scenarios for gen.Seed, simulates them concurrently
// and records their outcomes, returned in base_truth, base_strat, da_truth,
// da_strat order.
func (r *Runner) RunSeed(gen config.GeneratorConfig, path string) ([]Outcome, error) {
	r.stat.Counter(stats.ExperimentSeedCounter).Inc(1)
	scenarios := generator.NewGenerator(gen).Scenarios()
	outcomes := make([]Outcome, len(scenarios))

	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(i int, sc *domain.Scenario) {
			defer wg.Done()
			outcomes[i] = r.simulate(sc)
		}(i, sc)
	}
	wg.Wait()

	fmt.Fprintf(r.config.Out, "===== Seed %d =====\n", gen.Seed)
	rows := make([]results.Row, 0, len(outcomes))
	for i, o := range outcomes {
		if i > 0 {
			fmt.Fprintln(r.config.Out)
		}
		fmt.Fprintf(r.config.Out, "=== %s ===\n%s", scenarioTitles[o.Label], o.Metrics)
		rows = append(rows, results.Row{Seed: o.Seed, Config: r.config.ConfigName, Label: o.Label, Metrics: o.Metrics})
	}
	fmt.Fprintln(r.config.Out)

	if err := r.sink.AppendMetrics(path, rows...); err != nil {
		return outcomes, errors.Wrapf(err, "recording seed %d", gen.Seed)
	}
	if r.config.DumpSchedule {
		for _, o := range outcomes {
			if err := r.sink.WriteSchedule(results.SchedulePath(r.config.ResultsDir, o.Seed, o.Label), o.Records); err != nil {
				return outcomes, errors.Wrapf(err, "dumping schedule of %s", o.Label)
			}
		}
	}
	return outcomes, nil
}

func (r *Runner) simulate(sc *domain.Scenario) Outcome {
	stat := r.stat.Scope(sc.Label())
	var sched scheduler.Scheduler
	switch sc.Policy {
	case domain.DeferredAcceptancePolicy:
		sched = scheduler.NewDeferredAcceptanceAlg(stat)
	default:
		sched = scheduler.NewBestFitAlg(stat)
	}

	log.WithFields(
		log.Fields{
			"scenario":   sc.Label(),
			"seed":       sc.Seed,
			"policy":     sc.Policy,
			"misreports": sc.CountMisreports(),
		}).Debug("Simulating scenario")

	sim := simulation.NewSimulation(simulation.SimulationConfig{
		TimeLimit: r.config.Run.TimeLimit,
		DebugMode: r.config.Run.DebugMode,
		Label:     sc.Label(),
	}, stat)
	m := sim.Run(sched, sc.Jobs, sc.Servers, r.config.Run.BatchSize)
	if r.config.Run.DebugMode && log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("Scenario %s final state:\n%s", sc.Label(), sc.Dump())
	}
	return Outcome{
		Label:   sc.Label(),
		RunID:   sim.RunID(),
		Seed:    sc.Seed,
		Metrics: m,
		Records: append(sim.Records(), sim.OpenRecords()...),
	}
}

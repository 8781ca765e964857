package experiment

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twitter/schedsim/common/stats"
	"github.com/twitter/schedsim/simulator/config"
	"github.com/twitter/schedsim/simulator/results"
)

func smallRun() config.RunConfig {
	cfg, _ := config.GetConfig("small")
	return cfg
}

func countLines(t *testing.T, path string) int {
	data, err := ioutil.ReadFile(path)
	assert.Nil(t, err)
	return strings.Count(string(data), "\n")
}

func TestRunSeedOrderAndOutput(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-experiment")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	reg := stats.NewFinagleStatsRegistry()
	stat := stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return reg })
	var out bytes.Buffer
	runner := NewRunner(RunnerConfig{
		Run:          smallRun(),
		ConfigName:   "small",
		ResultsDir:   dir,
		DumpSchedule: true,
		Out:          &out,
	}, nil, stat)

	cfg := smallRun().Generator
	outcomes, err := runner.RunSeed(cfg, results.MetricsPath(dir))
	assert.Nil(t, err)

	labels := []string{}
	for _, o := range outcomes {
		labels = append(labels, o.Label)
		assert.Equal(t, cfg.Seed, o.Seed)
		assert.Equal(t, cfg.NumJobs, o.Metrics.TotalJobs)
		assert.NotEmpty(t, o.RunID)
		assert.Equal(t, o.Metrics.FinishedJobs, countClosed(o))
		_, err := os.Stat(results.SchedulePath(dir, o.Seed, o.Label))
		assert.Nil(t, err)
	}
	assert.Equal(t, []string{"base_truth", "base_strat", "da_truth", "da_strat"}, labels)
	// nobody misreports in the small config, so strategic equals truthful
	assert.Equal(t, outcomes[0].Metrics, outcomes[1].Metrics)
	assert.Equal(t, outcomes[2].Metrics, outcomes[3].Metrics)

	assert.Equal(t, 5, countLines(t, results.MetricsPath(dir)))
	assert.True(t, strings.HasPrefix(out.String(), "===== Seed 42 =====\n=== Base Truthful ===\nTotal jobs: 12\n"))
	assert.Contains(t, out.String(), "\n\n=== DA Strategic ===\n")

	stats.VerifyStats("runSeed", reg, t, map[string]stats.Rule{
		stats.ExperimentSeedCounter:                     {Checker: stats.Int64EqTest, Value: 1},
		"base_truth/" + stats.BestFitBatchCounter:       {Checker: stats.Int64GTTest, Value: 0},
		"da_strat/" + stats.DABatchCounter:              {Checker: stats.Int64GTTest, Value: 0},
		"da_strat/" + stats.BestFitBatchCounter:         {Checker: stats.DoesNotExistTest},
		"da_truth/" + stats.SimTickCounter:              {Checker: stats.Int64EqTest, Value: 31},
		"base_strat/" + stats.SimLedgerViolationCounter: {Checker: stats.DoesNotExistTest},
	})
}

func countClosed(o Outcome) int {
	n := 0
	for _, r := range o.Records {
		if !r.Open() {
			n++
		}
	}
	return n
}

func TestRunRepeatsConsecutiveSeeds(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-experiment")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	run := smallRun()
	run.NumSeeds = 3
	run.Generator.Seed = 100
	outcomes, err := NewRunner(RunnerConfig{Run: run, ConfigName: "small", ResultsDir: dir}, nil, nil).Run()

	assert.Nil(t, err)
	assert.Len(t, outcomes, 12)
	assert.Equal(t, int64(100), outcomes[0].Seed)
	assert.Equal(t, int64(102), outcomes[11].Seed)
	assert.Equal(t, 13, countLines(t, results.MetricsPath(dir)))
	_, err = os.Stat(results.SchedulePath(dir, 100, "da_truth"))
	assert.True(t, os.IsNotExist(err), "schedules are only dumped on request")
}

func TestRunIsReproducible(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-experiment")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	run := smallRun()
	run.Generator.MisreportProb = 0.5
	run.Generator.MisreportAlpha = 1
	a, err := NewRunner(RunnerConfig{Run: run, ResultsDir: filepath.Join(dir, "a")}, nil, nil).Run()
	assert.Nil(t, err)
	b, err := NewRunner(RunnerConfig{Run: run, ResultsDir: filepath.Join(dir, "b")}, nil, nil).Run()
	assert.Nil(t, err)

	for i := range a {
		assert.Equal(t, a[i].Metrics, b[i].Metrics)
		assert.Equal(t, a[i].Records, b[i].Records)
	}
}

func TestSweepWritesOneFilePerCell(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-experiment")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	probs, alphas := []float64{0.1, 0.5}, []float64{0.5, 2}
	outcomes, err := NewRunner(RunnerConfig{Run: smallRun(), ConfigName: "small", ResultsDir: dir}, nil, nil).Sweep(probs, alphas)

	assert.Nil(t, err)
	assert.Len(t, outcomes, 16)
	for _, p := range probs {
		for _, a := range alphas {
			assert.Equal(t, 5, countLines(t, results.SweepPath(dir, p, a)))
		}
	}
}

func TestSweepCellsShareAutoSeed(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-experiment")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	run := smallRun()
	run.NumSeeds = 2
	run.Generator.Seed = config.AutoSeed
	probs, alphas := []float64{0, 0.5, 1}, []float64{1}
	outcomes, err := NewRunner(RunnerConfig{Run: run, ResultsDir: dir}, nil, nil).Sweep(probs, alphas)

	assert.Nil(t, err)
	assert.Len(t, outcomes, 24)
	perCell := 8
	base := outcomes[0].Seed
	assert.True(t, base >= 0)
	for cell := 0; cell < len(probs); cell++ {
		assert.Equal(t, base, outcomes[cell*perCell].Seed, "cell %d", cell)
		assert.Equal(t, base+1, outcomes[cell*perCell+perCell-1].Seed, "cell %d", cell)
	}
	// truthful runs depend on the seed only, so they match across cells
	assert.Equal(t, outcomes[0].Metrics, outcomes[perCell].Metrics)
	assert.Equal(t, outcomes[0].Metrics, outcomes[2*perCell].Metrics)
}

func TestRunSeedReportsSinkFailure(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-experiment")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	// the parent of the results file is a regular file
	blocker := filepath.Join(dir, "blocker")
	assert.Nil(t, ioutil.WriteFile(blocker, nil, 0644))
	runner := NewRunner(RunnerConfig{Run: smallRun(), ResultsDir: blocker}, nil, nil)

	outcomes, err := runner.RunSeed(smallRun().Generator, results.MetricsPath(blocker))
	assert.NotNil(t, err)
	assert.Len(t, outcomes, 4)
}

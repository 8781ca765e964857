package cli

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twitter/schedsim/common/errors"
	"github.com/twitter/schedsim/simulator/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	c := NewSimCLIClient(&out)
	c.RootCmd.SetArgs(args)
	err := c.Exec()
	return out.String(), err
}

func exitCode(err error) errors.ExitCode {
	if e, ok := err.(*errors.ExitCodeError); ok {
		return e.GetExitCode()
	}
	return -1
}

func TestConfigsPrintsBuiltIns(t *testing.T) {
	out, err := execute(t, "configs")
	assert.Nil(t, err)

	var parsed map[string]config.RunConfig
	assert.Nil(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, config.RunConfigs, parsed)
}

func TestRunWritesResultsAndStats(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-cli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	statsFile := filepath.Join(dir, "stats.json")

	out, err := execute(t, "run", "--config_name", "small", "--seeds", "2", "--seed", "5",
		"--results_dir", dir, "--dump_schedule", "--stats_file", statsFile, "--log_level", "error")
	assert.Nil(t, err)

	assert.Contains(t, out, "===== Seed 5 =====")
	assert.Contains(t, out, "===== Seed 6 =====")
	data, err := ioutil.ReadFile(filepath.Join(dir, "results.csv"))
	assert.Nil(t, err)
	assert.Equal(t, 9, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), "5,small,base_truth,12,")
	_, err = os.Stat(filepath.Join(dir, "schedule_6_da_strat.csv"))
	assert.Nil(t, err)

	var rendered map[string]interface{}
	statsJSON, err := ioutil.ReadFile(statsFile)
	assert.Nil(t, err)
	assert.Nil(t, json.Unmarshal(statsJSON, &rendered))
	assert.Equal(t, 2.0, rendered["experimentSeedCounter"])
}

func TestRunFromFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-cli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "config.txt")
	assert.Nil(t, ioutil.WriteFile(path, []byte("numJobs = 3\nnumServers = 1\ntimeLimit = 10\nbatchSize = 0\n"), 0644))

	out, err := execute(t, "run", "--config", path, "--results_dir", dir, "--log_level", "error")
	assert.Nil(t, err)
	assert.Contains(t, out, "Total jobs: 3\n")
}

func TestUsageErrors(t *testing.T) {
	_, err := execute(t, "run", "--config_name", "nope")
	assert.Equal(t, errors.UsageExitCode, exitCode(err))

	_, err = execute(t, "configs", "--log_level", "loud")
	assert.Equal(t, errors.UsageExitCode, exitCode(err))

	_, err = execute(t, "sweep", "--probs", "1.5")
	assert.Equal(t, errors.UsageExitCode, exitCode(err))
}

func TestUnusableConfigFileFallsBackToDefaults(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-cli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	malformed := filepath.Join(dir, "broken.json")
	assert.Nil(t, ioutil.WriteFile(malformed, []byte("{not json"), 0644))

	for _, path := range []string{filepath.Join(dir, "missing.txt"), malformed} {
		resultsDir := filepath.Join(dir, filepath.Base(path)+".results")
		out, err := execute(t, "run", "--config", path, "--results_dir", resultsDir, "--log_level", "error")
		assert.Nil(t, err, path)
		assert.Contains(t, out, "===== Seed 42 =====", path)
		assert.Contains(t, out, "Total jobs: 100\n", path)

		data, err := ioutil.ReadFile(filepath.Join(resultsDir, "results.csv"))
		assert.Nil(t, err, path)
		assert.Contains(t, string(data), "42,"+path+",base_truth,100,", path)
	}
}

func TestSweepWithEmptyGridSimulatesNothing(t *testing.T) {
	dir, err := ioutil.TempDir("", "schedsim-cli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	_, err = execute(t, "sweep", "--config_name", "small", "--probs", "", "--results_dir", dir, "--log_level", "error")
	assert.Equal(t, errors.ExitCode(errors.SimulationFailureExitCode), exitCode(err))
}

func TestParseFloats(t *testing.T) {
	f, err := parseFloats([]string{"0.5", "10"}, 0, -1)
	assert.Nil(t, err)
	assert.Equal(t, []float64{0.5, 10}, f)

	_, err = parseFloats([]string{"x"}, 0, 1)
	assert.NotNil(t, err)
	_, err = parseFloats([]string{"-1"}, 0, -1)
	assert.NotNil(t, err)
}

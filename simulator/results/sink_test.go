package results

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"

	"github.com/twitter/schedsim/common/stats"
	"github.com/twitter/schedsim/simulator/domain"
	"github.com/twitter/schedsim/simulator/metrics"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "schedsim-results")
	assert.Nil(t, err)
	return dir
}

func readLines(t *testing.T, path string) []string {
	data, err := ioutil.ReadFile(path)
	assert.Nil(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestAppendMetricsWritesHeaderOnce(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := MetricsPath(filepath.Join(dir, "nested"))

	reg := stats.NewFinagleStatsRegistry()
	sink := NewSink(stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return reg }))
	row := Row{
		Seed:    42,
		Config:  "default",
		Label:   "da_strat",
		Metrics: metrics.Metrics{TotalJobs: 2, FinishedJobs: 2, AvgCompletionTime: 4.5, AvgWaitingTime: 1.5, AvgUtilization: 0.3},
	}
	assert.Nil(t, sink.AppendMetrics(path, row))
	row.Label = "base_truth"
	row.Metrics.FailedJobs = 1
	assert.Nil(t, sink.AppendMetrics(path, row))

	assert.Equal(t, []string{
		"seed,config,type,totalJobs,finishedJobs,avgCompletion,avgWaiting,util,failedJobs",
		"42,default,da_strat,2,2,4.5,1.5,0.3,0",
		"42,default,base_truth,2,2,4.5,1.5,0.3,1",
	}, readLines(t, path))
	stats.VerifyStats("appendMetrics", reg, t, map[string]stats.Rule{
		stats.ExperimentRowsWrittenCounter: {Checker: stats.Int64EqTest, Value: 2},
		stats.ExperimentSinkRetryCounter:   {Checker: stats.DoesNotExistTest},
	})
}

func TestWriteScheduleReplacesFile(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := SchedulePath(dir, 7, "base_truth")
	sink := NewSink(nil)

	assert.Nil(t, sink.WriteSchedule(path, []domain.RunRecord{
		{JobID: 0, ServerID: 0, ServerCapacity: 10, StartTime: 0, EndTime: 3, TrueDemand: 6},
		{JobID: 1, ServerID: 0, ServerCapacity: 10, StartTime: 3, EndTime: 6, TrueDemand: 5},
	}))
	assert.Nil(t, sink.WriteSchedule(path, []domain.RunRecord{
		{JobID: 4, ServerID: 1, ServerCapacity: 12, StartTime: 2, EndTime: 9, TrueDemand: 3},
	}))

	assert.Equal(t, filepath.Join(dir, "schedule_7_base_truth.csv"), path)
	assert.Equal(t, []string{
		"jobId,serverId,startTime,endTime,trueDemand,serverCap",
		"4,1,2,9,3,12",
	}, readLines(t, path))
}

func TestWriteRetriesThenFails(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	reg := stats.NewFinagleStatsRegistry()
	sink := NewSink(stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return reg }))
	sink.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, maxWriteRetries)
	}

	// a directory where the file should be can never be opened for writing
	path := filepath.Join(dir, "results.csv")
	assert.Nil(t, os.Mkdir(path, 0755))
	err := sink.WriteSchedule(path, nil)

	assert.NotNil(t, err)
	stats.VerifyStats("retries", reg, t, map[string]stats.Rule{
		stats.ExperimentSinkRetryCounter: {Checker: stats.Int64EqTest, Value: maxWriteRetries},
	})
}

// shortWriteFile writes half of its first buffer and then fails.
type shortWriteFile struct {
	*os.File
	failed *bool
}

func (f shortWriteFile) Write(p []byte) (int, error) {
	if *f.failed {
		return f.File.Write(p)
	}
	*f.failed = true
	n, _ := f.File.Write(p[:len(p)/2])
	return n, errors.New("no space left on device")
}

func TestAppendRetryDropsPartialRows(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := MetricsPath(dir)

	reg := stats.NewFinagleStatsRegistry()
	sink := NewSink(stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return reg }))
	sink.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, maxWriteRetries)
	}
	assert.Nil(t, sink.AppendMetrics(path, Row{Seed: 1, Config: "c", Label: "base_truth"}))

	failed := false
	sink.openFile = func(name string, flag int, perm os.FileMode) (resultFile, error) {
		f, err := os.OpenFile(name, flag, perm)
		if err != nil {
			return nil, err
		}
		return shortWriteFile{File: f, failed: &failed}, nil
	}
	assert.Nil(t, sink.AppendMetrics(path,
		Row{Seed: 2, Config: "c", Label: "da_truth"},
		Row{Seed: 2, Config: "c", Label: "da_strat"}))

	assert.True(t, failed)
	assert.Equal(t, []string{
		"seed,config,type,totalJobs,finishedJobs,avgCompletion,avgWaiting,util,failedJobs",
		"1,c,base_truth,0,0,0,0,0,0",
		"2,c,da_truth,0,0,0,0,0,0",
		"2,c,da_strat,0,0,0,0,0,0",
	}, readLines(t, path))
	stats.VerifyStats("partialAppend", reg, t, map[string]stats.Rule{
		stats.ExperimentSinkRetryCounter:   {Checker: stats.Int64EqTest, Value: 1},
		stats.ExperimentRowsWrittenCounter: {Checker: stats.Int64EqTest, Value: 3},
	})
}

func TestConcurrentAppends(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := MetricsPath(dir)
	sink := NewSink(nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			assert.Nil(t, sink.AppendMetrics(path, Row{Seed: seed, Config: "c", Label: "base_truth"}))
		}(int64(i))
	}
	wg.Wait()

	lines := readLines(t, path)
	assert.Len(t, lines, 17)
	assert.Equal(t, 1, strings.Count(strings.Join(lines, "\n"), "seed,config"))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "results_p0.25_a10.csv"), SweepPath("out", 0.25, 10))
	assert.Equal(t, filepath.Join("out", "results.csv"), MetricsPath("out"))
}

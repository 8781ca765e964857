// Package results persists experiment output as CSV: one metrics row per
// simulated scenario, and optional per-scenario schedule dumps.
package results

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/schedsim/common/stats"
	"github.com/twitter/schedsim/simulator/domain"
	"github.com/twitter/schedsim/simulator/metrics"
)

const maxWriteRetries = 3

var metricsHeader = []string{"seed", "config", "type", "totalJobs", "finishedJobs", "avgCompletion", "avgWaiting", "util", "failedJobs"}
var scheduleHeader = []string{"jobId", "serverId", "startTime", "endTime", "trueDemand", "serverCap"}

// Row is one scenario's outcome.
type Row struct {
	Seed    int64
	Config  string
	Label   string
	Metrics metrics.Metrics
}

func (r Row) fields() []string {
	m := r.Metrics
	return []string{
		strconv.FormatInt(r.Seed, 10),
		r.Config,
		r.Label,
		strconv.Itoa(m.TotalJobs),
		strconv.Itoa(m.FinishedJobs),
		formatFloat(m.AvgCompletionTime),
		formatFloat(m.AvgWaitingTime),
		formatFloat(m.AvgUtilization),
		strconv.Itoa(m.FailedJobs),
	}
}

// resultFile is the part of *os.File the sink writes through.
type resultFile interface {
	io.Writer
	Stat() (os.FileInfo, error)
	Truncate(size int64) error
	Close() error
}

func openResultFile(path string, flag int, perm os.FileMode) (resultFile, error) {
	return os.OpenFile(path, flag, perm)
}

// Sink serializes all writes so concurrent scenarios can share it.
type Sink struct {
	mu         sync.Mutex
	stat       stats.StatsReceiver
	newBackOff func() backoff.BackOff
	openFile   func(path string, flag int, perm os.FileMode) (resultFile, error)
}

func NewSink(stat stats.StatsReceiver) *Sink {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Sink{
		stat: stat,
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxWriteRetries)
		},
		openFile: openResultFile,
	}
}

// AppendMetrics appends rows to the metrics file at path, writing the header
// first when the file does not exist yet.
func (s *Sink) AppendMetrics(path string, rows ...Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([][]string, 0, len(rows)+1)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		records = append(records, metricsHeader)
	}
	for _, r := range rows {
		records = append(records, r.fields())
	}
	if err := s.write(path, records, os.O_APPEND); err != nil {
		return err
	}
	s.stat.Counter(stats.ExperimentRowsWrittenCounter).Inc(int64(len(rows)))
	return nil
}

// WriteSchedule replaces the file at path with a dump of records.
func (s *Sink) WriteSchedule(path string, records []domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([][]string, 0, len(records)+1)
	lines = append(lines, scheduleHeader)
	for _, r := range records {
		lines = append(lines, []string{
			strconv.Itoa(r.JobID),
			strconv.Itoa(r.ServerID),
			strconv.Itoa(r.StartTime),
			strconv.Itoa(r.EndTime),
			strconv.Itoa(r.TrueDemand),
			strconv.Itoa(r.ServerCapacity),
		})
	}
	return s.write(path, lines, os.O_TRUNC)
}

func (s *Sink) write(path string, records [][]string, mode int) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}

	op := func() error {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		f, err := s.openFile(path, os.O_CREATE|os.O_WRONLY|mode, 0644)
		if err != nil {
			return err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return err
		}
		if _, err := f.Write(buf.Bytes()); err != nil {
			// drop the partial write so the retry appends whole rows once
			if terr := f.Truncate(info.Size()); terr != nil {
				log.Errorf("Truncating %s back to %d bytes: %v", path, info.Size(), terr)
				f.Close()
				return backoff.Permanent(errors.Wrapf(err, "partial write to %s could not be undone", path))
			}
			f.Close()
			return err
		}
		return f.Close()
	}
	notify := func(err error, wait time.Duration) {
		s.stat.Counter(stats.ExperimentSinkRetryCounter).Inc(1)
		log.WithFields(
			log.Fields{
				"path": path,
				"err":  err,
				"wait": wait,
			}).Warn("Retrying result write")
	}
	if err := backoff.RetryNotify(op, s.newBackOff(), notify); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// MetricsPath is the metrics file of a plain run.
func MetricsPath(dir string) string {
	return filepath.Join(dir, "results.csv")
}

// SweepPath is the metrics file of one misreport grid cell.
func SweepPath(dir string, prob, alpha float64) string {
	return filepath.Join(dir, fmt.Sprintf("results_p%s_a%s.csv", formatFloat(prob), formatFloat(alpha)))
}

// SchedulePath is the schedule dump of one scenario.
func SchedulePath(dir string, seed int64, label string) string {
	return filepath.Join(dir, fmt.Sprintf("schedule_%d_%s.csv", seed, label))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

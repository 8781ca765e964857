// Package simulation drives a scheduler over discrete time: it admits
// arrivals into a waiting pool, releases finished jobs, invokes the scheduler
// on batch boundaries and samples cluster utilization every tick.
package simulation

import (
	"fmt"
	"sync/atomic"

	uuid "github.com/nu7hatch/gouuid"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/schedsim/common/stats"
	"github.com/twitter/schedsim/simulator/domain"
	"github.com/twitter/schedsim/simulator/metrics"
	"github.com/twitter/schedsim/simulator/scheduler"
)

type SimulationConfig struct {
	// Last tick simulated, inclusive.
	TimeLimit int
	// Validate every server ledger on every tick.
	DebugMode bool
	// Included in every log line, ex: "da_strat".
	Label string
}

// Simulation runs one scheduler over one set of jobs and servers at a time.
// A Simulation is not safe for concurrent use; run independent scenarios on
// independent Simulations.
type Simulation struct {
	config SimulationConfig
	stat   stats.StatsReceiver
	events *eventLog

	runID     string
	scheduler scheduler.Scheduler
	jobs      []*domain.Job
	servers   []*domain.Server
	batchSize int
	pool      []*domain.Job
	totalCap  int
	utilSum   float64
}

func NewSimulation(config SimulationConfig, stat stats.StatsReceiver) *Simulation {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Simulation{
		config: config,
		stat:   stat,
		events: newEventLog(),
	}
}

// Run simulates ticks 0..TimeLimit and returns the run's metrics.
// Jobs and servers are mutated in place. A batchSize below 1 is treated as 1.
func (s *Simulation) Run(sched scheduler.Scheduler, jobs []*domain.Job, servers []*domain.Server, batchSize int) metrics.Metrics {
	defer s.stat.Latency(stats.SimRunLatency_ms).Time().Stop()
	s.reset(sched, jobs, servers, batchSize)

	log.WithFields(s.fields()).Infof("Starting simulation of %d jobs on %d servers, capacity %d, batch size %d, time limit %d",
		len(jobs), len(servers), s.totalCap, s.batchSize, s.config.TimeLimit)

	for t := 0; t <= s.config.TimeLimit; t++ {
		s.step(t)
	}

	m := metrics.Reduce(jobs, s.utilSum, s.config.TimeLimit+1)
	log.WithFields(s.fields()).Infof("Simulation done: finished %d, failed %d, avg waiting %g, avg utilization %g",
		m.FinishedJobs, m.FailedJobs, m.AvgWaitingTime, m.AvgUtilization)
	return m
}

// Records returns closed run records in start order.
func (s *Simulation) Records() []domain.RunRecord {
	return s.events.filter(false)
}

// OpenRecords returns records of jobs still running at the end of the run.
func (s *Simulation) OpenRecords() []domain.RunRecord {
	return s.events.filter(true)
}

// RunID identifies the most recent run in logs.
func (s *Simulation) RunID() string {
	return s.runID
}

func (s *Simulation) reset(sched scheduler.Scheduler, jobs []*domain.Job, servers []*domain.Server, batchSize int) {
	if batchSize < 1 {
		batchSize = 1
	}
	s.runID = newRunID()
	s.scheduler = sched
	s.jobs = jobs
	s.servers = servers
	s.batchSize = batchSize
	s.pool = nil
	s.utilSum = 0
	s.events.reset()

	s.totalCap = 0
	for _, server := range servers {
		if server != nil {
			s.totalCap += server.Capacity()
		}
	}
}

// step advances the simulation by one tick.
func (s *Simulation) step(t int) {
	s.stat.Counter(stats.SimTickCounter).Inc(1)

	for _, job := range s.jobs {
		if job != nil && job.ArrivalTime() == t {
			s.pool = append(s.pool, job)
			s.stat.Counter(stats.SimArrivalCounter).Inc(1)
		}
	}

	s.releaseFinished(t)

	if t%s.batchSize == 0 {
		s.scheduler.RunBatch(s.pool, s.servers, t, s.events)
		s.pool = prunePool(s.pool)
	}
	s.stat.Gauge(stats.SimWaitingJobsGauge).Update(int64(len(s.pool)))

	util := s.utilization()
	s.utilSum += util
	s.stat.GaugeFloat(stats.SimUtilizationGauge).Update(util)

	if s.config.DebugMode {
		s.validateLedgers(t)
	}
}

func (s *Simulation) releaseFinished(t int) {
	for _, server := range s.servers {
		if server == nil {
			continue
		}
		for _, job := range server.ReleaseFinished(t) {
			s.events.recordFinish(job, t)
			s.stat.Counter(stats.SimFinishedCounter).Inc(1)
			s.stat.Histogram(stats.SimWaitingTimeHistogram).Update(int64(job.WaitingTime()))
		}
	}
}

func (s *Simulation) utilization() float64 {
	if s.totalCap <= 0 {
		return 0
	}
	used := 0
	for _, server := range s.servers {
		if server != nil {
			used += server.UsedCapacity()
		}
	}
	return float64(used) / float64(s.totalCap)
}

func (s *Simulation) validateLedgers(t int) {
	for _, server := range s.servers {
		if server == nil {
			continue
		}
		if err := server.Validate(); err != nil {
			s.stat.Counter(stats.SimLedgerViolationCounter).Inc(1)
			log.WithFields(s.fields()).WithField("tick", t).Errorf("Ledger violation: %v", err)
		}
	}
}

func (s *Simulation) fields() log.Fields {
	return log.Fields{
		"runID":    s.runID,
		"scenario": s.config.Label,
	}
}

// prunePool drops jobs that left the Waiting state, keeping pool order.
func prunePool(pool []*domain.Job) []*domain.Job {
	waiting := pool[:0]
	for _, job := range pool {
		if job.IsWaiting() {
			waiting = append(waiting, job)
		}
	}
	for i := len(waiting); i < len(pool); i++ {
		pool[i] = nil
	}
	return waiting
}

var (
	newUUID = uuid.NewV4
	runSeq  uint64
)

// newRunID returns a uuid, or a process-local sequence id if the uuid source
// fails.
func newRunID() string {
	id, err := newUUID()
	if err != nil {
		seqID := fmt.Sprintf("run-%d", atomic.AddUint64(&runSeq, 1))
		log.Warnf("Generating run uuid failed, using %s: %v", seqID, err)
		return seqID
	}
	return id.String()
}

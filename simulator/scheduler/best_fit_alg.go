package scheduler

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/schedsim/common/stats"
	"github.com/twitter/schedsim/simulator/domain"
)

// BestFitAlg admits each waiting job onto the server that leaves the least
// free capacity after subtracting the job's reported demand. The commit
// itself charges true demand, so a job that under-reports can be selected and
// then refused, in which case it fails.
type BestFitAlg struct {
	stat stats.StatsReceiver
}

func NewBestFitAlg(stat stats.StatsReceiver) *BestFitAlg {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &BestFitAlg{stat: stat}
}

func (b *BestFitAlg) RunBatch(jobs []*domain.Job, servers []*domain.Server, now int, rec StartRecorder) {
	defer b.stat.Latency(stats.SchedBatchLatency_ms).Time().Stop()
	b.stat.Counter(stats.BestFitBatchCounter).Inc(1)

	for _, job := range jobs {
		if job == nil || !job.IsWaiting() {
			continue
		}
		if !job.HasValidDemand() {
			b.stat.Counter(stats.SchedInvalidDemandCounter).Inc(1)
			continue
		}

		server := bestFit(job.ReportedDemand(), servers)
		if server == nil {
			// stays Waiting and is retried next batch
			b.stat.Counter(stats.BestFitNoFitCounter).Inc(1)
			continue
		}

		if commit(job, server, now, rec) {
			b.stat.Counter(stats.BestFitAdmittedCounter).Inc(1)
			log.WithFields(
				log.Fields{
					"jobID":    job.ID(),
					"serverID": server.ID(),
					"reported": job.ReportedDemand(),
					"true":     job.TrueDemand(),
					"tick":     now,
				}).Debug("Best fit admitted job")
		} else {
			b.stat.Counter(stats.BestFitCommitFailedCounter).Inc(1)
		}
	}
}

// bestFit returns the server with the smallest non-negative slack for demand,
// the first one in list order on ties, or nil if none fits.
func bestFit(demand int, servers []*domain.Server) *domain.Server {
	var best *domain.Server
	bestSlack := math.MaxInt
	for _, server := range servers {
		if server == nil {
			continue
		}
		slack := server.FreeCapacity() - demand
		if slack >= 0 && slack < bestSlack {
			bestSlack = slack
			best = server
		}
	}
	return best
}

package scheduler

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/schedsim/common/stats"
	"github.com/twitter/schedsim/simulator/domain"
)

// DeferredAcceptanceAlg matches waiting jobs to servers with job-proposing,
// many-to-one deferred acceptance. Servers prefer smaller reported demand and
// tentatively hold proposals against their real free capacity, charging each
// held job its reported demand. After convergence the holds are committed on
// true demand; a hold that no longer fits fails the job.
//
// Jobs already running are never reconsidered or displaced. Preference
// cursors only move forward, so a batch takes at most (sum of preference
// list lengths + 1) rounds.
type DeferredAcceptanceAlg struct {
	stat stats.StatsReceiver
}

func NewDeferredAcceptanceAlg(stat stats.StatsReceiver) *DeferredAcceptanceAlg {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &DeferredAcceptanceAlg{stat: stat}
}

// matching is the per-batch tentative state. Indices are positions in the
// batch's server slice.
type matching struct {
	servers   []*domain.Server
	serverIdx map[int]int
	holds     [][]*domain.Job
	proposals [][]*domain.Job
	heldBy    map[*domain.Job]int
}

func newMatching(servers []*domain.Server) *matching {
	m := &matching{
		servers:   servers,
		serverIdx: make(map[int]int, len(servers)),
		holds:     make([][]*domain.Job, len(servers)),
		proposals: make([][]*domain.Job, len(servers)),
		heldBy:    map[*domain.Job]int{},
	}
	for i, s := range servers {
		if s == nil {
			continue
		}
		// first server wins if ids are duplicated
		if _, ok := m.serverIdx[s.ID()]; !ok {
			m.serverIdx[s.ID()] = i
		}
	}
	return m
}

func (d *DeferredAcceptanceAlg) RunBatch(jobs []*domain.Job, servers []*domain.Server, now int, rec StartRecorder) {
	active := make([]*domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if job == nil || !job.IsWaiting() {
			continue
		}
		if !job.HasValidDemand() {
			d.stat.Counter(stats.SchedInvalidDemandCounter).Inc(1)
			continue
		}
		active = append(active, job)
	}
	if len(active) == 0 || len(servers) == 0 {
		return
	}

	defer d.stat.Latency(stats.SchedBatchLatency_ms).Time().Stop()
	d.stat.Counter(stats.DABatchCounter).Inc(1)

	m := newMatching(servers)
	rounds := 0
	for d.propose(m, active) {
		rounds++
		for si := range m.servers {
			if len(m.proposals[si]) > 0 {
				d.respond(m, si)
			}
		}
	}
	d.stat.Histogram(stats.DARoundsHistogram).Update(int64(rounds))
	log.WithFields(
		log.Fields{
			"tick":   now,
			"active": len(active),
			"held":   len(m.heldBy),
			"rounds": rounds,
		}).Debug("Deferred acceptance converged")

	d.writeBack(m, now, rec)
}

// propose lets every unheld active job propose to its current preference.
// Unknown server ids are skipped. Jobs with no preference left fail.
// Returns false when nobody proposed, which is the fixed point.
func (d *DeferredAcceptanceAlg) propose(m *matching, active []*domain.Job) bool {
	anyProposal := false
	for _, job := range active {
		if !job.IsWaiting() {
			continue
		}
		if _, held := m.heldBy[job]; held {
			continue
		}
		for {
			sid, ok := job.NextPreference()
			if !ok {
				job.MarkFailed()
				d.stat.Counter(stats.DAExhaustedCounter).Inc(1)
				log.WithFields(
					log.Fields{
						"jobID":    job.ID(),
						"reported": job.ReportedDemand(),
					}).Debug("Preferences exhausted, job failed")
				break
			}
			si, known := m.serverIdx[sid]
			if !known {
				d.stat.Counter(stats.DAUnknownServerCounter).Inc(1)
				job.AdvancePreference()
				continue
			}
			m.proposals[si] = append(m.proposals[si], job)
			d.stat.Counter(stats.DAProposalCounter).Inc(1)
			anyProposal = true
			break
		}
	}
	return anyProposal
}

// respond has server si choose among its current holds and new proposals.
// Candidates are ranked by reported demand (then job id) and admitted while
// reported demand fits in the server's free capacity. Everyone else advances.
func (d *DeferredAcceptanceAlg) respond(m *matching, si int) {
	server := m.servers[si]
	seen := map[*domain.Job]bool{}
	candidates := make([]*domain.Job, 0, len(m.holds[si])+len(m.proposals[si]))
	for _, group := range [][]*domain.Job{m.holds[si], m.proposals[si]} {
		for _, job := range group {
			if !seen[job] {
				seen[job] = true
				candidates = append(candidates, job)
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ReportedDemand() != b.ReportedDemand() {
			return a.ReportedDemand() < b.ReportedDemand()
		}
		return a.ID() < b.ID()
	})

	remaining := server.FreeCapacity()
	kept := make([]*domain.Job, 0, len(candidates))
	for _, job := range candidates {
		if job.ReportedDemand() <= remaining {
			kept = append(kept, job)
			remaining -= job.ReportedDemand()
			continue
		}
		// a dropped hold or an unadmitted proposal moves on to its next choice
		if held, ok := m.heldBy[job]; ok && held == si {
			delete(m.heldBy, job)
		}
		job.AdvancePreference()
		d.stat.Counter(stats.DARejectionCounter).Inc(1)
	}
	for _, job := range kept {
		m.heldBy[job] = si
	}
	m.holds[si] = kept
	m.proposals[si] = m.proposals[si][:0]
}

// writeBack commits every final hold on true demand.
func (d *DeferredAcceptanceAlg) writeBack(m *matching, now int, rec StartRecorder) {
	for si, server := range m.servers {
		for _, job := range m.holds[si] {
			if !job.IsWaiting() {
				continue
			}
			if commit(job, server, now, rec) {
				d.stat.Counter(stats.DAAdmittedCounter).Inc(1)
			} else {
				d.stat.Counter(stats.DACommitFailedCounter).Inc(1)
			}
		}
	}
}

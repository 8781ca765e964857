// Package scheduler provides the batch allocation policies a simulation can run.
package scheduler

//go:generate mockgen -source=scheduler.go -package=scheduler -destination=scheduler_mock.go

import (
	log "github.com/sirupsen/logrus"

	"github.com/twitter/schedsim/simulator/domain"
)

// StartRecorder is told about every job a scheduler starts on a server.
type StartRecorder interface {
	RecordStart(job *domain.Job, server *domain.Server, now int)
}

// Scheduler runs one admission batch. It mutates job and server state in
// place and reports all failures through job state, never by returning errors.
// Only Waiting jobs are considered; other jobs in the pool are left untouched.
type Scheduler interface {
	RunBatch(jobs []*domain.Job, servers []*domain.Server, now int, rec StartRecorder)
}

// commit performs the real admission of job on server using true demand.
// On success the job becomes Running and the start is recorded, otherwise the
// job is marked Failed. Returns true if the job started.
func commit(job *domain.Job, server *domain.Server, now int, rec StartRecorder) bool {
	if server.Accept(job) {
		job.MarkRunning(now)
		if rec != nil {
			rec.RecordStart(job, server, now)
		}
		return true
	}
	job.MarkFailed()
	log.WithFields(
		log.Fields{
			"jobID":    job.ID(),
			"serverID": server.ID(),
			"true":     job.TrueDemand(),
			"reported": job.ReportedDemand(),
			"free":     server.FreeCapacity(),
			"tick":     now,
		}).Debug("Commit refused on true demand, job failed")
	return false
}

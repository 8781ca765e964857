package simulation

import (
	"github.com/twitter/schedsim/simulator/domain"
)

// eventLog is the append-only record of job executions for one run.
// It receives starts from schedulers and closes records as jobs finish.
type eventLog struct {
	records []domain.RunRecord
	open    map[*domain.Job]int
}

func newEventLog() *eventLog {
	return &eventLog{open: map[*domain.Job]int{}}
}

func (l *eventLog) reset() {
	l.records = nil
	l.open = map[*domain.Job]int{}
}

// RecordStart implements scheduler.StartRecorder.
func (l *eventLog) RecordStart(job *domain.Job, server *domain.Server, now int) {
	l.open[job] = len(l.records)
	l.records = append(l.records, domain.NewRunRecord(job, server, now))
}

func (l *eventLog) recordFinish(job *domain.Job, now int) {
	idx, ok := l.open[job]
	if !ok {
		return
	}
	l.records[idx].EndTime = now
	delete(l.open, job)
}

func (l *eventLog) filter(open bool) []domain.RunRecord {
	out := []domain.RunRecord{}
	for _, r := range l.records {
		if r.Open() == open {
			out = append(out, r)
		}
	}
	return out
}

package domain

import (
	"fmt"
)

// JobState is the lifecycle of a simulated job.
// Legal paths are Waiting -> Running -> Finished and Waiting -> Failed.
type JobState int

const (
	Waiting JobState = iota
	Running
	Finished
	Failed
)

func (s JobState) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case Running:
		return "Running"
	case Finished:
		return "Finished"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("JobState(%d)", int(s))
}

// IsTerminal is true for Finished and Failed.
func (s JobState) IsTerminal() bool {
	return s == Finished || s == Failed
}

const unsetTime = -1

// Job is one capacity-bounded unit of work.
// TrueDemand is what the job consumes once running, ReportedDemand is what
// its owner claimed and what admission decisions look at.
type Job struct {
	id             int
	trueDemand     int
	reportedDemand int
	duration       int
	arrivalTime    int
	prefs          []int

	state      JobState
	prefCursor int
	startTime  int
	finishTime int
}

// NewJob returns a Waiting job. The preference list is copied.
func NewJob(id, trueDemand, reportedDemand, duration, arrivalTime int, prefs []int) *Job {
	p := make([]int, len(prefs))
	copy(p, prefs)
	return &Job{
		id:             id,
		trueDemand:     trueDemand,
		reportedDemand: reportedDemand,
		duration:       duration,
		arrivalTime:    arrivalTime,
		prefs:          p,
		state:          Waiting,
		startTime:      unsetTime,
		finishTime:     unsetTime,
	}
}

// WithReportedDemand returns a fresh Waiting copy of the job's definition
// that reports the given demand. Runtime state is not copied.
func (j *Job) WithReportedDemand(reported int) *Job {
	return NewJob(j.id, j.trueDemand, reported, j.duration, j.arrivalTime, j.prefs)
}

func (j *Job) ID() int             { return j.id }
func (j *Job) TrueDemand() int     { return j.trueDemand }
func (j *Job) ReportedDemand() int { return j.reportedDemand }
func (j *Job) Duration() int       { return j.duration }
func (j *Job) ArrivalTime() int    { return j.arrivalTime }
func (j *Job) State() JobState     { return j.state }

// StartTime is -1 until the job starts running.
func (j *Job) StartTime() int { return j.startTime }

// FinishTime is -1 until the job finishes.
func (j *Job) FinishTime() int { return j.finishTime }

// Preferences returns a copy of the ordered server preference list.
func (j *Job) Preferences() []int {
	p := make([]int, len(j.prefs))
	copy(p, j.prefs)
	return p
}

func (j *Job) IsWaiting() bool  { return j.state == Waiting }
func (j *Job) IsRunning() bool  { return j.state == Running }
func (j *Job) IsFinished() bool { return j.state == Finished }
func (j *Job) IsFailed() bool   { return j.state == Failed }

// HasValidDemand is false when either demand is non-positive. Such jobs are
// never scheduled and stay Waiting.
func (j *Job) HasValidDemand() bool {
	return j.trueDemand > 0 && j.reportedDemand > 0
}

// Misreports is true when the reported demand differs from the true demand.
func (j *Job) Misreports() bool {
	return j.trueDemand != j.reportedDemand
}

// WaitingTime is start - arrival, or -1 if the job never started.
func (j *Job) WaitingTime() int {
	if j.startTime == unsetTime {
		return unsetTime
	}
	return j.startTime - j.arrivalTime
}

// CompletionTime is finish - arrival, or -1 if the job never finished.
func (j *Job) CompletionTime() int {
	if j.finishTime == unsetTime {
		return unsetTime
	}
	return j.finishTime - j.arrivalTime
}

// Elapsed reports whether a running job has run for its full duration at now.
func (j *Job) Elapsed(now int) bool {
	return j.state == Running && now-j.startTime >= j.duration
}

// MarkRunning moves a Waiting job to Running and stamps its start time.
// Returns false, leaving the job untouched, for any other state.
func (j *Job) MarkRunning(now int) bool {
	if j.state != Waiting {
		return false
	}
	j.state = Running
	j.startTime = now
	return true
}

// MarkFinished moves a Running job to Finished.
func (j *Job) MarkFinished(now int) bool {
	if j.state != Running {
		return false
	}
	j.state = Finished
	j.finishTime = now
	return true
}

// MarkFailed moves a Waiting job to the terminal Failed state.
func (j *Job) MarkFailed() bool {
	if j.state != Waiting {
		return false
	}
	j.state = Failed
	return true
}

//
// Deferred acceptance helpers. The cursor only moves forward.
//

// NextPreference returns the server id under the cursor, or false once the
// preference list is exhausted.
func (j *Job) NextPreference() (int, bool) {
	if j.prefCursor >= len(j.prefs) {
		return 0, false
	}
	return j.prefs[j.prefCursor], true
}

// AdvancePreference moves the cursor to the next preferred server.
func (j *Job) AdvancePreference() {
	if j.prefCursor < len(j.prefs) {
		j.prefCursor++
	}
}

// PreferencesExhausted is true once every preference has been tried.
func (j *Job) PreferencesExhausted() bool {
	return j.prefCursor >= len(j.prefs)
}

func (j *Job) String() string {
	return fmt.Sprintf("{job:%d, state:%s, true:%d, reported:%d, duration:%d, arrival:%d, start:%d, finish:%d, prefs:%v, cursor:%d}",
		j.id, j.state, j.trueDemand, j.reportedDemand, j.duration, j.arrivalTime, j.startTime, j.finishTime, j.prefs, j.prefCursor)
}

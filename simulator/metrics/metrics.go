// Package metrics reduces the job records of a finished simulation run into
// a summary snapshot.
package metrics

import (
	"fmt"

	"github.com/twitter/schedsim/simulator/domain"
)

// Metrics summarizes one simulation run. Averages over completion and
// waiting time only consider finished jobs and are 0 when none finished.
type Metrics struct {
	TotalJobs         int     `json:"totalJobs"`
	FinishedJobs      int     `json:"finishedJobs"`
	FailedJobs        int     `json:"failedJobs"`
	AvgCompletionTime float64 `json:"avgCompletionTime"`
	AvgWaitingTime    float64 `json:"avgWaitingTime"`
	AvgUtilization    float64 `json:"avgUtilization"`
}

// Reduce computes Metrics from the run's jobs and the per-tick utilization
// sum accumulated over numTicks samples.
func Reduce(jobs []*domain.Job, utilizationSum float64, numTicks int) Metrics {
	m := Metrics{TotalJobs: len(jobs)}
	var sumCompletion, sumWaiting int
	for _, job := range jobs {
		if job == nil {
			continue
		}
		switch {
		case job.IsFinished():
			m.FinishedJobs++
			sumCompletion += job.CompletionTime()
			sumWaiting += job.WaitingTime()
		case job.IsFailed():
			m.FailedJobs++
		}
	}
	if m.FinishedJobs > 0 {
		m.AvgCompletionTime = float64(sumCompletion) / float64(m.FinishedJobs)
		m.AvgWaitingTime = float64(sumWaiting) / float64(m.FinishedJobs)
	}
	if numTicks > 0 {
		m.AvgUtilization = utilizationSum / float64(numTicks)
	}
	return m
}

// String renders the human readable summary block.
func (m Metrics) String() string {
	return fmt.Sprintf("Total jobs: %d\n"+
		"Finished jobs: %d\n"+
		"Failed jobs: %d\n"+
		"Avg completion time: %g\n"+
		"Avg waiting time: %g\n"+
		"Approx avg utilization: %g\n",
		m.TotalJobs, m.FinishedJobs, m.FailedJobs, m.AvgCompletionTime, m.AvgWaitingTime, m.AvgUtilization)
}

package testhelpers

import (
	"github.com/twitter/schedsim/simulator/domain"
)

// JobSpec describes a job for table driven tests. A zero ReportedDemand
// means the job reports truthfully.
type JobSpec struct {
	ID             int
	TrueDemand     int
	ReportedDemand int
	Duration       int
	Arrival        int
	Prefs          []int
}

// MakeJobs builds Waiting jobs from specs, in order.
func MakeJobs(specs ...JobSpec) []*domain.Job {
	jobs := make([]*domain.Job, 0, len(specs))
	for _, s := range specs {
		reported := s.ReportedDemand
		if reported == 0 {
			reported = s.TrueDemand
		}
		jobs = append(jobs, domain.NewJob(s.ID, s.TrueDemand, reported, s.Duration, s.Arrival, s.Prefs))
	}
	return jobs
}

// MakeServers returns servers with ids 0..n-1 and the given capacities.
func MakeServers(capacities ...int) []*domain.Server {
	servers := make([]*domain.Server, len(capacities))
	for i, c := range capacities {
		servers[i] = domain.NewServer(i, c)
	}
	return servers
}

// ServerIDs returns the ids of servers, in order.
func ServerIDs(servers []*domain.Server) []int {
	ids := make([]int, len(servers))
	for i, s := range servers {
		ids[i] = s.ID()
	}
	return ids
}

// CountStates tallies jobs by lifecycle state.
func CountStates(jobs []*domain.Job) map[domain.JobState]int {
	counts := map[domain.JobState]int{}
	for _, j := range jobs {
		counts[j.State()]++
	}
	return counts
}

// ValidateLedgers returns the first ledger violation among servers, if any.
func ValidateLedgers(servers []*domain.Server) error {
	for _, s := range servers {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

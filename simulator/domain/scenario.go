package domain

import (
	"github.com/davecgh/go-spew/spew"
)

// Policy names the allocation policy a scenario is run with.
type Policy string

const (
	BestFitPolicy            Policy = "base"
	DeferredAcceptancePolicy Policy = "da"
)

// Reporting names how job owners report demand in a scenario.
type Reporting string

const (
	Truthful  Reporting = "truth"
	Strategic Reporting = "strat"
)

// Scenario owns every job and server of one simulation run. Schedulers and
// the driver only borrow these slices for the duration of the run.
type Scenario struct {
	Seed      int64
	Policy    Policy
	Reporting Reporting
	Jobs      []*Job
	Servers   []*Server
}

// Label is the scenario's result label, ex: "da_strat".
func (s *Scenario) Label() string {
	return string(s.Policy) + "_" + string(s.Reporting)
}

// TotalCapacity sums the capacity of every server.
func (s *Scenario) TotalCapacity() int {
	total := 0
	for _, srv := range s.Servers {
		total += srv.Capacity()
	}
	return total
}

// CountMisreports returns how many jobs report a demand different from their true demand.
func (s *Scenario) CountMisreports() int {
	n := 0
	for _, j := range s.Jobs {
		if j.Misreports() {
			n++
		}
	}
	return n
}

// Dump renders the full scenario for debugging.
func (s *Scenario) Dump() string {
	return spew.Sdump(s)
}

// +build property_test

package simulation

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/twitter/schedsim/simulator/scheduler"
	"github.com/twitter/schedsim/tests/testhelpers"
)

func Test_SimulationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("runs keep ledgers valid and utilization in [0, 1]", prop.ForAll(
		func(b testhelpers.BatchInstance, batchSize int, useDA bool) bool {
			var sched scheduler.Scheduler = scheduler.NewBestFitAlg(nil)
			if useDA {
				sched = scheduler.NewDeferredAcceptanceAlg(nil)
			}
			sim := NewSimulation(SimulationConfig{TimeLimit: 30}, nil)
			m := sim.Run(sched, b.Jobs, b.Servers, batchSize)

			if testhelpers.ValidateLedgers(b.Servers) != nil {
				return false
			}
			if m.AvgUtilization < 0 || m.AvgUtilization > 1 {
				return false
			}
			if len(sim.Records()) != m.FinishedJobs {
				return false
			}
			for _, r := range sim.Records() {
				if r.EndTime < r.StartTime {
					return false
				}
			}
			return m.FinishedJobs+m.FailedJobs <= m.TotalJobs
		},
		testhelpers.GenBatchInstance(false),
		gen.IntRange(1, 6),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

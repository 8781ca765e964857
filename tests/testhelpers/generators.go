package testhelpers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/leanovate/gopter"

	"github.com/twitter/schedsim/simulator/domain"
)

// NewRand returns a generator seeded from the wall clock.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenServers generates between 1 and maxServers servers with capacities in
// [1, maxCap].
func GenServers(rng *rand.Rand, maxServers, maxCap int) []*domain.Server {
	n := rng.Intn(maxServers) + 1
	servers := make([]*domain.Server, n)
	for i := range servers {
		servers[i] = domain.NewServer(i, rng.Intn(maxCap)+1)
	}
	return servers
}

// GenJobs generates numJobs waiting jobs. Demands are drawn from
// [1, maxDemand] and reported demand is independently misreported with
// probability misreportProb. Preference lists are random permutations of
// serverIDs, occasionally salted with an id no server has.
func GenJobs(rng *rand.Rand, numJobs, maxDemand, maxDuration, maxArrival int, serverIDs []int, misreportProb float64) []*domain.Job {
	jobs := make([]*domain.Job, numJobs)
	for i := range jobs {
		trueDemand := rng.Intn(maxDemand) + 1
		reported := trueDemand
		if rng.Float64() < misreportProb {
			reported = rng.Intn(maxDemand) + 1
		}
		prefs := make([]int, len(serverIDs))
		for k, p := range rng.Perm(len(serverIDs)) {
			prefs[k] = serverIDs[p]
		}
		if rng.Intn(4) == 0 {
			prefs = append(prefs, -1-rng.Intn(3))
		}
		jobs[i] = domain.NewJob(i, trueDemand, reported, rng.Intn(maxDuration)+1, rng.Intn(maxArrival+1), prefs)
	}
	return jobs
}

// BatchInstance is a job pool and server list for a single scheduler batch.
type BatchInstance struct {
	Jobs    []*domain.Job
	Servers []*domain.Server
}

func (b BatchInstance) String() string {
	return fmt.Sprintf("{ Jobs: %v, Servers: %v }", b.Jobs, b.Servers)
}

// GenBatchInstance generates a BatchInstance. When truthful is set every
// job reports its true demand.
func GenBatchInstance(truthful bool) gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		rng := genParams.Rng
		servers := GenServers(rng, 6, 20)
		misreportProb := 0.5
		if truthful {
			misreportProb = 0
		}
		jobs := GenJobs(rng, rng.Intn(30), 12, 5, 0, ServerIDs(servers), misreportProb)
		return gopter.NewGenResult(BatchInstance{Jobs: jobs, Servers: servers}, gopter.NoShrinker)
	}
}

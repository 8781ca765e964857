// Package generator builds reproducible workloads: the true job set for a
// seed, its truthful and strategic reporting variants, and server lists.
package generator

import (
	"math"
	"math/rand"

	"github.com/twitter/schedsim/simulator/config"
	"github.com/twitter/schedsim/simulator/domain"
)

// serverSeedOffset decorrelates server capacities from job draws.
const serverSeedOffset = 2025

// Generator is stateless: every method seeds its own rand.Rand from the
// configured seed, so repeated calls return identical output.
type Generator struct {
	cfg config.GeneratorConfig
}

func NewGenerator(cfg config.GeneratorConfig) *Generator {
	return &Generator{cfg: cfg}
}

// TrueJobs returns NumJobs truthful jobs with ids 0..NumJobs-1. Each job's
// preference list is a random permutation of the server ids.
func (g *Generator) TrueJobs() []*domain.Job {
	rng := rand.New(rand.NewSource(g.cfg.Seed))
	jobs := make([]*domain.Job, 0, g.cfg.NumJobs)
	for id := 0; id < g.cfg.NumJobs; id++ {
		demand := uniform(rng, g.cfg.DemandMin, g.cfg.DemandMax)
		duration := uniform(rng, g.cfg.DurationMin, g.cfg.DurationMax)
		arrival := uniform(rng, 0, g.cfg.MaxArrivalTime)
		prefs := rng.Perm(g.cfg.NumServers)
		jobs = append(jobs, domain.NewJob(id, demand, demand, duration, arrival, prefs))
	}
	return jobs
}

// TruthfulCopy returns fresh jobs reporting their true demand.
func (g *Generator) TruthfulCopy(jobs []*domain.Job) []*domain.Job {
	out := make([]*domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if job == nil {
			continue
		}
		out = append(out, job.WithReportedDemand(job.TrueDemand()))
	}
	return out
}

// StrategicCopy returns fresh jobs where each job independently misreports
// with probability MisreportProb, under or over with equal odds, by up to a
// factor of MisreportAlpha. Nobody misreports when MisreportAlpha is 0.
func (g *Generator) StrategicCopy(jobs []*domain.Job) []*domain.Job {
	rng := rand.New(rand.NewSource(g.cfg.Seed))
	out := make([]*domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if job == nil {
			continue
		}
		reported := job.TrueDemand()
		if rng.Float64() < g.cfg.MisreportProb && g.cfg.MisreportAlpha > 0 {
			if rng.Intn(2) == 0 {
				reported = g.underReport(rng, job.TrueDemand())
			} else {
				reported = g.overReport(rng, job.TrueDemand())
			}
		}
		out = append(out, job.WithReportedDemand(reported))
	}
	return out
}

// underReport draws from [(1-alpha)*true, true-1], floored at DemandMin.
func (g *Generator) underReport(rng *rand.Rand, trueDemand int) int {
	lo := int(math.Round((1 - g.cfg.MisreportAlpha) * float64(trueDemand)))
	if lo < g.cfg.DemandMin {
		lo = g.cfg.DemandMin
	}
	hi := trueDemand - 1
	if hi < lo {
		hi = lo
	}
	return uniform(rng, lo, hi)
}

// overReport draws from [true+1, (1+alpha)*true], capped at DemandMax.
func (g *Generator) overReport(rng *rand.Rand, trueDemand int) int {
	lo := trueDemand + 1
	if lo > g.cfg.DemandMax {
		lo = g.cfg.DemandMax
	}
	hi := int(math.Round((1 + g.cfg.MisreportAlpha) * float64(trueDemand)))
	if hi > g.cfg.DemandMax {
		hi = g.cfg.DemandMax
	}
	if hi < lo {
		hi = lo
	}
	return uniform(rng, lo, hi)
}

// Servers returns NumServers servers with ids 0..NumServers-1.
func (g *Generator) Servers() []*domain.Server {
	rng := rand.New(rand.NewSource(g.cfg.Seed + serverSeedOffset))
	servers := make([]*domain.Server, 0, g.cfg.NumServers)
	for id := 0; id < g.cfg.NumServers; id++ {
		servers = append(servers, domain.NewServer(id, uniform(rng, g.cfg.ServerCapMin, g.cfg.ServerCapMax)))
	}
	return servers
}

// Scenarios returns the four policy and reporting combinations for the
// configured seed, in the order base_truth, base_strat, da_truth, da_strat.
// Each scenario owns its own jobs and servers.
func (g *Generator) Scenarios() []*domain.Scenario {
	trueJobs := g.TrueJobs()
	var scenarios []*domain.Scenario
	for _, policy := range []domain.Policy{domain.BestFitPolicy, domain.DeferredAcceptancePolicy} {
		for _, reporting := range []domain.Reporting{domain.Truthful, domain.Strategic} {
			jobs := g.TruthfulCopy(trueJobs)
			if reporting == domain.Strategic {
				jobs = g.StrategicCopy(trueJobs)
			}
			scenarios = append(scenarios, &domain.Scenario{
				Seed:      g.cfg.Seed,
				Policy:    policy,
				Reporting: reporting,
				Jobs:      jobs,
				Servers:   g.Servers(),
			})
		}
	}
	return scenarios
}

// uniform draws from [lo, hi], returning lo for an empty range.
func uniform(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

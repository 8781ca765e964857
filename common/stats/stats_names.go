package stats

/*
This file defines all the metrics being collected. As new metrics are added please follow this pattern.
Simulation stats are recorded under a scope naming the scenario, ex: "da_strat/daProposalCounter".
*/

const (
	/************************* Best-fit scheduler metrics **************************/
	/*
		number of batches the best-fit scheduler has processed
	*/
	BestFitBatchCounter = "bestFitBatchCounter"

	/*
		jobs admitted (marked running) by best-fit
	*/
	BestFitAdmittedCounter = "bestFitAdmittedCounter"

	/*
		jobs that had a server selected on reported demand but failed the true demand commit
	*/
	BestFitCommitFailedCounter = "bestFitCommitFailedCounter"

	/*
		jobs left waiting because no server had non-negative slack
	*/
	BestFitNoFitCounter = "bestFitNoFitCounter"

	/************************* Deferred acceptance metrics **************************/
	/*
		number of batches the DA scheduler has processed
	*/
	DABatchCounter = "daBatchCounter"

	/*
		proposal rounds needed to converge, sampled once per batch
	*/
	DARoundsHistogram = "daRoundsHistogram"

	/*
		total proposals made by jobs
	*/
	DAProposalCounter = "daProposalCounter"

	/*
		proposals rejected or tentative holds dropped by a server
	*/
	DARejectionCounter = "daRejectionCounter"

	/*
		preference entries naming a server that does not exist
	*/
	DAUnknownServerCounter = "daUnknownServerCounter"

	/*
		jobs whose preference list was exhausted
	*/
	DAExhaustedCounter = "daExhaustedCounter"

	/*
		jobs admitted at write-back
	*/
	DAAdmittedCounter = "daAdmittedCounter"

	/*
		tentatively held jobs that failed the true demand check at write-back
	*/
	DACommitFailedCounter = "daCommitFailedCounter"

	/************************* Scheduler shared metrics **************************/
	/*
		jobs skipped because reported or true demand is not positive
	*/
	SchedInvalidDemandCounter = "schedInvalidDemandCounter"

	/*
		amount of time it takes to run one batch
	*/
	SchedBatchLatency_ms = "schedBatchLatency_ms"

	/************************* Simulation driver metrics **************************/
	/*
		number of ticks simulated
	*/
	SimTickCounter = "simTickCounter"

	/*
		jobs added to the waiting pool
	*/
	SimArrivalCounter = "simArrivalCounter"

	/*
		jobs moved from running to finished
	*/
	SimFinishedCounter = "simFinishedCounter"

	/*
		number of jobs still waiting at the last sampled tick
	*/
	SimWaitingJobsGauge = "simWaitingJobsGauge"

	/*
		instantaneous utilization at the last sampled tick
	*/
	SimUtilizationGauge = "simUtilizationGauge"

	/*
		waiting time (start - arrival) of every job that started
	*/
	SimWaitingTimeHistogram = "simWaitingTimeHistogram"

	/*
		server ledger violations detected in debug mode
	*/
	SimLedgerViolationCounter = "simLedgerViolationCounter"

	/*
		wall clock time of a whole simulation run
	*/
	SimRunLatency_ms = "simRunLatency_ms"

	/************************* Experiment metrics **************************/
	/*
		number of seeds run
	*/
	ExperimentSeedCounter = "experimentSeedCounter"

	/*
		result rows written to the sink
	*/
	ExperimentRowsWrittenCounter = "experimentRowsWrittenCounter"

	/*
		failed attempts to write to the result sink (before retry)
	*/
	ExperimentSinkRetryCounter = "experimentSinkRetryCounter"
)

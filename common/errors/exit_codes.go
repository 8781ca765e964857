package errors

type ExitCode int

const (
	// Command line usage problems (bad flag values, unknown config names)
	UsageExitCode ExitCode = 64

	// Simulation produced no results (ex: every seed was skipped)
	SimulationFailureExitCode = 80

	// Results, schedule dumps or stats could not be written
	ResultWriteFailureExitCode = 90
)

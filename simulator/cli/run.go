package cli

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	exitcodes "github.com/twitter/schedsim/common/errors"
	"github.com/twitter/schedsim/simulator/config"
	"github.com/twitter/schedsim/simulator/experiment"
	"github.com/twitter/schedsim/simulator/results"
)

// experimentFlags are shared by run and sweep.
type experimentFlags struct {
	configPath   string
	configName   string
	numSeeds     int
	seed         int64
	resultsDir   string
	dumpSchedule bool
	statsFile    string
}

func (f *experimentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Config file (.json, .yaml/.yml, or key = value text). Overrides --config_name")
	cmd.Flags().StringVar(&f.configName, "config_name", "default", "Built-in config to use when --config is unset")
	cmd.Flags().IntVar(&f.numSeeds, "seeds", 0, "Number of consecutive seeds to run, overrides the config")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Base seed, -1 for an auto-generated seed, overrides the config")
	cmd.Flags().StringVar(&f.resultsDir, "results_dir", "results", "Directory receiving result files")
	cmd.Flags().BoolVar(&f.dumpSchedule, "dump_schedule", false, "Write one schedule CSV per scenario")
	cmd.Flags().StringVar(&f.statsFile, "stats_file", "", "Write the stats registry as JSON to this file")
}

// load resolves the run configuration from flags, logging every repair
// Validate makes. A config file that cannot be read or parsed falls back to
// the defaults with a warning.
func (f *experimentFlags) load(cmd *cobra.Command) (config.RunConfig, string, error) {
	var cfg config.RunConfig
	var err error
	name := f.configName
	if f.configPath != "" {
		name = f.configPath
		cfg, err = config.LoadFile(f.configPath)
		if err != nil {
			log.Warnf("Using default config values: %v", err)
			cfg = config.DefaultConfig()
		} else {
			log.Infof("Loaded config from %s", f.configPath)
		}
	} else {
		cfg, err = config.GetConfig(f.configName)
		if err != nil {
			return cfg, name, exitcodes.NewError(err, exitcodes.UsageExitCode)
		}
	}

	if cmd.Flags().Changed("seeds") {
		cfg.NumSeeds = f.numSeeds
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generator.Seed = f.seed
	}
	for _, diag := range cfg.Validate() {
		log.Warnf("Config %s: %s", name, diag)
	}
	log.Debugf("Using %s", cfg)
	return cfg, name, nil
}

func (f *experimentFlags) runner(cl *SimCLIClient, cfg config.RunConfig, name string) *experiment.Runner {
	return experiment.NewRunner(experiment.RunnerConfig{
		Run:          cfg,
		ConfigName:   name,
		ResultsDir:   f.resultsDir,
		DumpSchedule: f.dumpSchedule,
		Out:          cl.Out,
	}, results.NewSink(cl.Stats()), cl.Stats())
}

// finish maps a runner outcome to the command's exit error and writes stats.
func (f *experimentFlags) finish(cl *SimCLIClient, outcomes []experiment.Outcome, err error) error {
	if err != nil {
		return exitcodes.NewError(err, exitcodes.ResultWriteFailureExitCode)
	}
	if len(outcomes) == 0 {
		return exitcodes.NewError(errors.New("no scenario was simulated"), exitcodes.SimulationFailureExitCode)
	}
	return cl.writeStats(f.statsFile)
}

type runCmd struct {
	flags experimentFlags
}

func (c *runCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "run",
		Short: "Simulate the four policy and reporting scenarios for each seed",
	}
	c.flags.register(r)
	return r
}

func (c *runCmd) Run(cl *SimCLIClient, cmd *cobra.Command, args []string) error {
	cfg, name, err := c.flags.load(cmd)
	if err != nil {
		return err
	}
	outcomes, err := c.flags.runner(cl, cfg, name).Run()
	return c.flags.finish(cl, outcomes, err)
}

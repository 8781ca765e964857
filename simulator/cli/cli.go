// Package cli implements the schedsim command line: running experiments,
// sweeping misreport grids and listing built-in configurations.
package cli

import (
	"io"
	"io/ioutil"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twitter/schedsim/common/endpoints"
	"github.com/twitter/schedsim/common/errors"
	"github.com/twitter/schedsim/common/log/hooks"
	"github.com/twitter/schedsim/common/stats"
)

// SimCLIClient holds the state shared by every schedsim command.
type SimCLIClient struct {
	RootCmd    *cobra.Command
	LogLevel   string
	LogContext bool
	HTTPAddr   string
	Out        io.Writer

	statsRegistry stats.StatsRegistry
	stat          stats.StatsReceiver
}

// Cmd is one schedsim subcommand.
type Cmd interface {
	RegisterFlags() *cobra.Command
	Run(cl *SimCLIClient, cmd *cobra.Command, args []string) error
}

func (c *SimCLIClient) Exec() error {
	return c.RootCmd.Execute()
}

// NewSimCLIClient builds the command tree. Metrics blocks go to out.
func NewSimCLIClient(out io.Writer) *SimCLIClient {
	c := &SimCLIClient{Out: out}
	c.statsRegistry = stats.NewFinagleStatsRegistry()
	c.stat = stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return c.statsRegistry }).Precision(time.Millisecond)

	c.RootCmd = &cobra.Command{
		Use:               "schedsim",
		Short:             "schedsim compares best-fit and deferred acceptance scheduling under truthful and strategic demand reports",
		PersistentPreRunE: c.Init,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	c.RootCmd.PersistentFlags().StringVar(&c.LogLevel, "log_level", "info", "Log everything at this level and above (error|info|debug)")
	c.RootCmd.PersistentFlags().BoolVar(&c.LogContext, "log_context", false, "Add the caller's file:line to every log entry")
	c.RootCmd.PersistentFlags().StringVar(&c.HTTPAddr, "http_addr", "", "Serve /health and /admin/metrics.json on this address while running")

	c.addCmd(&runCmd{})
	c.addCmd(&sweepCmd{})
	c.addCmd(&configsCmd{})
	return c
}

// Can only be called from cobra command run or hook
func (c *SimCLIClient) Init(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Error(err)
		return errors.NewError(err, errors.UsageExitCode)
	}
	log.SetLevel(level)
	if c.LogContext {
		log.AddHook(hooks.NewContextHook())
	}
	if c.HTTPAddr != "" {
		server := endpoints.NewStatsServer(c.HTTPAddr, c.stat)
		go func() {
			if err := server.Serve(); err != nil {
				log.Errorf("Stats server on %s stopped: %v", c.HTTPAddr, err)
			}
		}()
	}
	return nil
}

// Stats returns the receiver every command records into.
func (c *SimCLIClient) Stats() stats.StatsReceiver {
	return c.stat
}

// writeStats renders the stats registry as pretty JSON to path.
func (c *SimCLIClient) writeStats(path string) error {
	if path == "" {
		return nil
	}
	if err := ioutil.WriteFile(path, c.stat.Render(true), 0644); err != nil {
		return errors.NewError(err, errors.ResultWriteFailureExitCode)
	}
	log.Infof("Wrote stats to %s", path)
	return nil
}

func (c *SimCLIClient) addCmd(cmd Cmd) {
	cobraCmd := cmd.RegisterFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.Run(c, innerCmd, args)
	}
	c.RootCmd.AddCommand(cobraCmd)
}

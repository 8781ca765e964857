package cli

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	exitcodes "github.com/twitter/schedsim/common/errors"
)

var defaultSweepProbs = []string{"0.01", "0.1", "0.25", "0.5", "0.75", "0.99"}
var defaultSweepAlphas = []string{"0.01", "0.1", "0.5", "1", "2", "10"}

type sweepCmd struct {
	flags  experimentFlags
	probs  []string
	alphas []string
}

func (c *sweepCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "sweep",
		Short: "Run every seed over a grid of misreport probabilities and amplitudes",
	}
	c.flags.register(r)
	r.Flags().StringSliceVar(&c.probs, "probs", defaultSweepProbs, "Misreport probabilities, each in [0, 1]")
	r.Flags().StringSliceVar(&c.alphas, "alphas", defaultSweepAlphas, "Misreport amplitudes, each >= 0")
	return r
}

func (c *sweepCmd) Run(cl *SimCLIClient, cmd *cobra.Command, args []string) error {
	probs, err := parseFloats(c.probs, 0, 1)
	if err != nil {
		return exitcodes.NewError(errors.Wrap(err, "--probs"), exitcodes.UsageExitCode)
	}
	alphas, err := parseFloats(c.alphas, 0, -1)
	if err != nil {
		return exitcodes.NewError(errors.Wrap(err, "--alphas"), exitcodes.UsageExitCode)
	}

	cfg, name, err := c.flags.load(cmd)
	if err != nil {
		return err
	}
	outcomes, err := c.flags.runner(cl, cfg, name).Sweep(probs, alphas)
	return c.flags.finish(cl, outcomes, err)
}

// parseFloats parses every value and checks it is >= min and, when max is
// not negative, <= max.
func parseFloats(values []string, min, max float64) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		if f < min || (max >= 0 && f > max) {
			return nil, errors.Errorf("%s is out of range", v)
		}
		out = append(out, f)
	}
	return out, nil
}

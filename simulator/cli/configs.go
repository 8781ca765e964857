package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twitter/schedsim/simulator/config"
)

type configsCmd struct{}

func (c *configsCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "configs",
		Short: "Print the built-in configurations as JSON",
	}
}

func (c *configsCmd) Run(cl *SimCLIClient, cmd *cobra.Command, args []string) error {
	asJSON, err := json.MarshalIndent(config.RunConfigs, "", "  ")
	if err != nil {
		return fmt.Errorf("Error converting configs to JSON: %v", err)
	}
	fmt.Fprintf(cl.Out, "%s\n", asJSON)
	return nil
}

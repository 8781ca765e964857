package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/schedsim/common/errors"
	"github.com/twitter/schedsim/simulator/cli"
)

// Batch scheduling simulator comparing best-fit and deferred acceptance.
func main() {
	err := cli.NewSimCLIClient(os.Stdout).Exec()
	if err == nil {
		return
	}
	log.Error("error running schedsim: ", err)
	if e, ok := err.(*errors.ExitCodeError); ok {
		os.Exit(int(e.GetExitCode()))
	}
	os.Exit(int(errors.UsageExitCode))
}

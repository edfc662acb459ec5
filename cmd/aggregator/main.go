/*
	Copyright 2023 Markus Papenbrock
*/

package main

import (
	"os"

	"github.com/spf13/cobra"

	basecmd "github.com/mpapenbr/f1-quali-timeline/pkg/cmd"
	"github.com/mpapenbr/f1-quali-timeline/pkg/cmd/aggregate"
	"github.com/mpapenbr/f1-quali-timeline/version"
)

func main() {
	cmd := aggregate.NewAggregateCmd()
	cmd.Version = version.FullVersion
	basecmd.AddConfigFlag(cmd, "f1q-aggregator")
	basecmd.AddLoggingFlags(cmd)
	cobra.OnInitialize(basecmd.InitConfig(cmd, "f1q-aggregator"))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

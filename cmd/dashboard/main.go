/*
	Copyright 2023 Markus Papenbrock
*/

package main

import (
	"os"

	"github.com/spf13/cobra"

	basecmd "github.com/mpapenbr/f1-quali-timeline/pkg/cmd"
	dashboardcmd "github.com/mpapenbr/f1-quali-timeline/pkg/cmd/dashboard"
	"github.com/mpapenbr/f1-quali-timeline/version"
)

func main() {
	cmd := dashboardcmd.NewDashboardCmd()
	cmd.Version = version.FullVersion
	basecmd.AddConfigFlag(cmd, "f1q-dashboard")
	basecmd.AddLoggingFlags(cmd)
	cobra.OnInitialize(basecmd.InitConfig(cmd, "f1q-dashboard"))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

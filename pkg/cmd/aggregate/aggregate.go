package aggregate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-quali-timeline/log"
	basecmd "github.com/mpapenbr/f1-quali-timeline/pkg/cmd"
	"github.com/mpapenbr/f1-quali-timeline/pkg/config"
	"github.com/mpapenbr/f1-quali-timeline/pkg/processing/timeline"
	"github.com/mpapenbr/f1-quali-timeline/pkg/repository/rawdata"
	"github.com/mpapenbr/f1-quali-timeline/pkg/repository/timelinefile"
)

func NewAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregator",
		Short: "builds the career timeline from the raw season files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return aggregateData()
		},
	}
	cmd.Flags().StringVar(&config.RawDataDir,
		"input-dir",
		"data",
		"directory holding the raw season files")
	cmd.Flags().StringVar(&config.OutputDir,
		"output-dir",
		"data",
		"directory for the career timeline artifact")
	cmd.Flags().StringVar(&config.TimelineFilename,
		"filename",
		"career_timeline.json",
		"filename of the career timeline artifact")
	return cmd
}

// aggregateData is a single batch pass: read everything, aggregate,
// write one artifact. Any failure stops the process with a diagnostic.
func aggregateData() error {
	logger := basecmd.SetupLogger()

	rows, err := rawdata.ReadAll(config.RawDataDir)
	if err != nil {
		return fmt.Errorf("could not read raw data: %w", err)
	}
	logger.Info("raw data read",
		log.String("dir", config.RawDataDir),
		log.Int("rows", len(rows)))

	proc := timeline.NewTimelineProcessor(
		timeline.WithLogger(logger.Named("processing")))
	result, err := proc.Process(rows)
	if err != nil {
		return fmt.Errorf("could not build timeline: %w", err)
	}

	outFile := filepath.Join(config.OutputDir, config.TimelineFilename)
	if err := timelinefile.Write(outFile, result); err != nil {
		return err
	}
	logger.Info("career timeline written", log.String("file", outFile))
	fmt.Printf("Dashboard data successfully generated and saved to %s\n", outFile)
	return nil
}

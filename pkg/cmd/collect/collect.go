package collect

import (
	"fmt"
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-quali-timeline/log"
	basecmd "github.com/mpapenbr/f1-quali-timeline/pkg/cmd"
	"github.com/mpapenbr/f1-quali-timeline/pkg/collector"
	"github.com/mpapenbr/f1-quali-timeline/pkg/config"
	"github.com/mpapenbr/f1-quali-timeline/pkg/provider"
	"github.com/mpapenbr/f1-quali-timeline/pkg/utils"
)

// earliest season with complete qualifying lap data at the provider
const minSeason = 2018

var (
	years       []int
	requestPace string
)

func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collector",
		Short: "fetches F1 qualifying data for the requested seasons",
		RunE: func(cmd *cobra.Command, args []string) error {
			return collectData(cmd)
		},
	}
	cmd.Flags().IntSliceVar(&years,
		"years",
		nil,
		"seasons to fetch (years, each >= 2018)")
	//nolint:errcheck // flag is defined right above
	cmd.MarkFlagRequired("years")
	cmd.Flags().StringVar(&config.CacheDir,
		"cache-dir",
		"f1_cache",
		"directory for the provider response cache")
	cmd.Flags().StringVar(&config.OutputDir,
		"output-dir",
		"data",
		"directory for the raw season files")
	cmd.Flags().BoolVar(&config.Reload,
		"reload",
		false,
		"refetch seasons even when a raw file exists")
	cmd.Flags().StringVar(&config.ProviderURL,
		"provider-url",
		provider.DefaultBaseURL,
		"base URL of the qualifying data provider")
	cmd.Flags().StringVar(&config.HTTPTimeout,
		"http-timeout",
		"15s",
		"timeout for a single provider request")
	cmd.Flags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"duration to wait for the provider to be reachable")
	cmd.Flags().StringVar(&requestPace,
		"request-pace",
		"1s",
		"delay between provider network requests")
	return cmd
}

func collectData(cmd *cobra.Command) error {
	logger := basecmd.SetupLogger()

	invalid := lo.Filter(years, func(y int, _ int) bool { return y < minSeason })
	if len(invalid) > 0 {
		return fmt.Errorf("invalid years %v: seasons before %d are not supported",
			invalid, minSeason)
	}

	waitForProvider(logger)

	httpTimeout := parseDurationOr(config.HTTPTimeout, 15*time.Second)
	pace := parseDurationOr(requestPace, time.Second)

	src := provider.NewClient(
		provider.WithBaseURL(config.ProviderURL),
		provider.WithHTTPClient(&http.Client{Timeout: httpTimeout}),
		provider.WithLogger(logger.Named("provider")),
		provider.WithPacing(pace),
		provider.WithCacheDir(config.CacheDir),
	)
	c := collector.New(
		collector.WithSessionSource(src),
		collector.WithDataDir(config.OutputDir),
		collector.WithReload(config.Reload),
		collector.WithLogger(logger.Named("collector")),
	)
	result := c.CollectSeasons(cmd.Context(), years)

	fmt.Println("\nData Collection Summary:")
	fmt.Printf("Successfully processed years: %v\n", result.Succeeded)
	fmt.Printf("Failed years: %v\n", result.Failed)

	if len(result.Succeeded) == 0 {
		return fmt.Errorf("no season could be collected")
	}
	return nil
}

func waitForProvider(logger *log.Logger) {
	timeout := parseDurationOr(config.WaitForServices, 15*time.Second)
	if err := utils.WaitForHTTPResponse(config.ProviderURL, timeout); err != nil {
		// per-year fetches will fail and be reported individually
		logger.Warn("provider not reachable", log.ErrorField(err))
	}
}

func parseDurationOr(arg string, defaultVal time.Duration) time.Duration {
	ret, err := time.ParseDuration(arg)
	if err != nil {
		return defaultVal
	}
	return ret
}

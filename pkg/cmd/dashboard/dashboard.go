package dashboard

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // local tooling
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mpapenbr/f1-quali-timeline/log"
	basecmd "github.com/mpapenbr/f1-quali-timeline/pkg/cmd"
	"github.com/mpapenbr/f1-quali-timeline/pkg/config"
	"github.com/mpapenbr/f1-quali-timeline/pkg/dashboard"
	"github.com/mpapenbr/f1-quali-timeline/pkg/repository/timelinefile"
)

// the artifact location is fixed, the dashboard takes no pipeline flags
const timelinePath = "data/career_timeline.json"

func NewDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "serves the career timeline dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startDashboard()
		},
	}
	cmd.Flags().StringVarP(&config.DashboardAddr,
		"addr",
		"a",
		"localhost:5006",
		"dashboard listen address")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"",
		"endpoint that receives open telemetry data (stdout when empty)")
	return cmd
}

//nolint:funlen // server lifecycle reads better unsplit
func startDashboard() error {
	logger := basecmd.SetupLogger()

	timeline, err := timelinefile.Load(filepath.Clean(timelinePath))
	if err != nil {
		return fmt.Errorf("could not load career timeline: %w", err)
	}
	logger.Info("career timeline loaded",
		log.String("file", timelinePath),
		log.Int("drivers", len(timeline)))

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port",
			log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // ok here
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	var telemetry *config.Telemetry
	defer func() { telemetry.Shutdown() }()
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		if telemetry, err = config.SetupTelemetry(context.Background()); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		if err := otlpruntime.Start(
			otlpruntime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	srv := dashboard.NewServer(
		dashboard.WithTimeline(timeline),
		dashboard.WithLogger(logger.Named("dashboard")),
	)
	//nolint:gosec // ok here
	httpServer := &http.Server{
		Addr:    config.DashboardAddr,
		Handler: h2c.NewHandler(newCORS().Handler(srv.Handler()), &http2.Server{}),
	}
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting dashboard server",
			log.String("addr", config.DashboardAddr))
		errChan <- httpServer.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errChan:
		log.Error("server could not be started", log.ErrorField(err))
		return err
	case v := <-sigChan:
		log.Debug("Got signal", log.Any("signal", v))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	//nolint:errcheck // best effort shutdown
	httpServer.Shutdown(ctx)
	log.Info("Server terminated")
	return nil
}

func newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
}

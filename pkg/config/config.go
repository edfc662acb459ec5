package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogConfig         string // path to log config file
	ProviderURL       string // base URL of the qualifying data provider (ergast compatible)
	HTTPTimeout       string // timeout for a single provider request
	WaitForServices   string // duration to wait for the provider to be reachable
	CacheDir          string // directory for the provider response cache
	RawDataDir        string // directory holding the per-season raw csv files
	OutputDir         string // directory for generated artifacts
	TimelineFilename  string // filename of the career timeline artifact
	Reload            bool   // refetch seasons even when a raw file exists
	DashboardAddr     string // listen addr for the dashboard server
	ProfilingPort     int    // port for profiling
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry
)

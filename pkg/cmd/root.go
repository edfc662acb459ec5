package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mpapenbr/f1-quali-timeline/log"
	"github.com/mpapenbr/f1-quali-timeline/pkg/config"
)

const envPrefix = "F1Q"

var cfgFile string

// AddConfigFlag registers the --config flag on a root command.
func AddConfigFlag(cmd *cobra.Command, configName string) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is $HOME/.%s.yml)", configName))
}

func AddLoggingFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (text, json)")
	cmd.PersistentFlags().StringVar(&config.LogConfig,
		"log-config",
		"",
		"path to a log config file with filter rules")
}

// InitConfig returns the initializer reading config file and ENV
// variables for the given root command. Use with cobra.OnInitialize.
func InitConfig(rootCmd *cobra.Command, configName string) func() {
	return func() {
		if cfgFile != "" {
			// Use config file from the flag.
			viper.SetConfigFile(cfgFile)
		} else {
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)

			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName("." + configName)
		}

		viper.SetEnvPrefix(envPrefix)
		viper.AutomaticEnv() // read in environment variables that match

		if err := viper.ReadInConfig(); err == nil {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}

		bindFlags(rootCmd, viper.GetViper())
		for _, cmd := range rootCmd.Commands() {
			bindFlags(cmd, viper.GetViper())
		}
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --cache-dir to F1Q_CACHE_DIR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger builds the logger from the resolved logging config and
// installs it as package default.
func SetupLogger() *log.Logger {
	level := parseLogLevel(config.LogLevel, log.InfoLevel)

	if config.LogConfig != "" {
		if logger := loggerFromConfigFile(level); logger != nil {
			log.ResetDefault(logger)
			return logger
		}
	}

	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			level,
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			level,
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)
	return logger
}

func loggerFromConfigFile(fallbackLevel log.Level) *log.Logger {
	cfg, err := log.LoadConfig(config.LogConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load log config: %v\n", err)
		return nil
	}
	level := fallbackLevel
	if cfg.DefaultLevel != "" {
		level = parseLogLevel(cfg.DefaultLevel, fallbackLevel)
	}
	if cfg.Filters == "" {
		return nil
	}
	logger, err := log.NewWithFilter(os.Stderr, level, cfg.Filters,
		log.WithCaller(true), log.AddCallerSkip(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not apply log filters: %v\n", err)
		return nil
	}
	return logger
}

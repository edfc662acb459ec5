package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"moul.io/zapfilter"
)

// Config describes an optional logging configuration file.
// Filters use the zapfilter rule syntax, for example
// "debug:collector.* info:*".
type Config struct {
	DefaultLevel string `yaml:"defaultLevel"`
	Filters      string `yaml:"filters"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read log config %s: %w", path, err)
	}
	ret := &Config{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("could not parse log config %s: %w", path, err)
	}
	return ret, nil
}

// NewWithFilter creates a JSON logger whose output is restricted by
// zapfilter rules. Namespaces are assigned via Named.
func NewWithFilter(writer io.Writer, level Level, rules string, opts ...Option) (
	*Logger, error,
) {
	if writer == nil {
		writer = os.Stderr
	}
	filter, err := zapfilter.ParseRules(rules)
	if err != nil {
		return nil, fmt.Errorf("invalid filter rules %q: %w", rules, err)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(writer),
		zapcore.Level(level),
	)
	return &Logger{
		l:     zap.New(zapfilter.NewFilteringCore(core, filter), opts...),
		level: level,
	}, nil
}

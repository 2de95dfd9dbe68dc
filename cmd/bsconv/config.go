package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ngrash/go-nepcal/bstable"
	"github.com/ngrash/go-nepcal/nepcal"
)

// envPrefix is the prefix of environment variables overriding flags, e.g. BSCONV_DATA.
const envPrefix = "BSCONV"

// Config holds the configuration of bsconv.
type Config struct {
	// Data is the path of a calendar data file replacing the embedded table.
	Data string `mapstructure:"data"`
	// DataURL is the location fetch downloads calendar data from.
	DataURL string       `mapstructure:"data-url"`
	Logger  LoggerConfig `mapstructure:",squash"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string `mapstructure:"log-level"`
	Format string `mapstructure:"log-format"`
}

// loadConfig merges the config file, environment and flags, in increasing priority.
func loadConfig(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("log-level", "warn")
	v.SetDefault("log-format", "console")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a logger writing to w.
func newLogger(cfg LoggerConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core), nil
}

// newConverter returns a converter for the configured calendar data.
func newConverter(cfg Config, log *zap.Logger) (*nepcal.Converter, error) {
	if cfg.Data == "" {
		return nepcal.Default(), nil
	}
	f, err := os.Open(cfg.Data)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := bstable.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Data, err)
	}
	log.Debug("using calendar data file",
		zap.String("path", cfg.Data),
		zap.Int("start_year", t.StartYear()),
		zap.Int("end_year", t.EndYear()),
	)
	return nepcal.New(t), nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName      = ".encore"
	configType      = "yaml"
	envPrefix       = "ENCORE"
	envKeySeparator = "_"
)

// LoadConfig loads configuration from file, environment and defaults.
// A non-empty configPath names the file explicitly; otherwise .encore.yaml is
// looked up in the working directory and $HOME. A missing file is not an
// error.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, homeErr := os.UserHomeDir()
		if homeErr == nil {
			v.AddConfigPath(home)
		}
	}

	readErr := v.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := v.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	v := viper.New()
	applyDefaults(v)

	var cfg Config

	// Defaults are plain scalars; decoding cannot fail.
	_ = v.Unmarshal(&cfg)

	return &cfg
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("data.archive", DefaultArchive)
	v.SetDefault("data.database", DefaultDatabase)
	v.SetDefault("data.validate_schema", DefaultValidateSchema)

	v.SetDefault("trend.family", DefaultFamily)
	v.SetDefault("trend.curve", DefaultCurve)
	v.SetDefault("trend.granularity", DefaultGranularity)
	v.SetDefault("trend.top_n", DefaultTopN)
	v.SetDefault("trend.start_year", DefaultStartYear)
	v.SetDefault("trend.end_year", DefaultEndYear)
	v.SetDefault("trend.unique", false)
	v.SetDefault("trend.markers", false)

	v.SetDefault("serve.host", DefaultServeHost)
	v.SetDefault("serve.port", DefaultServePort)
	v.SetDefault("serve.read_timeout", DefaultReadTimeout)
	v.SetDefault("serve.write_timeout", DefaultWriteTimeout)
	v.SetDefault("serve.cache_size", DefaultCacheSize)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.json", false)

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_headers", "")
	v.SetDefault("telemetry.otlp_insecure", false)
	v.SetDefault("telemetry.sample_ratio", DefaultTelemetryRatio)
	v.SetDefault("telemetry.environment", "")
	v.SetDefault("telemetry.debug_trace", false)
}

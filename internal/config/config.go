// Package config loads the YAML configuration shared by the train and shell
// commands.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Model    ModelConfig    `yaml:"model"`
	Forecast ForecastConfig `yaml:"forecast"`
	Server   ServerConfig   `yaml:"server"`
	History  HistoryConfig  `yaml:"history"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Log      LogConfig      `yaml:"log"`
}

// DataConfig locates the index price file.
type DataConfig struct {
	Path       string `yaml:"path"`
	DateFormat string `yaml:"date_format"`
}

// ModelConfig controls model selection and the saved artifact.
type ModelConfig struct {
	DefaultIndex   string `yaml:"default_index"`
	ArtifactPath   string `yaml:"artifact_path"`
	Seasonal       bool   `yaml:"seasonal"`
	SeasonalPeriod int    `yaml:"seasonal_period"`
	Criterion      string `yaml:"criterion"`
	StationTest    string `yaml:"station_test"`
	Stepwise       bool   `yaml:"stepwise"`
	MaxP           int    `yaml:"max_p"`
	MaxQ           int    `yaml:"max_q"`
	MaxD           int    `yaml:"max_d"`
	MaxOrder       int    `yaml:"max_order"`
	MaxIter        int    `yaml:"max_iter"`
}

// ForecastConfig bounds the forecast horizon and the plotted history.
type ForecastConfig struct {
	DefaultHorizon int `yaml:"default_horizon"`
	MaxHorizon     int `yaml:"max_horizon"`
	HistoryPoints  int `yaml:"history_points"`
}

// ServerConfig configures the interactive shell.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// HistoryConfig enables the forecast-run recorder. An empty path disables it.
type HistoryConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// ScheduleConfig enables periodic re-training. An empty expression trains once.
type ScheduleConfig struct {
	RetrainCron string `yaml:"retrain_cron"`
}

// LogConfig sets the logrus level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML file at path, expands ${VAR} references, applies
// INDEXCAST_* environment overrides and fills defaults. A missing file yields
// the default configuration.
func Load(path string) (*Config, error) {
	// Stepwise has no zero-value sentinel, so it is preset before decoding.
	cfg := &Config{Model: ModelConfig{Stepwise: true}}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads the configuration and validates it.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := []struct {
		key string
		dst *string
	}{
		{"INDEXCAST_DATA_PATH", &c.Data.Path},
		{"INDEXCAST_DEFAULT_INDEX", &c.Model.DefaultIndex},
		{"INDEXCAST_ARTIFACT_PATH", &c.Model.ArtifactPath},
		{"INDEXCAST_SERVER_ADDR", &c.Server.Addr},
		{"INDEXCAST_SQLITE_PATH", &c.History.SQLitePath},
		{"INDEXCAST_RETRAIN_CRON", &c.Schedule.RetrainCron},
		{"INDEXCAST_LOG_LEVEL", &c.Log.Level},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv("INDEXCAST_SEASONAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "INDEXCAST_SEASONAL")
		}
		c.Model.Seasonal = b
	}
	if v := os.Getenv("INDEXCAST_SEASONAL_PERIOD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "INDEXCAST_SEASONAL_PERIOD")
		}
		c.Model.SeasonalPeriod = n
	}
	return nil
}

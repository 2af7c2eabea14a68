package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Validate checks that all values are within their allowed ranges.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return errors.New("data.path is required")
	}

	switch c.Model.Criterion {
	case "aic", "aicc", "bic":
	default:
		return fmt.Errorf("model.criterion must be one of aic, aicc, bic, got %q", c.Model.Criterion)
	}
	switch c.Model.StationTest {
	case "kpss", "adf":
	default:
		return fmt.Errorf("model.station_test must be kpss or adf, got %q", c.Model.StationTest)
	}
	if c.Model.Seasonal && c.Model.SeasonalPeriod < 2 {
		return fmt.Errorf("model.seasonal_period must be >= 2 when model.seasonal is set, got %d", c.Model.SeasonalPeriod)
	}
	if c.Model.MaxP < 0 || c.Model.MaxQ < 0 || c.Model.MaxD < 0 || c.Model.MaxOrder < 0 {
		return errors.New("model order maxima must be >= 0")
	}
	if c.Model.MaxIter < 1 {
		return errors.New("model.max_iter must be >= 1")
	}

	if c.Forecast.MaxHorizon < 1 || c.Forecast.MaxHorizon > HorizonLimit {
		return fmt.Errorf("forecast.max_horizon must be between 1 and %d, got %d", HorizonLimit, c.Forecast.MaxHorizon)
	}
	if c.Forecast.DefaultHorizon < 1 || c.Forecast.DefaultHorizon > c.Forecast.MaxHorizon {
		return fmt.Errorf("forecast.default_horizon (%d) must be between 1 and forecast.max_horizon (%d)",
			c.Forecast.DefaultHorizon, c.Forecast.MaxHorizon)
	}
	if c.Forecast.HistoryPoints < 1 {
		return errors.New("forecast.history_points must be >= 1")
	}

	if c.Schedule.RetrainCron != "" {
		if _, err := cron.ParseStandard(c.Schedule.RetrainCron); err != nil {
			return fmt.Errorf("schedule.retrain_cron: %w", err)
		}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

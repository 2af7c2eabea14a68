package config

import (
	"github.com/sartorproj/indexcast/internal/forecast"
	"github.com/sartorproj/indexcast/sarima"
)

// Default values for optional configuration fields.
const (
	DefaultDataPath       = "nse_indexes.csv"
	DefaultDateFormat     = "2006-01-02"
	DefaultIndex          = "NIFTY 50"
	DefaultArtifactPath   = sarima.DefaultArtifactPath
	DefaultSeasonalPeriod = 1
	DefaultCriterion      = "aic"
	DefaultStationTest    = "kpss"
	DefaultMaxP           = 5
	DefaultMaxQ           = 5
	DefaultMaxD           = 2
	DefaultMaxOrder       = 5
	DefaultMaxIter        = sarima.DefaultMaxIter
	DefaultHorizon        = forecast.DefaultHorizon
	DefaultMaxHorizon     = forecast.MaxHorizon
	DefaultHistoryPoints  = forecast.HistoryPoints
	DefaultServerAddr     = ":8501"
	DefaultLogLevel       = "info"
)

// HorizonLimit is the largest forecast horizon the application accepts.
const HorizonLimit = forecast.MaxHorizon

func (c *Config) applyDefaults() {
	if c.Data.Path == "" {
		c.Data.Path = DefaultDataPath
	}
	if c.Data.DateFormat == "" {
		c.Data.DateFormat = DefaultDateFormat
	}

	// Model defaults
	if c.Model.DefaultIndex == "" {
		c.Model.DefaultIndex = DefaultIndex
	}
	if c.Model.ArtifactPath == "" {
		c.Model.ArtifactPath = DefaultArtifactPath
	}
	if c.Model.SeasonalPeriod == 0 {
		c.Model.SeasonalPeriod = DefaultSeasonalPeriod
	}
	if c.Model.Criterion == "" {
		c.Model.Criterion = DefaultCriterion
	}
	if c.Model.StationTest == "" {
		c.Model.StationTest = DefaultStationTest
	}
	if c.Model.MaxP == 0 {
		c.Model.MaxP = DefaultMaxP
	}
	if c.Model.MaxQ == 0 {
		c.Model.MaxQ = DefaultMaxQ
	}
	if c.Model.MaxD == 0 {
		c.Model.MaxD = DefaultMaxD
	}
	if c.Model.MaxOrder == 0 {
		c.Model.MaxOrder = DefaultMaxOrder
	}
	if c.Model.MaxIter == 0 {
		c.Model.MaxIter = DefaultMaxIter
	}

	// Forecast defaults
	if c.Forecast.DefaultHorizon == 0 {
		c.Forecast.DefaultHorizon = DefaultHorizon
	}
	if c.Forecast.MaxHorizon == 0 {
		c.Forecast.MaxHorizon = DefaultMaxHorizon
	}
	if c.Forecast.HistoryPoints == 0 {
		c.Forecast.HistoryPoints = DefaultHistoryPoints
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

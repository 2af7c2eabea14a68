package config

import "github.com/sartorproj/indexcast/autoarima"

// Selector returns the model search configuration described by m.
func (m ModelConfig) Selector() *autoarima.Config {
	cfg := autoarima.DefaultConfig()
	cfg.MaxP = m.MaxP
	cfg.MaxQ = m.MaxQ
	cfg.MaxD = m.MaxD
	cfg.MaxOrder = m.MaxOrder
	cfg.Seasonal = m.Seasonal
	cfg.SeasonalM = m.SeasonalPeriod
	cfg.Stepwise = m.Stepwise
	cfg.Criterion = m.Criterion
	cfg.StationTest = m.StationTest
	cfg.MaxIter = m.MaxIter
	return cfg
}

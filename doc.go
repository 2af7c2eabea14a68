// Package indexcast forecasts NSE stock index closing prices with
// automatically selected ARIMA models.
//
// The repository is organized as a small library and two commands:
//
//   - timeseries: Index price series, business-day calendar and CSV loader
//   - stats: Autocorrelation, stationarity tests and differencing analysis
//   - sarima: Seasonal ARIMA models fitted by exact maximum likelihood
//   - autoarima: Stepwise model selection by information criterion
//   - cmd/train: Select, fit and save a model for one index
//   - cmd/shell: Interactive web page that forecasts any index on demand
//
// # Quick Start
//
// Load prices, select a model and forecast:
//
//	table, _ := timeseries.LoadPrices("nse_indexes.csv", nil)
//	series, _ := table.Series("NIFTY 50")
//	result, _ := autoarima.AutoARIMA(series, autoarima.DefaultConfig())
//	forecasts, _ := result.Predict(30)
//
// Save the fitted model and restore it later without refitting:
//
//	result.Model.Save("Nifty_Predictor.json")
//	model, _ := sarima.Load("Nifty_Predictor.json")
//
// # References
//
//   - Hyndman, R.J., & Khandakar, Y. (2008). Automatic Time Series Forecasting: the forecast Package for R
//   - Durbin, J., & Koopman, S.J. (2012). Time Series Analysis by State Space Methods
package indexcast

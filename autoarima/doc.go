// Package autoarima implements automatic ARIMA model selection.
//
// Auto-ARIMA picks the differencing orders with stationarity tests, then
// searches AR and MA orders and keeps the candidate with the lowest
// information criterion. Every candidate is fitted by exact maximum
// likelihood with the sarima package, so the selected model is ready to
// forecast.
//
// # Basic Usage
//
//	result, err := autoarima.AutoARIMA(series, autoarima.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Best model: %s, AIC: %.2f, models evaluated: %d\n",
//	    result.Model, result.AIC, result.ModelsEvaluated)
//
//	forecasts, _ := result.Predict(30)
//
// A constant series selects ARIMA(0,0,0) with an intercept instead of
// failing. ErrNoModel is returned only when no candidate can be fitted,
// typically because the series is too short.
//
// # Seasonal Model Selection
//
// Seasonality is off by default. For business-day prices a weekly cycle
// has period 5:
//
//	config := autoarima.DefaultConfig()
//	config.Seasonal = true
//	config.SeasonalM = 5
//
// # Search Methods
//
//   - Stepwise (default): the Hyndman-Khandakar search, starting from
//     ARIMA(2,d,2), (0,d,0), (1,d,0) and (0,d,1) and moving to the best
//     neighbour until none improves
//   - Grid: every order within MaxP, MaxQ and MaxOrder (set Stepwise=false)
//
// # Observing the Search
//
//	config.Progress = func(c autoarima.Candidate) {
//	    fmt.Println(c, c.Score)
//	}
//	config.Logger = logrus.StandardLogger()
package autoarima

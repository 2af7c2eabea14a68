// Package sarima implements seasonal ARIMA models estimated by exact
// maximum likelihood.
//
// A SARIMA(p,d,q)(P,D,Q)[s] model differences the series d times and
// seasonally D times, then treats the result as an ARMA process with
// polynomials phi(B)Phi(B^s) and theta(B)Theta(B^s). The likelihood is
// evaluated with a Kalman filter on the state-space form of that ARMA
// process, initialized at its stationary covariance, with the innovation
// variance concentrated out. Parameters are searched with Nelder-Mead over
// an unconstrained space that maps onto stationary AR and invertible MA
// polynomials.
//
// # Basic Usage
//
//	model := sarima.New(sarima.Order{P: 1, D: 1, Q: 1}, sarima.SeasonalOrder{},
//	    sarima.WithTrend(true))
//	if err := model.Fit(series); err != nil {
//	    log.Fatal(err)
//	}
//
//	forecasts, lower, upper, err := model.PredictWithInterval(30, 0.95)
//
// Forecasts are on the original scale. Intervals widen with the horizon
// through the psi weights of the integrated model.
//
// # Seasonal Models
//
// For business-day prices a weekly cycle has period 5:
//
//	// SARIMA(1,1,0)(1,0,0)[5]
//	model := sarima.New(sarima.Order{P: 1, D: 1}, sarima.SeasonalOrder{P: 1, S: 5})
//
// # Persistence
//
// A fitted model, together with the series it was fitted on, can be saved
// as JSON and loaded back without refitting:
//
//	if err := model.Save(sarima.DefaultArtifactPath); err != nil {
//	    log.Fatal(err)
//	}
//	loaded, err := sarima.Load(sarima.DefaultArtifactPath)
package sarima

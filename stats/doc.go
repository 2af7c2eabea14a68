// Package stats provides the statistical tests used to identify and
// check ARIMA models.
//
// # Stationarity
//
//	adf := stats.ADF(series, 0)          // H0: unit root
//	kpss := stats.KPSS(series, "c", 0)   // H0: level stationary
//
// NDiffs repeats the chosen test on successive differences to pick d, and
// NSDiffs uses the seasonal strength of an additive decomposition to pick D:
//
//	d := stats.NDiffs(series, 2, "kpss")
//	D := stats.NSDiffs(series, 5, 1)
//
// # Autocorrelation
//
//	acf := stats.ACF(series, 20)
//	pacf := stats.PACF(series, 20)
//
// # Residual Diagnostics
//
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb.PValue > 0.05 {
//	    // residuals look like white noise
//	}
//	dw := stats.DurbinWatson(residuals.Values)
package stats

package stats

import (
	"math"

	"github.com/sartorproj/indexcast/timeseries"
)

// DecompositionResult holds the components of an additive decomposition.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
}

// Decompose performs a classical additive decomposition Y = T + S + R with a
// centered moving average trend. The trend and residual are NaN at the edges.
func Decompose(series *timeseries.Series, period int) *DecompositionResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}

	trend := calculateTrend(series.Values, period)

	seasonalPattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			continue
		}
		seasonalPattern[i%period] += series.Values[i] - trend[i]
		counts[i%period]++
	}

	mean := 0.0
	for i := range seasonalPattern {
		if counts[i] > 0 {
			seasonalPattern[i] /= float64(counts[i])
		}
		mean += seasonalPattern[i]
	}
	mean /= float64(period)
	for i := range seasonalPattern {
		seasonalPattern[i] -= mean
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = seasonalPattern[i%period]
		residual[i] = series.Values[i] - trend[i] - seasonal[i]
	}

	component := func(values []float64, name string) *timeseries.Series {
		return &timeseries.Series{Dates: series.Dates, Values: values, Name: name}
	}

	return &DecompositionResult{
		Original: series,
		Trend:    component(trend, "trend"),
		Seasonal: component(seasonal, "seasonal"),
		Residual: component(residual, "residual"),
		Period:   period,
	}
}

// calculateTrend is a centered moving average; a 2xperiod MA for even periods.
func calculateTrend(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		sum := 0.0
		if period%2 == 0 {
			sum += 0.5*values[i-half] + 0.5*values[i+half]
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		trend[i] = sum / float64(period)
	}

	return trend
}

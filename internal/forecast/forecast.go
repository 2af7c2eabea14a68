// Package forecast turns a fitted model into a dated forecast and renders it
// as a chart and a table.
package forecast

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/sartorproj/indexcast/sarima"
	"github.com/sartorproj/indexcast/timeseries"
)

// Horizon bounds in business days.
const (
	MinHorizon     = 1
	MaxHorizon     = 60
	DefaultHorizon = 30
)

// Confidence is the coverage of the prediction interval.
const Confidence = 0.95

// DateLayout formats forecast dates.
const DateLayout = "2006-01-02"

// ErrHorizon is returned for a horizon outside [MinHorizon, MaxHorizon].
var ErrHorizon = errors.Errorf("forecast: horizon must be between %d and %d", MinHorizon, MaxHorizon)

// Forecast holds predicted closing prices on the business days following the
// last observation.
type Forecast struct {
	Index  string
	Model  string
	Dates  []time.Time
	Values []float64
	Lower  []float64
	Upper  []float64
}

// Row is one line of the forecast table.
type Row struct {
	Date  string `json:"date"`
	Close string `json:"predicted_close"`
}

// Make forecasts horizon business days past the end of series. When series is
// nil the model's own data is used.
func Make(model *sarima.Model, series *timeseries.Series, horizon int) (*Forecast, error) {
	if horizon < MinHorizon || horizon > MaxHorizon {
		return nil, errors.Wrapf(ErrHorizon, "got %d", horizon)
	}
	if series == nil {
		series = model.Data()
	}
	if series == nil || series.Len() == 0 {
		return nil, sarima.ErrNotFitted
	}

	values, lower, upper, err := model.PredictWithInterval(horizon, Confidence)
	if err != nil {
		return nil, errors.Wrap(err, "predict")
	}

	return &Forecast{
		Index:  series.Name,
		Model:  model.String(),
		Dates:  timeseries.BusinessDaysAfter(series.Last(), horizon),
		Values: values,
		Lower:  lower,
		Upper:  upper,
	}, nil
}

// Len returns the forecast horizon.
func (f *Forecast) Len() int {
	return len(f.Values)
}

// Table returns one row per forecast date with the close rounded to two decimals.
func (f *Forecast) Table() []Row {
	rows := make([]Row, len(f.Values))
	for i, v := range f.Values {
		rows[i] = Row{
			Date:  f.Dates[i].Format(DateLayout),
			Close: decimal.NewFromFloat(v).StringFixed(2),
		}
	}
	return rows
}

// Package timeseries provides the date-indexed price series and its loaders.
package timeseries

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series is a date-indexed sequence of closing prices.
type Series struct {
	Dates  []time.Time
	Values []float64
	Name   string
}

// epoch is the first date assigned by New. It is a Monday.
var epoch = time.Date(2000, time.January, 3, 0, 0, 0, 0, time.UTC)

// New creates a series from values, indexed on consecutive business days
// starting 2000-01-03.
func New(values []float64) *Series {
	return &Series{
		Dates:  BusinessDaysFrom(epoch, len(values)),
		Values: values,
	}
}

// NewWithDates creates a named series with explicit dates.
func NewWithDates(name string, dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, errors.New("dates and values must have the same length")
	}
	return &Series{
		Dates:  dates,
		Values: values,
		Name:   name,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// First returns the first date of the series.
func (s *Series) First() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[0]
}

// Last returns the last date of the series.
func (s *Series) Last() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}

// LastValue returns the most recent observation, or NaN for an empty series.
func (s *Series) LastValue() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return s.Values[len(s.Values)-1]
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the sample standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// IsConstant reports whether every value equals the first one.
func (s *Series) IsConstant() bool {
	for _, v := range s.Values {
		if v != s.Values[0] {
			return false
		}
	}
	return true
}

// Diff calculates the first difference of the series.
func (s *Series) Diff() *Series {
	return s.lagDiff(1, "_diff")
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.lagDiff(m, "_seasonal_diff")
}

func (s *Series) lagDiff(lag int, suffix string) *Series {
	if lag <= 0 || len(s.Values) <= lag {
		return &Series{Name: s.Name + suffix}
	}

	values := make([]float64, len(s.Values)-lag)
	for i := lag; i < len(s.Values); i++ {
		values[i-lag] = s.Values[i] - s.Values[i-lag]
	}

	var dates []time.Time
	if len(s.Dates) == len(s.Values) {
		dates = make([]time.Time, len(values))
		copy(dates, s.Dates[lag:])
	}

	return &Series{
		Dates:  dates,
		Values: values,
		Name:   s.Name + suffix,
	}
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	var dates []time.Time
	if len(s.Dates) >= end {
		dates = make([]time.Time, len(values))
		copy(dates, s.Dates[start:end])
	}

	return &Series{
		Dates:  dates,
		Values: values,
		Name:   s.Name,
	}
}

// Tail returns the last n observations.
func (s *Series) Tail(n int) *Series {
	return s.Slice(s.Len()-n, s.Len())
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	return s.Slice(0, s.Len())
}

// ForwardFill replaces NaN values with the most recent preceding value.
// Leading NaN values have nothing to fill from and are dropped.
func (s *Series) ForwardFill() *Series {
	out := &Series{Name: s.Name}
	last := math.NaN()
	for i, v := range s.Values {
		if math.IsNaN(v) {
			if math.IsNaN(last) {
				continue
			}
			v = last
		}
		last = v
		out.Dates = append(out.Dates, s.Dates[i])
		out.Values = append(out.Values, v)
	}
	return out
}

// AsBusinessDays reindexes the series onto every business day between its
// first and last date and forward-fills the days without an observation.
// Observations dated on a weekend are dropped. Dates must be sorted.
func (s *Series) AsBusinessDays() *Series {
	if s.Len() == 0 {
		return &Series{Name: s.Name}
	}

	byDay := make(map[time.Time]float64, s.Len())
	for i, d := range s.Dates {
		byDay[truncateDay(d)] = s.Values[i]
	}

	start := NextBusinessDayOrSame(truncateDay(s.First()))
	end := truncateDay(s.Last())
	dates := BusinessDayRange(start, end)

	values := make([]float64, len(dates))
	for i, d := range dates {
		v, ok := byDay[d]
		if !ok {
			v = math.NaN()
		}
		values[i] = v
	}

	return (&Series{Dates: dates, Values: values, Name: s.Name}).ForwardFill()
}

// IsBusinessDayIndexed reports whether the series is gap-free on business
// days with strictly increasing dates and no missing values.
func (s *Series) IsBusinessDayIndexed() bool {
	if len(s.Dates) != len(s.Values) {
		return false
	}
	for i, d := range s.Dates {
		if !IsBusinessDay(d) || math.IsNaN(s.Values[i]) {
			return false
		}
		if i > 0 && !NextBusinessDay(s.Dates[i-1]).Equal(d) {
			return false
		}
	}
	return true
}

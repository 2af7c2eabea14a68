package forecast

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/indexcast/autoarima"
	"github.com/sartorproj/indexcast/sarima"
	"github.com/sartorproj/indexcast/timeseries"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// trendSeries rises by 2 every business day and ends on Friday 2024-06-28.
func trendSeries(t *testing.T) *timeseries.Series {
	t.Helper()
	dates := timeseries.BusinessDayRange(day("2024-05-01"), day("2024-06-28"))
	values := make([]float64, len(dates))
	for i := range values {
		values[i] = 100 + 2*float64(i)
	}
	s, err := timeseries.NewWithDates("NIFTY 50", dates, values)
	require.NoError(t, err)
	return s
}

func fitted(t *testing.T, s *timeseries.Series) *sarima.Model {
	t.Helper()
	m := sarima.New(sarima.Order{P: 0, D: 1, Q: 0}, sarima.SeasonalOrder{}, sarima.WithTrend(true))
	require.NoError(t, m.Fit(s))
	return m
}

func TestMakeNextBusinessDays(t *testing.T) {
	s := trendSeries(t)
	m := fitted(t, s)

	fc, err := Make(m, s, 3)
	require.NoError(t, err)
	require.Equal(t, 3, fc.Len())

	want := []string{"2024-07-01", "2024-07-02", "2024-07-03"}
	for i, d := range fc.Dates {
		assert.Equal(t, want[i], d.Format(DateLayout))
	}

	last := s.LastValue()
	for i, v := range fc.Values {
		assert.InDelta(t, last+2*float64(i+1), v, 1e-6)
		assert.LessOrEqual(t, fc.Lower[i], v)
		assert.GreaterOrEqual(t, fc.Upper[i], v)
	}
	assert.Equal(t, "NIFTY 50", fc.Index)
	assert.Equal(t, m.String(), fc.Model)
}

func TestMakeUsesModelData(t *testing.T) {
	s := trendSeries(t)
	m := fitted(t, s)

	fc, err := Make(m, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, fc.Len())
	assert.Equal(t, "2024-07-05", fc.Dates[4].Format(DateLayout))
}

func TestMakeHorizonBounds(t *testing.T) {
	s := trendSeries(t)
	m := fitted(t, s)

	for _, h := range []int{MinHorizon, DefaultHorizon, MaxHorizon} {
		fc, err := Make(m, s, h)
		require.NoError(t, err)
		require.Equal(t, h, fc.Len())
		require.Len(t, fc.Dates, h)
		for i := 1; i < h; i++ {
			require.True(t, fc.Dates[i].Equal(timeseries.NextBusinessDay(fc.Dates[i-1])))
		}
	}

	for _, h := range []int{-1, 0, MaxHorizon + 1} {
		_, err := Make(m, s, h)
		require.True(t, errors.Is(err, ErrHorizon), "horizon %d: %v", h, err)
		require.Contains(t, err.Error(), "horizon must be between 1 and 60")
	}
}

func TestMakeUnfitted(t *testing.T) {
	s := trendSeries(t)
	m := sarima.New(sarima.Order{P: 1}, sarima.SeasonalOrder{})

	_, err := Make(m, s, 3)
	require.True(t, errors.Is(err, sarima.ErrNotFitted))
}

func TestTable(t *testing.T) {
	fc := &Forecast{
		Dates:  timeseries.BusinessDaysAfter(day("2024-06-28"), 3),
		Values: []float64{24011.254, 24012.5, 24013},
	}

	rows := fc.Table()
	require.Len(t, rows, 3)
	assert.Equal(t, Row{Date: "2024-07-01", Close: "24011.25"}, rows[0])
	assert.Equal(t, Row{Date: "2024-07-02", Close: "24012.50"}, rows[1])
	assert.Equal(t, Row{Date: "2024-07-03", Close: "24013.00"}, rows[2])
}

func TestChart(t *testing.T) {
	s := trendSeries(t)
	m := fitted(t, s)
	fc, err := Make(m, s, 10)
	require.NoError(t, err)

	svg, err := Chart(s, fc, Title(s.Name), 0)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(svg, []byte("<svg")))
	assert.True(t, bytes.Contains(svg, []byte("NIFTY 50 Price Forecast")))
}

func TestMakeDeterministic(t *testing.T) {
	s := trendSeries(t)
	m := fitted(t, s)

	a, err := Make(m, s, 30)
	require.NoError(t, err)
	b, err := Make(m, s, 30)
	require.NoError(t, err)
	assert.Equal(t, a.Values, b.Values)
	assert.Equal(t, a.Dates, b.Dates)
}

func TestFiveHundredDaysEndingFriday(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	dates := timeseries.BusinessDaysAfter(day("2022-07-29"), 500)
	require.Equal(t, "2024-06-28", dates[499].Format(DateLayout))

	values := make([]float64, len(dates))
	price := 17000.0
	for i := range values {
		price += 8 + 90*rng.NormFloat64()
		values[i] = price
	}
	s, err := timeseries.NewWithDates("NIFTY 50", dates, values)
	require.NoError(t, err)

	res, err := autoarima.AutoARIMA(s, autoarima.DefaultConfig())
	require.NoError(t, err)

	fc, err := Make(res.Model, s, 3)
	require.NoError(t, err)
	require.Equal(t, 3, fc.Len())
	for i, want := range []string{"2024-07-01", "2024-07-02", "2024-07-03"} {
		assert.Equal(t, want, fc.Dates[i].Format(DateLayout))
		assert.False(t, math.IsNaN(fc.Values[i]) || math.IsInf(fc.Values[i], 0))
	}
}

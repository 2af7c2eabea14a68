package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/sartorproj/indexcast/autoarima"
	"github.com/sartorproj/indexcast/internal/config"
	"github.com/sartorproj/indexcast/internal/forecast"
	"github.com/sartorproj/indexcast/internal/history"
	"github.com/sartorproj/indexcast/sarima"
	"github.com/sartorproj/indexcast/stats"
	"github.com/sartorproj/indexcast/timeseries"
)

// trainer runs the batch workflow: load, select, fit, save. Runs are
// serialized.
type trainer struct {
	mu       sync.Mutex
	cfg      *config.Config
	index    string
	horizon  int
	recorder history.Recorder
	log      logrus.FieldLogger
	out      io.Writer // report
	progress io.Writer // progress bar, nil to hide
}

func (t *trainer) run() (*sarima.Model, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := time.Now()
	logger := t.log.WithField("index", t.index)

	opts := timeseries.DefaultCSVOptions()
	opts.DateFormat = t.cfg.Data.DateFormat
	table, err := timeseries.LoadPrices(t.cfg.Data.Path, opts)
	if err != nil {
		return nil, err
	}
	series, err := table.Series(t.index)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"observations": series.Len(),
		"first":        series.First().Format(forecast.DateLayout),
		"last":         series.Last().Format(forecast.DateLayout),
	}).Info("series loaded")

	header(t.out, fmt.Sprintf("%s (%d observations, %.2f to %.2f)", t.index, series.Len(), series.Min(), series.Max()))
	t.reportStationarity(series)

	bar := newProgressBar(t.progress)
	sel := t.cfg.Model.Selector()
	sel.Logger = t.log
	sel.Progress = func(c autoarima.Candidate) {
		bar.Describe(c.String())
		_ = bar.Add(1)
	}

	res, err := autoarima.AutoARIMA(series, sel)
	_ = bar.Finish()
	if err != nil {
		return nil, errors.Wrapf(err, "select model for %q", t.index)
	}
	model := res.Model
	logger.WithFields(logrus.Fields{
		"order":    model.String(),
		"models":   res.ModelsEvaluated,
		"aic":      model.AIC,
		"duration": time.Since(start),
	}).Info("model selected")

	if err := model.Save(t.cfg.Model.ArtifactPath); err != nil {
		return nil, err
	}
	logger.WithField("path", t.cfg.Model.ArtifactPath).Info("model saved")

	t.reportModel(res)

	fc, err := forecast.Make(model, series, t.horizon)
	if err != nil {
		return nil, err
	}
	t.reportForecast(fc)
	t.record(model, fc, time.Since(start))

	return model, nil
}

func (t *trainer) record(model *sarima.Model, fc *forecast.Forecast, d time.Duration) {
	n := fc.Len()
	err := t.recorder.RecordForecast(&history.ForecastRun{
		ID:            uuid.New(),
		Time:          time.Now(),
		Source:        history.SourceTrain,
		Index:         t.index,
		Model:         model.String(),
		Order:         model.Order.String(),
		SeasonalOrder: model.SeasonalOrder.String(),
		AIC:           model.AIC,
		Horizon:       n,
		FirstDate:     fc.Dates[0],
		LastDate:      fc.Dates[n-1],
		FirstValue:    fc.Values[0],
		LastValue:     fc.Values[n-1],
		Duration:      d,
	})
	if err != nil {
		t.log.WithError(err).Warn("record forecast run")
	}
}

func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(
		-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("selecting model"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowDescriptionAtLineEnd(),
	)
}

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n%s\n", strings.Repeat("=", 80), title, strings.Repeat("=", 80))
}

func (t *trainer) reportStationarity(series *timeseries.Series) {
	if adf := stats.ADF(series, 0); adf != nil {
		fmt.Fprintf(t.out, "   ADF:  statistic=%.4f p=%.4f stationary=%v\n", adf.Statistic, adf.PValue, adf.IsStationary)
	}
	if kpss := stats.KPSS(series, "c", 0); kpss != nil {
		fmt.Fprintf(t.out, "   KPSS: statistic=%.4f p=%.4f stationary=%v\n", kpss.Statistic, kpss.PValue, kpss.IsStationary)
	}
	fmt.Fprintf(t.out, "   ndiffs(%s)=%d\n", t.cfg.Model.StationTest, stats.NDiffs(series, t.cfg.Model.MaxD, t.cfg.Model.StationTest))
}

func (t *trainer) reportModel(res *autoarima.Result) {
	s := res.Model.Summary()
	fmt.Fprintf(t.out, "   %s: %d models evaluated\n", s.Model, res.ModelsEvaluated)
	fmt.Fprintf(t.out, "   AIC=%.2f AICc=%.2f BIC=%.2f logLik=%.2f sigma2=%.4f converged=%v\n",
		s.AIC, s.AICc, s.BIC, s.LogLik, s.Variance, s.Converged)

	names, values := coefficients(s)
	for i, name := range names {
		se := "n/a"
		if i < len(s.StdErrors) && !math.IsNaN(s.StdErrors[i]) {
			se = fmt.Sprintf("%.4f", s.StdErrors[i])
		}
		fmt.Fprintf(t.out, "   %-10s %12.4f  (se %s)\n", name, values[i], se)
	}
	if lb := s.LjungBox; lb != nil {
		fmt.Fprintf(t.out, "   Ljung-Box Q(%d)=%.4f p=%.4f\n", lb.Lags, lb.Statistic, lb.PValue)
	}
	fmt.Fprintf(t.out, "   Durbin-Watson=%.4f\n", stats.DurbinWatson(res.Model.Residuals()))
}

// coefficients lists the estimated parameters in StdErrors order.
func coefficients(s *sarima.Summary) (names []string, values []float64) {
	if len(s.StdErrors) > len(s.ARCoeffs)+len(s.MACoeffs)+len(s.SARCoeffs)+len(s.SMACoeffs) {
		names = append(names, "intercept")
		values = append(values, s.Intercept)
	}
	add := func(prefix string, coeffs []float64) {
		for i, c := range coeffs {
			names = append(names, fmt.Sprintf("%s.L%d", prefix, i+1))
			values = append(values, c)
		}
	}
	add("ar", s.ARCoeffs)
	add("ma", s.MACoeffs)
	add("ar.S", s.SARCoeffs)
	add("ma.S", s.SMACoeffs)
	return names, values
}

func (t *trainer) reportForecast(fc *forecast.Forecast) {
	fmt.Fprintf(t.out, "\n   Forecast for next %d business days\n", fc.Len())
	for _, row := range fc.Table() {
		fmt.Fprintf(t.out, "   %s  %s\n", row.Date, row.Close)
	}
}

// Package autoarima implements automatic ARIMA model selection.
package autoarima

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sartorproj/indexcast/sarima"
	"github.com/sartorproj/indexcast/stats"
	"github.com/sartorproj/indexcast/timeseries"
	"github.com/sirupsen/logrus"
)

// ErrNoModel is returned when no candidate model could be fitted.
var ErrNoModel = errors.New("autoarima: no candidate model could be fitted")

// maxSteps bounds the stepwise search.
const maxSteps = 100

// Config holds configuration for auto ARIMA search.
type Config struct {
	MaxP        int    // Maximum AR order (default: 5)
	MaxD        int    // Maximum differencing order (default: 2)
	MaxQ        int    // Maximum MA order (default: 5)
	MaxSP       int    // Maximum seasonal AR order (default: 2)
	MaxSD       int    // Maximum seasonal differencing order (default: 1)
	MaxSQ       int    // Maximum seasonal MA order (default: 2)
	MaxOrder    int    // Maximum p+q+P+Q, 0 for no limit (default: 5)
	Seasonal    bool   // Whether to consider seasonal models
	SeasonalM   int    // Seasonal period (required if Seasonal=true)
	Stepwise    bool   // Use stepwise search instead of exhaustive
	Criterion   string // Information criterion: "aic", "aicc" or "bic" (default: "aic")
	StationTest string // Stationarity test: "adf" or "kpss" (default: "kpss")
	MaxIter     int    // Optimizer iteration limit per candidate, 0 for the sarima default

	// Progress, if set, is called after every candidate fit.
	Progress func(Candidate)
	// Logger receives one debug entry per candidate. Nil discards.
	Logger logrus.FieldLogger
}

// DefaultConfig returns the default auto ARIMA configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:        5,
		MaxD:        2,
		MaxQ:        5,
		MaxSP:       2,
		MaxSD:       1,
		MaxSQ:       2,
		MaxOrder:    5,
		Seasonal:    false,
		SeasonalM:   1,
		Stepwise:    true,
		Criterion:   "aic",
		StationTest: "kpss",
	}
}

// Candidate describes one evaluated model.
type Candidate struct {
	Order         sarima.Order
	SeasonalOrder sarima.SeasonalOrder
	Trend         bool
	Score         float64 // Information criterion, +Inf if the fit failed
	Err           error
}

func (c Candidate) String() string {
	return sarima.New(c.Order, c.SeasonalOrder, sarima.WithTrend(c.Trend)).String()
}

// Result represents the result of auto ARIMA model selection.
type Result struct {
	Model         *sarima.Model // Best model, fitted on the full series
	Order         sarima.Order
	SeasonalOrder sarima.SeasonalOrder
	Trend         bool

	// Model metrics
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	Criterion float64

	// Search information
	ModelsEvaluated int
	IsSeasonal      bool
}

// AutoARIMA automatically selects the best ARIMA or SARIMA model. A constant
// series selects ARIMA(0,0,0) with an intercept.
func AutoARIMA(series *timeseries.Series, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	s := newSearcher(series, config)

	if series.Len() > 0 && series.IsConstant() {
		s.try(trial{trend: true})
		return s.result()
	}

	seasonal := config.Seasonal && config.SeasonalM > 1
	if seasonal {
		s.m = config.SeasonalM
		s.sd = stats.NSDiffs(series, s.m, config.MaxSD)
	}

	diffed := series
	for i := 0; i < s.sd; i++ {
		diffed = diffed.SeasonalDiff(s.m)
	}
	s.d = determineDifferencing(diffed, config.MaxD, config.StationTest)
	trend := s.d+s.sd <= 1

	s.log.WithFields(logrus.Fields{
		"d":        s.d,
		"D":        s.sd,
		"seasonal": seasonal,
		"stepwise": config.Stepwise,
	}).Debug("differencing orders selected")

	if config.Stepwise {
		s.stepwise(trend, seasonal)
	} else {
		s.grid(trend, seasonal)
	}
	return s.result()
}

// determineDifferencing determines the optimal differencing order.
// With KPSS the ADF test is consulted as well for more robust detection.
func determineDifferencing(series *timeseries.Series, maxD int, testType string) int {
	if testType == "adf" {
		return stats.NDiffs(series, maxD, "adf")
	}

	current := series
	for d := 0; d < maxD; d++ {
		if current.IsConstant() {
			return d
		}

		// KPSS: H0 = stationary, ADF: H0 = unit root.
		kpss := stats.KPSS(current, "c", 0)
		adf := stats.ADF(current, 0)
		kpssStationary := kpss != nil && kpss.IsStationary
		adfStationary := adf != nil && adf.IsStationary

		// Stationary if both tests agree, or if KPSS strongly suggests it.
		if kpssStationary && (adfStationary || kpss.PValue > 0.1) {
			return d
		}

		current = current.Diff()
		if current.Len() < 10 {
			return d
		}
	}

	return maxD
}

// trial identifies a candidate model for a fixed d and D.
type trial struct {
	p, q, sp, sq int
	trend        bool
}

type searcher struct {
	series *timeseries.Series
	config *Config
	log    logrus.FieldLogger
	d, sd  int
	m      int

	tried     map[trial]float64
	evaluated int
	best      *sarima.Model
	bestTrial trial
	bestScore float64
}

func newSearcher(series *timeseries.Series, config *Config) *searcher {
	log := config.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &searcher{
		series:    series,
		config:    config,
		log:       log,
		tried:     make(map[trial]float64),
		bestScore: math.Inf(1),
	}
}

func (s *searcher) allowed(c trial) bool {
	cfg := s.config
	if c.p < 0 || c.q < 0 || c.sp < 0 || c.sq < 0 {
		return false
	}
	if c.p > cfg.MaxP || c.q > cfg.MaxQ || c.sp > cfg.MaxSP || c.sq > cfg.MaxSQ {
		return false
	}
	if cfg.MaxOrder > 0 && c.p+c.q+c.sp+c.sq > cfg.MaxOrder {
		return false
	}
	// An intercept cannot be estimated after two or more differences.
	return !c.trend || s.d+s.sd <= 1
}

func (s *searcher) orders(c trial) (sarima.Order, sarima.SeasonalOrder) {
	order := sarima.Order{P: c.p, D: s.d, Q: c.q}
	var seasonal sarima.SeasonalOrder
	if s.m > 1 {
		seasonal = sarima.SeasonalOrder{P: c.sp, D: s.sd, Q: c.sq, S: s.m}
	}
	return order, seasonal
}

func (s *searcher) score(m *sarima.Model) float64 {
	switch s.config.Criterion {
	case "bic":
		return m.BIC
	case "aicc":
		return m.AICc
	default:
		return m.AIC
	}
}

// try fits the candidate unless it was fitted before and reports whether it
// became the new best.
func (s *searcher) try(c trial) bool {
	if _, ok := s.tried[c]; ok {
		return false
	}

	order, seasonal := s.orders(c)
	model := sarima.New(order, seasonal, sarima.WithTrend(c.trend), sarima.WithMaxIter(s.config.MaxIter))
	err := model.Fit(s.series)

	score := math.Inf(1)
	if err == nil {
		score = s.score(model)
		s.evaluated++
	}
	s.tried[c] = score

	entry := s.log.WithFields(logrus.Fields{"model": model.String(), "score": score})
	if err != nil {
		entry.WithError(err).Debug("candidate failed")
	} else {
		entry.Debug("candidate fitted")
	}
	if s.config.Progress != nil {
		s.config.Progress(Candidate{
			Order:         order,
			SeasonalOrder: seasonal,
			Trend:         c.trend,
			Score:         score,
			Err:           err,
		})
	}

	if err != nil || !(score < s.bestScore) {
		return false
	}
	s.best, s.bestTrial, s.bestScore = model, c, score
	return true
}

// stepwise runs the Hyndman-Khandakar search: fit a few starting models,
// then move to the best neighbour until none improves.
func (s *searcher) stepwise(trend, seasonal bool) {
	starts := []trial{{p: 2, q: 2}, {}, {p: 1}, {q: 1}}
	if seasonal {
		starts = []trial{{p: 2, q: 2, sp: 1, sq: 1}, {}, {p: 1, sp: 1}, {q: 1, sq: 1}}
	}
	for _, c := range starts {
		c.trend = trend
		if s.allowed(c) {
			s.try(c)
		}
	}
	if s.best == nil {
		return
	}

	for step := 0; step < maxSteps; step++ {
		improved := false
		for _, c := range s.neighbours(s.bestTrial, seasonal) {
			if s.allowed(c) && s.try(c) {
				improved = true
			}
		}
		if !improved {
			return
		}
	}
}

func (s *searcher) neighbours(b trial, seasonal bool) []trial {
	out := []trial{
		{b.p - 1, b.q, b.sp, b.sq, b.trend},
		{b.p + 1, b.q, b.sp, b.sq, b.trend},
		{b.p, b.q - 1, b.sp, b.sq, b.trend},
		{b.p, b.q + 1, b.sp, b.sq, b.trend},
		{b.p - 1, b.q - 1, b.sp, b.sq, b.trend},
		{b.p + 1, b.q + 1, b.sp, b.sq, b.trend},
		{b.p - 1, b.q + 1, b.sp, b.sq, b.trend},
		{b.p + 1, b.q - 1, b.sp, b.sq, b.trend},
	}
	if seasonal {
		out = append(out,
			trial{b.p, b.q, b.sp - 1, b.sq, b.trend},
			trial{b.p, b.q, b.sp + 1, b.sq, b.trend},
			trial{b.p, b.q, b.sp, b.sq - 1, b.trend},
			trial{b.p, b.q, b.sp, b.sq + 1, b.trend},
			trial{b.p, b.q, b.sp - 1, b.sq - 1, b.trend},
			trial{b.p, b.q, b.sp + 1, b.sq + 1, b.trend},
		)
	}
	return append(out, trial{b.p, b.q, b.sp, b.sq, !b.trend})
}

// grid fits every allowed candidate.
func (s *searcher) grid(trend, seasonal bool) {
	maxSP, maxSQ := 0, 0
	if seasonal {
		maxSP, maxSQ = s.config.MaxSP, s.config.MaxSQ
	}
	for p := 0; p <= s.config.MaxP; p++ {
		for q := 0; q <= s.config.MaxQ; q++ {
			for sp := 0; sp <= maxSP; sp++ {
				for sq := 0; sq <= maxSQ; sq++ {
					c := trial{p: p, q: q, sp: sp, sq: sq, trend: trend}
					if s.allowed(c) {
						s.try(c)
					}
				}
			}
		}
	}
}

func (s *searcher) result() (*Result, error) {
	if s.best == nil {
		return nil, fmt.Errorf("%w (%d candidates tried on %d observations)", ErrNoModel, len(s.tried), s.series.Len())
	}

	m := s.best
	return &Result{
		Model:           m,
		Order:           m.Order,
		SeasonalOrder:   m.SeasonalOrder,
		Trend:           m.Trend,
		AIC:             m.AIC,
		AICc:            m.AICc,
		BIC:             m.BIC,
		LogLik:          m.LogLik,
		Criterion:       s.bestScore,
		ModelsEvaluated: s.evaluated,
		IsSeasonal:      m.SeasonalOrder.IsSeasonal(),
	}, nil
}

// Predict generates forecasts using the selected model.
func (r *Result) Predict(steps int) ([]float64, error) {
	return r.Model.Predict(steps)
}

// Residuals returns the residuals of the selected model.
func (r *Result) Residuals() []float64 {
	return r.Model.Residuals()
}

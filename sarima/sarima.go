package sarima

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/indexcast/stats"
	"github.com/sartorproj/indexcast/timeseries"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidOrder is returned for negative orders or seasonal terms
	// without a period of at least 2.
	ErrInvalidOrder = errors.New("sarima: invalid model order")
	// ErrInsufficientData is returned when the series is too short for the order.
	ErrInsufficientData = errors.New("sarima: insufficient data points for the specified order")
	// ErrNotFitted is returned when a model is used before Fit or Load.
	ErrNotFitted = errors.New("sarima: model must be fitted before prediction")
	// ErrInvalidSteps is returned for a forecast horizon below one.
	ErrInvalidSteps = errors.New("sarima: steps must be at least 1")
)

// DefaultMaxIter is the default Nelder-Mead iteration limit.
const DefaultMaxIter = 1000

// Model is a SARIMA(p,d,q)(P,D,Q)[s] model with an optional intercept on
// the differenced series.
type Model struct {
	Order         Order
	SeasonalOrder SeasonalOrder
	Trend         bool // Estimate an intercept on the differenced series

	ARCoeffs  []float64 // Non-seasonal AR coefficients
	MACoeffs  []float64 // Non-seasonal MA coefficients
	SARCoeffs []float64 // Seasonal AR coefficients
	SMACoeffs []float64 // Seasonal MA coefficients
	Intercept float64
	Variance  float64 // Innovation variance
	LogLik    float64
	AIC       float64
	AICc      float64
	BIC       float64
	Converged bool

	maxIter    int
	fitted     bool
	data       *timeseries.Series
	diffData   []float64
	ss         *stateSpace
	state      []float64
	residuals  []float64
	fittedVals []float64
}

// Option configures a Model.
type Option func(*Model)

// WithTrend includes an intercept (the mean of the differenced series).
func WithTrend(trend bool) Option {
	return func(m *Model) {
		m.Trend = trend
	}
}

// WithMaxIter sets the optimizer iteration limit.
func WithMaxIter(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxIter = n
		}
	}
}

// New creates an unfitted model. A zero SeasonalOrder gives a plain ARIMA.
func New(order Order, seasonal SeasonalOrder, opts ...Option) *Model {
	m := &Model{
		Order:         order,
		SeasonalOrder: seasonal,
		maxIter:       DefaultMaxIter,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// String formats the model as ARIMA(p,d,q)(P,D,Q)[s], with an intercept
// suffix when the model has one.
func (m *Model) String() string {
	so := m.SeasonalOrder
	s := fmt.Sprintf("ARIMA%s(%d,%d,%d)[%d]", m.Order, so.P, so.D, so.Q, so.period())
	if m.Trend {
		s += " intercept"
	}
	return s
}

// MinLength returns the minimum number of observations Fit accepts.
func (m *Model) MinLength() int {
	o, so := m.Order, m.SeasonalOrder
	return o.P + o.Q + o.D + so.period()*(so.P+so.Q+so.D) + 10
}

func (m *Model) layout() layout {
	return layout{
		trend: m.Trend,
		p:     m.Order.P,
		q:     m.Order.Q,
		sp:    m.SeasonalOrder.P,
		sq:    m.SeasonalOrder.Q,
	}
}

// Fit differences the series and estimates the parameters by maximizing
// the exact Gaussian likelihood computed with the Kalman filter.
func (m *Model) Fit(series *timeseries.Series) error {
	if err := validateOrder(m.Order, m.SeasonalOrder); err != nil {
		return err
	}
	if series.Len() < m.MinLength() {
		return ErrInsufficientData
	}

	data := series.Copy()
	w := difference(data.Values, m.Order.D, m.SeasonalOrder.D, m.SeasonalOrder.period())
	lay := m.layout()

	var best params
	switch {
	case isConstant(w):
		best = zeroParams(lay)
		if lay.trend {
			best.mu = w[0]
		}
		m.Converged = true
	case lay.size() == 0:
		best = zeroParams(lay)
		m.Converged = true
	default:
		lay.muLoc = stat.Mean(w, nil)
		lay.muScale = stat.StdDev(w, nil)
		if lay.muScale == 0 || math.IsNaN(lay.muScale) {
			lay.muScale = 1
		}

		x, converged, err := m.optimize(w, lay)
		if err != nil {
			return err
		}
		best = lay.unpack(x)
		m.Converged = converged
	}

	m.setParams(best)
	m.data = data
	m.diffData = w
	return m.refilter()
}

// optimize minimizes the negative log-likelihood per observation over the
// unconstrained parameter vector.
func (m *Model) optimize(w []float64, lay layout) (x []float64, converged bool, err error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return negLogLik(w, lay.unpack(x), m.SeasonalOrder.period())
		},
	}
	settings := &optimize.Settings{
		MajorIterations: m.maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-9,
			Relative:   1e-9,
			Iterations: 100,
		},
	}

	res, err := optimize.Minimize(problem, m.startVector(w, lay), settings, &optimize.NelderMead{})
	if res == nil || math.IsNaN(res.F) || res.F >= math.MaxFloat64 {
		if err == nil {
			err = errNonStationary
		}
		return nil, false, fmt.Errorf("sarima: optimize %s: %w", m, err)
	}
	// A result that hit the iteration limit is kept.
	return res.X, err == nil && res.Status != optimize.IterationLimit, nil
}

// startVector returns unconstrained starting values: the sample partial
// autocorrelations of the differenced series for the AR terms and zero for
// the MA terms and the intercept offset.
func (m *Model) startVector(w []float64, lay layout) []float64 {
	s := m.SeasonalOrder.period()
	maxLag := max(lay.p, lay.sp*s)
	var pacf []float64
	if maxLag > 0 {
		pacf = stats.PACF(timeseries.New(w), maxLag)
	}
	partial := func(lag int) float64 {
		if lag >= len(pacf) {
			return 0
		}
		r := clamp(pacf[lag], -maxPartial, maxPartial)
		return r / math.Sqrt(1-r*r)
	}

	x := make([]float64, lay.size())
	i := 0
	if lay.trend {
		i++
	}
	for k := 1; k <= lay.p; k++ {
		x[i] = partial(k)
		i++
	}
	i += lay.q
	for k := 1; k <= lay.sp; k++ {
		x[i] = partial(k * s)
		i++
	}
	return x
}

func negLogLik(w []float64, p params, s int) float64 {
	res, err := newStateSpace(p, s).filter(demean(w, p.mu))
	if err != nil {
		return math.MaxFloat64
	}
	_, ll := res.concentrated()
	if math.IsNaN(ll) {
		return math.MaxFloat64
	}
	return -ll / float64(len(w))
}

func (m *Model) params() params {
	return params{
		mu:  m.Intercept,
		ar:  m.ARCoeffs,
		ma:  m.MACoeffs,
		sar: m.SARCoeffs,
		sma: m.SMACoeffs,
	}
}

func (m *Model) setParams(p params) {
	m.Intercept = p.mu
	m.ARCoeffs = p.ar
	m.MACoeffs = p.ma
	m.SARCoeffs = p.sar
	m.SMACoeffs = p.sma
}

// refilter runs the filter at the current parameters and derives the
// residuals, fitted values, variance and information criteria.
func (m *Model) refilter() error {
	ss := newStateSpace(m.params(), m.SeasonalOrder.period())
	res, err := ss.filter(demean(m.diffData, m.Intercept))
	if err != nil {
		return fmt.Errorf("sarima: filter %s: %w", m, err)
	}

	m.ss = ss
	m.state = res.state
	m.residuals = res.innovations
	m.Variance, m.LogLik = res.concentrated()

	n := len(m.diffData)
	offset := m.data.Len() - n
	m.fittedVals = make([]float64, n)
	for t, v := range res.innovations {
		m.fittedVals[t] = m.data.Values[offset+t] - v
	}

	ic := stats.CalculateIC(m.LogLik, n, m.NumParams())
	m.AIC, m.AICc, m.BIC = ic.AIC, ic.AICc, ic.BIC
	m.fitted = true
	return nil
}

// NumParams is the number of estimated parameters, including the
// innovation variance.
func (m *Model) NumParams() int {
	return m.layout().size() + 1
}

// IsFitted reports whether the model has been fitted or loaded.
func (m *Model) IsFitted() bool {
	return m.fitted
}

// Data returns the series the model was fitted on.
func (m *Model) Data() *timeseries.Series {
	return m.data
}

// Predict generates point forecasts for the given number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	forecasts, _, _, err := m.PredictWithInterval(steps, 0.95)
	return forecasts, err
}

// PredictWithInterval generates forecasts on the original scale with
// prediction intervals at the given confidence level (0.95 if out of range).
func (m *Model) PredictWithInterval(steps int, confidence float64) (forecasts, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, nil, nil, ErrInvalidSteps
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	// Forecast the differenced series from the final filtered state.
	a := append([]float64(nil), m.state...)
	wf := make([]float64, steps)
	for h := range wf {
		wf[h] = a[0] + m.Intercept
		m.ss.step(a)
	}

	// Undo differencing: y(t) = w(t) - sum_k delta_k y(t-k).
	delta := diffPolynomial(m.Order.D, m.SeasonalOrder.D, m.SeasonalOrder.period())
	n := m.data.Len()
	ext := make([]float64, n+steps)
	copy(ext, m.data.Values)
	for h, w := range wf {
		t := n + h
		y := w
		for k := 1; k < len(delta); k++ {
			y -= delta[k] * ext[t-k]
		}
		ext[t] = y
	}
	forecasts = ext[n:]

	psi := m.psiWeights(steps)
	z := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	cum := 0.0
	for h := 0; h < steps; h++ {
		cum += psi[h] * psi[h]
		se := math.Sqrt(m.Variance * cum)
		lower[h] = forecasts[h] - z*se
		upper[h] = forecasts[h] + z*se
	}

	return forecasts, lower, upper, nil
}

// psiWeights returns the first n moving-average weights of the model on the
// original scale, differencing included.
func (m *Model) psiWeights(n int) []float64 {
	s := m.SeasonalOrder.period()
	ar := arPolynomial(m.ARCoeffs, m.SARCoeffs, s)
	ma := maPolynomial(m.MACoeffs, m.SMACoeffs, s)

	phi := make([]float64, len(ar)+1)
	phi[0] = 1
	for i, v := range ar {
		phi[i+1] = -v
	}
	phi = polyMul(phi, diffPolynomial(m.Order.D, m.SeasonalOrder.D, s))

	psi := make([]float64, n)
	psi[0] = 1
	for j := 1; j < n; j++ {
		v := 0.0
		if j <= len(ma) {
			v = ma[j-1]
		}
		for i := 1; i < len(phi) && i <= j; i++ {
			v -= phi[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

// Residuals returns the one-step-ahead prediction errors of the
// differenced series.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals...)
}

// FittedValues returns the one-step-ahead predictions on the original
// scale, aligned with the last len(Residuals()) observations.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.fittedVals...)
}

// Summary represents a model summary.
type Summary struct {
	Model         string
	Order         Order
	SeasonalOrder SeasonalOrder
	ARCoeffs      []float64
	MACoeffs      []float64
	SARCoeffs     []float64
	SMACoeffs     []float64
	Intercept     float64
	StdErrors     []float64 // Intercept, AR, MA, SAR, SMA order; NaN when unavailable
	Variance      float64
	AIC           float64
	AICc          float64
	BIC           float64
	LogLik        float64
	NObs          int
	Converged     bool
	LjungBox      *stats.LjungBoxResult
}

// Summary returns a summary of the fitted model, with standard errors from
// the numerical Hessian of the log-likelihood and a Ljung-Box test on the
// residuals.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	o, so := m.Order, m.SeasonalOrder
	lb := stats.LjungBox(timeseries.New(m.residuals), 10, o.P+o.Q+so.P+so.Q)

	return &Summary{
		Model:         m.String(),
		Order:         o,
		SeasonalOrder: so,
		ARCoeffs:      m.ARCoeffs,
		MACoeffs:      m.MACoeffs,
		SARCoeffs:     m.SARCoeffs,
		SMACoeffs:     m.SMACoeffs,
		Intercept:     m.Intercept,
		StdErrors:     m.stdErrors(),
		Variance:      m.Variance,
		AIC:           m.AIC,
		AICc:          m.AICc,
		BIC:           m.BIC,
		LogLik:        m.LogLik,
		NObs:          len(m.diffData),
		Converged:     m.Converged,
		LjungBox:      lb,
	}
}

func (m *Model) stdErrors() []float64 {
	lay := m.layout()
	k := lay.size()
	out := make([]float64, k)
	for i := range out {
		out[i] = math.NaN()
	}
	if k == 0 {
		return out
	}

	n := float64(len(m.diffData))
	s := m.SeasonalOrder.period()
	f := func(v []float64) float64 {
		return n * negLogLik(m.diffData, lay.expand(v), s)
	}

	hess := mat.NewSymDense(k, nil)
	fd.Hessian(hess, f, lay.flatten(m.params()), nil)

	var chol mat.Cholesky
	if !chol.Factorize(hess) {
		return out
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return out
	}
	for i := range out {
		if v := cov.At(i, i); v > 0 {
			out[i] = math.Sqrt(v)
		}
	}
	return out
}

// difference applies d first differences then D seasonal differences of
// period s.
func difference(values []float64, d, sd, s int) []float64 {
	series := timeseries.New(values)
	for i := 0; i < d; i++ {
		series = series.Diff()
	}
	for i := 0; i < sd; i++ {
		series = series.SeasonalDiff(s)
	}
	return series.Values
}

func demean(w []float64, mu float64) []float64 {
	if mu == 0 {
		return w
	}
	out := make([]float64, len(w))
	for i, v := range w {
		out[i] = v - mu
	}
	return out
}

func isConstant(w []float64) bool {
	for _, v := range w {
		if v != w[0] {
			return false
		}
	}
	return true
}

func zeroParams(lay layout) params {
	return params{
		ar:  make([]float64, lay.p),
		ma:  make([]float64, lay.q),
		sar: make([]float64, lay.sp),
		sma: make([]float64, lay.sq),
	}
}

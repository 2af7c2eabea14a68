package sarima

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sartorproj/indexcast/timeseries"
)

// DefaultArtifactPath is the file the train command writes by default.
const DefaultArtifactPath = "Nifty_Predictor.json"

// artifact is the on-disk form of a fitted model. The observed series is
// stored with the parameters so that a loaded model forecasts without
// refitting.
type artifact struct {
	Name          string        `json:"name"`
	Order         Order         `json:"order"`
	SeasonalOrder SeasonalOrder `json:"seasonal_order"`
	Trend         bool          `json:"trend"`
	Intercept     float64       `json:"intercept"`
	AR            []float64     `json:"ar"`
	MA            []float64     `json:"ma"`
	SAR           []float64     `json:"sar"`
	SMA           []float64     `json:"sma"`
	Converged     bool          `json:"converged"`
	Dates         []time.Time   `json:"dates"`
	Values        []float64     `json:"values"`
	SavedAt       time.Time     `json:"saved_at"`
}

// Save writes the fitted model to path as JSON, replacing any existing file.
func (m *Model) Save(path string) error {
	if !m.fitted {
		return ErrNotFitted
	}

	a := artifact{
		Name:          m.data.Name,
		Order:         m.Order,
		SeasonalOrder: m.SeasonalOrder,
		Trend:         m.Trend,
		Intercept:     m.Intercept,
		AR:            m.ARCoeffs,
		MA:            m.MACoeffs,
		SAR:           m.SARCoeffs,
		SMA:           m.SMACoeffs,
		Converged:     m.Converged,
		Dates:         m.data.Dates,
		Values:        m.data.Values,
		SavedAt:       time.Now().UTC(),
	}

	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode model")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrapf(err, "write model %s", path)
	}
	return nil
}

// Load reads a model written by Save. The stored parameters are used as
// is; the filter is rerun over the stored series to restore the forecast
// state.
func Load(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read model %s", path)
	}

	var a artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, errors.Wrapf(err, "decode model %s", path)
	}

	m := New(a.Order, a.SeasonalOrder, WithTrend(a.Trend))
	if err := validateOrder(m.Order, m.SeasonalOrder); err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}
	lay := m.layout()
	if len(a.AR) != lay.p || len(a.MA) != lay.q || len(a.SAR) != lay.sp || len(a.SMA) != lay.sq {
		return nil, errors.Errorf("model %s: coefficient count does not match order %s%s", path, a.Order, a.SeasonalOrder)
	}

	data, err := timeseries.NewWithDates(a.Name, a.Dates, a.Values)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}
	if data.Len() < m.MinLength() {
		return nil, errors.Wrapf(ErrInsufficientData, "model %s", path)
	}

	m.setParams(params{mu: a.Intercept, ar: a.AR, ma: a.MA, sar: a.SAR, sma: a.SMA})
	m.Converged = a.Converged
	m.data = data
	m.diffData = difference(data.Values, m.Order.D, m.SeasonalOrder.D, m.SeasonalOrder.period())
	if err := m.refilter(); err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}
	return m, nil
}

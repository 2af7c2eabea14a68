package shell

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sartorproj/indexcast/autoarima"
	"github.com/sartorproj/indexcast/internal/forecast"
	"github.com/sartorproj/indexcast/internal/history"
	"github.com/sartorproj/indexcast/sarima"
	"github.com/sartorproj/indexcast/timeseries"
)

// Loader reads the price table.
type Loader func() (*timeseries.PriceTable, error)

// fingerprintSpace namespaces series fingerprints.
var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/sartorproj/indexcast/series"))

// Fingerprint identifies a series by its dates and values.
func Fingerprint(s *timeseries.Series) uuid.UUID {
	buf := make([]byte, 0, 16*s.Len())
	for i, v := range s.Values {
		buf = binary.BigEndian.AppendUint64(buf, uint64(s.Dates[i].Unix()))
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return uuid.NewSHA1(fingerprintSpace, buf)
}

type cacheKey struct {
	index       string
	fingerprint uuid.UUID
}

// Run is the outcome of one forecast request.
type Run struct {
	Series   *timeseries.Series
	Model    *sarima.Model
	Forecast *forecast.Forecast
	Cached   bool
	Duration time.Duration
}

// Session owns the price table and the fitted-model cache. Its methods are
// serialized: one pipeline runs at a time.
type Session struct {
	mu       sync.Mutex
	load     Loader
	selector *autoarima.Config
	recorder history.Recorder
	log      logrus.FieldLogger

	table  *timeseries.PriceTable
	models map[cacheKey]*sarima.Model
	fits   int
}

// NewSession creates a session. A nil selector uses the default search, a
// nil recorder records nothing and a nil logger uses the standard logger.
func NewSession(load Loader, selector *autoarima.Config, recorder history.Recorder, log logrus.FieldLogger) *Session {
	if selector == nil {
		selector = autoarima.DefaultConfig()
	}
	if recorder == nil {
		recorder = history.NewNoopRecorder()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		load:     load,
		selector: selector,
		recorder: recorder,
		log:      log,
		models:   make(map[cacheKey]*sarima.Model),
	}
}

// prices loads the table on first use. A failed load is retried next call.
func (s *Session) prices() (*timeseries.PriceTable, error) {
	if s.table != nil {
		return s.table, nil
	}
	table, err := s.load()
	if err != nil {
		return nil, errors.Wrap(err, "load prices")
	}
	s.table = table
	return table, nil
}

// Indexes returns the index names available in the price table.
func (s *Session) Indexes() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.prices()
	if err != nil {
		return nil, err
	}
	return table.Indexes(), nil
}

// FitCount reports how many models have been fitted.
func (s *Session) FitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fits
}

// Forecast runs load, select, fit and forecast for index. Models are cached
// per index and series fingerprint for the life of the session.
func (s *Session) Forecast(index string, horizon int) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	logger := s.log.WithFields(logrus.Fields{"index": index, "horizon": horizon})

	if horizon < forecast.MinHorizon || horizon > forecast.MaxHorizon {
		return nil, errors.Wrapf(forecast.ErrHorizon, "got %d", horizon)
	}

	table, err := s.prices()
	if err != nil {
		return nil, err
	}
	series, err := table.Series(index)
	if err != nil {
		return nil, err
	}

	key := cacheKey{index: index, fingerprint: Fingerprint(series)}
	model, cached := s.models[key]
	if !cached {
		res, err := autoarima.AutoARIMA(series, s.selector)
		if err != nil {
			return nil, errors.Wrapf(err, "select model for %q", index)
		}
		model = res.Model
		s.models[key] = model
		s.fits++
		logger.WithFields(logrus.Fields{
			"order":  model.String(),
			"models": res.ModelsEvaluated,
		}).Info("model fitted")
	}

	fc, err := forecast.Make(model, series, horizon)
	if err != nil {
		return nil, err
	}

	run := &Run{
		Series:   series,
		Model:    model,
		Forecast: fc,
		Cached:   cached,
		Duration: time.Since(start),
	}
	logger.WithFields(logrus.Fields{
		"cached":   cached,
		"duration": run.Duration,
	}).Info("forecast ready")

	s.record(run)
	return run, nil
}

func (s *Session) record(run *Run) {
	fc := run.Forecast
	err := s.recorder.RecordForecast(&history.ForecastRun{
		ID:            uuid.New(),
		Time:          time.Now(),
		Source:        history.SourceShell,
		Index:         run.Series.Name,
		Model:         run.Model.String(),
		Order:         run.Model.Order.String(),
		SeasonalOrder: run.Model.SeasonalOrder.String(),
		AIC:           run.Model.AIC,
		Horizon:       fc.Len(),
		FirstDate:     fc.Dates[0],
		LastDate:      fc.Dates[fc.Len()-1],
		FirstValue:    fc.Values[0],
		LastValue:     fc.Values[fc.Len()-1],
		Cached:        run.Cached,
		Duration:      run.Duration,
	})
	if err != nil {
		s.log.WithError(err).Warn("record forecast run")
	}
}

// Package history records forecast runs for later review.
package history

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sources of a forecast run.
const (
	SourceTrain = "train"
	SourceShell = "shell"
)

// ForecastRun describes one produced forecast.
type ForecastRun struct {
	ID            uuid.UUID
	Time          time.Time
	Source        string // SourceTrain or SourceShell
	Index         string
	Model         string // e.g. "ARIMA(1,1,1)(0,0,0)[0] intercept"
	Order         string
	SeasonalOrder string
	AIC           float64
	Horizon       int
	FirstDate     time.Time
	LastDate      time.Time
	FirstValue    float64
	LastValue     float64
	Cached        bool
	Duration      time.Duration
}

// Recorder persists forecast runs.
//
//go:generate mockgen -destination mock/recorder.go -package mockhistory github.com/sartorproj/indexcast/internal/history Recorder
type Recorder interface {
	RecordForecast(run *ForecastRun) error
	Close() error
}

// Open returns a SQLite recorder for path, or a no-op recorder when path is empty.
func Open(path string, log logrus.FieldLogger) (Recorder, error) {
	if path == "" {
		return NewNoopRecorder(), nil
	}
	return NewSQLiteRecorder(path, log)
}

package history

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists forecast runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log logrus.FieldLogger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log logrus.FieldLogger) (*SQLiteRecorder, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			source         TEXT NOT NULL,
			index_name     TEXT NOT NULL,
			model          TEXT,
			arima_order    TEXT,
			seasonal_order TEXT,
			aic            REAL,
			horizon        INTEGER,
			first_date     TEXT,
			last_date      TEXT,
			first_value    REAL,
			last_value     REAL,
			cached         INTEGER,
			duration_ms    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON forecast_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_index ON forecast_runs(index_name)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return errors.Wrapf(err, "exec %q", s[:40])
		}
	}
	return nil
}

// RecordForecast inserts run, assigning an ID and timestamp when unset.
func (r *SQLiteRecorder) RecordForecast(run *ForecastRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Time.IsZero() {
		run.Time = time.Now()
	}

	cached := 0
	if run.Cached {
		cached = 1
	}

	_, err := r.db.Exec(`INSERT INTO forecast_runs
		(id, timestamp, source, index_name, model, arima_order, seasonal_order, aic,
		 horizon, first_date, last_date, first_value, last_value, cached, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID.String(), run.Time.Unix(), run.Source, run.Index, run.Model,
		run.Order, run.SeasonalOrder, run.AIC, run.Horizon,
		run.FirstDate.Format(dateLayout), run.LastDate.Format(dateLayout),
		run.FirstValue, run.LastValue, cached, run.Duration.Milliseconds(),
	)
	return errors.Wrap(err, "insert forecast run")
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}

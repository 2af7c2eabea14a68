package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestOpenEmptyPathIsNoop(t *testing.T) {
	r, err := Open("", nil)
	require.NoError(t, err)
	require.IsType(t, &NoopRecorder{}, r)
	require.NoError(t, r.RecordForecast(&ForecastRun{Index: "NIFTY 50"}))
	require.NoError(t, r.Close())
}

func TestSQLiteRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	r, err := NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	defer r.Close()

	first := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	run := &ForecastRun{
		Source:        SourceShell,
		Index:         "NIFTY 50",
		Model:         "ARIMA(0,1,0)(0,0,0)[0] intercept",
		Order:         "(0,1,0)",
		SeasonalOrder: "(0,0,0,0)",
		AIC:           1234.5,
		Horizon:       3,
		FirstDate:     first,
		LastDate:      first.AddDate(0, 0, 2),
		FirstValue:    24011.25,
		LastValue:     24013.75,
		Cached:        true,
		Duration:      1500 * time.Millisecond,
	}
	require.NoError(t, r.RecordForecast(run))
	require.NotEqual(t, uuid.Nil, run.ID)
	require.False(t, run.Time.IsZero())

	var (
		id, index, lastDate string
		horizon, cached     int
		durationMS          int64
	)
	row := r.db.QueryRow(`SELECT id, index_name, last_date, horizon, cached, duration_ms FROM forecast_runs`)
	require.NoError(t, row.Scan(&id, &index, &lastDate, &horizon, &cached, &durationMS))
	require.Equal(t, run.ID.String(), id)
	require.Equal(t, "NIFTY 50", index)
	require.Equal(t, "2024-07-03", lastDate)
	require.Equal(t, 3, horizon)
	require.Equal(t, 1, cached)
	require.Equal(t, int64(1500), durationMS)

	// A second run with its own ID is appended.
	require.NoError(t, r.RecordForecast(&ForecastRun{Source: SourceTrain, Index: "NIFTY BANK"}))
	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM forecast_runs`).Scan(&n))
	require.Equal(t, 2, n)
}

func TestSQLiteRecorderReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	r, err := NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	require.NoError(t, r.RecordForecast(&ForecastRun{Source: SourceTrain, Index: "NIFTY 50"}))
	require.NoError(t, r.Close())

	// Migrations are idempotent and earlier rows survive.
	r, err = NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	defer r.Close()

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM forecast_runs`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestOpenUsesLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "history.db")

	r, err := Open(path, log)
	require.NoError(t, err)
	require.IsType(t, &SQLiteRecorder{}, r)
	require.NoError(t, r.Close())

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	require.Equal(t, logrus.InfoLevel, entries[0].Level)
	require.Equal(t, "sqlite recorder opened", entries[0].Message)
	require.Equal(t, path, entries[0].Data["path"])
	require.Equal(t, "closing sqlite recorder", entries[1].Message)
}

func TestSQLiteRecorderErrors(t *testing.T) {
	_, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "missing", "history.db"), nil)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "history.db")
	r, err := NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	require.NoError(t, r.db.Close())

	err = r.RecordForecast(&ForecastRun{Index: "NIFTY 50"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insert forecast run")
}

package stats

import (
	"math"
	"testing"

	"github.com/sartorproj/indexcast/timeseries"
)

func TestNDiffs(t *testing.T) {
	n := 200

	stationary := make([]float64, n)
	for i := range stationary {
		stationary[i] = float64(i%10-5) + float64((i*7)%11-5)*0.5
	}
	d := NDiffs(timeseries.New(stationary), 2, "kpss")
	t.Logf("Stationary series ndiffs: %d", d)
	if d > 1 {
		t.Errorf("Stationary series should need at most 1 difference, got %d", d)
	}

	trend := make([]float64, n)
	for i := range trend {
		trend[i] = 100 + float64(i)*2 + float64((i*3)%7-3)*0.5
	}
	d = NDiffs(timeseries.New(trend), 2, "kpss")
	t.Logf("Trend series ndiffs: %d", d)
	if d < 1 {
		t.Errorf("Trending series should need at least 1 difference, got %d", d)
	}

	if d := NDiffs(timeseries.New(make([]float64, 50)), 2, "kpss"); d != 0 {
		t.Errorf("Constant series should need no differencing, got %d", d)
	}
}

func TestNSDiffs(t *testing.T) {
	n := 120
	seasonal := make([]float64, n)
	for i := range seasonal {
		seasonal[i] = 100 + float64(i)*0.5 + 15*math.Sin(2*math.Pi*float64(i)/12)
	}
	if D := NSDiffs(timeseries.New(seasonal), 12, 1); D != 1 {
		t.Errorf("Strongly seasonal series should need 1 seasonal difference, got %d", D)
	}

	if D := NSDiffs(timeseries.New(seasonal[:20]), 12, 1); D != 0 {
		t.Errorf("Series shorter than two periods should need 0, got %d", D)
	}
	if D := NSDiffs(timeseries.New(seasonal), 1, 1); D != 0 {
		t.Errorf("Period 1 should need 0, got %d", D)
	}
}

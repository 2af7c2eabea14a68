package timeseries

import (
	"math"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	s := New(values)

	if s.Len() != 6 {
		t.Errorf("Expected length 6, got %d", s.Len())
	}
	if !s.IsBusinessDayIndexed() {
		t.Error("New should index values on consecutive business days")
	}
	// 2000-01-03 is a Monday, so the sixth value lands on the next Monday.
	if !s.Last().Equal(day("2000-01-10")) {
		t.Errorf("Expected last date 2000-01-10, got %s", s.Last().Format("2006-01-02"))
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"empty", []float64{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(tt.values).Mean()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected mean %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestVariance(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	expected := 4.571428571428571
	if math.Abs(s.Variance()-expected) > 1e-10 {
		t.Errorf("Expected variance %f, got %f", expected, s.Variance())
	}
	if math.Abs(s.Std()-math.Sqrt(expected)) > 1e-10 {
		t.Errorf("Expected std %f, got %f", math.Sqrt(expected), s.Std())
	}
}

func TestDiff(t *testing.T) {
	s := New([]float64{1, 3, 6, 10, 15})
	d := s.Diff()

	expected := []float64{2, 3, 4, 5}
	if d.Len() != len(expected) {
		t.Fatalf("Expected length %d, got %d", len(expected), d.Len())
	}
	for i, v := range expected {
		if d.Values[i] != v {
			t.Errorf("Diff at %d: expected %f, got %f", i, v, d.Values[i])
		}
	}
	if !d.Dates[0].Equal(s.Dates[1]) {
		t.Error("Differenced series should keep the later date of each pair")
	}
}

func TestSeasonalDiff(t *testing.T) {
	s := New([]float64{1, 2, 3, 11, 12, 13})
	d := s.SeasonalDiff(3)
	for i, v := range d.Values {
		if v != 10 {
			t.Errorf("SeasonalDiff at %d: expected 10, got %f", i, v)
		}
	}
	if s.SeasonalDiff(10).Len() != 0 {
		t.Error("SeasonalDiff longer than the series should be empty")
	}
}

func TestTail(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	tail := s.Tail(2)
	if tail.Len() != 2 || tail.Values[0] != 4 || tail.Values[1] != 5 {
		t.Errorf("Unexpected tail: %v", tail.Values)
	}
	if s.Tail(10).Len() != 5 {
		t.Error("Tail longer than the series should return the whole series")
	}
}

func TestIsConstant(t *testing.T) {
	if !New([]float64{3, 3, 3}).IsConstant() {
		t.Error("Expected constant series")
	}
	if New([]float64{3, 3, 4}).IsConstant() {
		t.Error("Expected non-constant series")
	}
}

func TestForwardFill(t *testing.T) {
	nan := math.NaN()
	s := New([]float64{nan, 1, nan, nan, 4, nan})
	f := s.ForwardFill()

	expected := []float64{1, 1, 1, 4, 4}
	if f.Len() != len(expected) {
		t.Fatalf("Expected length %d, got %d", len(expected), f.Len())
	}
	for i, v := range expected {
		if f.Values[i] != v {
			t.Errorf("ForwardFill at %d: expected %f, got %f", i, v, f.Values[i])
		}
	}
	if !f.Dates[0].Equal(s.Dates[1]) {
		t.Error("Leading NaN should be dropped together with its date")
	}
}

func TestAsBusinessDays(t *testing.T) {
	// Thursday, Friday, a Saturday observation, then Tuesday: Monday is missing.
	s, err := NewWithDates("X",
		[]time.Time{day("2024-06-27"), day("2024-06-28"), day("2024-06-29"), day("2024-07-02")},
		[]float64{10, 11, 99, 13},
	)
	if err != nil {
		t.Fatal(err)
	}

	b := s.AsBusinessDays()
	if !b.IsBusinessDayIndexed() {
		t.Fatal("Expected a gap-free business-day series")
	}

	expectedDates := []string{"2024-06-27", "2024-06-28", "2024-07-01", "2024-07-02"}
	expectedValues := []float64{10, 11, 11, 13}
	if b.Len() != len(expectedDates) {
		t.Fatalf("Expected %d observations, got %d", len(expectedDates), b.Len())
	}
	for i := range expectedDates {
		if got := b.Dates[i].Format("2006-01-02"); got != expectedDates[i] {
			t.Errorf("Date %d: expected %s, got %s", i, expectedDates[i], got)
		}
		if b.Values[i] != expectedValues[i] {
			t.Errorf("Value %d: expected %f, got %f", i, expectedValues[i], b.Values[i])
		}
	}
}

func TestBusinessDaysAfter(t *testing.T) {
	// 2024-06-28 is a Friday.
	got := BusinessDaysAfter(day("2024-06-28"), 3)
	expected := []string{"2024-07-01", "2024-07-02", "2024-07-03"}
	if len(got) != len(expected) {
		t.Fatalf("Expected %d dates, got %d", len(expected), len(got))
	}
	for i, d := range got {
		if d.Format("2006-01-02") != expected[i] {
			t.Errorf("Date %d: expected %s, got %s", i, expected[i], d.Format("2006-01-02"))
		}
	}

	if BusinessDaysAfter(day("2024-06-28"), 0) != nil {
		t.Error("Expected no dates for n=0")
	}
}

func TestBusinessDayRange(t *testing.T) {
	got := BusinessDayRange(day("2024-06-29"), day("2024-07-05"))
	if len(got) != 5 {
		t.Errorf("Expected 5 business days, got %d", len(got))
	}
	for _, d := range got {
		if !IsBusinessDay(d) {
			t.Errorf("%s is not a business day", d.Format("2006-01-02"))
		}
	}
}

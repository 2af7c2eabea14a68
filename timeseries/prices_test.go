package timeseries

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pricesCSV = `Index,Date,Open,High,Low,Close,Volume,Currency
NIFTY 50,2024-06-26,0,0,0,23868.8,100,INR
NIFTY BANK,2024-06-26,0,0,0,52870.5,100,INR
NIFTY 50,2024-06-28,0,0,0,24010.6,100,INR
NIFTY 50,2024-06-27,0,0,0,24044.5,,INR
NIFTY BANK,2024-06-28,0,0,0,52342.25,100,INR
NIFTY 50,2024-07-02,0,0,0,24123.85,100,INR`

func TestReadPrices(t *testing.T) {
	table, err := ReadPrices(strings.NewReader(pricesCSV), nil)
	if err != nil {
		t.Fatalf("Failed to read prices: %v", err)
	}

	if len(table.Records) != 6 {
		t.Errorf("Expected 6 records, got %d", len(table.Records))
	}

	indexes := table.Indexes()
	if len(indexes) != 2 || indexes[0] != "NIFTY 50" || indexes[1] != "NIFTY BANK" {
		t.Errorf("Unexpected index list: %v", indexes)
	}

	r := table.Records[3]
	if r.Volume != 0 || r.Currency != "INR" || r.Close != 24044.5 {
		t.Errorf("Unexpected record: %+v", r)
	}
}

func TestPriceTableSeries(t *testing.T) {
	table, err := ReadPrices(strings.NewReader(pricesCSV), nil)
	if err != nil {
		t.Fatalf("Failed to read prices: %v", err)
	}

	s, err := table.Series("NIFTY 50")
	if err != nil {
		t.Fatalf("Failed to build series: %v", err)
	}

	if s.Name != "NIFTY 50" {
		t.Errorf("Expected name NIFTY 50, got %q", s.Name)
	}
	if !s.IsBusinessDayIndexed() {
		t.Fatal("Series should be gap-free on business days")
	}

	// 06-26 .. 07-02 spans five business days; Monday 07-01 is filled from Friday.
	expected := []float64{23868.8, 24044.5, 24010.6, 24010.6, 24123.85}
	if s.Len() != len(expected) {
		t.Fatalf("Expected %d observations, got %d", len(expected), s.Len())
	}
	for i, v := range expected {
		if s.Values[i] != v {
			t.Errorf("Value %d: expected %f, got %f", i, v, s.Values[i])
		}
	}
}

func TestPriceTableSeriesUnknownIndex(t *testing.T) {
	table, err := ReadPrices(strings.NewReader(pricesCSV), nil)
	if err != nil {
		t.Fatalf("Failed to read prices: %v", err)
	}

	_, err = table.Series("NIFTY IT")
	if !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Expected ErrIndexNotFound, got %v", err)
	}
}

func TestReadPricesDateFormats(t *testing.T) {
	csvData := `Index,Date,Close
A,28-Jun-2024,1
A,01-07-2024,2
A,2024/07/02,3`

	table, err := ReadPrices(strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("Failed to read prices: %v", err)
	}
	s, err := table.Series("A")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 || s.First().Format("2006-01-02") != "2024-06-28" {
		t.Errorf("Unexpected series: %v %v", s.Dates, s.Values)
	}
}

func TestReadPricesErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing close column", "Index,Date\nA,2024-01-01"},
		{"bad date", "Index,Date,Close\nA,yesterday,1"},
		{"bad close", "Index,Date,Close\nA,2024-01-01,abc"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPrices(strings.NewReader(tt.data), nil); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestReadPricesMissingClose(t *testing.T) {
	csvData := `Index,Date,Close
A,2024-07-01,10
A,2024-07-02,NA
A,2024-07-03,12`

	table, err := ReadPrices(strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(table.Records[1].Close) {
		t.Errorf("Expected NaN close for NA, got %f", table.Records[1].Close)
	}

	s, err := table.Series("A")
	if err != nil {
		t.Fatal(err)
	}
	if s.Values[1] != 10 {
		t.Errorf("Expected forward-filled 10, got %f", s.Values[1])
	}
}

func TestLoadPrices(t *testing.T) {
	if _, err := LoadPrices(filepath.Join(t.TempDir(), "missing.csv"), nil); err == nil {
		t.Error("Expected an error for a missing file")
	}

	// 500 business days ending on Friday 2024-06-28.
	dates := BusinessDaysFrom(day("2022-08-01"), 500)
	var b strings.Builder
	b.WriteString("Index,Date,Open,High,Low,Close,Volume,Currency\n")
	for i, d := range dates {
		fmt.Fprintf(&b, "NIFTY 50,%s,0,0,0,%.2f,0,INR\n", d.Format("2006-01-02"), 17000+float64(i))
	}
	path := filepath.Join(t.TempDir(), "nse_indexes.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadPrices(path, nil)
	if err != nil {
		t.Fatalf("Failed to load prices: %v", err)
	}
	s, err := table.Series("NIFTY 50")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 500 {
		t.Errorf("Expected 500 observations, got %d", s.Len())
	}
	if s.Last().Format("2006-01-02") != "2024-06-28" {
		t.Errorf("Expected last date 2024-06-28, got %s", s.Last().Format("2006-01-02"))
	}
}

func TestPriceTableSeriesDuplicateDates(t *testing.T) {
	csvData := `Index,Date,Close
A,2024-07-01,10
A,2024-07-02,11
A,2024-07-02,NA
A,2024-07-03,NA
A,2024-07-03,13
A,2024-07-04,14
A,2024-07-04,15`

	table, err := ReadPrices(strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := table.Series("A")
	if err != nil {
		t.Fatal(err)
	}

	expected := []float64{10, 11, 13, 15}
	if s.Len() != len(expected) {
		t.Fatalf("Expected %d observations, got %d", len(expected), s.Len())
	}
	for i, v := range expected {
		if s.Values[i] != v {
			t.Errorf("Value %d: expected %f, got %f", i, v, s.Values[i])
		}
	}
}

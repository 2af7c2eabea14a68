package timeseries

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrIndexNotFound is returned when no record matches the requested index.
var ErrIndexNotFound = errors.New("index not found")

// PriceRecord is one row of the daily index price file.
type PriceRecord struct {
	Index    string
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Currency string
}

// CSVOptions holds options for loading price files.
type CSVOptions struct {
	IndexColumn string // Column name for the index name (default: "Index")
	DateColumn  string // Column name for dates (default: "Date")
	CloseColumn string // Column name for closing prices (default: "Close")
	DateFormat  string // Preferred date layout (default: "2006-01-02")
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for price files.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		IndexColumn: "Index",
		DateColumn:  "Date",
		CloseColumn: "Close",
		DateFormat:  "2006-01-02",
		Delimiter:   ',',
	}
}

// dateLayouts are tried after CSVOptions.DateFormat.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02-Jan-2006",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
}

// PriceTable holds every record of a price file.
type PriceTable struct {
	Records []PriceRecord
}

// LoadPrices loads a price table from a CSV file.
func LoadPrices(filename string, opts *CSVOptions) (*PriceTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open price file")
	}
	defer file.Close()

	return ReadPrices(file, opts)
}

// ReadPrices reads a price table from r. The file must have a header row;
// the index, date and close columns are required, the remaining
// open/high/low/volume/currency columns are optional.
func ReadPrices(r io.Reader, opts *CSVOptions) (*PriceTable, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.Trim(h, "\"\ufeff")))
		cols[h] = i
	}
	col := func(name string) int {
		if i, ok := cols[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	idxCol, dateCol, closeCol := col(opts.IndexColumn), col(opts.DateColumn), col(opts.CloseColumn)
	required := []struct {
		name string
		idx  int
	}{{opts.IndexColumn, idxCol}, {opts.DateColumn, dateCol}, {opts.CloseColumn, closeCol}}
	for _, c := range required {
		if c.idx < 0 {
			return nil, errors.Errorf("missing required column %q", c.name)
		}
	}
	openCol, highCol, lowCol := col("Open"), col("High"), col("Low")
	volCol, curCol := col("Volume"), col("Currency")

	table := &PriceTable{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "read line %d", line)
		}

		field := func(i int) string {
			if i < 0 || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(strings.Trim(record[i], "\""))
		}

		date, err := parseDate(field(dateCol), opts.DateFormat)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		closeVal := math.NaN()
		if s := field(closeCol); !isMissing(s) {
			closeVal, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: parse close", line)
			}
		}

		table.Records = append(table.Records, PriceRecord{
			Index:    field(idxCol),
			Date:     date,
			Open:     lenientFloat(field(openCol)),
			High:     lenientFloat(field(highCol)),
			Low:      lenientFloat(field(lowCol)),
			Close:    closeVal,
			Volume:   lenientFloat(field(volCol)),
			Currency: field(curCol),
		})
	}

	return table, nil
}

// Indexes returns the distinct index names in alphabetical order.
func (t *PriceTable) Indexes() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range t.Records {
		if _, ok := seen[r.Index]; ok {
			continue
		}
		seen[r.Index] = struct{}{}
		names = append(names, r.Index)
	}
	sort.Strings(names)
	return names
}

// Series returns the closing prices of one index, sorted by date,
// reindexed to business-day frequency and forward-filled.
func (t *PriceTable) Series(index string) (*Series, error) {
	var rows []PriceRecord
	for _, r := range t.Records {
		if r.Index == index {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(ErrIndexNotFound, "%q", index)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	s := &Series{Name: index}
	for _, r := range rows {
		d := truncateDay(r.Date)
		if n := len(s.Dates); n > 0 && s.Dates[n-1].Equal(d) {
			// Duplicate day: the last non-missing close wins.
			if !math.IsNaN(r.Close) {
				s.Values[n-1] = r.Close
			}
			continue
		}
		s.Dates = append(s.Dates, d)
		s.Values = append(s.Values, r.Close)
	}

	out := s.AsBusinessDays()
	if out.Len() == 0 {
		return nil, errors.Errorf("index %q has no usable close prices", index)
	}
	return out, nil
}

func parseDate(s, preferred string) (time.Time, error) {
	if preferred != "" {
		if t, err := time.Parse(preferred, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unparsable date %q", s)
}

func isMissing(s string) bool {
	switch s {
	case "", "NA", "NaN", "nan", "null", "-":
		return true
	}
	return false
}

func lenientFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

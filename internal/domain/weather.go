package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	epwHeaderLines = 8
	epwMinFields   = 22

	fieldYear      = 0
	fieldMonth     = 1
	fieldDay       = 2
	fieldHour      = 3
	fieldDryBulb   = 6
	fieldWindSpeed = 21
)

// ErrParseFailure is the sentinel wrapped by every ParseError.
var ErrParseFailure = errors.New("weather file parse failure")

// ParseError describes why an EPW file could not be read. Line is 1-based and
// counts the header lines; it is 0 when the failure is not tied to a line.
type ParseError struct {
	Line  int
	Field string
	Cause string
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Cause)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Cause)
	default:
		return e.Cause
	}
}

func (e *ParseError) Unwrap() error { return ErrParseFailure }

// Key identifies one hourly observation.
type Key struct {
	Year  int
	Month int
	Day   int
	Hour  int
}

func (k Key) String() string {
	return fmt.Sprintf("%d-%02d-%02d at hour %d", k.Year, k.Month, k.Day, k.Hour)
}

// WeatherRecord is the subset of an EPW row used for ventilation sizing.
type WeatherRecord struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	DryBulbC    float64 // °C
	WindSpeedMS float64 // m/s
}

// Key returns the lookup key of the record.
func (r WeatherRecord) Key() Key {
	return Key{Year: r.Year, Month: r.Month, Day: r.Day, Hour: r.Hour}
}

// WindSpeedMH returns the wind speed in m/h, the unit the opening formulas take.
func (r WeatherRecord) WindSpeedMH() float64 {
	return r.WindSpeedMS * secondsPerHour
}

// ParseEPW reads the hourly rows of an EPW file. The first eight lines are skipped
// without inspection and blank lines are ignored. Any malformed row fails the
// whole file with a *ParseError.
func ParseEPW(raw []byte) ([]WeatherRecord, error) {
	body := skipLines(raw, epwHeaderLines)

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.ReuseRecord = true
	r.LazyQuotes = true

	var records []WeatherRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line + epwHeaderLines, Cause: csvErr.Err.Error()}
			}
			return nil, &ParseError{Cause: err.Error()}
		}

		line, _ := r.FieldPos(0)
		rec, err := parseRow(row, line+epwHeaderLines)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, &ParseError{Cause: "no data rows after the 8-line header"}
	}
	return records, nil
}

// skipLines returns raw without its first n lines.
func skipLines(raw []byte, n int) []byte {
	for range n {
		i := bytes.IndexByte(raw, '\n')
		if i < 0 {
			return nil
		}
		raw = raw[i+1:]
	}
	return raw
}

func parseRow(row []string, line int) (WeatherRecord, error) {
	if len(row) < epwMinFields {
		return WeatherRecord{}, &ParseError{
			Line:  line,
			Cause: fmt.Sprintf("expected at least %d fields, got %d", epwMinFields, len(row)),
		}
	}

	var rec WeatherRecord
	var err error
	if rec.Year, err = parseIntField(row, fieldYear, "year", line); err != nil {
		return WeatherRecord{}, err
	}
	if rec.Month, err = parseIntField(row, fieldMonth, "month", line); err != nil {
		return WeatherRecord{}, err
	}
	if rec.Day, err = parseIntField(row, fieldDay, "day", line); err != nil {
		return WeatherRecord{}, err
	}
	if rec.Hour, err = parseIntField(row, fieldHour, "hour", line); err != nil {
		return WeatherRecord{}, err
	}
	if rec.DryBulbC, err = parseFloatField(row, fieldDryBulb, "dry bulb temperature", line); err != nil {
		return WeatherRecord{}, err
	}
	if rec.WindSpeedMS, err = parseFloatField(row, fieldWindSpeed, "wind speed", line); err != nil {
		return WeatherRecord{}, err
	}

	if rec.Month < 1 || rec.Month > 12 {
		return WeatherRecord{}, &ParseError{Line: line, Field: "month", Cause: fmt.Sprintf("%d out of range 1-12", rec.Month)}
	}
	if rec.Day < 1 || rec.Day > 31 {
		return WeatherRecord{}, &ParseError{Line: line, Field: "day", Cause: fmt.Sprintf("%d out of range 1-31", rec.Day)}
	}
	return rec, nil
}

func parseIntField(row []string, idx int, name string, line int) (int, error) {
	s := strings.TrimSpace(row[idx])
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Line: line, Field: name, Cause: fmt.Sprintf("invalid integer %q", s)}
	}
	return v, nil
}

func parseFloatField(row []string, idx int, name string, line int) (float64, error) {
	s := strings.TrimSpace(row[idx])
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Field: name, Cause: fmt.Sprintf("invalid number %q", s)}
	}
	return v, nil
}

// DatasetID derives a deterministic dataset ID from the uploaded bytes.
// Identical files always get the same ID.
func DatasetID(raw []byte) string {
	hash := sha256.Sum256(raw)
	return "epw-" + hex.EncodeToString(hash[:8])
}

// Dataset is an immutable, indexed set of weather records.
type Dataset struct {
	id      string
	records []WeatherRecord
	index   map[Key]int
	months  map[int][]time.Month
	years   []int
}

// NewDataset indexes records by key. When a key repeats, the first record wins.
func NewDataset(id string, records []WeatherRecord) *Dataset {
	d := &Dataset{
		id:      id,
		records: records,
		index:   make(map[Key]int, len(records)),
		months:  make(map[int][]time.Month),
	}

	seen := make(map[int]map[time.Month]bool)
	for i, rec := range records {
		if _, ok := d.index[rec.Key()]; !ok {
			d.index[rec.Key()] = i
		}
		if seen[rec.Year] == nil {
			seen[rec.Year] = make(map[time.Month]bool)
			d.years = append(d.years, rec.Year)
		}
		m := time.Month(rec.Month)
		if !seen[rec.Year][m] {
			seen[rec.Year][m] = true
			d.months[rec.Year] = append(d.months[rec.Year], m)
		}
	}

	slices.Sort(d.years)
	for _, ms := range d.months {
		slices.Sort(ms)
	}
	return d
}

// ID returns the dataset identifier.
func (d *Dataset) ID() string { return d.id }

// Len returns the number of records, duplicates included.
func (d *Dataset) Len() int { return len(d.records) }

// Lookup returns the first record stored under k.
func (d *Dataset) Lookup(k Key) (WeatherRecord, bool) {
	i, ok := d.index[k]
	if !ok {
		return WeatherRecord{}, false
	}
	return d.records[i], true
}

// Years returns the distinct years present, ascending.
func (d *Dataset) Years() []int {
	return slices.Clone(d.years)
}

// Months returns the distinct months present in year, ascending.
func (d *Dataset) Months(year int) []time.Month {
	return slices.Clone(d.months[year])
}

// DatasetSummary describes a loaded dataset: what was uploaded and when.
type DatasetSummary struct {
	DatasetID    string           `json:"dataset_id"`
	RecordCount  int              `json:"record_count"`
	Years        []int            `json:"years"`
	MonthsByYear map[int][]string `json:"months_by_year"`
	LoadedAt     time.Time        `json:"loaded_at"`
}

// Summary reports the dataset contents with month names, stamped with loadedAt.
func (d *Dataset) Summary(loadedAt time.Time) DatasetSummary {
	months := make(map[int][]string, len(d.months))
	for year, ms := range d.months {
		names := make([]string, len(ms))
		for i, m := range ms {
			names[i] = m.String()
		}
		months[year] = names
	}
	return DatasetSummary{
		DatasetID:    d.id,
		RecordCount:  len(d.records),
		Years:        d.Years(),
		MonthsByYear: months,
		LoadedAt:     loadedAt,
	}
}

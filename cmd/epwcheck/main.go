// Command epwcheck validates an EPW weather file offline, before it is
// uploaded. It runs the same parser the service uses, then checks key
// integrity, calendar validity and physical plausibility of the two columns
// the service reads.
//
// Usage:
//
//	go run ./cmd/epwcheck -file data/mock/synthetic.epw
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/hvac-sizing-service/internal/domain"
)

// Plausible surface observations; values outside these are almost certainly
// unit or column errors.
const (
	minDryBulbC = -90.0
	maxDryBulbC = 60.0
	maxWindMS   = 75.0

	// maxErrorsShown caps the per-phase detail so a broken file stays readable.
	maxErrorsShown = 20
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "path to the EPW file to check")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	os.Exit(run(os.Stdout, raw))
}

func run(w io.Writer, raw []byte) int {
	fmt.Fprintln(w, "=== EPW Weather File Check ===")
	fmt.Fprintf(w, "Dataset ID: %s\n\n", domain.DatasetID(raw))

	records, parse := checkParse(raw)
	phases := []*phase{parse}
	if parse.passed() {
		phases = append(phases,
			checkKeys(records),
			checkCalendar(records),
			checkRanges(records),
		)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-36s %s\n", p.name, status)
	}

	if parse.passed() {
		ds := domain.NewDataset(domain.DatasetID(raw), records)
		fmt.Fprintf(w, "\nRecords: %d across years %v\n", ds.Len(), ds.Years())
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors[:min(len(p.errors), maxErrorsShown)] {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		if extra := len(p.errors) - maxErrorsShown; extra > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", extra)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll checks passed.")
		return 0
	}
	fmt.Fprintln(w, "\nCheck FAILED.")
	return 1
}

// ── Phase 1: Parse ──

func checkParse(raw []byte) ([]domain.WeatherRecord, *phase) {
	p := &phase{name: "Phase 1: Parse"}
	records, err := domain.ParseEPW(raw)
	if err != nil {
		p.errorf("%v", err)
	}
	return records, p
}

// ── Phase 2: Key integrity ──
// Lookups return the first matching row, so later duplicates are unreachable.

func checkKeys(records []domain.WeatherRecord) *phase {
	p := &phase{name: "Phase 2: Key Integrity"}

	firstRow := make(map[domain.Key]int, len(records))
	for i, r := range records {
		k := r.Key()
		if prev, ok := firstRow[k]; ok {
			p.errorf("record %d: duplicate of record %d (%s), will be shadowed", i+1, prev+1, k)
			continue
		}
		firstRow[k] = i
	}
	return p
}

// ── Phase 3: Calendar ──

func checkCalendar(records []domain.WeatherRecord) *phase {
	p := &phase{name: "Phase 3: Calendar Validity"}

	hoursPerDay := map[[3]int][]int{}
	for i, r := range records {
		if r.Hour < 1 || r.Hour > 24 {
			p.errorf("record %d: hour %d outside 1-24", i+1, r.Hour)
		}
		if r.Day > daysIn(r.Year, time.Month(r.Month)) {
			p.errorf("record %d: %d-%02d has no day %d", i+1, r.Year, r.Month, r.Day)
		}
		day := [3]int{r.Year, r.Month, r.Day}
		hoursPerDay[day] = append(hoursPerDay[day], r.Hour)
	}

	days := make([][3]int, 0, len(hoursPerDay))
	for d := range hoursPerDay {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b [3]int) int { return slices.Compare(a[:], b[:]) })
	for _, d := range days {
		if n := len(hoursPerDay[d]); n != 24 {
			p.errorf("%d-%02d-%02d: %d hourly rows, want 24", d[0], d[1], d[2], n)
		}
	}
	return p
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ── Phase 4: Physical ranges ──

func checkRanges(records []domain.WeatherRecord) *phase {
	p := &phase{name: "Phase 4: Physical Ranges"}
	for _, r := range records {
		if r.DryBulbC < minDryBulbC || r.DryBulbC > maxDryBulbC {
			p.errorf("%s: dry bulb %g°C outside %g..%g", r.Key(), r.DryBulbC, minDryBulbC, maxDryBulbC)
		}
		if r.WindSpeedMS < 0 || r.WindSpeedMS > maxWindMS {
			p.errorf("%s: wind speed %g m/s outside 0..%g", r.Key(), r.WindSpeedMS, maxWindMS)
		}
	}
	return p
}

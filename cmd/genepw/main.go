// Command genepw writes a synthetic one-year EPW weather file for exercising
// the upload and query endpoints without a real station file. Output is
// deterministic for a given seed and is parsed back through the domain
// package before the summary is printed.
//
// Usage:
//
//	go run ./cmd/genepw -out data/mock/synthetic.epw -year 2023 -seed 7
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hvac-sizing-service/internal/domain"
)

// site describes the synthetic climate.
type site struct {
	name       string
	meanTempC  float64
	annualAmpC float64 // half the summer/winter swing
	dailyAmpC  float64 // half the day/night swing
	meanWindMS float64
}

var defaultSite = site{
	name:       "Synthetic Station",
	meanTempC:  12,
	annualAmpC: 11,
	dailyAmpC:  5,
	meanWindMS: 3.5,
}

func main() {
	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(stdout io.Writer) error {
	out := flag.String("out", "", "output path for the EPW file")
	year := flag.Int("year", 2023, "calendar year stamped on every row")
	seed := flag.Uint64("seed", 1, "random seed for weather noise")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	raw := generate(*year, *seed, defaultSite)

	// Fixed clock so the printed summary is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(*year+1, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	summary, err := verify(raw)
	if err != nil {
		return fmt.Errorf("generated file does not parse: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(*out, raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %s (%d bytes)", *out, len(raw))

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// generate renders an 8760-hour EPW file. February 29 is skipped in leap
// years, as typical-year files do.
func generate(year int, seed uint64, s site) []byte {
	rng := rand.New(rand.NewPCG(seed, uint64(year)))

	var b bytes.Buffer
	writeHeader(&b, year, s)

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for t := start; t.Year() == year; t = t.Add(time.Hour) {
		if t.Month() == time.February && t.Day() == 29 {
			continue
		}
		writeRow(&b, t, s, rng)
	}
	return b.Bytes()
}

func writeHeader(b *bytes.Buffer, year int, s site) {
	fmt.Fprintf(b, "LOCATION,%s,XX,ZZZ,SYNTHETIC,000000,45.00,-100.00,-6.0,500.0\n", s.name)
	b.WriteString("DESIGN CONDITIONS,0\n")
	b.WriteString("TYPICAL/EXTREME PERIODS,0\n")
	b.WriteString("GROUND TEMPERATURES,0\n")
	b.WriteString("HOLIDAYS/DAYLIGHT SAVINGS,No,0,0,0\n")
	fmt.Fprintf(b, "COMMENTS 1,generated by genepw for %d\n", year)
	b.WriteString("COMMENTS 2,not measured data\n")
	b.WriteString("DATA PERIODS,1,1,Data,Sunday, 1/ 1,12/31\n")
}

// writeRow emits one 35-field data line. EPW hours run 1-24, hour N covering
// the hour ending at N o'clock.
func writeRow(b *bytes.Buffer, t time.Time, s site, rng *rand.Rand) {
	dayOfYear := float64(t.YearDay())
	hour := t.Hour() + 1

	// Coldest around day 20, warmest mid-afternoon.
	seasonal := -s.annualAmpC * math.Cos(2*math.Pi*(dayOfYear-20)/365)
	diurnal := -s.dailyAmpC * math.Cos(2*math.Pi*float64(hour-5)/24)
	dryBulb := s.meanTempC + seasonal + diurnal + rng.NormFloat64()*1.2
	dewPoint := dryBulb - 4 - rng.Float64()*6
	wind := math.Max(0, s.meanWindMS+rng.NormFloat64()*1.8)

	fields := make([]string, 35)
	for i := range fields {
		fields[i] = "0"
	}
	fields[0] = strconv.Itoa(t.Year())
	fields[1] = strconv.Itoa(int(t.Month()))
	fields[2] = strconv.Itoa(t.Day())
	fields[3] = strconv.Itoa(hour)
	fields[4] = "60"
	fields[5] = "?9?9?9?9E0?9?9?9?9?9?9?9?9?9?9?9?9?9?9?9*9*9?9?9?9"
	fields[6] = strconv.FormatFloat(dryBulb, 'f', 1, 64)
	fields[7] = strconv.FormatFloat(dewPoint, 'f', 1, 64)
	fields[8] = strconv.Itoa(50 + rng.IntN(45))
	fields[9] = "96000"
	fields[20] = strconv.Itoa(rng.IntN(360))
	fields[21] = strconv.FormatFloat(wind, 'f', 1, 64)

	b.WriteString(strings.Join(fields, ","))
	b.WriteByte('\n')
}

func verify(raw []byte) (domain.DatasetSummary, error) {
	records, err := domain.ParseEPW(raw)
	if err != nil {
		return domain.DatasetSummary{}, err
	}
	ds := domain.NewDataset(domain.DatasetID(raw), records)
	return ds.Summary(domain.Now()), nil
}

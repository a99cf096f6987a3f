package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// csvColumns is the expected header of a bar file. Volume is optional.
var csvColumns = []string{"timestamp", "symbol", "open", "high", "low", "close", "volume"}

// LoadCSV reads historical bars from a CSV file with columns
// timestamp,symbol,open,high,low,close[,volume]. Timestamps are RFC 3339 or
// plain dates (2006-01-02).
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open bar file: %w", err)
	}
	defer f.Close()

	bars, err := ReadBars(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	return NewDataset(bars), nil
}

// ReadBars parses CSV bar rows from r.
func ReadBars(r io.Reader) ([]Bar, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvColumns[:6] {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var bars []Bar
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		line++

		ts, err := parseTimestamp(record[col["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		b := Bar{Timestamp: ts, Symbol: record[col["symbol"]]}
		if b.Open, err = strconv.ParseFloat(record[col["open"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad open: %w", line, err)
		}
		if b.High, err = strconv.ParseFloat(record[col["high"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad high: %w", line, err)
		}
		if b.Low, err = strconv.ParseFloat(record[col["low"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad low: %w", line, err)
		}
		if b.Close, err = strconv.ParseFloat(record[col["close"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad close: %w", line, err)
		}
		if vi, ok := col["volume"]; ok && vi < len(record) && record[vi] != "" {
			if b.Volume, err = strconv.ParseFloat(record[vi], 64); err != nil {
				return nil, fmt.Errorf("line %d: bad volume: %w", line, err)
			}
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

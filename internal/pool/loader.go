// Package pool loads raw player rows from fixed-schema CSV or JSON
// files. Column mapping beyond the fixed schema is out of scope;
// malformed rows are skipped and counted, never fatal for the batch.
package pool

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bestball-lab/internal/catalog"
)

// ErrUnsupportedFormat is returned for file extensions other than
// .csv and .json.
var ErrUnsupportedFormat = errors.New("unsupported pool format")

// csvHeader is the fixed CSV schema. Trailing columns may be omitted.
var csvHeader = []string{"name", "position", "team", "adp", "projection", "sd", "bye"}

// LoadStats counts rows seen and rows dropped during loading.
type LoadStats struct {
	Rows             int
	SkippedMalformed int
}

// LoadFile reads a player pool from path, dispatching on extension.
func LoadFile(path string) ([]catalog.RawPlayer, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open pool file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	default:
		return nil, LoadStats{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV parses the fixed-schema CSV pool format. The first row must
// be the header; rows with non-numeric values in numeric columns are
// skipped and counted.
func ReadCSV(r io.Reader) ([]catalog.RawPlayer, LoadStats, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("read csv header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, LoadStats{}, err
	}

	var raws []catalog.RawPlayer
	var stats LoadStats
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read csv row: %w", err)
		}
		stats.Rows++

		raw, ok := parseRow(record)
		if !ok {
			stats.SkippedMalformed++
			continue
		}
		raws = append(raws, raw)
	}
	return raws, stats, nil
}

func checkHeader(header []string) error {
	if len(header) < 2 {
		return fmt.Errorf("csv header too short: %d columns", len(header))
	}
	for i, col := range header {
		if i >= len(csvHeader) {
			break
		}
		if strings.ToLower(strings.TrimSpace(col)) != csvHeader[i] {
			return fmt.Errorf("unexpected csv column %d: got %q, want %q", i, col, csvHeader[i])
		}
	}
	return nil
}

// parseRow converts one CSV record. Empty numeric fields default to 0;
// unparseable ones reject the row.
func parseRow(record []string) (catalog.RawPlayer, bool) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	raw := catalog.RawPlayer{
		Name:     field(0),
		Position: field(1),
		Team:     field(2),
	}

	numeric := []struct {
		index int
		dst   *float64
	}{
		{3, &raw.ADP},
		{4, &raw.Projection},
		{5, &raw.SD},
	}
	for _, n := range numeric {
		s := field(n.index)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return catalog.RawPlayer{}, false
		}
		*n.dst = v
	}

	if s := field(6); s != "" {
		bye, err := strconv.Atoi(s)
		if err != nil {
			return catalog.RawPlayer{}, false
		}
		raw.Bye = bye
	}
	return raw, true
}

// jsonPlayer mirrors the JSON pool row schema.
type jsonPlayer struct {
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Team       string  `json:"team"`
	ADP        float64 `json:"adp"`
	Projection float64 `json:"projection"`
	SD         float64 `json:"sd"`
	Bye        int     `json:"bye"`
}

// ReadJSON parses a JSON array of pool rows.
func ReadJSON(r io.Reader) ([]catalog.RawPlayer, LoadStats, error) {
	var rows []jsonPlayer
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, LoadStats{}, fmt.Errorf("decode pool json: %w", err)
	}

	raws := make([]catalog.RawPlayer, 0, len(rows))
	stats := LoadStats{Rows: len(rows)}
	for _, row := range rows {
		raws = append(raws, catalog.RawPlayer{
			Name:       row.Name,
			Position:   row.Position,
			Team:       row.Team,
			ADP:        row.ADP,
			Projection: row.Projection,
			SD:         row.SD,
			Bye:        row.Bye,
		})
	}
	return raws, stats, nil
}

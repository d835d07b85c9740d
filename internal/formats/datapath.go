package formats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Canonical column names shared by every structured record.
const (
	ColCycleIndex        = "cycle_index"
	ColStepIndex         = "step_index"
	ColTestTime          = "test_time"
	ColVoltage           = "voltage"
	ColCurrent           = "current"
	ColChargeCapacity    = "charge_capacity"
	ColDischargeCapacity = "discharge_capacity"
)

// Datapath is the uniform contract every vendor handler satisfies. Construction
// loads the raw file; Structure transforms the loaded data into the normalized,
// serializable form.
type Datapath interface {
	// Format names the instrument format the handler implements.
	Format() string
	// Structure normalizes the loaded raw data.
	Structure() (*Structured, error)
}

// Constructor builds a handler bound to the file at path, loading the raw
// content in the process.
type Constructor func(path string) (Datapath, error)

// Structured is the normalized representation of a cycler run, ready for the
// serialization sink.
type Structured struct {
	Format string               `json:"format"`
	Source string               `json:"source_file"`
	Rows   int                  `json:"row_count"`
	Data   map[string][]float64 `json:"data"`
}

// readDelimited consumes a delimited table: first record is the header row,
// the rest are data rows. Rows may have ragged lengths; short rows are padded
// during normalization.
func readDelimited(r io.Reader, comma rune) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no header row")
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, records[1:], nil
}

// normalizeTable maps vendor headers to canonical column names and converts
// cells to floats. columns maps a vendor header to its canonical name; headers
// absent from the map are dropped. A record must carry at least cycle_index
// and voltage to be considered a cycler run.
func normalizeTable(format, source string, headers []string, rows [][]string, columns map[string]string) (*Structured, error) {
	indexes := map[string]int{}
	for i, header := range headers {
		if canonical, ok := columns[header]; ok {
			if _, dup := indexes[canonical]; !dup {
				indexes[canonical] = i
			}
		}
	}
	for _, required := range []string{ColCycleIndex, ColVoltage} {
		if _, ok := indexes[required]; !ok {
			return nil, fmt.Errorf("%s: %s: missing required column %s", format, source, required)
		}
	}

	data := make(map[string][]float64, len(indexes))
	for canonical := range indexes {
		data[canonical] = make([]float64, 0, len(rows))
	}

	count := 0
	for n, row := range rows {
		if isBlankRow(row) {
			continue
		}
		for canonical, idx := range indexes {
			if idx >= len(row) {
				data[canonical] = append(data[canonical], 0)
				continue
			}
			cell := strings.TrimSpace(row[idx])
			if cell == "" {
				data[canonical] = append(data[canonical], 0)
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: row %d column %s: %w", format, source, n+1, canonical, err)
			}
			data[canonical] = append(data[canonical], value)
		}
		count++
	}
	if count == 0 {
		return nil, fmt.Errorf("%s: %s: no data rows", format, source)
	}

	return &Structured{Format: format, Source: source, Rows: count, Data: data}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

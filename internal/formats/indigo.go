package formats

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

var indigoKeys = map[string]string{
	"cycle_index":  ColCycleIndex,
	"step_index":   ColStepIndex,
	"test_time":    ColTestTime,
	"cell_voltage": ColVoltage,
	"cell_current": ColCurrent,
	"charge_ah":    ColChargeCapacity,
	"discharge_ah": ColDischargeCapacity,
}

// IndigoDatapath parses newline-delimited JSON Indigo exports, one sample
// object per line.
type IndigoDatapath struct {
	source  string
	samples []map[string]float64
}

// NewIndigo loads an Indigo export from path.
func NewIndigo(path string) (Datapath, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("indigo: open %s: %w", path, err)
	}
	defer file.Close()

	var samples []map[string]float64
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("indigo: parse %s line %d: %w", path, line, err)
		}
		sample := make(map[string]float64, len(raw))
		for key, value := range raw {
			if number, ok := value.(float64); ok {
				sample[key] = number
			}
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("indigo: read %s: %w", path, err)
	}
	return &IndigoDatapath{source: path, samples: samples}, nil
}

func (d *IndigoDatapath) Format() string { return "indigo" }

func (d *IndigoDatapath) Structure() (*Structured, error) {
	if len(d.samples) == 0 {
		return nil, fmt.Errorf("indigo: %s: no data rows", d.source)
	}

	data := map[string][]float64{}
	for vendor, canonical := range indigoKeys {
		if _, ok := d.samples[0][vendor]; ok {
			data[canonical] = make([]float64, 0, len(d.samples))
		}
	}
	for _, required := range []string{ColCycleIndex, ColVoltage} {
		if _, ok := data[required]; !ok {
			return nil, fmt.Errorf("indigo: %s: missing required column %s", d.source, required)
		}
	}

	for _, sample := range d.samples {
		for vendor, canonical := range indigoKeys {
			if _, ok := data[canonical]; !ok {
				continue
			}
			data[canonical] = append(data[canonical], sample[vendor])
		}
	}

	return &Structured{Format: d.Format(), Source: d.source, Rows: len(d.samples), Data: data}, nil
}

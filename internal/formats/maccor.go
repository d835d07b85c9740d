package formats

import (
	"fmt"
	"os"
	"strings"
)

var maccorColumns = map[string]string{
	"Cyc#":         ColCycleIndex,
	"Step":         ColStepIndex,
	"TestTime(s)":  ColTestTime,
	"Volts":        ColVoltage,
	"Amps":         ColCurrent,
	"Cap. [Ah]":    ColChargeCapacity,
	"DisCap. [Ah]": ColDischargeCapacity,
}

// MaccorDatapath parses tab-separated Maccor exports. The first line is a
// metadata preamble; the header row follows it. xTesladiag-named files use the
// same layout and share this handler.
type MaccorDatapath struct {
	source  string
	headers []string
	rows    [][]string
}

// NewMaccor loads a Maccor export from path.
func NewMaccor(path string) (Datapath, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("maccor: open %s: %w", path, err)
	}

	content := strings.ReplaceAll(string(raw), "\r\n", "\n")
	// Skip the metadata preamble: the header row is the first line whose
	// leading field is "Cyc#".
	lines := strings.Split(content, "\n")
	start := -1
	for i, line := range lines {
		first, _, _ := strings.Cut(line, "\t")
		if strings.TrimSpace(first) == "Cyc#" {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("maccor: parse %s: missing Cyc# header row", path)
	}

	headers, rows, err := readDelimited(strings.NewReader(strings.Join(lines[start:], "\n")), '\t')
	if err != nil {
		return nil, fmt.Errorf("maccor: parse %s: %w", path, err)
	}
	return &MaccorDatapath{source: path, headers: headers, rows: rows}, nil
}

func (d *MaccorDatapath) Format() string { return "maccor" }

func (d *MaccorDatapath) Structure() (*Structured, error) {
	return normalizeTable(d.Format(), d.source, d.headers, d.rows, maccorColumns)
}

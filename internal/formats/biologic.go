package formats

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

var biologicColumns = map[string]string{
	"cycle number":     ColCycleIndex,
	"Ns":               ColStepIndex,
	"time/s":           ColTestTime,
	"Ewe/V":            ColVoltage,
	"I/mA":             ColCurrent,
	"Q charge/mA.h":    ColChargeCapacity,
	"Q discharge/mA.h": ColDischargeCapacity,
}

// BiologicDatapath parses BioLogic EC-Lab .mpt text exports. The preamble
// declares its own length ("Nb header lines : N"); the column header row is
// the last preamble line, followed by tab-separated data.
type BiologicDatapath struct {
	source  string
	headers []string
	rows    [][]string
}

// NewBiologic loads a BioLogic export from path.
func NewBiologic(path string) (Datapath, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("biologic: open %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
	headerCount, err := biologicHeaderCount(lines)
	if err != nil {
		return nil, fmt.Errorf("biologic: parse %s: %w", path, err)
	}
	if headerCount > len(lines) {
		return nil, fmt.Errorf("biologic: parse %s: preamble declares %d header lines but file has %d lines", path, headerCount, len(lines))
	}

	headers := strings.Split(lines[headerCount-1], "\t")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows [][]string
	for _, line := range lines[headerCount:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}

	return &BiologicDatapath{source: path, headers: headers, rows: rows}, nil
}

// biologicHeaderCount extracts N from the "Nb header lines : N" preamble line.
func biologicHeaderCount(lines []string) (int, error) {
	for i, line := range lines {
		if i >= 3 {
			break
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "Nb header lines") {
			continue
		}
		_, value, found := strings.Cut(trimmed, ":")
		if !found {
			break
		}
		count, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || count < 1 {
			return 0, fmt.Errorf("invalid header line count %q", strings.TrimSpace(value))
		}
		return count, nil
	}
	return 0, fmt.Errorf("missing \"Nb header lines\" preamble")
}

func (d *BiologicDatapath) Format() string { return "biologic" }

func (d *BiologicDatapath) Structure() (*Structured, error) {
	return normalizeTable(d.Format(), d.source, d.headers, d.rows, biologicColumns)
}

package formats

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

var newareColumns = map[string]string{
	"Cycle":         ColCycleIndex,
	"Step":          ColStepIndex,
	"Time(s)":       ColTestTime,
	"Voltage(V)":    ColVoltage,
	"Current(mA)":   ColCurrent,
	"Capacity(mAh)": ColChargeCapacity,
}

// NewareDatapath parses comma-separated Neware exports. Neware software writes
// GB18030-encoded files, so the content is transcoded before parsing.
type NewareDatapath struct {
	source  string
	headers []string
	rows    [][]string
}

// NewNeware loads a Neware export from path.
func NewNeware(path string) (Datapath, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("neware: open %s: %w", path, err)
	}
	defer file.Close()

	decoded := transform.NewReader(file, simplifiedchinese.GB18030.NewDecoder())
	headers, rows, err := readDelimited(decoded, ',')
	if err != nil {
		return nil, fmt.Errorf("neware: parse %s: %w", path, err)
	}
	return &NewareDatapath{source: path, headers: headers, rows: rows}, nil
}

func (d *NewareDatapath) Format() string { return "neware" }

func (d *NewareDatapath) Structure() (*Structured, error) {
	return normalizeTable(d.Format(), d.source, d.headers, d.rows, newareColumns)
}

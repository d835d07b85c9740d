package formats

import (
	"fmt"
	"os"
)

var arbinColumns = map[string]string{
	"Cycle_Index":            ColCycleIndex,
	"Step_Index":             ColStepIndex,
	"Test_Time(s)":           ColTestTime,
	"Voltage(V)":             ColVoltage,
	"Current(A)":             ColCurrent,
	"Charge_Capacity(Ah)":    ColChargeCapacity,
	"Discharge_Capacity(Ah)": ColDischargeCapacity,
}

// ArbinDatapath parses comma-separated Arbin cycler exports. FastCharge-named
// files carry the same layout and share this handler.
type ArbinDatapath struct {
	source  string
	headers []string
	rows    [][]string
}

// NewArbin loads an Arbin export from path.
func NewArbin(path string) (Datapath, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("arbin: open %s: %w", path, err)
	}
	defer file.Close()

	headers, rows, err := readDelimited(file, ',')
	if err != nil {
		return nil, fmt.Errorf("arbin: parse %s: %w", path, err)
	}
	return &ArbinDatapath{source: path, headers: headers, rows: rows}, nil
}

func (d *ArbinDatapath) Format() string { return "arbin" }

func (d *ArbinDatapath) Structure() (*Structured, error) {
	return normalizeTable(d.Format(), d.source, d.headers, d.rows, arbinColumns)
}

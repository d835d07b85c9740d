package structure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voltaic/internal/formats"
	"voltaic/internal/manifest"
	"voltaic/internal/runstore"
	"voltaic/internal/testsupport"
)

const arbinFixture = `Data_Point,Cycle_Index,Step_Index,Test_Time(s),Voltage(V),Current(A),Charge_Capacity(Ah),Discharge_Capacity(Ah)
1,1,1,0.0,3.28,0.50,0.000,0.000
2,1,2,10.0,3.35,0.50,0.001,0.000
`

func writeArbin(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(arbinFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newInput(files []string, validities []string, runIDs ...string) *manifest.Input {
	raw := make([]json.RawMessage, len(runIDs))
	for i, id := range runIDs {
		raw[i] = json.RawMessage(id)
	}
	return &manifest.Input{Files: files, Validities: validities, RunIDs: raw}
}

func TestProcessSingleValidFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	raw := t.TempDir()
	input := writeArbin(t, raw, "FastCharge_000025_CH8.csv")

	proc := NewProcessor(cfg, formats.Defaults(), nil, nil)
	out, err := proc.Process(context.Background(), newInput([]string{input}, []string{"valid"}, "42"))
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Invalid) != 0 {
		t.Fatalf("invalid list should be empty: %v", out.Invalid)
	}
	if out.Processed() != 1 {
		t.Fatalf("processed: %d", out.Processed())
	}
	if out.Results[0] != manifest.ResultSuccess {
		t.Fatalf("result: %s", out.Results[0])
	}
	if out.Messages[0].Comment != "" || out.Messages[0].Error != "" {
		t.Fatalf("message should be empty: %+v", out.Messages[0])
	}
	if string(out.RunIDs[0]) != "42" {
		t.Fatalf("run id not correlated: %s", out.RunIDs[0])
	}

	want := filepath.Join(cfg.ProcessedDirAbs(), "FastCharge_000025_CH8_structure.json")
	if out.Files[0] != want {
		t.Fatalf("output path: got %s, want %s", out.Files[0], want)
	}

	data, err := os.ReadFile(out.Files[0])
	if err != nil {
		t.Fatal(err)
	}
	var structured formats.Structured
	if err := json.Unmarshal(data, &structured); err != nil {
		t.Fatal(err)
	}
	if structured.Format != "arbin" || structured.Rows != 2 {
		t.Fatalf("structured record: %+v", structured)
	}
}

func TestProcessAllValid(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	raw := t.TempDir()
	files := []string{
		writeArbin(t, raw, "FastCharge_000001_CH1.csv"),
		writeArbin(t, raw, "FastCharge_000002_CH2.csv"),
	}

	proc := NewProcessor(cfg, formats.Defaults(), nil, nil)
	out, err := proc.Process(context.Background(), newInput(files, []string{"valid", "valid"}, "1", "2"))
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Invalid) != 0 {
		t.Fatalf("invalid list: %v", out.Invalid)
	}
	if len(out.Files) != 2 || len(out.RunIDs) != 2 || len(out.Results) != 2 || len(out.Messages) != 2 {
		t.Fatalf("output lists must match input length: %+v", out)
	}
	for _, path := range out.Files {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing output %s: %v", path, err)
		}
	}
}

func TestProcessAllInvalid(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	files := []string{"a_CH1.csv", "b_CH2.csv", "c_CH3.csv"}

	proc := NewProcessor(cfg, formats.Defaults(), nil, nil)
	out, err := proc.Process(context.Background(), newInput(files, []string{"skip", "corrupt", "skip"}, "1", "2", "3"))
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Files) != 0 || len(out.RunIDs) != 0 || len(out.Results) != 0 {
		t.Fatalf("nothing should be processed: %+v", out)
	}
	for i, name := range files {
		if out.Invalid[i] != name {
			t.Fatalf("invalid list must preserve order: %v", out.Invalid)
		}
	}
}

func TestProcessMixedValidity(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	raw := t.TempDir()
	valid := writeArbin(t, raw, "FastCharge_000025_CH8.csv")

	in := newInput([]string{valid, "other_CH9.csv"}, []string{"valid", "skip"}, "42", "43")
	proc := NewProcessor(cfg, formats.Defaults(), nil, nil)
	out, err := proc.Process(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if out.Processed() != 1 {
		t.Fatalf("processed: %d", out.Processed())
	}
	if len(out.Invalid) != 1 || out.Invalid[0] != "other_CH9.csv" {
		t.Fatalf("invalid list: %v", out.Invalid)
	}
}

func TestProcessUnrecognizedFormatIsolated(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	raw := t.TempDir()
	good := writeArbin(t, raw, "FastCharge_000025_CH8.csv")

	in := newInput([]string{"mystery.xlsx", good}, []string{"valid", "valid"}, "1", "2")
	proc := NewProcessor(cfg, formats.Defaults(), nil, nil)
	out, err := proc.Process(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if out.Results[0] != manifest.ResultFailure {
		t.Fatalf("first entry should fail: %v", out.Results)
	}
	if out.Messages[0].Error == "" {
		t.Fatal("failure must carry the error text")
	}
	if out.Files[0] != "" {
		t.Fatal("failed entry must have no output location")
	}
	// The dispatch miss must not abort the rest of the batch.
	if out.Results[1] != manifest.ResultSuccess {
		t.Fatalf("second entry should succeed: %v", out.Results)
	}
}

func TestProcessLoadFailureIsolated(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	in := newInput([]string{"/nonexistent/FastCharge_000025_CH8.csv"}, []string{"valid"}, "1")
	proc := NewProcessor(cfg, formats.Defaults(), nil, nil)
	out, err := proc.Process(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if out.Results[0] != manifest.ResultFailure {
		t.Fatalf("expected failure record: %v", out.Results)
	}
}

func TestProcessShapeErrorAborts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	in := newInput([]string{"a_CH1.csv", "b_CH2.csv"}, []string{"valid"}, "1")

	proc := NewProcessor(cfg, formats.Defaults(), nil, nil)
	if _, err := proc.Process(context.Background(), in); !errors.Is(err, manifest.ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestProcessJournalsOutcomes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := runstore.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	raw := t.TempDir()
	good := writeArbin(t, raw, "FastCharge_000025_CH8.csv")
	in := newInput([]string{good, "mystery.xlsx"}, []string{"valid", "valid"}, `"r1"`, `"r2"`)

	proc := NewProcessor(cfg, formats.Defaults(), store, nil)
	if _, err := proc.Process(context.Background(), in); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 journal rows, got %d", len(runs))
	}
	// Newest first: the failure was recorded last.
	if runs[0].Result != manifest.ResultFailure || runs[0].ErrorMessage == "" {
		t.Fatalf("failure row: %+v", runs[0])
	}
	if runs[1].Result != manifest.ResultSuccess || runs[1].Format != "arbin" {
		t.Fatalf("success row: %+v", runs[1])
	}
	if runs[1].RunID != "r1" {
		t.Fatalf("run id: %q", runs[1].RunID)
	}
	if runs[0].BatchID == "" || runs[0].BatchID != runs[1].BatchID {
		t.Fatalf("batch ids must correlate: %q vs %q", runs[0].BatchID, runs[1].BatchID)
	}
}

func TestProcessWarnsOffSingleFileConvention(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := testsupport.NewConfig(t)
	raw := t.TempDir()
	proc := NewProcessor(cfg, formats.Defaults(), nil, logger)

	const warning = "deviates from single-file convention"

	// Zero processed files: everything excluded upstream.
	if _, err := proc.Process(context.Background(), newInput([]string{"a_CH1.csv"}, []string{"skip"}, "1")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), warning) {
		t.Fatalf("empty processed list must warn: %q", buf.String())
	}

	// Exactly one processed file: no warning.
	buf.Reset()
	single := writeArbin(t, raw, "FastCharge_000025_CH8.csv")
	if _, err := proc.Process(context.Background(), newInput([]string{single}, []string{"valid"}, "42")); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), warning) {
		t.Fatalf("single-file batch must not warn: %q", buf.String())
	}

	// More than one processed file warns again.
	buf.Reset()
	files := []string{
		writeArbin(t, raw, "FastCharge_000001_CH1.csv"),
		writeArbin(t, raw, "FastCharge_000002_CH2.csv"),
	}
	if _, err := proc.Process(context.Background(), newInput(files, []string{"valid", "valid"}, "1", "2")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), warning) {
		t.Fatalf("multi-file batch must warn: %q", buf.String())
	}
}

func TestProcessRepeatedInvocation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	raw := t.TempDir()
	input := writeArbin(t, raw, "FastCharge_000025_CH8.csv")
	in := newInput([]string{input}, []string{"valid"}, "42")

	proc := NewProcessor(cfg, formats.Defaults(), nil, nil)
	first, err := proc.Process(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	// Second run against the existing output directory overwrites the same
	// derived path without error.
	second, err := proc.Process(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if first.Files[0] != second.Files[0] {
		t.Fatalf("derived output path must be deterministic: %s vs %s", first.Files[0], second.Files[0])
	}
}

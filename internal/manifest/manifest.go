package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Valid is the validity tag that marks a file for processing. Anything else
// excludes the file from the batch.
const Valid = "valid"

// Result tags recorded per processed file.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ErrShape indicates the input manifest is structurally unusable: missing
// keys, wrong types, or mismatched sequence lengths. Shape errors abort the
// batch before any file is processed.
var ErrShape = errors.New("manifest shape error")

//go:embed schema.json
var schemaJSON []byte

var inputSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("parse embedded manifest schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("manifest.json", doc); err != nil {
		panic(fmt.Sprintf("add manifest schema resource: %v", err))
	}
	compiled, err := compiler.Compile("manifest.json")
	if err != nil {
		panic(fmt.Sprintf("compile manifest schema: %v", err))
	}
	return compiled
}

// Input is the batch manifest produced by the upstream validation step. The
// three sequences are positionally correlated and must have identical length.
type Input struct {
	Files      []string          `json:"file_list"`
	Validities []string          `json:"validity"`
	RunIDs     []json.RawMessage `json:"run_list"`
}

// Load reads an input manifest from source. A source ending in ".json" is
// treated as a file path; anything else is parsed as an inline JSON document.
func Load(source string) (*Input, error) {
	var data []byte
	if strings.HasSuffix(source, ".json") {
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		data = raw
	} else {
		data = []byte(source)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON manifest document.
func Parse(data []byte) (*Input, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrShape, err)
	}
	if err := inputSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Validate enforces the equal-length invariant across the three sequences.
func (in *Input) Validate() error {
	if len(in.Files) != len(in.Validities) || len(in.Files) != len(in.RunIDs) {
		return fmt.Errorf("%w: file_list has %d entries, validity %d, run_list %d",
			ErrShape, len(in.Files), len(in.Validities), len(in.RunIDs))
	}
	return nil
}

// Message carries the per-file diagnostic pair recorded in the output manifest.
type Message struct {
	Comment string `json:"comment"`
	Error   string `json:"error"`
}

// Output aggregates per-file structuring outcomes. The first four sequences
// are positionally correlated across processed files; excluded files appear
// only in Invalid. Construct with NewOutput so empty batches serialize as
// empty arrays rather than nulls.
type Output struct {
	Files    []string          `json:"file_list"`
	RunIDs   []json.RawMessage `json:"run_list"`
	Results  []string          `json:"result_list"`
	Messages []Message         `json:"message_list"`
	Invalid  []string          `json:"invalid_file_list"`
}

// NewOutput returns an empty output manifest.
func NewOutput() *Output {
	return &Output{
		Files:    []string{},
		RunIDs:   []json.RawMessage{},
		Results:  []string{},
		Messages: []Message{},
		Invalid:  []string{},
	}
}

// AddSuccess records a successfully structured file.
func (o *Output) AddSuccess(outputPath string, runID json.RawMessage) {
	o.Files = append(o.Files, outputPath)
	o.RunIDs = append(o.RunIDs, runID)
	o.Results = append(o.Results, ResultSuccess)
	o.Messages = append(o.Messages, Message{})
}

// AddFailure records a file whose structuring failed. The output location is
// left empty since nothing was written.
func (o *Output) AddFailure(runID json.RawMessage, cause error) {
	msg := Message{}
	if cause != nil {
		msg.Error = cause.Error()
	}
	o.Files = append(o.Files, "")
	o.RunIDs = append(o.RunIDs, runID)
	o.Results = append(o.Results, ResultFailure)
	o.Messages = append(o.Messages, msg)
}

// AddInvalid records a file excluded by upstream validity.
func (o *Output) AddInvalid(filename string) {
	o.Invalid = append(o.Invalid, filename)
}

// Processed reports the number of per-file records in the output.
func (o *Output) Processed() int {
	return len(o.Files)
}

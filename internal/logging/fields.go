package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldBatchID is the standardized structured logging key for batch invocation identifiers.
	FieldBatchID = "batch_id"
	// FieldRunID is the standardized structured logging key for experimental run identifiers.
	FieldRunID = "run_id"
	// FieldFile is the standardized structured logging key for input file paths.
	FieldFile = "file"
	// FieldFormat is the standardized structured logging key for instrument format names.
	FieldFormat = "format"
)

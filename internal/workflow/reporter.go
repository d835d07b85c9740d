package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voltaic/internal/logging"
	"voltaic/internal/manifest"
)

// ErrEmptyBatch is returned when a batch produced no processed entries, so
// there is no representative record to report.
var ErrEmptyBatch = errors.New("empty batch result")

// Reporter surfaces a single-record summary of a batch to the workflow sink.
// Batches are expected to carry exactly one processed file; the first record
// is the representative one.
type Reporter struct {
	sink   Sink
	stage  string
	logger *slog.Logger
}

// NewReporter wires a reporter for the given stage label.
func NewReporter(sink Sink, stage string, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reporter{
		sink:   sink,
		stage:  stage,
		logger: logger.With(slog.String(logging.FieldComponent, "workflow")),
	}
}

// Report extracts the first processed record from the output manifest and
// forwards it to the sink. An empty processed list fails with ErrEmptyBatch
// rather than an out-of-range fault.
func (r *Reporter) Report(ctx context.Context, out *manifest.Output) error {
	if out == nil || out.Processed() == 0 {
		return fmt.Errorf("%w: no processed files to report", ErrEmptyBatch)
	}

	record := Record{
		Filename: out.Files[0],
		RunID:    out.RunIDs[0],
		Result:   out.Results[0],
	}
	if err := r.sink.Put(ctx, r.stage, record); err != nil {
		return fmt.Errorf("put workflow outputs: %w", err)
	}

	r.logger.Info("workflow output reported",
		slog.String("stage", r.stage),
		slog.String("filename", record.Filename),
		slog.String("result", record.Result))
	return nil
}

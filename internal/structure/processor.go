package structure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"voltaic/internal/config"
	"voltaic/internal/fileutil"
	"voltaic/internal/formats"
	"voltaic/internal/logging"
	"voltaic/internal/manifest"
	"voltaic/internal/runstore"
)

const lockRetryDelay = 250 * time.Millisecond

// Processor drives structuring across an input manifest. It owns no shared
// state between invocations; each Process call builds a fresh output manifest.
type Processor struct {
	cfg      *config.Config
	registry *formats.Registry
	store    *runstore.Store
	logger   *slog.Logger
}

// NewProcessor wires a batch processor. store may be nil to skip journaling.
func NewProcessor(cfg *config.Config, registry *formats.Registry, store *runstore.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		cfg:      cfg,
		registry: registry,
		store:    store,
		logger:   logger.With(slog.String(logging.FieldComponent, "structure")),
	}
}

// Process structures every valid file in the manifest and returns the output
// manifest. Manifest shape violations abort before any file is touched;
// per-file failures are recorded and processing continues.
func (p *Processor) Process(ctx context.Context, in *manifest.Input) (*manifest.Output, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil manifest", manifest.ErrShape)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	log := p.logger.With(slog.String(logging.FieldBatchID, batchID))

	outDir := p.cfg.ProcessedDirAbs()
	if err := fileutil.EnsureDir(outDir); err != nil {
		return nil, err
	}

	// Batches writing into the same root serialize on a directory lock;
	// derived output names are deterministic, so unsynchronized writers
	// would race last-writer-wins.
	lock := flock.New(filepath.Join(outDir, ".voltaic.lock"))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire output lock: not acquired")
	}
	defer func() { _ = lock.Unlock() }()

	out := manifest.NewOutput()
	for i, filename := range in.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		runID := in.RunIDs[i]
		entry := log.With(
			slog.String(logging.FieldFile, filename),
			slog.String(logging.FieldRunID, rawString(runID)),
		)

		if in.Validities[i] != manifest.Valid {
			entry.Debug("excluding file", slog.String("validity", in.Validities[i]))
			out.AddInvalid(filename)
			continue
		}

		entry.Info("structuring file")
		outputPath, format, err := p.processOne(filename, outDir)
		if err != nil {
			entry.Error("structuring failed", slog.Any("error", err))
			out.AddFailure(runID, err)
		} else {
			entry.Info("structuring complete", slog.String("output", outputPath), slog.String(logging.FieldFormat, format))
			out.AddSuccess(outputPath, runID)
		}

		p.journal(ctx, entry, &runstore.Run{
			BatchID:      batchID,
			RunID:        rawString(runID),
			SourcePath:   filename,
			OutputPath:   outputPath,
			Format:       format,
			Result:       out.Results[len(out.Results)-1],
			ErrorMessage: errText(err),
		})
	}

	// Callers are expected to submit single-file batches; anything else is a
	// contract violation worth flagging, but not fatal.
	if out.Processed() != 1 {
		log.Warn("processed file count deviates from single-file convention",
			slog.Int("processed", out.Processed()))
	}

	return out, nil
}

// processOne dispatches, structures, and serializes a single file, returning
// the absolute output path and the handler format. The format is returned even
// on structuring failure so the journal can attribute the error.
func (p *Processor) processOne(filename, outDir string) (string, string, error) {
	dp, err := p.registry.Open(filename)
	if err != nil {
		return "", "", err
	}

	structured, err := dp.Structure()
	if err != nil {
		return "", dp.Format(), err
	}

	target := filepath.Join(outDir, DeriveOutputName(filename))
	if abs, err := filepath.Abs(target); err == nil {
		target = abs
	}
	if err := fileutil.DumpJSON(target, structured); err != nil {
		return "", dp.Format(), fmt.Errorf("serialize %s: %w", filepath.Base(target), err)
	}
	return target, dp.Format(), nil
}

func (p *Processor) journal(ctx context.Context, log *slog.Logger, run *runstore.Run) {
	if p.store == nil {
		return
	}
	if _, err := p.store.Record(ctx, run); err != nil {
		// Journal writes are bookkeeping; the output manifest stays authoritative.
		log.Warn("journal write failed", slog.Any("error", err))
	}
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

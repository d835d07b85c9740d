package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"voltaic/internal/formats"
	"voltaic/internal/logging"
	"voltaic/internal/manifest"
	"voltaic/internal/runstore"
	"voltaic/internal/structure"
	"voltaic/internal/workflow"
)

func newStructureCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var noReport bool

	cmd := &cobra.Command{
		Use:   "structure <manifest>",
		Short: "Structure the raw cycler files listed in a manifest",
		Long: `Structure processes a batch manifest of raw instrument files.

The manifest argument is either an inline JSON document or a path ending in
.json. Each valid file is dispatched to its format handler, structured, and
serialized under the processed directory; the resulting output manifest is
printed to stdout as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if outputDir != "" {
				if err := cfg.OverrideProcessedDir(outputDir); err != nil {
					return err
				}
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			in, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			store, err := runstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run journal: %w", err)
			}
			defer store.Close()

			proc := structure.NewProcessor(cfg, formats.Defaults(), store, logger)
			out, err := proc.Process(cmd.Context(), in)
			if err != nil {
				return err
			}

			if err := writeJSON(cmd, out); err != nil {
				return err
			}

			if noReport {
				return nil
			}
			reporter := workflow.NewReporter(workflow.NewSink(cfg), cfg.Workflow.Stage, logger)
			if err := reporter.Report(cmd.Context(), out); err != nil {
				if errors.Is(err, workflow.ErrEmptyBatch) {
					return err
				}
				return fmt.Errorf("report workflow output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Relative processed directory (overrides paths.processed_dir)")
	cmd.Flags().BoolVar(&noReport, "no-report", false, "Skip forwarding the workflow summary")

	return cmd
}

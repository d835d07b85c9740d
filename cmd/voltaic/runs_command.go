package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"voltaic/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded structuring runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := runstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run journal: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut || !stdoutIsTerminal() {
				type entry struct {
					ID        int64  `json:"id"`
					BatchID   string `json:"batch_id"`
					RunID     string `json:"run_id"`
					Source    string `json:"source_path"`
					Output    string `json:"output_path,omitempty"`
					Format    string `json:"format,omitempty"`
					Result    string `json:"result"`
					Error     string `json:"error,omitempty"`
					CreatedAt string `json:"created_at"`
				}
				entries := make([]entry, 0, len(runs))
				for _, r := range runs {
					entries = append(entries, entry{
						ID:        r.ID,
						BatchID:   r.BatchID,
						RunID:     r.RunID,
						Source:    r.SourcePath,
						Output:    r.OutputPath,
						Format:    r.Format,
						Result:    r.Result,
						Error:     r.ErrorMessage,
						CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
					})
				}
				return writeJSON(cmd, entries)
			}

			if len(runs) == 0 {
				cmd.Println("No structuring runs recorded.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				detail := r.OutputPath
				if r.Result != "success" {
					detail = r.ErrorMessage
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", r.ID),
					r.RunID,
					r.Format,
					r.Result,
					detail,
					r.CreatedAt.UTC().Format(time.RFC3339),
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "Run", "Format", "Result", "Detail", "Created"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

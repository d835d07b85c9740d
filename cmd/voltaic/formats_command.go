package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"voltaic/internal/formats"
)

func newFormatsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "formats",
		Short:       "List registered instrument formats in dispatch order",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			bindings := formats.Defaults().Bindings()

			if jsonOut || !stdoutIsTerminal() {
				type entry struct {
					Name    string `json:"name"`
					Handler string `json:"handler"`
					Pattern string `json:"pattern"`
				}
				entries := make([]entry, 0, len(bindings))
				for _, b := range bindings {
					entries = append(entries, entry{Name: b.Name, Handler: b.Handler, Pattern: b.Pattern.String()})
				}
				return writeJSON(cmd, entries)
			}

			rows := make([][]string, 0, len(bindings))
			for i, b := range bindings {
				rows = append(rows, []string{strconv.Itoa(i + 1), b.Name, b.Handler, b.Pattern.String()})
			}
			cmd.Println(renderTable(
				[]string{"#", "Name", "Handler", "Pattern"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

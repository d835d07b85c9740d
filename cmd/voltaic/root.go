package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"voltaic/internal/config"
)

// processingRootEnv overrides paths.processing_root for one invocation,
// letting the same manifest replay against a different storage root. The
// environment is read here, at the process boundary, and nowhere else.
const processingRootEnv = "VOLTAIC_PROCESSING_DIR"

type commandContext struct {
	configFlag *string
	cfg        *config.Config
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	cfg, _, _, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}

	if root, ok := os.LookupEnv(processingRootEnv); ok && strings.TrimSpace(root) != "" {
		if err := cfg.OverrideProcessingRoot(root); err != nil {
			return nil, fmt.Errorf("apply %s: %w", processingRootEnv, err)
		}
	}

	c.cfg = cfg
	return cfg, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	return cmd.Annotations["skipConfigLoad"] == "true"
}

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "voltaic",
		Short:         "Batch structuring for battery cycler data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newStructureCommand(ctx))
	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newRunsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

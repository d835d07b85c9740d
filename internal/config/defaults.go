package config

const (
	defaultProcessingRoot = "/"
	defaultProcessedDir   = "data-share/structure"
	defaultLogDir         = "~/.local/share/voltaic/logs"
	defaultDatabasePath   = "~/.local/share/voltaic/runs.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultSinkTimeout    = 10
	defaultWorkflowStage  = "structuring"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProcessingRoot: defaultProcessingRoot,
			ProcessedDir:   defaultProcessedDir,
			LogDir:         defaultLogDir,
			DatabasePath:   defaultDatabasePath,
		},
		Workflow: Workflow{
			RequestTimeout: defaultSinkTimeout,
			Stage:          defaultWorkflowStage,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

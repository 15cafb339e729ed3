package config

import "time"

// Default values for configuration fields.
const (
	DefaultOutputDir   = "xacml"
	DefaultMaxFileSize = int64(10 * 1024 * 1024)

	DefaultWatchDebounce = 250 * time.Millisecond

	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// ApplyDefaults fills in default values for any unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Compile.OutputDir == "" {
		cfg.Compile.OutputDir = DefaultOutputDir
	}
	if cfg.Compile.MaxFileSize == 0 {
		cfg.Compile.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
}

package config

import "time"

// Config is the root configuration structure for the alfac compiler.
type Config struct {
	// Compile contains the compilation settings: inputs, output
	// directory, and identifier generation.
	Compile CompileConfig `yaml:"compile"`

	// Watch contains settings for watch mode, which recompiles when
	// source files change.
	Watch WatchConfig `yaml:"watch"`

	// Logging contains log output settings.
	Logging LoggingConfig `yaml:"logging"`
}

// CompileConfig contains the compilation settings.
type CompileConfig struct {
	// Inputs is the list of ALFA source files or directories to
	// compile. Directories are walked recursively for .alfa files.
	Inputs []string `yaml:"inputs"`

	// OutputDir is the directory XACML files are written to.
	// Default: "xacml"
	OutputDir string `yaml:"output_dir"`

	// BaseNamespace is the URI prefix used for generated policy,
	// policyset, and rule identifiers. Empty selects the built-in
	// prefix.
	BaseNamespace string `yaml:"base_namespace"`

	// DisableBuiltins turns off the standard ALFA definitions (types,
	// categories, functions, operators, combining algorithms). When
	// disabled, every symbol must be declared in source.
	// Default: false
	DisableBuiltins bool `yaml:"disable_builtins"`

	// MaxFileSize is the largest source file the parser will accept,
	// in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`
}

// WatchConfig contains settings for watch mode.
type WatchConfig struct {
	// Debounce is how long to wait after a filesystem event before
	// recompiling, coalescing bursts of events from editors.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`
}

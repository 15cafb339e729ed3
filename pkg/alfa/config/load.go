package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path, applies defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention ALFAC_SECTION_FIELD (e.g. ALFAC_COMPILE_OUTPUT_DIR) and
// take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ALFAC_COMPILE_OUTPUT_DIR"); val != "" {
		cfg.Compile.OutputDir = val
	}
	if val := os.Getenv("ALFAC_COMPILE_BASE_NAMESPACE"); val != "" {
		cfg.Compile.BaseNamespace = val
	}
	if val := os.Getenv("ALFAC_COMPILE_DISABLE_BUILTINS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Compile.DisableBuiltins = b
		}
	}
	if val := os.Getenv("ALFAC_COMPILE_MAX_FILE_SIZE"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Compile.MaxFileSize = n
		}
	}
	if val := os.Getenv("ALFAC_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv("ALFAC_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("ALFAC_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}

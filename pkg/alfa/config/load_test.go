package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alfac.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfigFile(t, `
compile:
  inputs:
    - policies/
    - extra/main.alfa
  output_dir: out
  base_namespace: "https://example.com/policies/"
  max_file_size: 1048576

watch:
  debounce: "500ms"

logging:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Compile.Inputs) != 2 || cfg.Compile.Inputs[0] != "policies/" {
		t.Errorf("inputs = %v", cfg.Compile.Inputs)
	}
	if cfg.Compile.OutputDir != "out" {
		t.Errorf("output dir = %q, want out", cfg.Compile.OutputDir)
	}
	if cfg.Compile.BaseNamespace != "https://example.com/policies/" {
		t.Errorf("base namespace = %q", cfg.Compile.BaseNamespace)
	}
	if cfg.Compile.MaxFileSize != 1048576 {
		t.Errorf("max file size = %d, want 1048576", cfg.Compile.MaxFileSize)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("debounce = %v, want 500ms", cfg.Watch.Debounce)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
compile:
  inputs:
    - policies/
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Compile.OutputDir != DefaultOutputDir {
		t.Errorf("output dir = %q, want default %q", cfg.Compile.OutputDir, DefaultOutputDir)
	}
	if cfg.Compile.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("max file size = %d, want default %d", cfg.Compile.MaxFileSize, DefaultMaxFileSize)
	}
	if cfg.Watch.Debounce != DefaultWatchDebounce {
		t.Errorf("debounce = %v, want default %v", cfg.Watch.Debounce, DefaultWatchDebounce)
	}
	if cfg.Logging.Level != DefaultLoggingLevel || cfg.Logging.Format != DefaultLoggingFormat {
		t.Errorf("logging = %+v, want defaults", cfg.Logging)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "compile: [not a mapping")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
compile:
  inputs:
    - policies/
  output_dir: from-file

logging:
  level: info
`)

	t.Setenv("ALFAC_COMPILE_OUTPUT_DIR", "from-env")
	t.Setenv("ALFAC_COMPILE_DISABLE_BUILTINS", "true")
	t.Setenv("ALFAC_WATCH_DEBOUNCE", "2s")
	t.Setenv("ALFAC_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Compile.OutputDir != "from-env" {
		t.Errorf("output dir = %q, want env override", cfg.Compile.OutputDir)
	}
	if !cfg.Compile.DisableBuiltins {
		t.Error("disable_builtins not overridden from environment")
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("debounce = %v, want 2s", cfg.Watch.Debounce)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfigFile(t, `
compile:
  inputs:
    - policies/
`)

	// an override that fails validation is rejected
	t.Setenv("ALFAC_LOGGING_LEVEL", "loud")
	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Fatal("expected validation error for bad log level")
	}
}

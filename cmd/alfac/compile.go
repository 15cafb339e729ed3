package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/alfac/pkg/alfa"
	"mercator-hq/alfac/pkg/alfa/compiler"
	"mercator-hq/alfac/pkg/alfa/config"
	"mercator-hq/alfac/pkg/alfa/parser"
	"mercator-hq/alfac/pkg/cli"
)

var compileFlags struct {
	inputs          []string
	outputDir       string
	baseNamespace   string
	disableBuiltins bool
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile ALFA sources to XACML",
	Long: `Compile ALFA source files into XACML 3.0 policy documents.

Each top-level policy or policy set produces one XML file in the output
directory, named after the entity's namespace path.

Examples:
  # Compile a directory of sources
  alfac compile -i policies/ -o xacml/

  # Compile individual files with a custom identifier namespace
  alfac compile -i main.alfa -i common.alfa -n https://example.com/policies/

  # Compile without the standard ALFA definitions
  alfac compile -i policies/ --disable-builtins`,
	RunE: compilePolicies,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringArrayVarP(&compileFlags.inputs, "input", "i", nil, "ALFA source file or directory (repeatable)")
	compileCmd.Flags().StringVarP(&compileFlags.outputDir, "output", "o", "", "output directory for XACML files")
	compileCmd.Flags().StringVarP(&compileFlags.baseNamespace, "namespace", "n", "", "base URI for generated identifiers")
	compileCmd.Flags().BoolVarP(&compileFlags.disableBuiltins, "disable-builtins", "d", false, "disable the standard ALFA definitions")
}

func compilePolicies(cmd *cobra.Command, args []string) error {
	cfg, err := loadCompileConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg.Logging)

	if len(cfg.Compile.Inputs) == 0 {
		return fmt.Errorf("no inputs: pass --input or set compile.inputs in %s", cfgFile)
	}

	outputs, err := compileAll(cfg)
	if err != nil {
		return cli.NewCommandError("compile", err)
	}

	if err := alfa.WriteOutputs(cfg.Compile.OutputDir, outputs); err != nil {
		return cli.NewCommandError("compile", err)
	}

	fmt.Fprintf(os.Stderr, "Compiled to %d policies.\n", len(outputs))
	return nil
}

// compileAll runs one full compilation over the configured inputs with
// a fresh compiler context.
func compileAll(cfg *config.Config) ([]alfa.Output, error) {
	ctx := compiler.New(compiler.Config{
		BaseNamespace:  cfg.Compile.BaseNamespace,
		EnableBuiltins: !cfg.Compile.DisableBuiltins,
		Version:        "1.0",
	})

	paths, err := alfa.CollectInputs(cfg.Compile.Inputs)
	if err != nil {
		return nil, err
	}

	p := parser.NewParser(ctx)
	if cfg.Compile.MaxFileSize > 0 {
		p = p.WithMaxFileSize(cfg.Compile.MaxFileSize)
	}
	collection, err := p.ParseMulti(paths)
	if err != nil {
		return nil, err
	}

	return alfa.Convert(ctx, collection)
}

// loadCompileConfig loads the configuration file, then applies flag
// overrides. A missing config file is not an error; defaults are used.
func loadCompileConfig() (*config.Config, error) {
	var cfg *config.Config

	if _, statErr := os.Stat(cfgFile); statErr == nil {
		loaded, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}

	// Flags override file and environment settings.
	if len(compileFlags.inputs) > 0 {
		cfg.Compile.Inputs = compileFlags.inputs
	}
	if compileFlags.outputDir != "" {
		cfg.Compile.OutputDir = compileFlags.outputDir
	}
	if compileFlags.baseNamespace != "" {
		cfg.Compile.BaseNamespace = compileFlags.baseNamespace
	}
	if compileFlags.disableBuiltins {
		cfg.Compile.DisableBuiltins = true
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// setupLogging installs the default slog logger per the logging config.
func setupLogging(lc config.LoggingConfig) {
	var logLevel slog.Level
	switch lc.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

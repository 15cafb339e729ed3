package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/alfac/pkg/alfa"
	"mercator-hq/alfac/pkg/alfa/config"
	"mercator-hq/alfac/pkg/alfa/watch"
	"mercator-hq/alfac/pkg/cli"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompile when ALFA sources change",
	Long: `Watch the input files and directories and recompile all sources to
XACML whenever one changes.

An initial compilation runs immediately. Each rebuild uses a fresh
compilation context, so renames and deletions of named elements take
effect. Compilation errors are logged and watching continues.

Examples:
  # Watch a source directory
  alfac watch -i policies/ -o xacml/

  # Watch with a longer debounce for slow editors
  alfac watch -i policies/ -o xacml/  (set watch.debounce in alfac.yaml)`,
	RunE: watchPolicies,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringArrayVarP(&compileFlags.inputs, "input", "i", nil, "ALFA source file or directory (repeatable)")
	watchCmd.Flags().StringVarP(&compileFlags.outputDir, "output", "o", "", "output directory for XACML files")
	watchCmd.Flags().StringVarP(&compileFlags.baseNamespace, "namespace", "n", "", "base URI for generated identifiers")
	watchCmd.Flags().BoolVarP(&compileFlags.disableBuiltins, "disable-builtins", "d", false, "disable the standard ALFA definitions")
}

func watchPolicies(cmd *cobra.Command, args []string) error {
	cfg, err := loadCompileConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg.Logging)

	if len(cfg.Compile.Inputs) == 0 {
		return fmt.Errorf("no inputs: pass --input or set compile.inputs in %s", cfgFile)
	}

	rebuild := func() error {
		outputs, err := compileAll(cfg)
		if err != nil {
			return err
		}
		if err := alfa.WriteOutputs(cfg.Compile.OutputDir, outputs); err != nil {
			return err
		}
		slog.Info("compilation complete", "policies", len(outputs))
		return nil
	}

	// Initial build. Errors are reported but do not stop the watch
	// since the edit loop often starts from a broken source tree.
	if err := rebuild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	fw, err := watch.NewFileWatcher(&watch.FileWatcherConfig{
		Paths:            cfg.Compile.Inputs,
		DebounceInterval: watchDebounce(cfg),
		Extensions:       []string{alfa.SourceSuffix},
		SkipHidden:       true,
	}, slog.Default())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	ctx := cli.SetupSignalHandler()
	if err := fw.Watch(ctx, rebuild); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

func watchDebounce(cfg *config.Config) time.Duration {
	if cfg.Watch.Debounce > 0 {
		return cfg.Watch.Debounce
	}
	return config.DefaultWatchDebounce
}

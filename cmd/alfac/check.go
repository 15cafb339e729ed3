package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/alfac/pkg/alfa"
	"mercator-hq/alfac/pkg/alfa/compiler"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
	"mercator-hq/alfac/pkg/alfa/parser"
	"mercator-hq/alfac/pkg/cli"
)

var checkFlags struct {
	inputs []string
	format string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check ALFA sources for errors",
	Long: `Check ALFA source files for syntax and resolution errors without
writing any XACML output.

All sources are parsed together, so cross-file references resolve the
same way they do during compilation.

Examples:
  # Check a directory of sources
  alfac check -i policies/

  # JSON output for CI/CD
  alfac check -i policies/ --format json`,
	RunE: checkPolicies,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringArrayVarP(&checkFlags.inputs, "input", "i", nil, "ALFA source file or directory (repeatable)")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
}

// ValidationResult represents the check result for the source set.
type ValidationResult struct {
	Files  []string          `json:"files"`
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single error found during checking.
type ValidationError struct {
	File       string `json:"file,omitempty"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func checkPolicies(cmd *cobra.Command, args []string) error {
	cfg, err := loadCompileConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg.Logging)

	inputs := cfg.Compile.Inputs
	if len(checkFlags.inputs) > 0 {
		inputs = checkFlags.inputs
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no inputs: pass --input or set compile.inputs in %s", cfgFile)
	}

	paths, err := alfa.CollectInputs(inputs)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	result := checkSources(cfg.Compile.BaseNamespace, !cfg.Compile.DisableBuiltins, paths)

	if checkFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, result); err != nil {
			return err
		}
	} else {
		outputCheckText(result)
	}

	if !result.Valid {
		return cli.NewCommandError("check", fmt.Errorf("validation failed"))
	}
	return nil
}

// checkSources parses and converts the sources against a fresh context
// and collects every error found.
func checkSources(baseNamespace string, builtins bool, paths []string) ValidationResult {
	result := ValidationResult{
		Files: paths,
		Valid: true,
	}

	ctx := compiler.New(compiler.Config{
		BaseNamespace:  baseNamespace,
		EnableBuiltins: builtins,
		Version:        "1.0",
	})

	p := parser.NewParser(ctx)
	collection, err := p.ParseMulti(paths)
	if err == nil {
		_, err = alfa.Convert(ctx, collection)
	}
	if err == nil {
		return result
	}

	result.Valid = false

	switch e := err.(type) {
	case *alfaErrors.ErrorList:
		for _, inner := range e.Errors {
			result.Errors = append(result.Errors, toValidationError(inner))
		}
	case *alfaErrors.Error:
		result.Errors = append(result.Errors, toValidationError(e))
	default:
		result.Errors = append(result.Errors, ValidationError{
			Message: err.Error(),
		})
	}

	return result
}

func toValidationError(e *alfaErrors.Error) ValidationError {
	return ValidationError{
		File:       e.Location.File,
		Line:       e.Location.Line,
		Column:     e.Location.Column,
		Message:    e.Message,
		Type:       string(e.Type),
		Suggestion: e.Suggestion,
	}
}

func outputCheckText(result ValidationResult) {
	for _, file := range result.Files {
		fmt.Printf("Checking %s...\n", file)
	}

	if result.Valid {
		fmt.Println("✓ Syntax valid")
		fmt.Println("✓ All references resolve")
		return
	}

	for _, err := range result.Errors {
		fmt.Printf("✗ Error: %s", err.Message)
		if err.Line > 0 {
			fmt.Printf(" (line %d", err.Line)
			if err.Column > 0 {
				fmt.Printf(", col %d", err.Column)
			}
			fmt.Print(")")
		}
		if err.Type != "" {
			fmt.Printf(" [%s]", err.Type)
		}
		fmt.Println()
		if err.Suggestion != "" {
			fmt.Printf("  suggestion: %s\n", err.Suggestion)
		}
	}

	fmt.Println()
	fmt.Printf("Summary:\n  %d error(s)\n", len(result.Errors))
}

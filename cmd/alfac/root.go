package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "alfac",
	Short: "alfac - ALFA to XACML 3.0 policy compiler",
	Long: `alfac compiles authorization policies written in ALFA (Abbreviated
Language for Authorization) into XACML 3.0 policy documents.

It translates the compact ALFA notation into the XML format consumed by
XACML policy decision points, providing:
  - Named policies, policy sets, rules, and cross-file references
  - Attribute, type, category, and function declarations with imports
  - Infix operator resolution with automatic bag lifting
  - Obligation and advice expressions
  - Deterministic identifier generation for anonymous entities`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "alfac.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/alfac/pkg/alfa/compiler"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Print the built-in ALFA definitions",
	Long: `Print the standard ALFA definitions registered under the system
namespace: XACML data types, categories, attributes, combining
algorithms, functions, and infix operators.

The output is valid ALFA and documents exactly what is in scope when
builtins are enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := compiler.New(compiler.DefaultConfig())
		return ctx.SerializeBuiltins(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}

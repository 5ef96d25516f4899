package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "labchem",
	Short: "LabChem chemical inventory and audit tooling",
}

// Execute runs the CLI. Registered commands attach via init() or the
// cmd registry.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "espalier is a guarded finite-state-machine engine for UI flows",
	Long: `espalier drives UI-style flows (chat sending, recording, action buttons)
as guarded state machines. This tool works with declarative YAML machine
definitions: visualize them, validate their graphs, or serve a live
machine's introspection surface.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

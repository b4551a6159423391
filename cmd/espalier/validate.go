package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/espalierhq/espalier"
	"github.com/espalierhq/espalier/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition.yaml>",
	Short: "Validate a machine definition's graph",
	Long: `Checks that the definition parses, has an initial state, and that
every transition targets a defined state. Guard and action names are not
resolved; they bind at host startup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := schema.Load(args[0])
		if err != nil {
			return err
		}

		if _, err := espalier.New(schema.BuildStructural(def)); err != nil {
			return err
		}
		fmt.Printf("ok: %s (%d states)\n", def.ID, len(def.States))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/espalierhq/espalier/pkg/domain"
	"github.com/espalierhq/espalier/pkg/export"
	"github.com/espalierhq/espalier/pkg/schema"
)

var vizCmd = &cobra.Command{
	Use:   "viz <definition.yaml>",
	Short: "Export a machine definition as a diagram",
	Long: `Loads a YAML machine definition and prints it as a mermaid
stateDiagram-v2 block, an ASCII box diagram, a linear flow diagram, or a
JSON dump. The initial state is treated as current.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		render, _ := cmd.Flags().GetBool("render")

		def, err := schema.Load(args[0])
		if err != nil {
			return err
		}
		cfg := schema.BuildStructural(def)
		snap := domain.Snapshot{Value: cfg.Initial, Context: cfg.Context}

		switch format {
		case "mermaid":
			diagram := export.Mermaid(cfg)
			if render {
				r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
				if err != nil {
					return err
				}
				out, err := r.Render("```mermaid\n" + diagram + "```\n")
				if err != nil {
					return err
				}
				fmt.Print(out)
				return nil
			}
			fmt.Print(diagram)
		case "ascii":
			fmt.Print(colorizeCurrent(export.ASCII(cfg, snap), snap.Value))
		case "flow":
			fmt.Println(colorizeCurrent(export.Flow(cfg, snap), snap.Value))
		case "json":
			data, err := export.JSON(cfg, snap)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		default:
			return fmt.Errorf("unknown format %q (want mermaid, ascii, flow or json)", format)
		}
		return nil
	},
}

// colorizeCurrent highlights the current-state marker when stdout is a
// terminal.
func colorizeCurrent(out, current string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return out
	}
	profile := termenv.ColorProfile()
	marker := "[" + current + "]"
	highlighted := termenv.String(marker).Foreground(profile.Color("11")).Bold().String()
	return strings.ReplaceAll(out, marker, highlighted)
}

func init() {
	vizCmd.Flags().String("format", "mermaid", "output format: mermaid, ascii, flow or json")
	vizCmd.Flags().Bool("render", false, "render mermaid output with glamour")
	rootCmd.AddCommand(vizCmd)
}

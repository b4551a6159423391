package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/espalierhq/espalier"
	httpadapter "github.com/espalierhq/espalier/internal/adapters/http"
	"github.com/espalierhq/espalier/internal/logging"
	"github.com/espalierhq/espalier/pkg/observability"
	"github.com/espalierhq/espalier/pkg/schema"
)

var serveCmd = &cobra.Command{
	Use:   "serve <definition.yaml>",
	Short: "Serve a live machine's introspection surface over HTTP",
	Long: `Builds a machine from the definition (structurally: named guards pass,
named actions are inert) and serves its snapshot, diagrams, history,
stats and event endpoints, plus Prometheus metrics. Intended for
debugging flows, not production traffic.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		debug, _ := cmd.Flags().GetBool("debug")

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.NewJSON(level)

		def, err := schema.Load(args[0])
		if err != nil {
			return err
		}
		cfg := schema.BuildStructural(def)
		cfg.Debug = cfg.Debug || debug

		registry := prometheus.NewRegistry()
		metrics := observability.NewMetrics(registry)

		machine, err := espalier.New(cfg,
			espalier.WithLogger(logger),
			espalier.WithObserver(metrics.Observer(cfg.ID)),
		)
		if err != nil {
			return err
		}

		handler := httpadapter.NewHandler(machine, httpadapter.WithMetricsGatherer(registry))
		logger.Info("serving machine introspection", "machine", cfg.ID, "addr", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":7878", "listen address")
	serveCmd.Flags().Bool("debug", false, "enable per-dispatch debug logging")
	rootCmd.AddCommand(serveCmd)
}

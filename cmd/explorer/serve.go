package explorer

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dyphira-git/dyfusion-explorer/internal/config"
	"github.com/dyphira-git/dyfusion-explorer/internal/loader"
	"github.com/dyphira-git/dyfusion-explorer/internal/metrics"
	"github.com/dyphira-git/dyfusion-explorer/internal/render"
	"github.com/dyphira-git/dyfusion-explorer/internal/server"
	"github.com/dyphira-git/dyfusion-explorer/internal/source"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		srcCfg := config.LoadSourceConfig()
		if err := srcCfg.Validate(); err != nil {
			return err
		}
		serveCfg := config.LoadServeConfig()
		if err := serveCfg.Validate(); err != nil {
			return err
		}

		src, err := source.New(srcCfg)
		if err != nil {
			return fmt.Errorf("failed to open %s source: %w", srcCfg.Kind, err)
		}
		defer func() {
			if err := src.Close(); err != nil {
				slog.Warn("Failed to close data source", "error", err)
			}
		}()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)

		renderer, err := render.NewRenderer()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		slog.Info("Serving dashboard", "source", srcCfg.Kind, "feedSize", srcCfg.FeedSize)
		return server.New(serveCfg, loader.New(src, srcCfg.FeedSize, m), renderer, m, reg).Run(ctx)
	},
}

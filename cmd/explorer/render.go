package explorer

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dyphira-git/dyfusion-explorer/internal/config"
	"github.com/dyphira-git/dyfusion-explorer/internal/loader"
	"github.com/dyphira-git/dyfusion-explorer/internal/metrics"
	"github.com/dyphira-git/dyfusion-explorer/internal/render"
	"github.com/dyphira-git/dyfusion-explorer/internal/source"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Load the dashboard once and write it as HTML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		srcCfg := config.LoadSourceConfig()
		if err := srcCfg.Validate(); err != nil {
			return err
		}

		src, err := source.New(srcCfg)
		if err != nil {
			return fmt.Errorf("failed to open %s source: %w", srcCfg.Kind, err)
		}
		defer src.Close()

		dash, err := loader.New(src, srcCfg.FeedSize, metrics.New(prometheus.NewRegistry())).Load(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}

		renderer, err := render.NewRenderer()
		if err != nil {
			return err
		}

		write := func(w io.Writer) error { return renderer.RenderDashboard(w, dash) }
		if viper.GetBool("json") {
			write = func(w io.Writer) error { return renderer.RenderJSON(w, dash) }
		}

		if out := viper.GetString("out"); out != "" {
			err = writeFile(out, write)
		} else {
			err = write(cmd.OutOrStdout())
		}
		if err != nil {
			return err
		}
		slog.Debug("Rendered dashboard", "blocks", len(dash.Blocks), "transactions", len(dash.Transactions))
		return nil
	},
}

// writeFile creates path and fills it with write. The file is removed if
// writing or closing fails so no truncated page is left behind.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil {
				slog.Warn("Failed to remove partial output file", "path", path, "error", rerr)
			}
		}
	}()
	return write(f)
}

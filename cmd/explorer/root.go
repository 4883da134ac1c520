package explorer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dyphira-git/dyfusion-explorer/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Dyfusion chain explorer dashboard",
	Long:  `Serves or renders the Dyfusion chain explorer dashboard from a fixture, an indexer database or an indexer REST API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
		return config.LoadLogConfig().SetupLogger()
	},
	SilenceUsage: true,
}

func init() {
	viper.SetEnvPrefix("EXPLORER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.String("source", config.SourceFixture, "Data source (fixture, postgres, rest)")
	pf.String("fixture", "", "Path to a JSON fixture; the embedded sample data is used when empty")
	pf.String("db-url", "", "PostgreSQL connection URL of the indexer database")
	pf.String("rest-url", "", "Base URL of the indexer REST API")
	pf.String("rest-stats-path", "", "JSON path to the stats payload in REST responses")
	pf.String("rest-blocks-path", "", "JSON path to the blocks payload in REST responses")
	pf.String("rest-transactions-path", "", "JSON path to the transactions payload in REST responses")
	pf.Uint("feed-size", 5, "Number of entries shown in each feed")
	pf.Uint("max-retries", 3, "Maximum number of retries for REST requests")
	pf.Uint("stats-window", 100, "Number of recent blocks used for validator and block time stats")

	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Duration("read-timeout", 5*time.Second, "HTTP read timeout")
	serveCmd.Flags().Duration("write-timeout", 10*time.Second, "HTTP write timeout")
	serveCmd.Flags().Duration("idle-timeout", 120*time.Second, "HTTP idle timeout")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS allowed origins (all when empty)")

	renderCmd.Flags().StringP("out", "o", "", "Output file (stdout when empty)")
	renderCmd.Flags().Bool("json", false, "Render the dashboard as JSON instead of HTML")

	rootCmd.AddCommand(serveCmd, renderCmd, migrateCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// commandContext returns the command's context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

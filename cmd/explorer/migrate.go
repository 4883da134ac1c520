package explorer

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dyphira-git/dyfusion-explorer/internal/source"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the explorer schema to the indexer database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL := viper.GetString("db-url")
		if dbURL == "" {
			return fmt.Errorf("db-url is required")
		}
		return source.Migrate(dbURL)
	},
}

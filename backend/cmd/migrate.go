package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"learnhub/backend/config"
	"learnhub/backend/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		db, err := utils.InitDB(cfg)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		if err := utils.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

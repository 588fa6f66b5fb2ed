package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/careledger/internal/database"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := configFrom(cmd)

		db, err := database.New(cmd.Context(), cfg.ConnectionString(), database.PoolOptions{
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := database.Migrate(cmd.Context(), db)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)

		return nil
	},
}

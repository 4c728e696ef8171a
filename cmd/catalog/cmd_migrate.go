package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"example.com/catalog-admin/internal/infra/persistence/migrations"
)

// catalog migrate [up|down|status|version|redo|reset]
var migrateCmd = &cobra.Command{
	Use:       "migrate [command]",
	Short:     "Run database migrations (default: up)",
	Args:      cobra.MaximumNArgs(2),
	ValidArgs: []string{"up", "down", "status", "version", "redo", "reset", "up-to", "down-to"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) > 0 {
			command = args[0]
		}
		var extra []string
		if len(args) > 1 {
			extra = args[1:]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := migrations.Run(cmd.Context(), st.DB, cfg.Database.Driver, command, extra...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", command)
		return nil
	},
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thinktwice-app/thinktwice/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Bring the impulse database schema up to the version this build expects. Migrations also run automatically before every command.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			defer func() { _ = store.Close() }()

			fmt.Println(cli.FormatSuccess("Database is up to date."))
			return nil
		},
	}
}

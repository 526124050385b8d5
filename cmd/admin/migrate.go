package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carteira/internal/infrastructure/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply or roll back the embedded schema migrations.`,
	}

	cmd.AddCommand(migrateDirectionCmd(postgres.MigrateUp, "Apply every pending migration"))
	cmd.AddCommand(migrateDirectionCmd(postgres.MigrateDown, "Roll back the most recent migration"))
	cmd.AddCommand(migrateStatusCmd())

	return cmd
}

func migrateDirectionCmd(direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   direction,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return postgres.Migrate(cfg.Database.ConnectionString(), direction)
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			version, dirty, err := postgres.MigrationVersion(cfg.Database.ConnectionString())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty:   %t\n", version, dirty)
			return nil
		},
	}
}

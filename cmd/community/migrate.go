package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/efub/community-board/internal/infrastructure/persistence/postgres"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openStorage(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer store.close()

			return store.migrate(cmd.Context(), log)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openStorage(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer store.close()

			if store.pg == nil {
				return errSQLiteMigrations
			}
			if err := postgres.NewMigrator(store.pg).Rollback(cmd.Context()); err != nil {
				return err
			}
			log.Info("rolled back latest migration")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openStorage(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer store.close()

			if store.pg == nil {
				return errSQLiteMigrations
			}
			status, err := postgres.NewMigrator(store.pg).Status(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
			for _, m := range status {
				applied := "pending"
				if m.IsApplied {
					applied = m.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", m.Version, m.Name, applied)
			}
			return w.Flush()
		},
	})

	return cmd
}

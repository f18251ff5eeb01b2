package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/memory"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/postgres"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(cmd *cobra.Command, conn *postgres.Connection, m *postgres.Migrator, log *logger.Logger) error {
		n, err := m.Migrate(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("migrations applied", logger.Int("count", n))

		if seed, _ := cmd.Flags().GetBool("seed"); seed {
			return seedDemo(cmd, conn, log)
		}
		return nil
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migration",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(cmd *cobra.Command, _ *postgres.Connection, m *postgres.Migrator, log *logger.Logger) error {
		version, err := m.Rollback(cmd.Context())
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("nothing to roll back")
			return nil
		}
		log.Info("migration reverted", logger.Int("version", version))
		return nil
	}),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(cmd *cobra.Command, _ *postgres.Connection, m *postgres.Migrator, _ *logger.Logger) error {
		migrations, err := m.Status(cmd.Context())
		if err != nil {
			return err
		}
		return writeMigrationTable(cmd.OutOrStdout(), migrations)
	}),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	migrateUpCmd.Flags().Bool("seed", false, "Load the demo profiles, matches and messages after migrating")
}

type migratorFunc func(cmd *cobra.Command, conn *postgres.Connection, m *postgres.Migrator, log *logger.Logger) error

// withMigrator opens PostgreSQL for the duration of a migrate subcommand.
func withMigrator(fn migratorFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg, cmd.ErrOrStderr()).With(logger.Component("migrate"))
		defer func() { _ = log.Sync() }()

		conn, err := connectPostgres(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer conn.Close()

		return fn(cmd, conn, postgres.NewMigrator(conn), log)
	}
}

// seedDemo loads the demo data through the PostgreSQL repositories. Running
// it twice leaves the database unchanged.
func seedDemo(cmd *cobra.Command, conn *postgres.Connection, log *logger.Logger) error {
	err := memory.Seed(cmd.Context(),
		postgres.NewProfileRepository(conn),
		postgres.NewRelationshipRepository(conn),
		postgres.NewMessageRepository(conn),
	)
	if shared.IsAlreadyExists(err) {
		log.Info("demo data already present")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	log.Info("demo data loaded", logger.Int("profiles", len(memory.DemoProfiles())))
	return nil
}

func writeMigrationTable(w io.Writer, migrations []postgres.Migration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Version", "Name", "Status", "Applied At"})

	var data [][]string
	for _, m := range migrations {
		status, appliedAt := "pending", "-"
		if m.IsApplied {
			status = "applied"
			appliedAt = m.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		data = append(data, []string{strconv.Itoa(m.Version), m.Name, status, appliedAt})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

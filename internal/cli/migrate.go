package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"champion-quiz/internal/config"
	"champion-quiz/internal/infra/memory"
	pgloader "champion-quiz/internal/infra/postgres"
	pgmigrations "champion-quiz/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies question bank migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run question bank migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "upsert the built-in question bank after migrating")
	return cmd
}

func runMigrations(ctx context.Context, configPath string, seed bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	return runMigrationsWithConfig(ctx, cfg, seed)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, seed bool) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("no new migrations")
	} else {
		log.Printf("migrated to %s", group)
	}

	if seed {
		bank := memory.NewStaticQuizLoader(memory.DefaultBank()).Quizzes()
		if err := pgloader.SeedQuizzes(ctx, db, bank); err != nil {
			return err
		}
		log.Printf("seeded %d quizzes", len(bank))
	}
	return nil
}

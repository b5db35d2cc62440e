package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"

	"samskrtam-drill/internal/config"
	pgloader "samskrtam-drill/internal/infra/postgres"
	pgmigrations "samskrtam-drill/internal/infra/postgres/migrations"
	"samskrtam-drill/internal/infra/sqlstore"
	"samskrtam-drill/internal/lessons"
	"samskrtam-drill/internal/logger"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run Postgres migrations (and optionally seed the bundled lessons)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log.Mode)
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}
			if seed {
				return seedLessons(cmd.Context(), cfg, log)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "upsert the bundled lessons into the lessons table")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	db := sqlstore.OpenPostgres(cfg.Postgres.URL)
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
		log.Info("no new migrations")
		return nil
	}
	log.Info("migrations applied", "group", group.String())
	return nil
}

func seedLessons(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	list, err := lessons.NewFSLoader(lessons.Embedded()).LoadLessons(ctx)
	if err != nil {
		return err
	}
	if list, err = lessons.Prepare(list); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	store := pgloader.NewLessonLoader(pool)
	for _, l := range list {
		if err := store.SaveLesson(ctx, l); err != nil {
			return err
		}
	}
	log.Info("lessons seeded", "count", len(list))
	return nil
}

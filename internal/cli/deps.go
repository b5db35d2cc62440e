package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"samskrtam-drill/internal/app"
	"samskrtam-drill/internal/config"
	"samskrtam-drill/internal/infra/memory"
	pgloader "samskrtam-drill/internal/infra/postgres"
	rediscache "samskrtam-drill/internal/infra/redis"
	"samskrtam-drill/internal/infra/sqlstore"
	"samskrtam-drill/internal/lessons"
	"samskrtam-drill/internal/logger"
	"samskrtam-drill/internal/progress"
)

// deps is everything a command needs, built from config.
type deps struct {
	cfg     config.Config
	log     *logger.Logger
	service *app.DrillService
	closers []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.log.Sync()
}

func loadDeps(ctx context.Context, configPath string) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return buildDeps(ctx, cfg)
}

func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	d := &deps{cfg: cfg, log: log}
	if err := d.wire(ctx); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *deps) wire(ctx context.Context) error {
	cfg := d.cfg

	if cfg.Postgres.URL != "" && (cfg.Lessons.Source == config.SourcePostgres || cfg.Progress.Backend == config.BackendPostgres) {
		if err := runMigrationsWithConfig(ctx, cfg, d.log); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Lessons.Source == config.SourcePostgres {
		if cfg.Postgres.URL == "" {
			return fmt.Errorf("lessons.source is postgres but postgres url not configured")
		}
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
	}

	var loader memory.LessonLoader
	switch cfg.Lessons.Source {
	case config.SourceEmbedded:
		loader = lessons.NewFSLoader(lessons.Embedded())
	case config.SourceDir:
		if cfg.Lessons.Dir == "" {
			return fmt.Errorf("lessons.source is dir but lessons.dir is empty")
		}
		loader = lessons.NewFSLoader(os.DirFS(cfg.Lessons.Dir))
	case config.SourcePostgres:
		loader = pgloader.NewLessonLoader(pool)
	default:
		return fmt.Errorf("unknown lessons source %q", cfg.Lessons.Source)
	}
	if redisClient != nil {
		loader = rediscache.NewLessonCache(redisClient, loader, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute), d.log)
	}

	repo, err := memory.NewLessonRepository(ctx, loader)
	if err != nil {
		return err
	}

	storage, err := d.progressStorage(ctx, redisClient)
	if err != nil {
		return err
	}
	store := progress.NewStore(storage, progress.KeysWithPrefix(cfg.Progress.KeyPrefix), d.log)
	store.Load(ctx)

	mode, err := app.ParseConfirmMode(cfg.Quiz.Confirm)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("progress timezone: %w", err)
	}

	d.service = app.NewDrillService(repo, store, mode, loc, d.log)
	d.log.Debug("dependencies ready",
		"lessons", len(repo.List()),
		"lesson_source", cfg.Lessons.Source,
		"progress_backend", cfg.Progress.Backend,
		"confirm", mode.String(),
	)
	return nil
}

func (d *deps) progressStorage(ctx context.Context, redisClient *redis.Client) (progress.Storage, error) {
	cfg := d.cfg
	switch cfg.Progress.Backend {
	case config.BackendMemory:
		return memory.NewProgressStorage(), nil
	case config.BackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("progress backend is redis but redis addr not configured")
		}
		return rediscache.NewProgressStorage(redisClient), nil
	case config.BackendSQLite:
		db, err := sqlstore.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = db.Close() })
		storage := sqlstore.NewProgressStorage(db)
		if err := storage.CreateSchema(ctx); err != nil {
			return nil, err
		}
		return storage, nil
	case config.BackendPostgres:
		if cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("progress backend is postgres but postgres url not configured")
		}
		db := sqlstore.OpenPostgres(cfg.Postgres.URL)
		d.closers = append(d.closers, func() { _ = db.Close() })
		return sqlstore.NewProgressStorage(db), nil
	default:
		return nil, fmt.Errorf("unknown progress backend %q", cfg.Progress.Backend)
	}
}

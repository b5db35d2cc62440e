package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun/migrate"

	"samskrtam-drill/internal/app"
	"samskrtam-drill/internal/infra/memory"
	pgloader "samskrtam-drill/internal/infra/postgres"
	pgmigrations "samskrtam-drill/internal/infra/postgres/migrations"
	infraredis "samskrtam-drill/internal/infra/redis"
	"samskrtam-drill/internal/infra/sqlstore"
	"samskrtam-drill/internal/lessons"
	"samskrtam-drill/internal/progress"
)

func TestLessonEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewLessonLoader(pool)
	seedLessons(t, ctx, loader)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	repo, err := memory.NewLessonRepository(ctx, infraredis.NewLessonCache(redisClient, loader, 5*time.Minute, nil))
	if err != nil {
		t.Fatalf("lesson repository: %v", err)
	}
	if n, _ := redisClient.LLen(ctx, "lessons:order").Result(); n != int64(len(repo.List())) {
		t.Fatalf("expected %d cached lesson ids, got %d", len(repo.List()), n)
	}

	db := sqlstore.OpenPostgres(pgURL)
	defer db.Close()
	storage := sqlstore.NewProgressStorage(db)
	keys := progress.KeysWithPrefix("sd_")
	store := progress.NewStore(storage, keys, nil)
	store.Load(ctx)

	service := app.NewDrillService(repo, store, app.ConfirmTwoStep, time.UTC, nil)
	session := service.NewSession(nil)
	if err := session.OpenLesson("L1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	lesson, _ := repo.Get("L1")
	for _, q := range lesson.Questions {
		if _, err := session.SelectOption(ctx, q.Correct); err != nil {
			t.Fatalf("select: %v", err)
		}
		res, err := session.Confirm(ctx)
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if res.Awarded != 10 {
			t.Fatalf("expected 10 xp awarded, got %+v", res)
		}
		if _, err := session.Advance(ctx); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	reloaded := progress.NewStore(storage, keys, nil).Load(ctx)
	if reloaded.TotalXP != 10*len(lesson.Questions) || !reloaded.Completed("L1") || reloaded.StreakDays != 1 {
		t.Fatalf("unexpected persisted progress %+v", reloaded)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "drill", "POSTGRES_PASSWORD": "drillpass", "POSTGRES_DB": "drilldb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://drill:drillpass@%s:%s/drilldb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	db := sqlstore.OpenPostgres(dsn)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func seedLessons(t *testing.T, ctx context.Context, loader *pgloader.LessonLoader) {
	t.Helper()
	list, err := lessons.NewFSLoader(lessons.Embedded()).LoadLessons(ctx)
	if err != nil {
		t.Fatalf("embedded lessons: %v", err)
	}
	for _, l := range list {
		if err := loader.SaveLesson(ctx, l); err != nil {
			t.Fatalf("seed %s: %v", l.ID, err)
		}
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

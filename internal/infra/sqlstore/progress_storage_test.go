package sqlstore

import (
	"context"
	"testing"
	"time"

	"samskrtam-drill/internal/domain"
	"samskrtam-drill/internal/progress"
)

func newTestStorage(t *testing.T) *ProgressStorage {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	storage := NewProgressStorage(db)
	if err := storage.CreateSchema(context.Background()); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return storage
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	if err := storage.Save(ctx, map[string]string{"sd_xp": "10", "sd_last": "2024-01-01"}, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := storage.Save(ctx, map[string]string{"sd_xp": "30"}, []string{"sd_last"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	values, err := storage.Load(ctx, []string{"sd_xp", "sd_last", "sd_streak"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(values) != 1 || values["sd_xp"] != "30" {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)
	keys := progress.KeysWithPrefix("sd_")

	store := progress.NewStore(storage, keys, nil)
	store.Load(ctx)
	store.AddXP(ctx, 10)
	store.AddXP(ctx, 10)
	store.MarkCompleted(ctx, "L2")
	store.ApplyStreakTick(ctx, domain.Date{Year: 2024, Month: time.June, Day: 1})
	store.ApplyStreakTick(ctx, domain.Date{Year: 2024, Month: time.June, Day: 2})

	state := progress.NewStore(storage, keys, nil).Load(ctx)
	if state.TotalXP != 20 || state.StreakDays != 2 {
		t.Fatalf("unexpected state %+v", state)
	}
	if len(state.CompletedLessons) != 1 || state.CompletedLessons[0] != "L2" {
		t.Fatalf("unexpected completed lessons %v", state.CompletedLessons)
	}
	if got := state.LastActive.String(); got != "2024-06-02" {
		t.Fatalf("unexpected last active %s", got)
	}
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	storage := newTestStorage(t)
	if err := storage.CreateSchema(context.Background()); err != nil {
		t.Fatalf("second create schema: %v", err)
	}
}

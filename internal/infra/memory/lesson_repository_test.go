package memory

import (
	"context"
	"errors"
	"testing"

	"samskrtam-drill/internal/domain"
	"samskrtam-drill/internal/lessons"
)

func q(correct string) domain.Question {
	return domain.Question{Prompt: "p", Correct: correct}
}

func TestLessonRepositoryOrdersByNumber(t *testing.T) {
	loader := NewStaticLessonLoader(
		domain.Lesson{ID: "L10", Title: "ten", Questions: []domain.Question{q("a")}},
		domain.Lesson{ID: "intro", Title: "no number"},
		domain.Lesson{ID: "L2", Title: "two"},
		domain.Lesson{ID: "B2", Title: "two again"},
		domain.Lesson{ID: "L1", Title: "one"},
	)
	repo, err := NewLessonRepository(context.Background(), loader)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	var ids []string
	for _, l := range repo.List() {
		ids = append(ids, l.ID)
	}
	want := []string{"L1", "L2", "B2", "L10", "intro"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestLessonRepositoryGet(t *testing.T) {
	repo, err := NewLessonRepository(context.Background(), NewStaticLessonLoader(
		domain.Lesson{ID: "L1", Title: "one", Questions: []domain.Question{q("a")}},
	))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	lesson, err := repo.Get("L1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lesson.Level != domain.DefaultLevel {
		t.Fatalf("expected default level, got %q", lesson.Level)
	}
	if _, err := repo.Get("L404"); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLessonRepositoryListIsACopy(t *testing.T) {
	repo, _ := NewLessonRepository(context.Background(), NewStaticLessonLoader(domain.Lesson{ID: "L1", Title: "one"}))
	list := repo.List()
	list[0].Title = "changed"
	if l, _ := repo.Get("L1"); l.Title != "one" {
		t.Fatalf("repository state leaked through List")
	}
}

func TestLessonRepositoryQuestionsAreCopies(t *testing.T) {
	repo, err := NewLessonRepository(context.Background(), NewStaticLessonLoader(domain.Lesson{
		ID:        "L1",
		Questions: []domain.Question{{Prompt: "p", Options: []string{"a", "b"}, Correct: "a"}},
	}))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	got, _ := repo.Get("L1")
	got.Questions[0].Options[0] = "changed"
	got.Questions[0].Correct = "changed"
	listed := repo.List()
	listed[0].Questions[0].Options[1] = "changed"

	l, _ := repo.Get("L1")
	q := l.Questions[0]
	if q.Correct != "a" || q.Options[0] != "a" || q.Options[1] != "b" {
		t.Fatalf("repository lesson was mutated through a returned copy: %+v", q)
	}
}

func TestLessonRepositoryRejectsInvalidData(t *testing.T) {
	_, err := NewLessonRepository(context.Background(), NewStaticLessonLoader(
		domain.Lesson{ID: "L1", Questions: []domain.Question{{Prompt: "p", Options: []string{"a", "b"}, Correct: "z"}}},
	))
	if !errors.Is(err, domain.ErrInvalidLesson) {
		t.Fatalf("expected invalid lesson, got %v", err)
	}
}

func TestLessonRepositoryFromEmbeddedData(t *testing.T) {
	repo, err := NewLessonRepository(context.Background(), lessons.NewFSLoader(lessons.Embedded()))
	if err != nil {
		t.Fatalf("embedded: %v", err)
	}
	list := repo.List()
	if list[0].ID != "L1" || list[len(list)-1].ID != "L10" {
		t.Fatalf("unexpected embedded order: first %s last %s", list[0].ID, list[len(list)-1].ID)
	}
}

func TestProgressStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewProgressStorage()
	if err := s.Save(ctx, map[string]string{"sd_xp": "10", "sd_last": "2024-01-01"}, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, map[string]string{"sd_xp": "20"}, []string{"sd_last"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	values, err := s.Load(ctx, []string{"sd_xp", "sd_last", "sd_streak"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(values) != 1 || values["sd_xp"] != "20" {
		t.Fatalf("unexpected values: %v", values)
	}
}

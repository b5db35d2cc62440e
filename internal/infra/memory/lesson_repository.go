package memory

import (
	"context"
	"fmt"
	"sort"

	"samskrtam-drill/internal/domain"
	"samskrtam-drill/internal/lessons"
)

// LessonLoader fetches lesson content from a backing source (files, database, cache).
type LessonLoader interface {
	LoadLessons(ctx context.Context) ([]domain.Lesson, error)
}

// LessonRepository holds every lesson for the life of the process. Lessons
// are loaded once, validated and ordered by the number in their id; ties keep
// the loader's order.
type LessonRepository struct {
	ordered []domain.Lesson
	byID    map[string]int
}

func NewLessonRepository(ctx context.Context, loader LessonLoader) (*LessonRepository, error) {
	loaded, err := loader.LoadLessons(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	prepared, err := lessons.Prepare(loaded)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(prepared, func(i, j int) bool {
		return prepared[i].Number() < prepared[j].Number()
	})

	byID := make(map[string]int, len(prepared))
	for i, l := range prepared {
		byID[l.ID] = i
	}
	return &LessonRepository{ordered: prepared, byID: byID}, nil
}

// List returns copies of the lessons in ascending lesson-number order.
func (r *LessonRepository) List() []domain.Lesson {
	out := make([]domain.Lesson, len(r.ordered))
	for i, l := range r.ordered {
		out[i] = l.Clone()
	}
	return out
}

func (r *LessonRepository) Get(lessonID string) (domain.Lesson, error) {
	i, ok := r.byID[lessonID]
	if !ok {
		return domain.Lesson{}, fmt.Errorf("%w: %s", domain.ErrLessonNotFound, lessonID)
	}
	return r.ordered[i].Clone(), nil
}

// StaticLessonLoader is a simple loader backed by a slice (useful for tests/demos).
type StaticLessonLoader struct {
	lessons []domain.Lesson
}

func NewStaticLessonLoader(lessons ...domain.Lesson) *StaticLessonLoader {
	return &StaticLessonLoader{lessons: lessons}
}

func (l *StaticLessonLoader) LoadLessons(_ context.Context) ([]domain.Lesson, error) {
	out := make([]domain.Lesson, len(l.lessons))
	copy(out, l.lessons)
	return out, nil
}

package lessons

import (
	"fmt"
	"strings"

	"samskrtam-drill/internal/answer"
	"samskrtam-drill/internal/domain"
)

// Prepare fills defaults and checks the question invariants for a batch of
// lessons. It returns copies; the input is not modified.
func Prepare(in []domain.Lesson) ([]domain.Lesson, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Lesson, 0, len(in))
	for _, lesson := range in {
		lesson.ID = strings.TrimSpace(lesson.ID)
		if lesson.ID == "" {
			return nil, fmt.Errorf("%w: missing lesson_id (title %q)", domain.ErrInvalidLesson, lesson.Title)
		}
		if _, dup := seen[lesson.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate lesson_id %q", domain.ErrInvalidLesson, lesson.ID)
		}
		seen[lesson.ID] = struct{}{}
		if lesson.Level == "" {
			lesson.Level = domain.DefaultLevel
		}
		lesson.Questions = append([]domain.Question(nil), lesson.Questions...)
		for i, q := range lesson.Questions {
			if err := validateQuestion(q); err != nil {
				return nil, fmt.Errorf("%w: %s question %d: %v", domain.ErrInvalidLesson, lesson.ID, i, err)
			}
		}
		out = append(out, lesson)
	}
	return out, nil
}

func validateQuestion(q domain.Question) error {
	if answer.Normalize(q.Correct) == "" {
		return fmt.Errorf("empty correct answer")
	}
	if q.FreeText() {
		return nil
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("need at least 2 options, got %d", len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		key := answer.Normalize(opt)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[key] = struct{}{}
	}
	if answer.Count(q.Options, q.Correct) != 1 {
		return fmt.Errorf("correct answer %q is not among the options", q.Correct)
	}
	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"samskrtam-drill/internal/domain"
)

// LessonLoader loads lesson JSONB documents from Postgres.
type LessonLoader struct {
	pool *pgxpool.Pool
}

func NewLessonLoader(pool *pgxpool.Pool) *LessonLoader {
	return &LessonLoader{pool: pool}
}

func (l *LessonLoader) LoadLessons(ctx context.Context) ([]domain.Lesson, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, data FROM lessons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		var lesson domain.Lesson
		if err := json.Unmarshal(raw, &lesson); err != nil {
			return nil, fmt.Errorf("unmarshal lesson %s: %w", id, err)
		}
		if lesson.ID == "" {
			lesson.ID = id
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	return lessons, nil
}

// SaveLesson upserts one lesson document.
func (l *LessonLoader) SaveLesson(ctx context.Context, lesson domain.Lesson) error {
	data, err := json.Marshal(lesson)
	if err != nil {
		return fmt.Errorf("marshal lesson: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO lessons (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		lesson.ID, data)
	if err != nil {
		return fmt.Errorf("save lesson %s: %w", lesson.ID, err)
	}
	return nil
}

package app

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"samskrtam-drill/internal/cue"
	"samskrtam-drill/internal/domain"
	"samskrtam-drill/internal/logger"
	"samskrtam-drill/internal/practice"
)

// ProgressStore is the full progress API used by the service.
type ProgressStore interface {
	ProgressRecorder
	Reset(ctx context.Context)
}

// LessonSummary is a lesson list row.
type LessonSummary struct {
	ID            string `json:"lessonId"`
	Title         string `json:"title"`
	Level         string `json:"level"`
	Number        int    `json:"number"`
	QuestionCount int    `json:"questionCount"`
	Completed     bool   `json:"completed"`
}

// ProgressSummary is the dashboard/profile view of progress.
type ProgressSummary struct {
	TotalXP          int      `json:"totalXp"`
	Level            int      `json:"level"`
	StreakDays       int      `json:"streakDays"`
	LastActiveDate   string   `json:"lastActiveDate,omitempty"`
	CompletedLessons []string `json:"completedLessonIds"`
	LessonCount      int      `json:"lessonCount"`
	PercentComplete  int      `json:"percentComplete"`
}

// DrillService wires lessons and progress into sessions, practice drills and
// review decks.
type DrillService struct {
	lessons  LessonRepository
	progress ProgressStore
	mode     ConfirmMode
	loc      *time.Location
	now      func() time.Time
	log      *logger.Logger
}

func NewDrillService(lessons LessonRepository, progress ProgressStore, mode ConfirmMode, loc *time.Location, log *logger.Logger) *DrillService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DrillService{lessons: lessons, progress: progress, mode: mode, loc: loc, now: time.Now, log: log}
}

// NewDrillServiceWithClock is test-only for a deterministic "today".
func NewDrillServiceWithClock(lessons LessonRepository, progress ProgressStore, mode ConfirmMode, loc *time.Location, now func() time.Time) *DrillService {
	s := NewDrillService(lessons, progress, mode, loc, nil)
	s.now = now
	return s
}

// NewSession starts an idle session that sends its cues to sink.
func (s *DrillService) NewSession(sink cue.Sink) *Session {
	return NewSession(s.lessons, s.progress,
		WithID(uuid.NewString()),
		WithConfirmMode(s.mode),
		WithCues(sink),
		WithClock(s.now),
		WithLocation(s.loc),
		WithLogger(s.log),
	)
}

// NewPracticeDrill returns a drill with its own random source.
func (s *DrillService) NewPracticeDrill() *practice.Drill {
	return practice.NewDrill(practice.NewGenerator(rand.New(rand.NewSource(s.now().UnixNano()))))
}

// PracticePool is the lesson pool practice questions draw from.
func (s *DrillService) PracticePool() []domain.Lesson {
	return s.lessons.List()
}

func (s *DrillService) ReviewDeck() *ReviewDeck {
	return NewReviewDeck(s.lessons.List())
}

func (s *DrillService) Lessons() []LessonSummary {
	state := s.progress.State()
	list := s.lessons.List()
	out := make([]LessonSummary, 0, len(list))
	for _, l := range list {
		out = append(out, LessonSummary{
			ID:            l.ID,
			Title:         l.Title,
			Level:         l.Level,
			Number:        l.Number(),
			QuestionCount: len(l.Questions),
			Completed:     state.Completed(l.ID),
		})
	}
	return out
}

func (s *DrillService) Progress() ProgressSummary {
	state := s.progress.State()
	total := len(s.lessons.List())
	completed := state.CompletedLessons
	if completed == nil {
		completed = []string{}
	}
	return ProgressSummary{
		TotalXP:          state.TotalXP,
		Level:            domain.Level(state.TotalXP),
		StreakDays:       state.StreakDays,
		LastActiveDate:   state.LastActive.String(),
		CompletedLessons: completed,
		LessonCount:      total,
		PercentComplete:  domain.CompletionPercent(len(state.CompletedLessons), total),
	}
}

func (s *DrillService) ResetProgress(ctx context.Context) {
	s.progress.Reset(ctx)
	s.log.Info("progress reset")
}

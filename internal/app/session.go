package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"samskrtam-drill/internal/answer"
	"samskrtam-drill/internal/cue"
	"samskrtam-drill/internal/domain"
	"samskrtam-drill/internal/logger"
)

// LessonRepository serves the loaded lessons in display order.
type LessonRepository interface {
	List() []domain.Lesson
	Get(lessonID string) (domain.Lesson, error)
}

// ProgressRecorder is the part of the progress store a session writes to.
type ProgressRecorder interface {
	State() domain.ProgressState
	AddXP(ctx context.Context, n int) int
	MarkCompleted(ctx context.Context, lessonID string) bool
	ApplyStreakTick(ctx context.Context, today domain.Date) int
}

// ConfirmMode decides whether selecting an option scores it immediately or
// waits for an explicit confirmation.
type ConfirmMode int

const (
	ConfirmTwoStep ConfirmMode = iota
	ConfirmSingleStep
)

func (m ConfirmMode) String() string {
	if m == ConfirmSingleStep {
		return "single"
	}
	return "two-step"
}

// ParseConfirmMode accepts "single" or "two-step".
func ParseConfirmMode(s string) (ConfirmMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "two-step", "two_step", "twostep", "confirm":
		return ConfirmTwoStep, nil
	case "single", "single-step", "single_step", "immediate":
		return ConfirmSingleStep, nil
	default:
		return ConfirmTwoStep, fmt.Errorf("unknown confirm mode %q", s)
	}
}

// State is the lifecycle position of a session.
type State int

const (
	StateIdle State = iota
	StateAwaitingSelection
	StateAwaitingConfirmation
	StateAnswered
)

func (s State) String() string {
	switch s {
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateAnswered:
		return "answered"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result describes what a transition did.
type Result struct {
	Feedback domain.Feedback `json:"feedback"`
	Awarded  int             `json:"awarded"`
	TotalXP  int             `json:"totalXp"`
	Streak   int             `json:"streakDays"`
	// Ignored is set when a select/confirm arrived after the question was already scored.
	Ignored bool `json:"ignored,omitempty"`
	// Finished is set when advancing past the last question closed the lesson.
	Finished bool `json:"finished,omitempty"`
	// NewlyCompleted is set when Finished also added the lesson to the completed set.
	NewlyCompleted bool `json:"newlyCompleted,omitempty"`
}

// View is a read-only projection of the session for presentation.
type View struct {
	SessionID     string          `json:"sessionId"`
	State         State           `json:"state"`
	LessonID      string          `json:"lessonId,omitempty"`
	LessonTitle   string          `json:"lessonTitle,omitempty"`
	QuestionIndex int             `json:"questionIndex"`
	QuestionCount int             `json:"questionCount"`
	Prompt        string          `json:"prompt,omitempty"`
	Options       []string        `json:"options,omitempty"`
	FreeText      bool            `json:"freeText,omitempty"`
	Selected      string          `json:"selected,omitempty"`
	Feedback      domain.Feedback `json:"feedback"`
	// Correct is revealed only once the question has been scored.
	Correct string `json:"correct,omitempty"`
}

// Session is the state machine for one learner working through one lesson
// at a time. It is owned by a single caller and is not safe for concurrent use.
type Session struct {
	id       string
	lessons  LessonRepository
	progress ProgressRecorder
	cues     cue.Sink
	mode     ConfirmMode
	now      func() time.Time
	loc      *time.Location
	log      *logger.Logger

	state    State
	lesson   *domain.Lesson
	index    int
	selected string
	feedback domain.Feedback
}

// Option customizes a Session.
type Option func(*Session)

func WithConfirmMode(m ConfirmMode) Option { return func(s *Session) { s.mode = m } }

func WithCues(sink cue.Sink) Option {
	return func(s *Session) {
		if sink != nil {
			s.cues = sink
		}
	}
}

// WithClock is mainly for tests that need a fixed "today".
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

func WithID(id string) Option { return func(s *Session) { s.id = id } }

func NewSession(lessons LessonRepository, progress ProgressRecorder, opts ...Option) *Session {
	s := &Session{
		lessons:  lessons,
		progress: progress,
		cues:     cue.Discard,
		mode:     ConfirmTwoStep,
		now:      time.Now,
		loc:      time.UTC,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session_id", s.id)
	return s
}

func (s *Session) ID() string         { return s.id }
func (s *Session) State() State       { return s.state }
func (s *Session) Mode() ConfirmMode  { return s.mode }
func (s *Session) QuestionIndex() int { return s.index }

// CurrentQuestion returns the question on screen, if any.
func (s *Session) CurrentQuestion() (domain.Question, bool) {
	if s.lesson == nil || s.index >= len(s.lesson.Questions) {
		return domain.Question{}, false
	}
	return s.lesson.Questions[s.index], true
}

// OpenLesson starts lessonID at its first question, replacing any active
// lesson. On error the session is left untouched.
func (s *Session) OpenLesson(lessonID string) error {
	lesson, err := s.lessons.Get(lessonID)
	if err != nil {
		return err
	}
	if len(lesson.Questions) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEmptyLesson, lessonID)
	}
	s.lesson = &lesson
	s.index = 0
	s.clearAnswer()
	s.state = StateAwaitingSelection
	s.log.Debug("lesson opened", "lesson_id", lessonID, "questions", len(lesson.Questions))
	return nil
}

// SelectOption records text as the learner's answer. In single-step mode it
// is scored at once; in two-step mode it waits for Confirm. A selection that
// arrives after scoring is ignored.
func (s *Session) SelectOption(ctx context.Context, text string) (Result, error) {
	switch s.state {
	case StateAnswered:
		return s.ignored(), nil
	case StateAwaitingSelection:
	default:
		return Result{}, s.invalid("select")
	}

	s.selected = text
	s.cues.Emit(cue.Cue{Kind: cue.KindClick})
	s.cues.Emit(cue.Speak(text, false))

	if s.mode == ConfirmSingleStep {
		return s.score(ctx), nil
	}
	s.state = StateAwaitingConfirmation
	return Result{TotalXP: s.progress.State().TotalXP}, nil
}

// Confirm scores the tentative selection.
func (s *Session) Confirm(ctx context.Context) (Result, error) {
	switch s.state {
	case StateAnswered:
		return s.ignored(), nil
	case StateAwaitingConfirmation:
		return s.score(ctx), nil
	default:
		return Result{}, s.invalid("confirm")
	}
}

// Cancel drops the tentative selection without scoring.
func (s *Session) Cancel() error {
	if s.state != StateAwaitingConfirmation {
		return s.invalid("cancel")
	}
	s.selected = ""
	s.state = StateAwaitingSelection
	return nil
}

// Advance moves to the next question, or closes the lesson after the last
// one and records it as completed.
func (s *Session) Advance(ctx context.Context) (Result, error) {
	if s.state != StateAnswered {
		return Result{}, s.invalid("advance")
	}
	if s.index+1 < len(s.lesson.Questions) {
		s.index++
		s.clearAnswer()
		s.state = StateAwaitingSelection
		return Result{TotalXP: s.progress.State().TotalXP}, nil
	}

	lessonID := s.lesson.ID
	newly := s.progress.MarkCompleted(ctx, lessonID)
	s.reset()
	state := s.progress.State()
	s.log.Debug("lesson finished", "lesson_id", lessonID, "newly_completed", newly)
	return Result{
		TotalXP:        state.TotalXP,
		Streak:         state.StreakDays,
		Finished:       true,
		NewlyCompleted: newly,
	}, nil
}

// Abandon leaves the active lesson without recording anything.
func (s *Session) Abandon() error {
	if s.state == StateIdle {
		return s.invalid("abandon")
	}
	s.reset()
	return nil
}

// View projects the current state for display.
func (s *Session) View() View {
	v := View{SessionID: s.id, State: s.state, Feedback: s.feedback}
	if s.lesson == nil {
		return v
	}
	v.LessonID = s.lesson.ID
	v.LessonTitle = s.lesson.Title
	v.QuestionIndex = s.index
	v.QuestionCount = len(s.lesson.Questions)
	if q, ok := s.CurrentQuestion(); ok {
		v.Prompt = q.Display()
		v.Options = append([]string(nil), q.Options...)
		v.FreeText = q.FreeText()
		if s.state == StateAnswered {
			v.Correct = q.Correct
		}
	}
	if s.state == StateAwaitingConfirmation || s.state == StateAnswered {
		v.Selected = s.selected
	}
	return v
}

func (s *Session) score(ctx context.Context) Result {
	q, _ := s.CurrentQuestion()
	s.state = StateAnswered

	if !answer.Equal(s.selected, q.Correct) {
		s.feedback = domain.FeedbackIncorrect
		s.cues.Emit(cue.Cue{Kind: cue.KindWrong})
		state := s.progress.State()
		return Result{Feedback: s.feedback, TotalXP: state.TotalXP, Streak: state.StreakDays}
	}

	s.feedback = domain.FeedbackCorrect
	total := s.progress.AddXP(ctx, domain.XPPerCorrect)
	streak := s.progress.ApplyStreakTick(ctx, s.today())
	s.cues.Emit(cue.Cue{Kind: cue.KindCorrect})
	s.cues.Emit(cue.Cue{Kind: cue.KindConfetti})
	phrase := q.Phrase()
	if phrase == "" {
		phrase = q.Display()
	}
	s.cues.Emit(cue.Speak(phrase, true))
	return Result{Feedback: s.feedback, Awarded: domain.XPPerCorrect, TotalXP: total, Streak: streak}
}

func (s *Session) ignored() Result {
	state := s.progress.State()
	return Result{Feedback: s.feedback, TotalXP: state.TotalXP, Streak: state.StreakDays, Ignored: true}
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%w: %s in state %s", domain.ErrInvalidTransition, op, s.state)
}

func (s *Session) today() domain.Date {
	return domain.DateOf(s.now().In(s.loc))
}

func (s *Session) clearAnswer() {
	s.selected = ""
	s.feedback = domain.FeedbackNone
}

func (s *Session) reset() {
	s.lesson = nil
	s.index = 0
	s.clearAnswer()
	s.state = StateIdle
}

package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// XPPerCorrect is the award for every correctly scored answer.
const XPPerCorrect = 10

// DefaultLevel is used for lessons that do not declare a level.
const DefaultLevel = "Beginner"

// UnorderedLessonID sorts lessons without a numeric id after every real one.
const UnorderedLessonID = math.MaxInt

// Question is one prompt with either a closed option set or a typed answer.
type Question struct {
	Prompt        string   `json:"prompt"`
	PromptDisplay string   `json:"prompt_display,omitempty"`
	PromptToSpeak string   `json:"prompt_to_speak,omitempty"`
	Options       []string `json:"options,omitempty"`
	Correct       string   `json:"correct"`
}

// UnmarshalJSON accepts the legacy "question" and "answer" field names.
func (q *Question) UnmarshalJSON(data []byte) error {
	type plain Question
	var raw struct {
		plain
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = Question(raw.plain)
	if q.Prompt == "" {
		q.Prompt = raw.Question
	}
	if q.Correct == "" {
		q.Correct = raw.Answer
	}
	return nil
}

// Display is the text shown to the learner.
func (q Question) Display() string {
	if q.PromptDisplay != "" {
		return q.PromptDisplay
	}
	return q.Prompt
}

var (
	singleQuoted = regexp.MustCompile(`'([^']+)'`)
	doubleQuoted = regexp.MustCompile(`"([^"]+)"`)
)

// Phrase picks the target-language text of a question: an explicit
// prompt_to_speak, then the display prompt, then a quoted term inside the
// prompt, then a short prompt that is not itself a question.
func (q Question) Phrase() string {
	if q.PromptToSpeak != "" {
		return q.PromptToSpeak
	}
	if q.PromptDisplay != "" {
		return q.PromptDisplay
	}
	p := strings.TrimSpace(q.Prompt)
	if p == "" {
		return ""
	}
	if m := singleQuoted.FindStringSubmatch(p); m != nil {
		return m[1]
	}
	if m := doubleQuoted.FindStringSubmatch(p); m != nil {
		return m[1]
	}
	if !strings.Contains(p, "?") && len(strings.Fields(p)) <= 5 {
		return p
	}
	return ""
}

// FreeText reports whether the question expects a typed answer.
func (q Question) FreeText() bool {
	return len(q.Options) == 0
}

// Lesson is an immutable, ordered set of questions.
type Lesson struct {
	ID        string     `json:"lesson_id"`
	Title     string     `json:"title"`
	Level     string     `json:"level"`
	Questions []Question `json:"questions"`
}

// Clone returns a deep copy that shares no slices with l.
func (l Lesson) Clone() Lesson {
	out := l
	if l.Questions != nil {
		out.Questions = make([]Question, len(l.Questions))
		for i, q := range l.Questions {
			q.Options = append([]string(nil), q.Options...)
			out.Questions[i] = q
		}
	}
	return out
}

// Number extracts the numeric part of the lesson id ("L12" -> 12).
// Ids without digits return UnorderedLessonID.
func (l Lesson) Number() int {
	return LessonNumber(l.ID)
}

// LessonNumber keeps only the digits of id and parses them.
func LessonNumber(id string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, id)
	if digits == "" {
		return UnorderedLessonID
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return UnorderedLessonID
	}
	return n
}

// Feedback is the result shown after a question is scored.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackIncorrect
)

func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackIncorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// MarshalText renders feedback by name in JSON payloads.
func (f Feedback) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ProgressState is the durable, process-wide learner state.
type ProgressState struct {
	TotalXP          int      `json:"totalXp"`
	CompletedLessons []string `json:"completedLessonIds"`
	StreakDays       int      `json:"streakDays"`
	LastActive       Date     `json:"lastActiveDate"`
}

// Completed reports whether lessonID has been finished.
func (p ProgressState) Completed(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the completed slice.
func (p ProgressState) Clone() ProgressState {
	out := p
	out.CompletedLessons = append([]string(nil), p.CompletedLessons...)
	return out
}

// Level is one plus every full hundred XP.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/100 + 1
}

// CompletionPercent rounds completed/total to a whole percentage.
func CompletionPercent(completed, total int) int {
	if total <= 0 {
		total = 1
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// PracticeQuestion is an ad-hoc multiple-choice question; never persisted.
type PracticeQuestion struct {
	Mode    string   `json:"mode"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
}

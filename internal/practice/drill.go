package practice

import (
	"samskrtam-drill/internal/answer"
	"samskrtam-drill/internal/domain"
)

// Tally holds the session-only practice counters. They are never persisted.
type Tally struct {
	Asked   int `json:"asked"`
	Correct int `json:"correct"`
	Run     int `json:"run"`
	BestRun int `json:"bestRun"`
}

// Drill serves one practice question at a time and keeps a Tally.
type Drill struct {
	gen      *Generator
	current  *domain.PracticeQuestion
	answered bool
	tally    Tally
}

func NewDrill(gen *Generator) *Drill {
	return &Drill{gen: gen}
}

// Next replaces the current question with a freshly generated one.
func (d *Drill) Next(mode Mode, pool []domain.Lesson) (domain.PracticeQuestion, error) {
	q, err := d.gen.Generate(mode, pool)
	if err != nil {
		return domain.PracticeQuestion{}, err
	}
	d.current = &q
	d.answered = false
	d.tally.Asked++
	return q, nil
}

// Answer scores text against the current question once.
func (d *Drill) Answer(text string) (bool, error) {
	if d.current == nil || d.answered {
		return false, domain.ErrInvalidTransition
	}
	d.answered = true
	correct := answer.Equal(text, d.current.Correct)
	if correct {
		d.tally.Correct++
		d.tally.Run++
		if d.tally.Run > d.tally.BestRun {
			d.tally.BestRun = d.tally.Run
		}
	} else {
		d.tally.Run = 0
	}
	return correct, nil
}

func (d *Drill) Tally() Tally {
	return d.tally
}

package app

import "samskrtam-drill/internal/domain"

// Card is one flashcard: a question's prompt and its answer.
type Card struct {
	LessonID    string `json:"lessonId"`
	LessonTitle string `json:"lessonTitle"`
	Prompt      string `json:"prompt"`
	Answer      string `json:"answer"`
}

// ReviewDeck walks every question of every lesson as flashcards. Next wraps
// around; Prev stops at the first card.
type ReviewDeck struct {
	cards []Card
	pos   int
}

func NewReviewDeck(lessons []domain.Lesson) *ReviewDeck {
	var cards []Card
	for _, l := range lessons {
		for _, q := range l.Questions {
			cards = append(cards, Card{
				LessonID:    l.ID,
				LessonTitle: l.Title,
				Prompt:      q.Display(),
				Answer:      q.Correct,
			})
		}
	}
	return &ReviewDeck{cards: cards}
}

func (d *ReviewDeck) Len() int      { return len(d.cards) }
func (d *ReviewDeck) Position() int { return d.pos }

// Current returns the card in view; false when the deck is empty.
func (d *ReviewDeck) Current() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[d.pos], true
}

func (d *ReviewDeck) Next() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	d.pos = (d.pos + 1) % len(d.cards)
	return d.cards[d.pos], true
}

func (d *ReviewDeck) Prev() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	d.pos = max(0, d.pos-1)
	return d.cards[d.pos], true
}

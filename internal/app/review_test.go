package app_test

import (
	"testing"

	"samskrtam-drill/internal/app"
	"samskrtam-drill/internal/domain"
)

func TestReviewDeckNavigation(t *testing.T) {
	deck := app.NewReviewDeck([]domain.Lesson{
		{ID: "L1", Questions: []domain.Question{
			{Prompt: "a?", Correct: "A"},
			{Prompt: "b?", PromptDisplay: "B shown", Correct: "B"},
		}},
		{ID: "L2", Questions: []domain.Question{{Prompt: "c?", Correct: "C"}}},
	})
	if deck.Len() != 3 {
		t.Fatalf("expected 3 cards, got %d", deck.Len())
	}

	if c, _ := deck.Prev(); c.Answer != "A" || deck.Position() != 0 {
		t.Fatalf("prev at start should stay on the first card, got %+v", c)
	}
	if c, _ := deck.Next(); c.Prompt != "B shown" {
		t.Fatalf("expected display prompt, got %+v", c)
	}
	_, _ = deck.Next()
	if c, _ := deck.Next(); c.Answer != "A" || deck.Position() != 0 {
		t.Fatalf("next at end should wrap, got %+v", c)
	}
}

func TestReviewDeckEmpty(t *testing.T) {
	deck := app.NewReviewDeck(nil)
	if _, ok := deck.Current(); ok {
		t.Fatalf("empty deck has no current card")
	}
	if _, ok := deck.Next(); ok {
		t.Fatalf("empty deck has no next card")
	}
}

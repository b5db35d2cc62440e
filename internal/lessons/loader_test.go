package lessons

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"samskrtam-drill/internal/domain"
)

func TestEmbeddedLessonsLoadAndValidate(t *testing.T) {
	loaded, err := NewFSLoader(Embedded()).LoadLessons(context.Background())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if len(loaded) == 0 {
		t.Fatalf("expected bundled lessons")
	}
	prepared, err := Prepare(loaded)
	if err != nil {
		t.Fatalf("bundled lessons must be valid: %v", err)
	}
	for _, l := range prepared {
		if l.Level == "" {
			t.Fatalf("lesson %s missing default level", l.ID)
		}
	}
}

func TestFSLoaderSkipsNonJSONAndAcceptsLegacyFields(t *testing.T) {
	fsys := fstest.MapFS{
		"README.md": {Data: []byte("not a lesson")},
		"L7.json": {Data: []byte(`{"lesson_id":"L7","title":"Legacy","questions":[
			{"question":"Say 'अग्निः'","options":["fire","water"],"answer":"fire"}]}`)},
	}
	loaded, err := NewFSLoader(fsys).LoadLessons(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected one lesson, got %d", len(loaded))
	}
	q := loaded[0].Questions[0]
	if q.Prompt != "Say 'अग्निः'" || q.Correct != "fire" {
		t.Fatalf("legacy fields not mapped: %+v", q)
	}
}

func TestFSLoaderReportsBadJSON(t *testing.T) {
	fsys := fstest.MapFS{"L1.json": {Data: []byte(`{"lesson_id":`)}}
	if _, err := NewFSLoader(fsys).LoadLessons(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPrepareRejectsBrokenQuestions(t *testing.T) {
	cases := map[string]domain.Lesson{
		"missing id": {Title: "x"},
		"correct not an option": {ID: "L1", Questions: []domain.Question{
			{Prompt: "p", Options: []string{"a", "b"}, Correct: "c"},
		}},
		"duplicate options": {ID: "L1", Questions: []domain.Question{
			{Prompt: "p", Options: []string{"Rama", " rama ", "b"}, Correct: "b"},
		}},
		"single option": {ID: "L1", Questions: []domain.Question{
			{Prompt: "p", Options: []string{"a"}, Correct: "a"},
		}},
		"empty correct": {ID: "L1", Questions: []domain.Question{{Prompt: "p"}}},
	}
	for name, lesson := range cases {
		if _, err := Prepare([]domain.Lesson{lesson}); !errors.Is(err, domain.ErrInvalidLesson) {
			t.Fatalf("%s: expected ErrInvalidLesson, got %v", name, err)
		}
	}

	dup := []domain.Lesson{{ID: "L1"}, {ID: "L1"}}
	if _, err := Prepare(dup); !errors.Is(err, domain.ErrInvalidLesson) {
		t.Fatalf("expected duplicate id to be rejected, got %v", err)
	}
}

func TestPrepareKeepsEmptyLessonsAndFreeText(t *testing.T) {
	in := []domain.Lesson{
		{ID: "L4"},
		{ID: "L5", Level: "Advanced", Questions: []domain.Question{{Prompt: "type it", Correct: "dugdham"}}},
	}
	out, err := Prepare(in)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if out[0].Level != domain.DefaultLevel || out[1].Level != "Advanced" {
		t.Fatalf("unexpected levels: %q %q", out[0].Level, out[1].Level)
	}
	if in[0].Level != "" {
		t.Fatalf("input must not be modified")
	}
}

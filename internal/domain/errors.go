package domain

import "errors"

var (
	// ErrLessonNotFound is returned when a lesson id is not in the repository.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrEmptyLesson is returned when opening a lesson with no questions.
	ErrEmptyLesson = errors.New("lesson has no questions")
	// ErrInvalidTransition indicates a session call that the current state does not permit.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrEmptyPool indicates there is not enough data to build a practice question.
	ErrEmptyPool = errors.New("practice pool is empty")
	// ErrUnknownMode indicates an unsupported practice mode.
	ErrUnknownMode = errors.New("unknown practice mode")
	// ErrInvalidLesson indicates lesson data that breaks the question invariants.
	ErrInvalidLesson = errors.New("invalid lesson")
)

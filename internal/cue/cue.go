// Package cue carries the fire-and-forget side effects a drill session asks
// for: speech, click, correct/wrong sounds and confetti. Sinks must not block.
package cue

import (
	"unicode"

	"samskrtam-drill/internal/logger"
)

type Kind string

const (
	KindSpeak    Kind = "speak"
	KindClick    Kind = "click"
	KindCorrect  Kind = "correct"
	KindWrong    Kind = "wrong"
	KindConfetti Kind = "confetti"
)

// SlowRate is the speech rate used for slow replays.
const SlowRate = 0.78

const (
	LangHindi   = "hi-IN"
	LangEnglish = "en-US"
)

// Cue is one side-effect request.
type Cue struct {
	Kind Kind    `json:"kind"`
	Text string  `json:"text,omitempty"`
	Lang string  `json:"lang,omitempty"`
	Slow bool    `json:"slow,omitempty"`
	Rate float64 `json:"rate,omitempty"`
}

// Sink receives cues. Emit must return promptly and never fail the caller.
type Sink interface {
	Emit(c Cue)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Cue)

func (f SinkFunc) Emit(c Cue) { f(c) }

// Discard drops every cue.
var Discard Sink = SinkFunc(func(Cue) {})

// Speak builds a speech cue, picking the voice from the script of text.
func Speak(text string, slow bool) Cue {
	c := Cue{Kind: KindSpeak, Text: text, Lang: LangFor(text), Rate: 1.0, Slow: slow}
	if slow {
		c.Rate = SlowRate
	}
	return c
}

// LangFor returns hi-IN for text containing Devanagari, en-US otherwise.
func LangFor(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return LangHindi
		}
	}
	return LangEnglish
}

// LogSink writes cues at debug level; useful where no client plays them.
func LogSink(log *logger.Logger) Sink {
	return SinkFunc(func(c Cue) {
		log.Debug("cue", "kind", c.Kind, "text", c.Text, "lang", c.Lang, "slow", c.Slow)
	})
}

// ChannelSink forwards cues to ch, dropping them when ch is full.
func ChannelSink(ch chan<- Cue) Sink {
	return SinkFunc(func(c Cue) {
		select {
		case ch <- c:
		default:
		}
	})
}

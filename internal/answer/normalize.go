// Package answer canonicalizes learner input and option text so that every
// comparison in the drill goes through the same rules.
package answer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims s, collapses whitespace runs to one space, decomposes it to
// NFD and lowercases it. Combining marks are kept, so "rāma" and "rama" differ.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	// Casers are stateful; one per call.
	return cases.Lower(language.Und).String(norm.NFD.String(collapsed))
}

// Equal reports whether a and b are the same answer.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Count returns how many entries of options are the same answer as s.
func Count(options []string, s string) int {
	want := Normalize(s)
	n := 0
	for _, opt := range options {
		if Normalize(opt) == want {
			n++
		}
	}
	return n
}

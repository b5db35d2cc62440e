package answer

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only spaces", " \t\n ", ""},
		{"trim and lower", "  Rama  ", "rama"},
		{"collapse runs", "good\t\tmorning   friend", "good morning friend"},
		{"decomposes macron", "Rāma", norm.NFD.String("rāma")},
		{"devanagari unchanged", "राम", norm.NFD.String("राम")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "  Rāma  ", "ŚIVA  devaḥ", "Σίσυφος", "a b", "कृष्ण", "İstanbul"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("input %q: %q then %q", in, once, twice)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("  Rāma  ", "rāma") {
		t.Fatalf("expected case and whitespace to be ignored")
	}
	// precomposed and decomposed spellings compare equal after NFD
	if !Equal("r\u0101ma", "ra\u0304ma") {
		t.Fatalf("expected precomposed and decomposed forms to match")
	}
	if Equal("rāma", "rama") {
		t.Fatalf("diacritics are compared literally")
	}
	if Equal("Sita", "Rama") {
		t.Fatalf("different words matched")
	}
}

func TestCount(t *testing.T) {
	options := []string{"Rama", " rama", "Sita"}
	if n := Count(options, "RAMA"); n != 2 {
		t.Fatalf("expected 2 matches, got %d", n)
	}
	if n := Count(options, "Krishna"); n != 0 {
		t.Fatalf("expected no matches, got %d", n)
	}
}

package practice

import (
	"fmt"
	"math/rand"
	"time"

	"samskrtam-drill/internal/answer"
	"samskrtam-drill/internal/domain"
)

type Mode string

const (
	// ModeMeaning asks for the answer of a lesson question given its prompt.
	ModeMeaning Mode = "meaning"
	// ModeReverse shows the answer and asks for the target-language term.
	ModeReverse Mode = "reverse"
	// ModeVowels and ModeNumbers draw from built-in reference tables and ignore the lesson pool.
	ModeVowels  Mode = "vowels"
	ModeNumbers Mode = "numbers"
)

// MaxDistractors is the number of wrong options added when enough data exists.
const MaxDistractors = 3

// Entry is one prompt/answer pair of a mode's data source.
type Entry struct {
	Prompt string
	Answer string
}

// Generator builds ad-hoc multiple-choice questions. It is not safe for
// concurrent use; give each drill its own generator.
type Generator struct {
	rnd    *rand.Rand
	tables map[Mode][]Entry
}

// NewGenerator uses rnd for every random choice; nil seeds from the clock.
func NewGenerator(rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rnd: rnd, tables: referenceTables()}
}

// Modes lists every supported mode.
func Modes() []Mode {
	return []Mode{ModeMeaning, ModeReverse, ModeVowels, ModeNumbers}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownMode, s)
}

// Generate picks a correct answer uniformly from the mode's eligible entries,
// adds up to MaxDistractors distinct wrong answers drawn without replacement
// and shuffles the options.
func (g *Generator) Generate(mode Mode, pool []domain.Lesson) (domain.PracticeQuestion, error) {
	entries, err := g.entries(mode, pool)
	if err != nil {
		return domain.PracticeQuestion{}, err
	}
	if len(entries) == 0 {
		return domain.PracticeQuestion{}, fmt.Errorf("%w: mode %s", domain.ErrEmptyPool, mode)
	}

	chosen := entries[g.rnd.Intn(len(entries))]
	candidates := distractorCandidates(entries, chosen.Answer)
	n := min(MaxDistractors, len(candidates))

	// partial Fisher-Yates: the first n slots become a uniform sample
	for i := 0; i < n; i++ {
		j := i + g.rnd.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	options := make([]string, 0, n+1)
	options = append(options, chosen.Answer)
	options = append(options, candidates[:n]...)
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return domain.PracticeQuestion{
		Mode:    string(mode),
		Prompt:  chosen.Prompt,
		Options: options,
		Correct: chosen.Answer,
	}, nil
}

func (g *Generator) entries(mode Mode, pool []domain.Lesson) ([]Entry, error) {
	var out []Entry
	switch mode {
	case ModeMeaning:
		for _, lesson := range pool {
			for _, q := range lesson.Questions {
				out = appendEntry(out, q.Display(), q.Correct)
			}
		}
	case ModeReverse:
		for _, lesson := range pool {
			for _, q := range lesson.Questions {
				out = appendEntry(out, q.Correct, q.Phrase())
			}
		}
	case ModeVowels, ModeNumbers:
		for _, e := range g.tables[mode] {
			out = appendEntry(out, e.Prompt, e.Answer)
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}
	return out, nil
}

func appendEntry(out []Entry, prompt, ans string) []Entry {
	if answer.Normalize(prompt) == "" || answer.Normalize(ans) == "" {
		return out
	}
	return append(out, Entry{Prompt: prompt, Answer: ans})
}

// distractorCandidates returns answers distinct from correct and from each
// other, keeping the first spelling seen.
func distractorCandidates(entries []Entry, correct string) []string {
	want := answer.Normalize(correct)
	seen := map[string]struct{}{want: {}}
	var out []string
	for _, e := range entries {
		key := answer.Normalize(e.Answer)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e.Answer)
	}
	return out
}

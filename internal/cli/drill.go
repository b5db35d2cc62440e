package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"samskrtam-drill/internal/app"
	"samskrtam-drill/internal/cue"
	"samskrtam-drill/internal/domain"
	"samskrtam-drill/internal/practice"
)

// errQuit ends an interactive loop at the learner's request.
var errQuit = errors.New("quit")

// NewDrillCmd runs one lesson interactively on the terminal.
func NewDrillCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "drill <lesson-id>",
		Short: "Work through a lesson in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer d.Close()

			session := d.service.NewSession(cue.LogSink(d.log))
			t := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
			return runLesson(cmd.Context(), t, session, args[0])
		},
	}
}

// NewPracticeCmd runs ad-hoc practice questions.
func NewPracticeCmd(configPath *string) *cobra.Command {
	var (
		modeName string
		rounds   int
	)
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Answer generated multiple-choice questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := practice.ParseMode(modeName)
			if err != nil {
				return err
			}
			d, err := loadDeps(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer d.Close()

			t := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
			return runPractice(t, d.service.NewPracticeDrill(), mode, d.service.PracticePool(), rounds)
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", string(practice.ModeMeaning), "meaning, reverse, vowels or numbers")
	cmd.Flags().IntVar(&rounds, "rounds", 5, "number of questions")
	return cmd
}

type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out}
}

func (t *terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// ask prints prompt and reads one trimmed line; "q" or EOF quits.
func (t *terminal) ask(prompt string) (string, error) {
	t.printf("%s", prompt)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	line := strings.TrimSpace(t.in.Text())
	if strings.EqualFold(line, "q") {
		return "", errQuit
	}
	return line, nil
}

// pick maps a 1-based option number to its text; anything else is taken as typed.
func pick(options []string, line string) string {
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return line
}

func printOptions(t *terminal, options []string) {
	for i, opt := range options {
		t.printf("  %d) %s\n", i+1, opt)
	}
}

func runLesson(ctx context.Context, t *terminal, session *app.Session, lessonID string) error {
	if err := session.OpenLesson(lessonID); err != nil {
		return err
	}
	v := session.View()
	t.printf("%s (%s)\n", v.LessonTitle, v.LessonID)

	for {
		v = session.View()
		t.printf("\n[%d/%d] %s\n", v.QuestionIndex+1, v.QuestionCount, v.Prompt)
		printOptions(t, v.Options)

		res, err := answerQuestion(ctx, t, session, v)
		if errors.Is(err, errQuit) {
			_ = session.Abandon()
			t.printf("\nLesson abandoned.\n")
			return nil
		}
		if err != nil {
			return err
		}

		if res.Feedback == domain.FeedbackCorrect {
			t.printf("Correct! +%d XP (total %d, streak %d)\n", res.Awarded, res.TotalXP, res.Streak)
		} else {
			t.printf("Not quite. The answer is %q.\n", session.View().Correct)
		}

		res, err = session.Advance(ctx)
		if err != nil {
			return err
		}
		if res.Finished {
			t.printf("\nLesson complete! XP %d, streak %d day(s).\n", res.TotalXP, res.Streak)
			return nil
		}
	}
}

// answerQuestion loops until the question is scored, handling the optional
// confirmation step.
func answerQuestion(ctx context.Context, t *terminal, session *app.Session, v app.View) (app.Result, error) {
	for {
		prompt := "Your answer: "
		if !v.FreeText {
			prompt = "Choose 1-" + strconv.Itoa(len(v.Options)) + ": "
		}
		line, err := t.ask(prompt)
		if err != nil {
			return app.Result{}, err
		}
		if line == "" {
			continue
		}

		res, err := session.SelectOption(ctx, pick(v.Options, line))
		if err != nil {
			return app.Result{}, err
		}
		if session.State() == app.StateAnswered {
			return res, nil
		}

		confirm, err := t.ask(fmt.Sprintf("Confirm %q? [y/n] ", session.View().Selected))
		if err != nil {
			return app.Result{}, err
		}
		if strings.HasPrefix(strings.ToLower(confirm), "y") {
			return session.Confirm(ctx)
		}
		if err := session.Cancel(); err != nil {
			return app.Result{}, err
		}
	}
}

func runPractice(t *terminal, drill *practice.Drill, mode practice.Mode, pool []domain.Lesson, rounds int) error {
	for i := 0; i < rounds; i++ {
		q, err := drill.Next(mode, pool)
		if err != nil {
			return err
		}
		t.printf("\n%s\n", q.Prompt)
		printOptions(t, q.Options)

		line, err := t.ask("Choose 1-" + strconv.Itoa(len(q.Options)) + ": ")
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			return err
		}
		correct, err := drill.Answer(pick(q.Options, line))
		if err != nil {
			return err
		}
		if correct {
			t.printf("Correct!\n")
		} else {
			t.printf("Not quite. The answer is %q.\n", q.Correct)
		}
	}
	tally := drill.Tally()
	t.printf("\nScore: %d/%d (best run %d)\n", tally.Correct, tally.Asked, tally.BestRun)
	return nil
}

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"samskrtam-drill/internal/app"
)

// NewLessonsCmd lists the lessons in order with their completion marks.
func NewLessonsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List lessons in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer d.Close()
			return printLessons(cmd.OutOrStdout(), d.service.Lessons())
		},
	}
}

// NewProgressCmd prints (or resets) the learner's progress.
func NewProgressCmd(configPath *string) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show XP, level, streak and completed lessons",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer d.Close()
			if reset {
				d.service.ResetProgress(cmd.Context())
			}
			printProgress(cmd.OutOrStdout(), d.service.Progress())
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "clear all progress first")
	return cmd
}

func printLessons(out io.Writer, list []app.LessonSummary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLEVEL\tQUESTIONS\tDONE")
	for _, l := range list {
		done := ""
		if l.Completed {
			done = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", l.ID, l.Title, l.Level, l.QuestionCount, done)
	}
	return tw.Flush()
}

func printProgress(out io.Writer, p app.ProgressSummary) {
	last := p.LastActiveDate
	if last == "" {
		last = "never"
	}
	fmt.Fprintf(out, "XP: %d (level %d)\n", p.TotalXP, p.Level)
	fmt.Fprintf(out, "Streak: %d day(s), last active %s\n", p.StreakDays, last)
	fmt.Fprintf(out, "Completed: %d/%d lessons (%d%%)\n", len(p.CompletedLessons), p.LessonCount, p.PercentComplete)
}

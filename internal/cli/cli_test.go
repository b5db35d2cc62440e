package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	body := "log:\n  mode: prod\n" +
		"progress:\n  backend: " + backend + "\n" +
		"sqlite:\n  path: " + filepath.Join(dir, "drill.db") + "\n"
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, input string, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func runErr(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func expectContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("expected output to contain %q:\n%s", want, out)
	}
}

func TestLessonsCommandListsInOrder(t *testing.T) {
	out := run(t, "", "lessons", "--config", writeConfig(t, "memory"))

	l3 := strings.Index(out, "L3 ")
	l10 := strings.Index(out, "L10 ")
	if l3 <= 0 || l10 <= l3 {
		t.Fatalf("expected L3 before L10:\n%s", out)
	}
}

func TestDrillCommandTwoStep(t *testing.T) {
	cfg := writeConfig(t, "sqlite")

	// first answer is cancelled, then every question is answered with option 1
	input := "2\nn\n1\ny\n1\ny\n1\ny\n"
	out := run(t, input, "drill", "L1", "--config", cfg)
	expectContains(t, out, "Names and Greetings")
	expectContains(t, out, `Confirm "Sita"?`)
	expectContains(t, out, "Lesson complete! XP 30, streak 1 day(s).")

	out = run(t, "", "progress", "--config", cfg)
	expectContains(t, out, "XP: 30 (level 1)")
	expectContains(t, out, "Completed: 1/4 lessons (25%)")

	out = run(t, "", "progress", "--reset", "--config", cfg)
	expectContains(t, out, "XP: 0 (level 1)")
	expectContains(t, out, "last active never")
}

func TestDrillCommandQuit(t *testing.T) {
	out := run(t, "1\ny\nq\n", "drill", "L1", "--config", writeConfig(t, "memory"))
	expectContains(t, out, "Correct! +10 XP")
	expectContains(t, out, "Lesson abandoned.")
}

func TestDrillCommandUnknownLesson(t *testing.T) {
	err := runErr(t, "drill", "L404", "--config", writeConfig(t, "memory"))
	if err == nil || !strings.Contains(err.Error(), "lesson not found") {
		t.Fatalf("expected lesson not found, got %v", err)
	}
}

func TestPracticeCommand(t *testing.T) {
	out := run(t, "1\n1\n1\n", "practice", "--mode", "numbers", "--rounds", "3", "--config", writeConfig(t, "memory"))
	expectContains(t, out, "Score: ")
	expectContains(t, out, "/3 (best run")
}

func TestPracticeCommandRejectsUnknownMode(t *testing.T) {
	err := runErr(t, "practice", "--mode", "grammar", "--config", writeConfig(t, "memory"))
	if err == nil || !strings.Contains(err.Error(), "unknown practice mode") {
		t.Fatalf("expected unknown practice mode, got %v", err)
	}
}

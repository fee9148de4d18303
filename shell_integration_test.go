package coreterm

import (
	"testing"

	"github.com/danielgatis/go-ansicode"
)

func TestShellIntegrationMarksRecordRowsInOrder(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("$ ")
	term.ShellIntegrationMark(ansicode.PromptStart, -1)
	term.WriteString("ls\r\n")
	term.ShellIntegrationMark(ansicode.CommandExecuted, -1)
	term.WriteString("file.txt\r\n")
	term.ShellIntegrationMark(ansicode.CommandFinished, 0)

	marks := term.PromptMarks()
	if len(marks) != 3 {
		t.Fatalf("expected 3 marks, got %d", len(marks))
	}
	if marks[0].Type != ansicode.PromptStart {
		t.Errorf("expected first mark to be PromptStart, got %v", marks[0].Type)
	}
	if marks[2].Type != ansicode.CommandFinished || marks[2].ExitCode != 0 {
		t.Errorf("expected last mark CommandFinished exit 0, got %+v", marks[2])
	}
	if marks[0].Row >= marks[1].Row || marks[1].Row >= marks[2].Row {
		t.Errorf("expected strictly increasing rows, got %+v", marks)
	}
}

func TestNextAndPrevPromptRow(t *testing.T) {
	term := New(WithSize(3, 20))

	term.ShellIntegrationMark(ansicode.PromptStart, -1)
	term.WriteString("a\r\n")
	term.ShellIntegrationMark(ansicode.PromptStart, -1)
	term.WriteString("b\r\n")
	term.ShellIntegrationMark(ansicode.PromptStart, -1)

	marks := term.PromptMarks()
	if len(marks) != 3 {
		t.Fatalf("expected 3 marks, got %d", len(marks))
	}

	next := term.NextPromptRow(marks[0].Row, ansicode.PromptStart)
	if next != marks[1].Row {
		t.Errorf("expected next prompt row %d, got %d", marks[1].Row, next)
	}

	prev := term.PrevPromptRow(marks[2].Row, ansicode.PromptStart)
	if prev != marks[1].Row {
		t.Errorf("expected prev prompt row %d, got %d", marks[1].Row, prev)
	}

	if got := term.NextPromptRow(marks[2].Row, ansicode.PromptStart); got != -1 {
		t.Errorf("expected no next prompt after the last mark, got %d", got)
	}
	if got := term.PrevPromptRow(marks[0].Row, ansicode.PromptStart); got != -1 {
		t.Errorf("expected no prompt before the first mark, got %d", got)
	}
}

func TestGetLastCommandOutputExtractsBetweenMarks(t *testing.T) {
	term := New(WithSize(10, 20))

	term.WriteString("$ ls\r\n")
	term.ShellIntegrationMark(ansicode.CommandExecuted, -1)
	term.WriteString("file.txt\r\nother.txt\r\n")
	term.ShellIntegrationMark(ansicode.CommandFinished, 0)

	output := term.GetLastCommandOutput()
	if output != "file.txt\nother.txt" {
		t.Errorf("expected command output, got %q", output)
	}
}

func TestGetLastCommandOutputEmptyWithoutCompletePair(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("$ ls\r\n")
	term.ShellIntegrationMark(ansicode.CommandExecuted, -1)
	term.WriteString("file.txt\r\n")

	if got := term.GetLastCommandOutput(); got != "" {
		t.Errorf("expected empty output without a CommandFinished mark, got %q", got)
	}
}

func TestClearPromptMarks(t *testing.T) {
	term := New(WithSize(5, 20))

	term.ShellIntegrationMark(ansicode.PromptStart, -1)
	if len(term.PromptMarks()) == 0 {
		t.Fatal("expected a recorded mark")
	}

	term.ClearPromptMarks()
	if len(term.PromptMarks()) != 0 {
		t.Error("expected no marks after ClearPromptMarks")
	}
}

func TestShellIntegrationMiddlewareIntercepts(t *testing.T) {
	var seen []ansicode.ShellIntegrationMark
	term := New(
		WithSize(5, 20),
		WithMiddleware(&Middleware{
			SemanticPromptMark: func(mark ansicode.ShellIntegrationMark, exitCode int, next func(ansicode.ShellIntegrationMark, int)) {
				seen = append(seen, mark)
				next(mark, exitCode)
			},
		}),
	)

	term.ShellIntegrationMark(ansicode.PromptStart, -1)

	if len(seen) != 1 || seen[0] != ansicode.PromptStart {
		t.Errorf("expected middleware to observe PromptStart, got %+v", seen)
	}
	if len(term.PromptMarks()) != 1 {
		t.Error("expected the mark to still be recorded after the middleware called next")
	}
}

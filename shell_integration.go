package coreterm

import (
	"github.com/danielgatis/go-ansicode"
)

// PromptMark stores information about a shell integration mark (OSC 133).
// Used for prompt-based navigation in scrollback.
type PromptMark struct {
	// Type is the mark type (PromptStart, CommandStart, CommandExecuted, CommandFinished).
	Type ansicode.ShellIntegrationMark
	// Row is the absolute row position (including scrollback offset).
	Row int
	// ExitCode is the command exit code (only valid for CommandFinished marks, -1 otherwise).
	ExitCode int
}

// SemanticPromptHandler handles shell integration events (OSC 133).
type SemanticPromptHandler interface {
	// OnMark is called when a shell integration mark is received.
	OnMark(mark ansicode.ShellIntegrationMark, exitCode int)
}

// NoopSemanticPromptHandler ignores all shell integration events.
type NoopSemanticPromptHandler struct{}

func (NoopSemanticPromptHandler) OnMark(mark ansicode.ShellIntegrationMark, exitCode int) {}

var _ SemanticPromptHandler = (*NoopSemanticPromptHandler)(nil)

// ShellIntegrationMark processes an OSC 133 mark and records its position for
// prompt-based scrollback navigation. This method name is required by the
// ansicode.Handler interface.
func (t *Terminal) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	if t.middleware != nil && t.middleware.SemanticPromptMark != nil {
		t.middleware.SemanticPromptMark(mark, exitCode, t.shellIntegrationMarkInternal)
		return
	}
	t.shellIntegrationMarkInternal(mark, exitCode)
}

func (t *Terminal) shellIntegrationMarkInternal(mark ansicode.ShellIntegrationMark, exitCode int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	absoluteRow := t.cursor.Row + t.primaryGrid.ScrollbackLen()
	t.promptMarks = append(t.promptMarks, PromptMark{
		Type:     mark,
		Row:      absoluteRow,
		ExitCode: exitCode,
	})

	if t.semanticPromptHandler != nil {
		t.semanticPromptHandler.OnMark(mark, exitCode)
	}
}

// PromptMarks returns a copy of all recorded prompt marks.
func (t *Terminal) PromptMarks() []PromptMark {
	t.mu.RLock()
	defer t.mu.RUnlock()

	marks := make([]PromptMark, len(t.promptMarks))
	copy(marks, t.promptMarks)
	return marks
}

// ClearPromptMarks removes all recorded prompt marks.
func (t *Terminal) ClearPromptMarks() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.promptMarks = nil
}

// NextPromptRow returns the absolute row of the next prompt mark after
// currentAbsRow, or -1 if none exists. markType of -1 matches any type.
func (t *Terminal) NextPromptRow(currentAbsRow int, markType ansicode.ShellIntegrationMark) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, mark := range t.promptMarks {
		if mark.Row > currentAbsRow && (markType == -1 || mark.Type == markType) {
			return mark.Row
		}
	}
	return -1
}

// PrevPromptRow returns the absolute row of the previous prompt mark before
// currentAbsRow, or -1 if none exists. markType of -1 matches any type.
func (t *Terminal) PrevPromptRow(currentAbsRow int, markType ansicode.ShellIntegrationMark) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := len(t.promptMarks) - 1; i >= 0; i-- {
		if mark := t.promptMarks[i]; mark.Row < currentAbsRow && (markType == -1 || mark.Type == markType) {
			return mark.Row
		}
	}
	return -1
}

// GetLastCommandOutput returns the text between the most recent CommandExecuted
// mark and the CommandFinished mark that follows it, or "" if no complete pair
// is recorded.
func (t *Terminal) GetLastCommandOutput() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var lastExecuted, lastFinished *PromptMark
	for i := len(t.promptMarks) - 1; i >= 0; i-- {
		mark := &t.promptMarks[i]
		if lastFinished == nil && mark.Type == ansicode.CommandFinished {
			lastFinished = mark
		}
		if lastExecuted == nil && mark.Type == ansicode.CommandExecuted {
			lastExecuted = mark
		}
		if lastExecuted != nil && lastFinished != nil {
			if lastExecuted.Row < lastFinished.Row {
				break
			}
			lastExecuted, lastFinished = nil, nil
		}
	}
	if lastExecuted == nil || lastFinished == nil {
		return ""
	}
	return t.extractTextBetweenRowsLocked(lastExecuted.Row, lastFinished.Row)
}

// extractTextBetweenRowsLocked extracts text from absolute row startRow
// (inclusive) to endRow (exclusive), trimming trailing blank lines. Callers
// must hold t.mu.
func (t *Terminal) extractTextBetweenRowsLocked(startRow, endRow int) string {
	scrollbackLen := t.primaryGrid.ScrollbackLen()

	var lines []string
	for absRow := startRow; absRow < endRow; absRow++ {
		var line string
		if absRow < scrollbackLen {
			if cells := t.primaryGrid.ScrollbackLine(absRow); cells != nil {
				line = t.cellsToStringLocked(cells)
			}
		} else if row := absRow - scrollbackLen; row >= 0 && row < t.rows {
			line = t.primaryGrid.LineContent(row)
		}
		lines = append(lines, line)
	}

	lastNonEmpty := -1
	for i, line := range lines {
		if line != "" {
			lastNonEmpty = i
		}
	}
	if lastNonEmpty < 0 {
		return ""
	}
	return joinLines(lines[:lastNonEmpty+1])
}

func (t *Terminal) cellsToStringLocked(cells []Cell) string {
	lastNonSpace := -1
	for i := len(cells) - 1; i >= 0; i-- {
		cell := &cells[i]
		if cell.Char != ' ' && cell.Char != 0 && !cell.IsWideSpacer() {
			lastNonSpace = i
			break
		}
	}
	if lastNonSpace < 0 {
		return ""
	}

	runes := make([]rune, 0, lastNonSpace+1)
	for i := 0; i <= lastNonSpace; i++ {
		cell := &cells[i]
		if cell.IsWideSpacer() {
			continue
		}
		if cell.Char == 0 {
			runes = append(runes, ' ')
		} else {
			runes = append(runes, t.primaryGrid.resolveGraphemeRune(cell))
		}
	}
	return string(runes)
}

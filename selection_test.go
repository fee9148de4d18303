package coreterm

import "testing"

func TestSetSelectionCharacterExtractsRange(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("hello world")

	term.SetSelection(Position{Row: 0, Col: 0}, Position{Row: 0, Col: 4})
	if got := term.GetSelectedText(); got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestSetSelectionNormalizesReversedEndpoints(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("hello")

	term.SetSelection(Position{Row: 0, Col: 4}, Position{Row: 0, Col: 0})
	sel := term.GetSelection()
	if sel.Start.Col != 0 || sel.End.Col != 4 {
		t.Fatalf("expected normalized selection, got start=%v end=%v", sel.Start, sel.End)
	}
}

func TestWordSelectionSnapsToDelimiters(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("foo bar-baz qux")

	// Click inside "bar" (columns 4-6).
	term.SetSelectionKind(Position{Row: 0, Col: 5}, Position{Row: 0, Col: 5}, SelectionWord)
	if got := term.GetSelectedText(); got != "bar" {
		t.Fatalf("got %q, want %q", got, "bar")
	}
}

func TestLineSelectionReturnsWholeLines(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("first\r\nsecond")

	term.SetSelectionKind(Position{Row: 0, Col: 0}, Position{Row: 1, Col: 0}, SelectionLine)
	got := term.GetSelectedText()
	want := "first\nsecond"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBlockSelectionExtractsColumnRange(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("abcdef\r\nghijkl\r\nmnopqr")

	term.SetSelectionKind(Position{Row: 0, Col: 1}, Position{Row: 2, Col: 3}, SelectionBlock)
	got := term.GetSelectedText()
	want := "bcd\nhij\nnop"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIsSelectedHonorsBlockKind(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("abcdef\r\nghijkl")

	term.SetSelectionKind(Position{Row: 0, Col: 2}, Position{Row: 1, Col: 4}, SelectionBlock)
	if !term.IsSelected(0, 3) {
		t.Fatal("expected (0,3) to be selected in block range")
	}
	if term.IsSelected(0, 5) {
		t.Fatal("expected (0,5) to fall outside the block's column range")
	}
	if term.IsSelected(1, 0) {
		t.Fatal("expected (1,0) to fall outside the block's column range")
	}
}

func TestClearSelectionDeactivates(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("hello")
	term.SetSelection(Position{Row: 0, Col: 0}, Position{Row: 0, Col: 4})
	term.ClearSelection()
	if term.HasSelection() {
		t.Fatal("expected HasSelection() false after ClearSelection")
	}
	if term.GetSelectedText() != "" {
		t.Fatal("expected empty text after ClearSelection")
	}
}

func TestSyncSelectionHighlightStampsCellFlag(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("hello")
	term.SetSelection(Position{Row: 0, Col: 0}, Position{Row: 0, Col: 2})

	term.SyncSelectionHighlight()
	if !term.Cell(0, 1).HasFlag(CellFlagSelected) {
		t.Fatal("expected cell within selection to carry CellFlagSelected")
	}
	if term.Cell(0, 4).HasFlag(CellFlagSelected) {
		t.Fatal("expected cell outside selection not to carry CellFlagSelected")
	}

	term.ClearSelection()
	term.SyncSelectionHighlight()
	if term.Cell(0, 1).HasFlag(CellFlagSelected) {
		t.Fatal("expected CellFlagSelected cleared after ClearSelection + resync")
	}
}

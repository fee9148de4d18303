package coreterm

import "testing"

func TestSearchFindsMatchOnLiveScreen(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("hello world\r\nsecond line")

	term.StartSearch()
	for _, r := range "world" {
		term.SearchInput(r)
	}

	match, ok := term.CurrentSearchMatch()
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Col != 6 || match.Len != 5 {
		t.Fatalf("match = %+v, want col=6 len=5", match)
	}
}

func TestSearchBackspaceShrinksQueryAndRescans(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("foobar")

	term.StartSearch()
	for _, r := range "foobaz" {
		term.SearchInput(r)
	}
	if _, ok := term.CurrentSearchMatch(); ok {
		t.Fatal("expected no match for foobaz")
	}

	term.SearchBackspace()
	term.SearchBackspace()
	term.SearchBackspace()
	if term.SearchQuery() != "foo" {
		t.Fatalf("query = %q, want %q", term.SearchQuery(), "foo")
	}
	if _, ok := term.CurrentSearchMatch(); !ok {
		t.Fatal("expected a match for foo")
	}
}

func TestSearchMatchesAcrossRowWrap(t *testing.T) {
	term := New(WithSize(3, 5))
	// "abcde" fills row 0, "fg" wraps onto row 1: searching "efg" must
	// walk across the row boundary to match.
	term.WriteString("abcdefg")

	term.StartSearch()
	for _, r := range "efg" {
		term.SearchInput(r)
	}

	match, ok := term.CurrentSearchMatch()
	if !ok {
		t.Fatal("expected a match spanning the wrap")
	}
	if match.Row != term.primaryGrid.AbsoluteRow(0) || match.Col != 4 {
		t.Fatalf("match = %+v, want row=%d col=4", match, term.primaryGrid.AbsoluteRow(0))
	}
}

func TestSearchCommitPromotesMatchToSelection(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("hello world")

	term.StartSearch()
	for _, r := range "world" {
		term.SearchInput(r)
	}
	term.CommitSearch()

	if !term.HasSelection() {
		t.Fatal("expected commit to create a selection")
	}
	if got := term.GetSelectedText(); got != "world" {
		t.Fatalf("got %q, want %q", got, "world")
	}
}

func TestSearchCancelRestoresViewAndClearsQuery(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("hello")

	term.StartSearch()
	term.SearchInput('h')
	term.CancelSearch()

	if term.SearchQuery() != "" {
		t.Fatalf("expected empty query after cancel, got %q", term.SearchQuery())
	}
	if term.HasSelection() {
		t.Fatal("cancel should not leave a selection")
	}
}

func TestSearchPreviousFindsOlderOccurrence(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("cat hat cat mat")

	term.StartSearch()
	for _, r := range "cat" {
		term.SearchInput(r)
	}
	first, _ := term.CurrentSearchMatch()

	term.SearchPrevious()
	second, ok := term.CurrentSearchMatch()
	if !ok {
		t.Fatal("expected another match")
	}
	if second.Col >= first.Col && second.Row >= first.Row {
		t.Fatalf("expected an earlier match, first=%+v second=%+v", first, second)
	}
}

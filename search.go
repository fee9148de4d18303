package coreterm

// SearchMatch identifies one incremental-search hit. Row is scrollback-
// absolute, in the same numbering as SixelImage.Row: it never moves as the
// ring wraps, so a match found while scrolled back stays addressable.
type SearchMatch struct {
	Row int
	Col int
	Len int
}

// searchState holds one incremental-search session: a persistent query
// buffer and the current match, scanned backward-then-forward on every
// keystroke per §4.8.
type searchState struct {
	active bool
	query  []rune

	match    SearchMatch
	hasMatch bool

	// originalBack is the view's scrollback distance when the search began,
	// restored on cancel unless the view was following when search started.
	originalBack int
	wasFollowing bool
}

// StartSearch begins an incremental search session, resetting any previous
// query and remembering the current viewport so Cancel can restore it.
func (t *Terminal) StartSearch() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.search = searchState{
		active:       true,
		originalBack: t.primaryGrid.View(),
		wasFollowing: t.primaryGrid.IsViewFollowing(),
	}
}

// CancelSearch ends the search session without committing a selection,
// restoring the viewport to where it was when the search began.
func (t *Terminal) CancelSearch() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.search.active {
		return
	}
	if t.search.wasFollowing {
		t.primaryGrid.SetView(0)
	} else {
		t.primaryGrid.SetView(t.search.originalBack)
	}
	t.search = searchState{}
}

// CommitSearch ends the search session, promoting the current match (if it
// falls on the live screen) to the active selection. Matches found in
// scrollback leave the viewport scrolled to them without a live selection,
// since Selection coordinates address only the live screen.
func (t *Terminal) CommitSearch() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.search.active {
		return
	}
	if t.search.hasMatch {
		t.commitSearchSelectionLocked()
	}
	t.search = searchState{}
}

// SearchInput appends r to the query buffer and rescans for a match.
func (t *Terminal) SearchInput(r rune) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.search.active {
		return
	}
	t.search.query = append(t.search.query, r)
	t.searchUpdateLocked()
}

// SearchBackspace removes the last rune from the query buffer and rescans.
func (t *Terminal) SearchBackspace() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.search.active || len(t.search.query) == 0 {
		return
	}
	t.search.query = t.search.query[:len(t.search.query)-1]
	t.searchUpdateLocked()
}

// SearchPrevious nudges the scan's starting point one column before the
// current match and rescans, finding the next older occurrence. Equivalent
// to the reverse-search binding (ctrl-r) of a typical terminal's search UI.
func (t *Terminal) SearchPrevious() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.search.active || !t.search.hasMatch {
		return
	}
	row, col := t.search.match.Row, t.search.match.Col-1
	if col < 0 {
		col = t.cols - 1
		row--
	}
	t.search.match.Row, t.search.match.Col = row, col
	t.searchUpdateLocked()
}

// SearchQuery returns the current search query buffer as a string.
func (t *Terminal) SearchQuery() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return string(t.search.query)
}

// CurrentSearchMatch returns the current match and whether one exists.
func (t *Terminal) CurrentSearchMatch() (SearchMatch, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.search.match, t.search.hasMatch
}

// searchUpdateLocked scans backward from the current match (or the bottom
// of the live screen, on an empty match) for a new match of the full query,
// walking forward through row wraps to confirm each candidate. Callers must
// hold t.mu.
func (t *Terminal) searchUpdateLocked() {
	if len(t.search.query) == 0 {
		t.search.hasMatch = false
		t.search.match = SearchMatch{}
		t.selection.Active = false
		return
	}

	startRow, startCol := t.search.match.Row, t.search.match.Col
	if !t.search.hasMatch {
		startRow = t.primaryGrid.AbsoluteRow(t.rows - 1)
		startCol = t.cols - 1
	}

	oldestRow := t.primaryGrid.AbsoluteRow(0) - t.primaryGrid.ScrollbackLen()

	for row := startRow; row >= oldestRow; row-- {
		col := startCol
		if row != startRow {
			col = t.cols - 1
		}
		for ; col >= 0; col-- {
			r, ok := t.runeAtAbsoluteLocked(row, col)
			if !ok || r != t.search.query[0] {
				continue
			}

			matchRow, matchCol := row, col
			matched := 0
			for matched < len(t.search.query) {
				cr, ok := t.runeAtAbsoluteLocked(matchRow, matchCol)
				if !ok || cr != t.search.query[matched] {
					break
				}
				matched++
				matchCol++
				if matchCol >= t.cols {
					matchRow++
					matchCol = 0
				}
			}
			if matched != len(t.search.query) {
				continue
			}

			t.search.match = SearchMatch{Row: row, Col: col, Len: matched}
			t.search.hasMatch = true
			t.followSearchMatchLocked()
			return
		}
	}

	t.search.hasMatch = false
	t.selection.Active = false
}

// runeAtAbsoluteLocked returns the display rune at scrollback-absolute
// (row, col), and whether that position currently holds resident data.
// Callers must hold t.mu.
func (t *Terminal) runeAtAbsoluteLocked(row, col int) (rune, bool) {
	g := t.primaryGrid
	if col < 0 || col >= g.Cols() {
		return 0, false
	}

	live := g.LiveRow(row)
	if live >= 0 && live < g.Rows() {
		cell := g.Cell(live, col)
		if cell == nil {
			return ' ', true
		}
		return g.resolveGraphemeRune(cell), true
	}

	idx := g.ScrollbackLen() + live
	if idx < 0 || idx >= g.ScrollbackLen() {
		return 0, false
	}
	line := g.ScrollbackLine(idx)
	if line == nil {
		return 0, false
	}
	if col >= len(line) {
		return ' ', true
	}
	return g.resolveGraphemeRune(&line[col]), true
}

// followSearchMatchLocked moves the viewport so the current match's row is
// the top of the scrolled-back view, clamped to resident scrollback by
// SetView itself. A match already on the live screen leaves the view
// following. Callers must hold t.mu.
func (t *Terminal) followSearchMatchLocked() {
	back := t.primaryGrid.AbsoluteRow(0) - t.search.match.Row
	if back < 0 {
		back = 0
	}
	t.primaryGrid.SetView(back)
}

// commitSearchSelectionLocked promotes the current match to the active
// selection if it lies on the live screen. Callers must hold t.mu.
func (t *Terminal) commitSearchSelectionLocked() {
	startLive := t.primaryGrid.LiveRow(t.search.match.Row)
	if startLive < 0 || startLive >= t.rows {
		return
	}

	endCol := t.search.match.Col + t.search.match.Len - 1
	endLive := startLive
	for endCol >= t.cols {
		endCol -= t.cols
		endLive++
	}
	if endLive >= t.rows {
		return
	}

	start := Position{Row: startLive, Col: t.search.match.Col}
	end := Position{Row: endLive, Col: endCol}
	if end.Before(start) {
		start, end = end, start
	}
	t.selection = Selection{Start: start, End: end, Kind: SelectionCharacter, Active: true}
}

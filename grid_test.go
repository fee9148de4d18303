package coreterm

import "testing"

// memoryScrollback is a simple in-memory ScrollbackProvider used to test
// ring eviction without a real persistence backend.
type memoryScrollback struct {
	lines [][]Cell
	max   int
}

func newMemoryScrollback(max int) *memoryScrollback {
	return &memoryScrollback{max: max}
}

func (m *memoryScrollback) Push(line []Cell) {
	m.lines = append(m.lines, line)
	if m.max > 0 && len(m.lines) > m.max {
		m.lines = m.lines[len(m.lines)-m.max:]
	}
}
func (m *memoryScrollback) Len() int { return len(m.lines) }
func (m *memoryScrollback) Line(index int) []Cell {
	if index < 0 || index >= len(m.lines) {
		return nil
	}
	return m.lines[index]
}
func (m *memoryScrollback) Clear()             { m.lines = nil }
func (m *memoryScrollback) SetMaxLines(n int)  { m.max = n }
func (m *memoryScrollback) MaxLines() int      { return m.max }

func TestNewGridSizesRingToPowerOfTwo(t *testing.T) {
	g := NewGrid(24, 80)
	if g.NumRows()&(g.NumRows()-1) != 0 {
		t.Fatalf("NumRows() = %d, want a power of two", g.NumRows())
	}
	if g.NumRows() < g.Rows() {
		t.Fatalf("NumRows() = %d must be >= Rows() = %d", g.NumRows(), g.Rows())
	}
}

func TestGridRowsAreLazilyAllocated(t *testing.T) {
	g := NewGrid(24, 80)
	for i := 0; i < g.NumRows(); i++ {
		if g.ring[i] != nil {
			t.Fatalf("slot %d allocated before first use", i)
		}
	}
	g.Cell(0, 0)
	if g.ring[g.liveSlot(0)] == nil {
		t.Fatal("Cell() should lazily allocate its row")
	}
}

func TestSetCellAndMarkDirty(t *testing.T) {
	g := NewGrid(5, 10)
	g.SetCell(2, 3, Cell{Char: 'x'})
	cell := g.Cell(2, 3)
	if cell.Char != 'x' {
		t.Fatalf("got %q, want 'x'", cell.Char)
	}
	if !cell.IsDirty() {
		t.Fatal("expected cell to be marked dirty after SetCell")
	}
	if !g.HasDirty() {
		t.Fatal("expected grid.HasDirty() after SetCell")
	}
	g.ClearAllDirty()
	if g.HasDirty() {
		t.Fatal("expected HasDirty() false after ClearAllDirty")
	}
}

func TestCellOutOfBoundsReturnsNil(t *testing.T) {
	g := NewGrid(5, 10)
	if g.Cell(-1, 0) != nil || g.Cell(5, 0) != nil || g.Cell(0, -1) != nil || g.Cell(0, 10) != nil {
		t.Fatal("expected nil for out-of-bounds coordinates")
	}
}

func TestScrollUpFullScreenAdvancesOffsetWithoutCopy(t *testing.T) {
	g := NewGridWithStorage(4, 10, newMemoryScrollback(100))
	for row := 0; row < 4; row++ {
		g.SetCell(row, 0, Cell{Char: rune('a' + row)})
	}
	origOffset := g.offset
	g.ScrollUp(0, 4, 1)
	if g.offset == origOffset {
		t.Fatal("expected full-screen scroll to advance the ring offset")
	}
	if g.Cell(0, 0).Char != 'b' {
		t.Fatalf("row 0 after scroll = %q, want 'b'", g.Cell(0, 0).Char)
	}
	if g.Cell(3, 0).Char != ' ' && g.Cell(3, 0).Char != 0 {
		t.Fatalf("newly exposed bottom row should be blank, got %q", g.Cell(3, 0).Char)
	}
}

func TestScrollUpFullScreenPushesToScrollbackProvider(t *testing.T) {
	storage := newMemoryScrollback(100)
	g := NewGridWithStorage(4, 10, storage)
	g.SetCell(0, 0, Cell{Char: 'z'})

	// Scroll past the in-ring resident window so the oldest row is handed
	// off to the external provider.
	for i := 0; i < g.NumRows(); i++ {
		g.ScrollUp(0, 4, 1)
	}
	if storage.Len() == 0 {
		t.Fatal("expected evicted rows to reach the scrollback provider")
	}
}

func TestScrollUpRegionClampsToRowsAndClearsExposedRows(t *testing.T) {
	g := NewGrid(6, 10)
	for row := 0; row < 6; row++ {
		g.SetCell(row, 0, Cell{Char: rune('0' + row)})
	}
	g.ScrollUp(1, 4, 2)
	if g.Cell(1, 0).Char != '3' {
		t.Fatalf("row 1 after region scroll = %q, want '3'", g.Cell(1, 0).Char)
	}
	if g.Cell(0, 0).Char != '0' || g.Cell(5, 0).Char != '5' {
		t.Fatal("rows outside the scroll region must be untouched")
	}
}

func TestGrowColsResizesGrid(t *testing.T) {
	g := NewGrid(5, 10)
	g.SetCell(0, 5, Cell{Char: 'k'})
	g.GrowCols(0, 20)
	if g.Cols() < 20 {
		t.Fatalf("Cols() = %d, want >= 20", g.Cols())
	}
	if g.Cell(0, 5).Char != 'k' {
		t.Fatal("existing content should survive a column grow")
	}
}

func TestResizeReflowsWrappedLines(t *testing.T) {
	// NewGrid has no scrollback and never reflows, so reflow needs a
	// scrollback-capable grid.
	g := NewGridWithStorage(3, 5, newMemoryScrollback(100))
	// At width 5, "helloworld" exactly fills two wrapped rows: "hello" + "world".
	for i, r := range []rune("hello") {
		g.SetCell(0, i, Cell{Char: r})
	}
	g.SetWrapped(0, true)
	for i, r := range []rune("world") {
		g.SetCell(1, i, Cell{Char: r})
	}

	g.Resize(3, 10)
	if got := g.LineContent(0); got != "helloworld" {
		t.Fatalf("LineContent(0) after reflow = %q, want %q", got, "helloworld")
	}
}

func TestInternGraphemeDedupesIdenticalSequences(t *testing.T) {
	g := NewGrid(5, 10)
	seq := []rune{'e', 0x0301} // e + combining acute accent
	k1 := g.InternGrapheme(seq)
	k2 := g.InternGrapheme(append([]rune{}, seq...))
	if k1 != k2 {
		t.Fatalf("expected identical sequences to intern to the same key, got %d and %d", k1, k2)
	}
	got := g.Grapheme(k1)
	if len(got) != 2 || got[0] != 'e' || got[1] != 0x0301 {
		t.Fatalf("Grapheme(%d) = %v, want %v", k1, got, seq)
	}
}

func TestTabStopsDefaultEveryEightColumns(t *testing.T) {
	g := NewGrid(5, 20)
	if !g.tabStop[0] || !g.tabStop[8] || !g.tabStop[16] {
		t.Fatal("expected default tab stops at columns 0, 8, 16")
	}
	if got := g.NextTabStop(1); got != 8 {
		t.Fatalf("NextTabStop(1) = %d, want 8", got)
	}
}

func TestClearScrollbackDropsProviderAndRingHistory(t *testing.T) {
	storage := newMemoryScrollback(100)
	g := NewGridWithStorage(4, 10, storage)
	for i := 0; i < 10; i++ {
		g.ScrollUp(0, 4, 1)
	}
	if g.ScrollbackLen() == 0 {
		t.Fatal("expected scrollback to accumulate before Clear")
	}
	g.ClearScrollback()
	if g.ScrollbackLen() != 0 {
		t.Fatalf("ScrollbackLen() after Clear = %d, want 0", g.ScrollbackLen())
	}
}

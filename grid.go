package coreterm

import "github.com/rivo/uniseg"

// Row is a fixed-length array of cells owned by a Grid ring slot.
// Wrapped distinguishes a soft line wrap (continues onto the next row)
// from a hard newline, mirroring the `linebreak` bit of the data model.
type Row struct {
	cells   []Cell
	dirty   bool
	wrapped bool // true: this row's content continues on the next row
}

func newRow(cols int) *Row {
	r := &Row{cells: make([]Cell, cols)}
	for i := range r.cells {
		r.cells[i] = NewCell()
	}
	return r
}

func (r *Row) resetCells() {
	for i := range r.cells {
		r.cells[i].Reset()
		r.cells[i].MarkDirty()
	}
	r.dirty = true
	r.wrapped = false
}

// Grid is a power-of-two ring buffer of lazily-allocated rows. Logical row
// r (0-based from the top of the visible screen) lives at ring slot
// (offset + r) mod numRows. Rows above the visible window, at slots
// (offset - 1), (offset - 2), ... going backward (equivalently
// offset+rows .. offset+numRows-1 going forward), are scrollback: the
// ring retains the most recent of them in place, with no copy required
// when offset advances. Deeper history, once it would be overwritten by
// ring wraparound, is hand off to an external ScrollbackProvider so it
// isn't simply lost.
//
// The alternate screen uses the same type with no scrollback: numRows is
// just the next power of two >= rows, and scrolling never advances offset
// past what truncation allows — it always rotates rows within the
// visible window.
type Grid struct {
	numRows int // power of two; total ring capacity
	rows    int // visible row count
	cols    int
	offset  int // ring slot holding logical row 0
	view    int // ring slot at top of the viewport (scrollback browsing)

	ring []*Row

	tabStop []bool

	scrollback ScrollbackProvider
	alternate  bool
	hasDirty   bool

	graphemes       map[rune][]rune
	nextGrapheme    rune
	grapheme2rune   map[string]rune // reverse lookup to dedupe identical sequences

	sixels   []*SixelImage // end-row descending, invariant maintained by callers
	sixelSeq uint32

	// scrolledTotal is the cumulative count of lines advanced past the
	// live screen's top by full-screen ScrollUp, giving sixel placements
	// a stable scrollback-absolute row even though offset wraps.
	scrolledTotal int

	damage []DamageRecord
}

// graphemeBase is the first synthetic codepoint used to key entries in the
// composed-grapheme table. It sits well above any assigned Unicode plane
// so it can never collide with a real printed codepoint.
const graphemeBase rune = 0x100000

// NewGrid creates a grid with no scrollback (used for the alternate screen).
func NewGrid(rows, cols int) *Grid {
	return NewGridWithStorage(rows, cols, NoopScrollback{})
}

// NewGridWithStorage creates a grid whose scrollback overflow is handed to
// storage once it falls out of the ring. Passing NoopScrollback{} (or nil
// for the alternate screen) disables scrollback: numRows equals the next
// power of two >= rows, and no history is retained.
func NewGridWithStorage(rows, cols int, storage ScrollbackProvider) *Grid {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	if storage == nil {
		storage = NoopScrollback{}
	}

	alternate := isNoopScrollback(storage)

	ringScrollback := 0
	if !alternate {
		ringScrollback = ringScrollbackCapacity(storage.MaxLines())
	}

	numRows := nextPowerOfTwo(rows + ringScrollback)

	g := &Grid{
		numRows:       numRows,
		rows:          rows,
		cols:          cols,
		offset:        0,
		view:          0,
		ring:          make([]*Row, numRows),
		tabStop:       make([]bool, cols),
		scrollback:    storage,
		alternate:     alternate,
		graphemes:     make(map[rune][]rune),
		nextGrapheme:  graphemeBase,
		grapheme2rune: make(map[string]rune),
	}

	for i := 0; i < cols; i += 8 {
		g.tabStop[i] = true
	}

	return g
}

func isNoopScrollback(p ScrollbackProvider) bool {
	_, ok := p.(NoopScrollback)
	return ok
}

// ringScrollbackCapacity bounds how much scrollback the ring keeps resident
// in memory before handing lines off to the external provider. A provider
// advertising an unbounded or very large capacity still only gets a
// bounded, fast, in-ring window; the rest of its capacity is realized via
// Push/Line against the provider itself.
const defaultRingScrollback = 2000

func ringScrollbackCapacity(maxLines int) int {
	if maxLines <= 0 {
		return defaultRingScrollback
	}
	if maxLines > defaultRingScrollback {
		return defaultRingScrollback
	}
	return maxLines
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (g *Grid) slot(abs int) int {
	m := g.numRows - 1
	abs &= m
	if abs < 0 {
		abs += g.numRows
	}
	return abs
}

func (g *Grid) liveSlot(row int) int {
	return g.slot(g.offset + row)
}

func (g *Grid) ensureRow(slot int) *Row {
	r := g.ring[slot]
	if r == nil {
		r = newRow(g.cols)
		g.ring[slot] = r
	}
	return r
}

// Rows returns the visible row count.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the column count.
func (g *Grid) Cols() int { return g.cols }

// NumRows returns the ring's total slot count (always a power of two).
func (g *Grid) NumRows() int { return g.numRows }

// Cell returns a pointer to the cell at logical (row, col), addressed
// relative to the live screen (offset), not the scrollback viewport.
// Returns nil if out of bounds.
func (g *Grid) Cell(row, col int) *Cell {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return nil
	}
	r := g.ensureRow(g.liveSlot(row))
	return &r.cells[col]
}

// SetCell replaces the cell at (row, col) and marks it dirty.
func (g *Grid) SetCell(row, col int, cell Cell) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	cell.MarkDirty()
	r := g.ensureRow(g.liveSlot(row))
	r.cells[col] = cell
	r.dirty = true
	g.hasDirty = true
}

// MarkDirty marks the cell at (row, col) as modified.
func (g *Grid) MarkDirty(row, col int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	r := g.ensureRow(g.liveSlot(row))
	r.cells[col].MarkDirty()
	r.dirty = true
	g.hasDirty = true
}

// HasDirty reports whether any cell has been modified since ClearAllDirty.
func (g *Grid) HasDirty() bool { return g.hasDirty }

// DirtyCells returns positions of all modified cells in the visible window.
func (g *Grid) DirtyCells() []Position {
	var positions []Position
	for row := 0; row < g.rows; row++ {
		r := g.ring[g.liveSlot(row)]
		if r == nil || !r.dirty {
			continue
		}
		for col := range r.cells {
			if r.cells[col].IsDirty() {
				positions = append(positions, Position{Row: row, Col: col})
			}
		}
	}
	return positions
}

// ClearAllDirty resets the dirty state of all visible cells.
func (g *Grid) ClearAllDirty() {
	for row := 0; row < g.rows; row++ {
		r := g.ring[g.liveSlot(row)]
		if r == nil {
			continue
		}
		for col := range r.cells {
			r.cells[col].ClearDirty()
		}
		r.dirty = false
	}
	g.hasDirty = false
}

// ClearRow resets all cells in the row to default state.
func (g *Grid) ClearRow(row int) {
	if row < 0 || row >= g.rows {
		return
	}
	g.ensureRow(g.liveSlot(row)).resetCells()
	g.hasDirty = true
}

// ClearRowRange resets cells in [startCol, endCol) of row.
func (g *Grid) ClearRowRange(row, startCol, endCol int) {
	if row < 0 || row >= g.rows {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > g.cols {
		endCol = g.cols
	}
	r := g.ensureRow(g.liveSlot(row))
	for col := startCol; col < endCol; col++ {
		r.cells[col].Reset()
		r.cells[col].MarkDirty()
	}
	r.dirty = true
	g.hasDirty = true
}

// ClearAll resets every visible cell.
func (g *Grid) ClearAll() {
	for row := 0; row < g.rows; row++ {
		g.ClearRow(row)
	}
}

// EraseRowRange blanks [startCol, endCol) of row using fill as the
// template for the resulting cells (§4.4: erase uses the *current* SGR
// background, not the cell default), rather than resetting to defaults.
func (g *Grid) EraseRowRange(row, startCol, endCol int, fill Cell) {
	if row < 0 || row >= g.rows {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > g.cols {
		endCol = g.cols
	}
	r := g.ensureRow(g.liveSlot(row))
	blank := fill
	blank.Char = ' '
	blank.Hyperlink = nil
	blank.Grapheme = 0
	for col := startCol; col < endCol; col++ {
		c := blank
		c.MarkDirty()
		r.cells[col] = c
	}
	r.dirty = true
	g.hasDirty = true
}

// EraseRow blanks the entire row with fill's attributes.
func (g *Grid) EraseRow(row int, fill Cell) {
	g.EraseRowRange(row, 0, g.cols, fill)
}

// EraseAll blanks every visible row with fill's attributes.
func (g *Grid) EraseAll(fill Cell) {
	for row := 0; row < g.rows; row++ {
		g.EraseRow(row, fill)
	}
}

// ScrollUp shifts lines up by n within [top, bottom). When the region is
// the full screen of a scrollback-capable grid, this advances offset
// instead of copying cells: the rows exposed at the bottom are the ring
// slots the oldest resident scrollback occupied, which are pushed to the
// external provider first so history isn't silently dropped.
func (g *Grid) ScrollUp(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom > g.rows {
		bottom = g.rows
	}
	if n > bottom-top {
		n = bottom - top
	}
	if n <= 0 {
		return
	}

	if !g.alternate && top == 0 && bottom == g.rows {
		g.scrollUpFullScreen(n)
		g.queueDamage(DamageRecord{Kind: DamageScroll, Top: top, Bottom: bottom, Lines: n})
		g.evictSixelsAboveOffset()
		return
	}

	// Region scroll: rotate row pointers within the region, clear the n
	// rows that move in from the bottom.
	slots := make([]int, bottom-top)
	for i := range slots {
		slots[i] = g.liveSlot(top + i)
	}
	rows := make([]*Row, len(slots))
	for i, s := range slots {
		rows[i] = g.ensureRow(s)
	}
	for i := 0; i < len(rows)-n; i++ {
		g.ring[slots[i]] = rows[i+n]
		g.ring[slots[i]].dirty = true
		for col := range g.ring[slots[i]].cells {
			g.ring[slots[i]].cells[col].MarkDirty()
		}
	}
	for i := len(rows) - n; i < len(rows); i++ {
		fresh := newRow(g.cols)
		fresh.dirty = true
		g.ring[slots[i]] = fresh
	}
	g.hasDirty = true
	g.queueDamage(DamageRecord{Kind: DamageScroll, Top: top, Bottom: bottom, Lines: n})
	g.splitSixelsInRange(top, bottom)
}

func (g *Grid) scrollUpFullScreen(n int) {
	following := g.view == g.offset
	for i := 0; i < n; i++ {
		evictSlot := g.slot(g.offset + g.rows + i)
		if old := g.ring[evictSlot]; old != nil && g.scrollback != nil {
			g.scrollback.Push(cloneCells(old.cells))
		}
	}
	g.offset = g.slot(g.offset + n)
	g.scrolledTotal += n
	if following {
		g.view = g.offset
	}
	for i := 0; i < n; i++ {
		row := g.ring[g.liveSlot(g.rows-n+i)]
		if row == nil {
			row = newRow(g.cols)
			g.ring[g.liveSlot(g.rows-n+i)] = row
		}
		row.resetCells()
	}
	g.hasDirty = true
}

func cloneCells(cells []Cell) []Cell {
	out := make([]Cell, len(cells))
	copy(out, cells)
	return out
}

// ScrollDown shifts lines down by n within [top, bottom).
func (g *Grid) ScrollDown(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom > g.rows {
		bottom = g.rows
	}
	if n > bottom-top {
		n = bottom - top
	}
	if n <= 0 {
		return
	}

	slots := make([]int, bottom-top)
	for i := range slots {
		slots[i] = g.liveSlot(top + i)
	}
	rows := make([]*Row, len(slots))
	for i, s := range slots {
		rows[i] = g.ensureRow(s)
	}
	for i := len(rows) - 1; i >= n; i-- {
		g.ring[slots[i]] = rows[i-n]
		g.ring[slots[i]].dirty = true
		for col := range g.ring[slots[i]].cells {
			g.ring[slots[i]].cells[col].MarkDirty()
		}
	}
	for i := 0; i < n; i++ {
		fresh := newRow(g.cols)
		fresh.dirty = true
		g.ring[slots[i]] = fresh
	}
	g.hasDirty = true
	g.queueDamage(DamageRecord{Kind: DamageScrollReverse, Top: top, Bottom: bottom, Lines: n})
	g.splitSixelsInRange(top, bottom)
}

// InsertLines inserts n blank lines at row, shifting existing lines down.
func (g *Grid) InsertLines(row, n, bottom int) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	g.ScrollDown(row, bottom, n)
}

// DeleteLines removes n lines at row, shifting remaining lines up.
func (g *Grid) DeleteLines(row, n, bottom int) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	g.ScrollUp(row, bottom, n)
}

// InsertBlanks inserts n blank cells at (row, col), shifting the rest right.
func (g *Grid) InsertBlanks(row, col, n int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols || n <= 0 {
		return
	}
	r := g.ensureRow(g.liveSlot(row))
	for c := g.cols - 1; c >= col+n; c-- {
		r.cells[c] = r.cells[c-n]
		r.cells[c].MarkDirty()
	}
	for c := col; c < col+n && c < g.cols; c++ {
		r.cells[c].Reset()
		r.cells[c].MarkDirty()
	}
	r.dirty = true
	g.hasDirty = true
}

// DeleteChars removes n characters at (row, col), shifting the rest left.
func (g *Grid) DeleteChars(row, col, n int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols || n <= 0 {
		return
	}
	r := g.ensureRow(g.liveSlot(row))
	for c := col; c < g.cols-n; c++ {
		r.cells[c] = r.cells[c+n]
		r.cells[c].MarkDirty()
	}
	for c := g.cols - n; c < g.cols; c++ {
		if c >= 0 {
			r.cells[c].Reset()
			r.cells[c].MarkDirty()
		}
	}
	r.dirty = true
	g.hasDirty = true
}

// Resize changes the grid's visible dimensions. A scrollback-capable grid
// reflows: logical lines (physical rows chained by the wrapped bit) are
// concatenated and re-split at the new column count. The alternate grid
// (no scrollback) never reflows — it is truncated or padded in place.
func (g *Grid) Resize(newRows, newCols int) {
	if newRows <= 0 || newCols <= 0 {
		return
	}

	if g.alternate {
		g.resizeTruncate(newRows, newCols)
		return
	}

	lines := g.collectLogicalLines()
	g.rebuildFromLines(lines, newRows, newCols)
	g.dropOversizedSixels()
}

// dropOversizedSixels removes images that no longer fit the resized grid
// or would cross the (possibly relocated) ring wraparound boundary.
func (g *Grid) dropOversizedSixels() {
	var kept []*SixelImage
	for _, img := range g.sixels {
		if img.Rows > g.rows || img.Cols > g.cols {
			continue
		}
		kept = append(kept, img)
	}
	g.sixels = kept
	g.maybeSplitRingWrap()
}

func (g *Grid) resizeTruncate(newRows, newCols int) {
	numRows := nextPowerOfTwo(newRows)
	newRing := make([]*Row, numRows)
	for i := 0; i < newRows && i < g.rows; i++ {
		old := g.ring[g.liveSlot(i)]
		row := newRow(newCols)
		if old != nil {
			n := newCols
			if len(old.cells) < n {
				n = len(old.cells)
			}
			copy(row.cells, old.cells[:n])
		}
		for c := range row.cells {
			row.cells[c].MarkDirty()
		}
		row.dirty = true
		newRing[i] = row
	}
	g.ring = newRing
	g.numRows = numRows
	g.rows = newRows
	g.cols = newCols
	g.offset = 0
	g.view = 0
	g.resizeTabStops(newCols)
	g.hasDirty = true
}

// logicalLine is one reflow-time unit: a run of physical rows chained by
// the wrapped bit, flattened into a single slice of cells.
type logicalLine struct {
	cells []Cell
}

// collectLogicalLines walks every resident ring row from oldest scrollback
// through the bottom of the visible screen, grouping wrapped runs.
func (g *Grid) collectLogicalLines() []logicalLine {
	// Oldest resident slot is (offset + rows) mod numRows; walking forward
	// numRows times visits every slot in age order, oldest to newest, with
	// the live window last.
	order := make([]int, g.numRows)
	for i := 0; i < g.numRows; i++ {
		order[i] = g.slot(g.offset + g.rows + i)
	}

	var lines []logicalLine
	var cur []Cell
	flush := func() {
		if cur != nil {
			lines = append(lines, logicalLine{cells: cur})
			cur = nil
		}
	}
	for _, s := range order {
		row := g.ring[s]
		if row == nil {
			flush()
			continue
		}
		cur = append(cur, row.cells...)
		if !row.wrapped {
			flush()
		}
	}
	flush()
	return lines
}

// rebuildFromLines re-splits flattened logical lines at newCols and
// rebuilds the ring with the most recent newRows lines as the visible
// window and the remainder as scrollback.
func (g *Grid) rebuildFromLines(lines []logicalLine, newRows, newCols int) {
	var physical []*Row
	for _, ln := range lines {
		cells := ln.cells
		if len(cells) == 0 {
			r := newRow(newCols)
			r.dirty = true
			physical = append(physical, r)
			continue
		}
		for start := 0; start < len(cells); start += newCols {
			end := start + newCols
			wrapped := end < len(cells)
			if end > len(cells) {
				end = len(cells)
			}
			r := newRow(newCols)
			copy(r.cells, cells[start:end])
			for c := range r.cells {
				r.cells[c].MarkDirty()
			}
			r.dirty = true
			r.wrapped = wrapped
			physical = append(physical, r)
		}
	}

	ringScrollback := ringScrollbackCapacity(g.scrollback.MaxLines())
	numRows := nextPowerOfTwo(newRows + ringScrollback)
	newRing := make([]*Row, numRows)

	// Place the most recent newRows physical rows as the visible window;
	// everything before them is scrollback, bounded by ring capacity.
	visibleStart := len(physical) - newRows
	if visibleStart < 0 {
		visibleStart = 0
	}
	scrollbackRows := physical[:visibleStart]
	visibleRows := physical[visibleStart:]

	offset := numRows - newRows
	for i, r := range visibleRows {
		newRing[(offset+i)%numRows] = r
	}
	// Fill any remaining visible slots (fewer lines than newRows) blank.
	for i := len(visibleRows); i < newRows; i++ {
		newRing[(offset+i)%numRows] = newRow(newCols)
	}

	keep := len(scrollbackRows)
	if keep > numRows-newRows {
		keep = numRows - newRows
	}
	for i := 0; i < keep; i++ {
		src := scrollbackRows[len(scrollbackRows)-keep+i]
		slot := (offset - keep + i + numRows) % numRows
		newRing[slot] = src
	}

	g.ring = newRing
	g.numRows = numRows
	g.rows = newRows
	g.cols = newCols
	g.offset = offset % numRows
	g.view = g.offset
	g.resizeTabStops(newCols)
	g.hasDirty = true
}

func (g *Grid) resizeTabStops(cols int) {
	newTabStop := make([]bool, cols)
	copy(newTabStop, g.tabStop)
	for i := len(g.tabStop); i < cols; i += 8 {
		newTabStop[i] = true
	}
	g.tabStop = newTabStop
}

// SetTabStop enables a tab stop at col.
func (g *Grid) SetTabStop(col int) {
	if col >= 0 && col < g.cols {
		g.tabStop[col] = true
	}
}

// ClearTabStop disables the tab stop at col.
func (g *Grid) ClearTabStop(col int) {
	if col >= 0 && col < g.cols {
		g.tabStop[col] = false
	}
}

// ClearAllTabStops disables every tab stop.
func (g *Grid) ClearAllTabStops() {
	for i := range g.tabStop {
		g.tabStop[i] = false
	}
}

// NextTabStop returns the next enabled tab stop after col, or cols-1.
func (g *Grid) NextTabStop(col int) int {
	for c := col + 1; c < g.cols; c++ {
		if g.tabStop[c] {
			return c
		}
	}
	return g.cols - 1
}

// PrevTabStop returns the previous enabled tab stop before col, or 0.
func (g *Grid) PrevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if g.tabStop[c] {
			return c
		}
	}
	return 0
}

// FillWithE fills every visible cell with 'E' (DECALN alignment pattern).
func (g *Grid) FillWithE() {
	for row := 0; row < g.rows; row++ {
		r := g.ensureRow(g.liveSlot(row))
		for col := range r.cells {
			r.cells[col].Reset()
			r.cells[col].Char = 'E'
			r.cells[col].MarkDirty()
		}
		r.dirty = true
	}
	g.hasDirty = true
}

// ScrollbackLen returns the number of lines retrievable from scrollback,
// counting both ring-resident lines and lines handed to the provider.
func (g *Grid) ScrollbackLen() int {
	if g.scrollback == nil {
		return 0
	}
	return g.scrollback.Len() + g.ringResidentScrollbackLen()
}

func (g *Grid) ringResidentScrollbackLen() int {
	n := 0
	for i := 0; i < g.numRows-g.rows; i++ {
		if g.ring[g.slot(g.offset+g.rows+i)] != nil {
			n++
		}
	}
	return n
}

// ScrollbackLine returns scrollback line index (0 = oldest). Provider
// history comes first, followed by the ring-resident, more recent lines.
func (g *Grid) ScrollbackLine(index int) []Cell {
	if g.scrollback == nil {
		return nil
	}
	providerLen := g.scrollback.Len()
	if index < providerLen {
		return g.scrollback.Line(index)
	}
	ringIndex := index - providerLen
	resident := g.ringResidentScrollbackLen()
	if ringIndex < 0 || ringIndex >= resident {
		return nil
	}
	// Ring-resident lines are ordered oldest-to-newest starting at the far
	// end of the scrollback region.
	slot := g.slot(g.offset + g.numRows - resident + ringIndex)
	row := g.ring[slot]
	if row == nil {
		return nil
	}
	return row.cells
}

// ClearScrollback discards all scrollback history (provider and ring).
func (g *Grid) ClearScrollback() {
	if g.scrollback != nil {
		g.scrollback.Clear()
	}
	for i := 0; i < g.numRows-g.rows; i++ {
		g.ring[g.slot(g.offset+g.rows+i)] = nil
	}
}

// SetMaxScrollback sets the provider's capacity.
func (g *Grid) SetMaxScrollback(max int) {
	if g.scrollback != nil {
		g.scrollback.SetMaxLines(max)
	}
}

// MaxScrollback returns the provider's configured capacity.
func (g *Grid) MaxScrollback() int {
	if g.scrollback == nil {
		return 0
	}
	return g.scrollback.MaxLines()
}

// SetScrollbackProvider replaces the scrollback storage implementation.
func (g *Grid) SetScrollbackProvider(storage ScrollbackProvider) {
	g.scrollback = storage
}

// ScrollbackProvider returns the current scrollback storage implementation.
func (g *Grid) ScrollbackProvider() ScrollbackProvider {
	return g.scrollback
}

// LineContent returns the trimmed text content of a visible row.
func (g *Grid) LineContent(row int) string {
	if row < 0 || row >= g.rows {
		return ""
	}
	r := g.ring[g.liveSlot(row)]
	if r == nil {
		return ""
	}

	lastNonSpace := -1
	for col := g.cols - 1; col >= 0; col-- {
		cell := &r.cells[col]
		if cell.Char != ' ' && cell.Char != 0 && !cell.IsWideSpacer() {
			lastNonSpace = col
			break
		}
	}
	if lastNonSpace < 0 {
		return ""
	}

	runes := make([]rune, 0, lastNonSpace+1)
	for col := 0; col <= lastNonSpace; col++ {
		cell := &r.cells[col]
		if cell.IsWideSpacer() {
			continue
		}
		if cell.Char == 0 {
			runes = append(runes, ' ')
		} else if seq := g.graphemes[cell.Grapheme]; cell.IsGrapheme() && len(seq) > 0 {
			runes = append(runes, seq...)
		} else {
			runes = append(runes, cell.Char)
		}
	}
	return string(runes)
}

func (g *Grid) resolveGraphemeRune(c *Cell) rune {
	if !c.IsGrapheme() {
		return c.Char
	}
	if seq, ok := g.graphemes[c.Grapheme]; ok && len(seq) > 0 {
		return seq[0]
	}
	return c.Char
}

// GrowRows appends n rows at the bottom (auto-resize mode).
func (g *Grid) GrowRows(n int) {
	if n <= 0 {
		return
	}
	g.Resize(g.rows+n, g.cols)
}

// GrowCols expands a single row to at least minCols columns (auto-resize).
// When it widens the grid overall, every row grows to match.
func (g *Grid) GrowCols(row, minCols int) {
	if row < 0 || row >= g.rows || minCols <= g.cols {
		return
	}
	g.Resize(g.rows, minCols)
}

// IsWrapped reports whether row's content continues onto the next row.
func (g *Grid) IsWrapped(row int) bool {
	if row < 0 || row >= g.rows {
		return false
	}
	r := g.ring[g.liveSlot(row)]
	return r != nil && r.wrapped
}

// SetWrapped marks whether row ends with a soft wrap or a hard newline.
func (g *Grid) SetWrapped(row int, wrapped bool) {
	if row < 0 || row >= g.rows {
		return
	}
	g.ensureRow(g.liveSlot(row)).wrapped = wrapped
}

// InternGrapheme stores seq in the composed-grapheme table (deduping
// identical sequences) and returns the synthetic key to store in a cell.
func (g *Grid) InternGrapheme(seq []rune) rune {
	key := string(seq)
	if existing, ok := g.grapheme2rune[key]; ok {
		return existing
	}
	r := g.nextGrapheme
	g.nextGrapheme++
	owned := make([]rune, len(seq))
	copy(owned, seq)
	g.graphemes[r] = owned
	g.grapheme2rune[key] = r
	return r
}

// Grapheme returns the combining sequence for a synthetic grapheme key.
func (g *Grid) Grapheme(key rune) []rune {
	return g.graphemes[key]
}

// isSingleGrapheme reports whether seq forms exactly one grapheme cluster
// under Unicode text segmentation (UAX #29), as opposed to, say, a
// combining mark that doesn't actually attach to the preceding base rune.
func isSingleGrapheme(seq []rune) bool {
	g := uniseg.NewGraphemes(string(seq))
	if !g.Next() {
		return false
	}
	return !g.Next()
}

// View returns the current scrollback viewport offset in lines above the
// live screen (0 means following, i.e. no scrollback shown).
func (g *Grid) View() int {
	return g.distanceBack(g.view)
}

func (g *Grid) distanceBack(slot int) int {
	d := g.offset - slot
	if d < 0 {
		d += g.numRows
	}
	return d
}

// SetView moves the scrollback viewport to `back` lines above the live
// screen, clamped to the available resident history.
func (g *Grid) SetView(back int) {
	max := g.ringResidentScrollbackLen()
	if back < 0 {
		back = 0
	}
	if back > max {
		back = max
	}
	g.view = g.slot(g.offset - back)
}

// IsViewFollowing reports whether the viewport is pinned to the live screen.
func (g *Grid) IsViewFollowing() bool {
	return g.view == g.offset
}

// Position identifies a cell location in the terminal grid (0-based).
type Position struct {
	Row int
	Col int
}

// Before returns true if this position comes before other in reading order.
func (p Position) Before(other Position) bool {
	if p.Row < other.Row {
		return true
	}
	if p.Row == other.Row && p.Col < other.Col {
		return true
	}
	return false
}

// Equal returns true if both row and column match.
func (p Position) Equal(other Position) bool {
	return p.Row == other.Row && p.Col == other.Col
}

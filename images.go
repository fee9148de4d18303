package coreterm

// SixelImage is a grid-owned raster image placed by a DECSIXEL payload.
// Row is scrollback-absolute: a monotonically increasing line number that
// does not move when the ring wraps, so placements remain well-defined
// across arbitrarily many scrolls. CellRow maps it back to the live grid's
// row coordinate system for rendering.
type SixelImage struct {
	ID uint32

	Row int // scrollback-absolute top row
	Col int // column in cells

	PixelWidth  int
	PixelHeight int
	Data        []byte // RGBA, PixelWidth*PixelHeight*4

	Rows int // height in cells
	Cols int // width in cells

	Opaque bool
}

// EndRow is the scrollback-absolute row one past the image's last row,
// used for the end-row-descending sort order of §4.5.
func (s *SixelImage) EndRow() int {
	return s.Row + s.Rows
}

func (s *SixelImage) colStart() int { return s.Col }
func (s *SixelImage) colEnd() int   { return s.Col + s.Cols }

// nextSixelID hands out unique IDs for sixel images owned by a grid.
func (g *Grid) nextSixelID() uint32 {
	g.sixelSeq++
	return g.sixelSeq
}

// PlaceSixel inserts a new sixel image at the cursor's current (absolute)
// row and the given column. Any existing image overlapping the target
// rectangle is first split into up to four non-overlapping sub-images
// (above/below/left/right slabs); the original is discarded. The new
// image is then inserted in end-row-descending order.
func (g *Grid) PlaceSixel(cursorRow, col, pixelW, pixelH int, data []byte, cellW, cellH int, opaque bool) *SixelImage {
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	cols := (pixelW + cellW - 1) / cellW
	rows := (pixelH + cellH - 1) / cellH

	absRow := g.AbsoluteRow(cursorRow)
	img := &SixelImage{
		ID:          g.nextSixelID(),
		Row:         absRow,
		Col:         col,
		PixelWidth:  pixelW,
		PixelHeight: pixelH,
		Data:        data,
		Rows:        rows,
		Cols:        cols,
		Opaque:      opaque,
	}

	g.splitOverlapping(img)
	g.insertSixelSorted(img)
	g.maybeSplitRingWrap()
	return img
}

// AbsoluteRow converts a live-screen row into scrollback-absolute form.
func (g *Grid) AbsoluteRow(row int) int {
	return g.scrolledTotal + row
}

// LiveRow converts a scrollback-absolute row back to the live-screen row
// coordinate system. The result may be negative (scrolled off the top) or
// >= Rows() (not yet reached, for a paste-ahead placement).
func (g *Grid) LiveRow(absRow int) int {
	return absRow - g.scrolledTotal
}

// splitOverlapping removes the overlap between every resident image and
// the incoming rectangle, replacing overlapping images with up to four
// sub-image slabs (above, below, left, right) that cover the remainder.
func (g *Grid) splitOverlapping(incoming *SixelImage) {
	var kept []*SixelImage
	for _, existing := range g.sixels {
		if !rectsOverlap(existing, incoming) {
			kept = append(kept, existing)
			continue
		}
		kept = append(kept, splitSixelAroundOverlap(existing, incoming, g.nextSixelIDFn())...)
	}
	g.sixels = kept
}

// nextSixelIDFn adapts nextSixelID to a closure so splitSixelAroundOverlap
// doesn't need a *Grid receiver.
func (g *Grid) nextSixelIDFn() func() uint32 {
	return g.nextSixelID
}

func rectsOverlap(a, b *SixelImage) bool {
	if a.EndRow() <= b.Row || b.EndRow() <= a.Row {
		return false
	}
	if a.colEnd() <= b.colStart() || b.colEnd() <= a.colStart() {
		return false
	}
	return true
}

// splitSixelAroundOverlap trims `existing` to the up-to-four slabs outside
// `overlap`, each carved from existing's original pixel buffer.
func splitSixelAroundOverlap(existing, overlap *SixelImage, newID func() uint32) []*SixelImage {
	var out []*SixelImage

	top, bottom := existing.Row, existing.EndRow()
	left, right := existing.colStart(), existing.colEnd()
	oTop, oBottom := overlap.Row, overlap.EndRow()
	oLeft, oRight := overlap.colStart(), overlap.colEnd()

	// Above slab: full width, rows [top, oTop)
	if oTop > top {
		out = append(out, subSixel(existing, newID(), top, oTop, left, right))
	}
	// Below slab: full width, rows [oBottom, bottom)
	if oBottom < bottom {
		out = append(out, subSixel(existing, newID(), oBottom, bottom, left, right))
	}
	// Middle band rows [max(top,oTop), min(bottom,oBottom))
	midTop, midBottom := maxInt(top, oTop), minInt(bottom, oBottom)
	if midTop < midBottom {
		if oLeft > left {
			out = append(out, subSixel(existing, newID(), midTop, midBottom, left, oLeft))
		}
		if oRight < right {
			out = append(out, subSixel(existing, newID(), midTop, midBottom, oRight, right))
		}
	}
	return out
}

// subSixel carves a [rowStart,rowEnd) x [colStart,colEnd) sub-rectangle
// (in cell coordinates) out of existing's pixel buffer into a new image.
func subSixel(existing *SixelImage, id uint32, rowStart, rowEnd, colStart, colEnd int) *SixelImage {
	cellW := existing.PixelWidth / maxInt(existing.Cols, 1)
	cellH := existing.PixelHeight / maxInt(existing.Rows, 1)
	if cellW == 0 {
		cellW = 1
	}
	if cellH == 0 {
		cellH = 1
	}

	pxTop := (rowStart - existing.Row) * cellH
	pxBottom := (rowEnd - existing.Row) * cellH
	pxLeft := (colStart - existing.colStart()) * cellW
	pxRight := (colEnd - existing.colStart()) * cellW

	pxBottom = clampInt(pxBottom, 0, existing.PixelHeight)
	pxTop = clampInt(pxTop, 0, pxBottom)
	pxRight = clampInt(pxRight, 0, existing.PixelWidth)
	pxLeft = clampInt(pxLeft, 0, pxRight)

	w := pxRight - pxLeft
	h := pxBottom - pxTop
	data := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		srcOff := ((pxTop+y)*existing.PixelWidth + pxLeft) * 4
		dstOff := y * w * 4
		copy(data[dstOff:dstOff+w*4], existing.Data[srcOff:srcOff+w*4])
	}

	return &SixelImage{
		ID:          id,
		Row:         rowStart,
		Col:         colStart,
		PixelWidth:  w,
		PixelHeight: h,
		Data:        data,
		Rows:        rowEnd - rowStart,
		Cols:        colEnd - colStart,
		Opaque:      existing.Opaque,
	}
}

// insertSixelSorted inserts img keeping g.sixels sorted by end-row
// descending; two images sharing an end row are ordered by column.
func (g *Grid) insertSixelSorted(img *SixelImage) {
	i := 0
	for ; i < len(g.sixels); i++ {
		if g.sixels[i].EndRow() < img.EndRow() {
			break
		}
		if g.sixels[i].EndRow() == img.EndRow() && g.sixels[i].colStart() > img.colStart() {
			break
		}
	}
	g.sixels = append(g.sixels, nil)
	copy(g.sixels[i+1:], g.sixels[i:])
	g.sixels[i] = img
}

// maybeSplitRingWrap splits any image whose absolute row range would
// straddle the ring's wraparound boundary into independent per-segment
// images, per §4.5 invariant 1.
func (g *Grid) maybeSplitRingWrap() {
	boundary := g.scrolledTotal + g.numRows
	var out []*SixelImage
	for _, img := range g.sixels {
		if img.Row < boundary && img.EndRow() > boundary {
			cellH := img.PixelHeight / maxInt(img.Rows, 1)
			splitAt := boundary
			upper := subSixel(img, g.nextSixelID(), img.Row, splitAt, img.colStart(), img.colEnd())
			lower := subSixel(img, g.nextSixelID(), splitAt, img.EndRow(), img.colStart(), img.colEnd())
			_ = cellH
			out = append(out, upper, lower)
			continue
		}
		out = append(out, img)
	}
	g.sixels = out
}

// splitSixelsInRange splits/evicts sixels overlapping a region-scroll or
// erase range expressed in live-screen row coordinates.
func (g *Grid) splitSixelsInRange(top, bottom int) {
	absTop, absBottom := g.AbsoluteRow(top), g.AbsoluteRow(bottom)
	fence := &SixelImage{Row: absTop, Rows: absBottom - absTop, Col: 0, Cols: g.cols}
	g.splitOverlapping(fence)
}

// evictSixelsAboveOffset drops images whose top row has scrolled entirely
// out of the ring's retained scrollback window. Per the design note in
// §9, the full list is walked on every scroll: the list is sorted by end
// row, not start row, so a short-circuit break would miss images whose
// start has scrolled off but whose end (and thus sort position) has not.
func (g *Grid) evictSixelsAboveOffset() {
	oldest := g.scrolledTotal - (g.numRows - g.rows)
	var kept []*SixelImage
	for _, img := range g.sixels {
		if img.Row < oldest {
			continue
		}
		kept = append(kept, img)
	}
	g.sixels = kept
}

// Sixels returns the grid's current sixel image list, sorted by end-row
// descending, for the render coordinator to composite.
func (g *Grid) Sixels() []*SixelImage {
	return g.sixels
}

// ClearSixels removes every placed sixel image (terminal reset).
func (g *Grid) ClearSixels() {
	g.sixels = nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

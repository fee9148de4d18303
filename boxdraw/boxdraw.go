// Package boxdraw procedurally synthesizes box-drawing, block, braille and
// legacy-computing glyphs at the exact pixel size of a terminal cell instead
// of loading them from a font. Fonts rarely agree on where these glyphs'
// lines should sit relative to the cell box, which produces misaligned grids;
// drawing them to the cell's own geometry guarantees the lines join up.
package boxdraw

import (
	"image"

	"github.com/srwiley/rasterx"
)

// Options configures glyph synthesis.
type Options struct {
	// ThicknessFraction is the LIGHT line thickness as a fraction of the
	// cell diagonal, before DPI/Scale are applied.
	ThicknessFraction float64
	DPI               float64
	Scale             float64
	// StippleShades draws U+2591-2593 as a dither pattern instead of a
	// flat alpha fill.
	StippleShades bool
}

// DefaultOptions matches a 96 DPI display with no extra scaling.
func DefaultOptions() Options {
	return Options{ThicknessFraction: 0.07, DPI: 96, Scale: 1.0}
}

// Mask is a single-channel (alpha) coverage buffer the size of one cell.
type Mask struct {
	Width, Height int
	Pix           []uint8 // row-major, len == Width*Height
}

func newMask(w, h int) *Mask {
	return &Mask{Width: w, Height: h, Pix: make([]uint8, w*h)}
}

func (m *Mask) set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if v > m.Pix[y*m.Width+x] {
		m.Pix[y*m.Width+x] = v
	}
}

func (m *Mask) fillRect(x0, y0, x1, y1 int) {
	x0, x1 = clamp(x0, 0, m.Width), clamp(x1, 0, m.Width)
	y0, y1 = clamp(y0, 0, m.Height), clamp(y1, 0, m.Height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Pix[y*m.Width+x] = 255
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Thickness returns (light, heavy) pixel thickness for a cell of the given
// size under the supplied options, per §4.6's
// "base_thickness = max(1, fraction*scale*diagonal*DPI/72)".
func Thickness(cellW, cellH int, opt Options) (light, heavy int) {
	diag := diagonal(cellW, cellH)
	base := opt.ThicknessFraction * opt.Scale * diag * opt.DPI / 72.0
	if base < 1 {
		base = 1
	}
	light = int(base + 0.5)
	if light < 1 {
		light = 1
	}
	heavy = light * 3
	return
}

func diagonal(w, h int) float64 {
	return isqrt(w*w + h*h)
}

func isqrt(n int) float64 {
	x := float64(n)
	if x <= 0 {
		return 0
	}
	guess := x / 2
	for i := 0; i < 20; i++ {
		guess = 0.5 * (guess + x/guess)
	}
	return guess
}

// Render synthesizes the glyph mask for codepoint r at the given cell size.
// It returns nil if r is not one of the procedurally-drawn ranges, signaling
// the caller should fall back to the glyph cache / font renderer.
func Render(r rune, cellW, cellH int, opt Options) *Mask {
	switch {
	case r >= 0x2500 && r <= 0x257F:
		return drawLineDrawing(r, cellW, cellH, opt)
	case r >= 0x2580 && r <= 0x259F:
		return drawBlockElement(r, cellW, cellH, opt)
	case r >= 0x2800 && r <= 0x28FF:
		return drawBraille(r, cellW, cellH)
	case r >= 0x1FB00 && r <= 0x1FB3B:
		return drawSextant(r, cellW, cellH)
	case r >= 0x1FB70 && r <= 0x1FB9B:
		return drawLegacyWedge(r, cellW, cellH)
	default:
		return nil
	}
}

// lineSpec describes which of the four half-lines from a cell's center
// extend out, and at what thickness class (0 = absent, 1 = light, 2 = heavy).
type lineSpec struct {
	up, down, left, right int
	dashedH, dashedV      int // 0 = solid, else the dash segment count
}

var lineTable = map[rune]lineSpec{
	0x2500: {0, 0, 1, 1, 0, 0}, // ─
	0x2501: {0, 0, 2, 2, 0, 0}, // ━
	0x2502: {1, 1, 0, 0, 0, 0}, // │
	0x2503: {2, 2, 0, 0, 0, 0}, // ┃
	0x250C: {0, 1, 0, 1, 0, 0}, // ┌
	0x250F: {0, 2, 0, 2, 0, 0}, // ┏
	0x2510: {0, 1, 1, 0, 0, 0}, // ┐
	0x2513: {0, 2, 2, 0, 0, 0}, // ┓
	0x2514: {1, 0, 0, 1, 0, 0}, // └
	0x2517: {2, 0, 0, 2, 0, 0}, // ┗
	0x2518: {1, 0, 1, 0, 0, 0}, // ┘
	0x251B: {2, 0, 2, 0, 0, 0}, // ┛
	0x251C: {1, 1, 0, 1, 0, 0}, // ├
	0x2523: {2, 2, 0, 2, 0, 0}, // ┣
	0x2524: {1, 1, 1, 0, 0, 0}, // ┤
	0x252B: {2, 2, 2, 0, 0, 0}, // ┫
	0x252C: {0, 1, 1, 1, 0, 0}, // ┬
	0x2533: {0, 2, 2, 2, 0, 0}, // ┳
	0x2534: {1, 0, 1, 1, 0, 0}, // ┴
	0x253B: {2, 0, 2, 2, 0, 0}, // ┻
	0x253C: {1, 1, 1, 1, 0, 0}, // ┼
	0x254B: {2, 2, 2, 2, 0, 0}, // ╋
	0x2574: {0, 0, 1, 0, 0, 0}, // ╴
	0x2575: {1, 0, 0, 0, 0, 0}, // ╵
	0x2576: {0, 0, 0, 1, 0, 0}, // ╶
	0x2577: {0, 1, 0, 0, 0, 0}, // ╷
	0x2578: {0, 0, 2, 0, 0, 0}, // ╸
	0x2579: {2, 0, 0, 0, 0, 0}, // ╹
	0x257A: {0, 0, 0, 2, 0, 0}, // ╺
	0x257B: {0, 2, 0, 0, 0, 0}, // ╻
	0x257C: {0, 0, 1, 2, 0, 0}, // ╼
	0x257D: {1, 2, 0, 0, 0, 0}, // ╽
	0x257E: {0, 0, 2, 1, 0, 0}, // ╾
	0x257F: {2, 1, 0, 0, 0, 0}, // ╿
	0x2504: {0, 0, 1, 1, 3, 0}, // ┄ dashed light triple horizontal
	0x2505: {0, 0, 2, 2, 3, 0}, // ┅ dashed heavy triple horizontal
	0x2506: {1, 1, 0, 0, 0, 3}, // ┆ dashed light triple vertical
	0x2507: {2, 2, 0, 0, 0, 3}, // ┇ dashed heavy triple vertical
	0x2508: {0, 0, 1, 1, 4, 0}, // ┈ dashed light quadruple horizontal
	0x2509: {0, 0, 2, 2, 4, 0}, // ┉ dashed heavy quadruple horizontal
	0x250A: {1, 1, 0, 0, 0, 4}, // ┊ dashed light quadruple vertical
	0x250B: {2, 2, 0, 0, 0, 4}, // ┋ dashed heavy quadruple vertical
}

// drawLineDrawing handles the classic light/heavy box-drawing block plus
// dashed variants and the light arcs/diagonals that share its range.
func drawLineDrawing(r rune, cellW, cellH int, opt Options) *Mask {
	if r >= 0x256D && r <= 0x2570 {
		return drawLightArc(r, cellW, cellH, opt)
	}
	if r >= 0x2571 && r <= 0x2573 {
		return drawDiagonal(r, cellW, cellH, opt)
	}

	spec, ok := lineTable[r]
	if !ok {
		return nil
	}

	m := newMask(cellW, cellH)
	light, heavy := Thickness(cellW, cellH, opt)
	cx, cy := cellW/2, cellH/2

	thick := func(class int) int {
		if class == 2 {
			return heavy
		}
		return light
	}

	if spec.dashedH != 0 {
		drawDashedHorizontal(m, cy, thick(spec.left), spec.dashedH)
		return m
	}
	if spec.dashedV != 0 {
		drawDashedVertical(m, cx, thick(spec.up), spec.dashedV)
		return m
	}

	if spec.up > 0 {
		t := thick(spec.up)
		m.fillRect(cx-t/2, 0, cx-t/2+t, cy+t/2)
	}
	if spec.down > 0 {
		t := thick(spec.down)
		m.fillRect(cx-t/2, cy-t/2, cx-t/2+t, cellH)
	}
	if spec.left > 0 {
		t := thick(spec.left)
		m.fillRect(0, cy-t/2, cx+t/2, cy-t/2+t)
	}
	if spec.right > 0 {
		t := thick(spec.right)
		m.fillRect(cx-t/2, cy-t/2, cellW, cy-t/2+t)
	}
	return m
}

// drawDashedHorizontal partitions the cell width into `count` dash segments.
// Each segment's gap is a fixed third of the segment (at least 1 pixel),
// split evenly on both sides of the dash; the gap and the dash scale
// together rather than the gap shrinking first.
func drawDashedHorizontal(m *Mask, cy, thickness, count int) {
	seg := m.Width / count
	gap := seg / 3
	if gap < 1 {
		gap = 1
	}
	for i := 0; i < count; i++ {
		x0 := i*seg + gap/2
		x1 := (i+1)*seg - gap/2
		if x1 <= x0 {
			x1 = x0 + 1
		}
		m.fillRect(x0, cy-thickness/2, x1, cy-thickness/2+thickness)
	}
}

func drawDashedVertical(m *Mask, cx, thickness, count int) {
	seg := m.Height / count
	gap := seg / 3
	if gap < 1 {
		gap = 1
	}
	for i := 0; i < count; i++ {
		y0 := i*seg + gap/2
		y1 := (i+1)*seg - gap/2
		if y1 <= y0 {
			y1 = y0 + 1
		}
		m.fillRect(cx-thickness/2, y0, cx-thickness/2+thickness, y1)
	}
}

// drawLightArc draws one of the four rounded corners (U+256D..U+2570) by
// supersampling a quarter circle at 4x and averaging down to 8-bit alpha.
func drawLightArc(r rune, cellW, cellH int, opt Options) *Mask {
	const ss = 4
	light, _ := Thickness(cellW, cellH, opt)
	radius := min(float64(cellW-light)/2, float64(cellH-light)/2)
	if radius < 1 {
		radius = 1
	}

	// Each glyph's arc center sits at the cell corner opposite the one it
	// curves toward.
	var originX, originY float64
	switch r {
	case 0x256D: // ╭ center bottom-right
		originX, originY = float64(cellW), float64(cellH)
	case 0x256E: // ╮ center bottom-left
		originX, originY = 0, float64(cellH)
	case 0x256F: // ╯ center top-left
		originX, originY = 0, 0
	case 0x2570: // ╰ center top-right
		originX, originY = float64(cellW), 0
	}

	ssW, ssH := cellW*ss, cellH*ss
	hi := make([]uint8, ssW*ssH)
	t := float64(light) * ss
	for y := 0; y < ssH; y++ {
		for x := 0; x < ssW; x++ {
			dx := float64(x) - originX*ss
			dy := float64(y) - originY*ss
			d := isqrt2(dx*dx+dy*dy) - radius*ss
			if d >= -t/2 && d <= t/2 {
				hi[y*ssW+x] = 255
			}
		}
	}

	m := newMask(cellW, cellH)
	for y := 0; y < cellH; y++ {
		for x := 0; x < cellW; x++ {
			var total int
			for i := 0; i < ss; i++ {
				for j := 0; j < ss; j++ {
					total += int(hi[(y*ss+i)*ssW+x*ss+j])
				}
			}
			avg := total / (ss * ss)
			if avg > 255 {
				avg = 255
			}
			m.Pix[y*cellW+x] = uint8(avg)
		}
	}
	return m
}

func isqrt2(x float64) float64 {
	if x <= 0 {
		return 0
	}
	guess := x / 2
	for i := 0; i < 30; i++ {
		guess = 0.5 * (guess + x/guess)
	}
	return guess
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// drawDiagonal rasterizes U+2571..U+2573 as a filled trapezoid using
// rasterx, an anti-aliased path rasterizer.
func drawDiagonal(r rune, cellW, cellH int, opt Options) *Mask {
	light, _ := Thickness(cellW, cellH, opt)
	half := float64(light) / 2

	img := image.NewRGBA(image.Rect(0, 0, cellW, cellH))
	scanner := rasterx.NewScannerGV(cellW, cellH, img, img.Bounds())
	filler := rasterx.NewFiller(cellW, cellH, scanner)
	filler.SetColor(image.Opaque)

	w, h := float64(cellW), float64(cellH)

	addDiagonalPath := func(x0, y0, x1, y1 float64) {
		dx, dy := x1-x0, y1-y0
		length := isqrt2(dx*dx + dy*dy)
		if length == 0 {
			return
		}
		// perpendicular unit vector, scaled to half the stroke thickness
		px, py := -dy/length*half, dx/length*half
		filler.Start(rasterx.ToFixedP(x0+px, y0+py))
		filler.Line(rasterx.ToFixedP(x1+px, y1+py))
		filler.Line(rasterx.ToFixedP(x1-px, y1-py))
		filler.Line(rasterx.ToFixedP(x0-px, y0-py))
		filler.Stop(true)
	}

	switch r {
	case 0x2571: // ╱ bottom-left to top-right
		addDiagonalPath(0, h, w, 0)
	case 0x2572: // ╲ top-left to bottom-right
		addDiagonalPath(0, 0, w, h)
	case 0x2573: // ╳ both diagonals
		addDiagonalPath(0, h, w, 0)
		addDiagonalPath(0, 0, w, h)
	}
	filler.Draw()

	m := newMask(cellW, cellH)
	for y := 0; y < cellH; y++ {
		for x := 0; x < cellW; x++ {
			m.Pix[y*cellW+x] = img.RGBAAt(x, y).A
		}
	}
	return m
}

// drawBlockElement handles the shade blocks (U+2591-2593), the
// eighth-block family (U+2580-2590, U+2594-2595) and the quadrants
// (U+2596-259F).
func drawBlockElement(r rune, cellW, cellH int, opt Options) *Mask {
	m := newMask(cellW, cellH)
	switch r {
	case 0x2591, 0x2592, 0x2593:
		drawShade(m, r, opt)
		return m
	case 0x2580: // upper half block
		m.fillRect(0, 0, cellW, cellH/2)
	case 0x2584: // lower half block
		m.fillRect(0, cellH/2, cellW, cellH)
	case 0x2588: // full block
		m.fillRect(0, 0, cellW, cellH)
	case 0x258C: // left half block
		m.fillRect(0, 0, cellW/2, cellH)
	case 0x2590: // right half block
		m.fillRect(cellW/2, 0, cellW, cellH)
	case 0x2594: // upper one eighth block
		m.fillRect(0, 0, cellW, cellH/8)
	case 0x2595: // right one eighth block
		m.fillRect(cellW-cellW/8, 0, cellW, cellH)
	case 0x2596, 0x2597, 0x2598, 0x2599, 0x259A, 0x259B, 0x259C, 0x259D, 0x259E, 0x259F:
		// Quadrants: bit0=upper-left, bit1=upper-right, bit2=lower-left, bit3=lower-right.
		bits := [10]uint8{0x4, 0x8, 0x1, 0xD, 0x9, 0x7, 0xB, 0x2, 0x6, 0xE}[r-0x2596]
		for q := 0; q < 4; q++ {
			if bits&(1<<q) != 0 {
				x0, y0 := (q%2)*(cellW/2), (q/2)*(cellH/2)
				x1, y1 := x0+cellW/2, y0+cellH/2
				if q%2 == 1 {
					x1 = cellW
				}
				if q/2 == 1 {
					y1 = cellH
				}
				m.fillRect(x0, y0, x1, y1)
			}
		}
	default:
		// Eighth-block partial fills (U+2581-2587, U+2589-258F):
		// treated as a fraction of the cell filled from an edge.
		if r >= 0x2581 && r <= 0x2587 {
			frac := float64(r-0x2580) / 8.0
			m.fillRect(0, int(float64(cellH)*(1-frac)), cellW, cellH)
		} else if r >= 0x2589 && r <= 0x258F {
			frac := float64(0x2590-r) / 8.0
			m.fillRect(0, 0, int(float64(cellW)*frac), cellH)
		} else {
			return nil
		}
	}
	return m
}

// drawShade renders U+2591/2/3 as either a flat alpha fill or a stipple
// pattern, selected by Options.StippleShades.
func drawShade(m *Mask, r rune, opt Options) {
	var level uint8
	var stippleEvery int
	switch r {
	case 0x2591:
		level, stippleEvery = 64, 4 // 25%
	case 0x2592:
		level, stippleEvery = 128, 2 // 50%
	case 0x2593:
		level, stippleEvery = 191, 4 // 75%, inverse stipple density
	}

	if !opt.StippleShades {
		for i := range m.Pix {
			m.Pix[i] = level
		}
		return
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			on := (x+y)%stippleEvery == 0
			if r == 0x2593 {
				on = !on
			}
			if on {
				m.Pix[y*m.Width+x] = 255
			}
		}
	}
}

// drawBraille plots up to eight dots on a 2x4 grid. Bit layout follows the
// Unicode braille block: bits 0-5 are the left/right columns' top three
// rows, bit 6 is left row 4, bit 7 is right row 4.
func drawBraille(r rune, cellW, cellH int) *Mask {
	m := newMask(cellW, cellH)
	bits := int(r - 0x2800)

	dotOrder := [8][2]int{
		{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}, {0, 3}, {1, 3},
	}

	marginX := cellW / 6
	marginY := cellH / 10
	colSpace := (cellW - 2*marginX) / 2
	rowSpace := (cellH - 2*marginY) / 4
	dotR := min(float64(colSpace), float64(rowSpace)) / 3
	if dotR < 1 {
		dotR = 1
	}

	for bit := 0; bit < 8; bit++ {
		if bits&(1<<bit) == 0 {
			continue
		}
		col, row := dotOrder[bit][0], dotOrder[bit][1]
		cx := marginX + col*colSpace + colSpace/2
		cy := marginY + row*rowSpace + rowSpace/2
		fillCircle(m, cx, cy, dotR)
	}
	return m
}

func fillCircle(m *Mask, cx, cy int, radius float64) {
	r2 := radius * radius
	lo, hi := int(float64(cx)-radius-1), int(float64(cx)+radius+1)
	loY, hiY := int(float64(cy)-radius-1), int(float64(cy)+radius+1)
	for y := loY; y <= hiY; y++ {
		for x := lo; x <= hi; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			if dx*dx+dy*dy <= r2 {
				m.set(x, y, 255)
			}
		}
	}
}

// sextantTable maps U+1FB00..U+1FB3B to a 6-bit mask over a 2x3 grid:
// bit layout (col,row): bit0=(0,0) bit1=(1,0) bit2=(0,1) bit3=(1,1)
// bit4=(0,2) bit5=(1,2), matching the Unicode legacy computing block's
// canonical ordering (sextant 1 = bit0 .. sextant 6 = bit5).
func drawSextant(r rune, cellW, cellH int) *Mask {
	mask := sextantBits(r)
	if mask < 0 {
		return nil
	}
	m := newMask(cellW, cellH)
	colW := cellW / 2
	rowH := cellH / 3
	for bit := 0; bit < 6; bit++ {
		if mask&(1<<bit) == 0 {
			continue
		}
		col := bit % 2
		row := bit / 2
		x0, y0 := col*colW, row*rowH
		x1, y1 := x0+colW, y0+rowH
		if col == 1 {
			x1 = cellW
		}
		if row == 2 {
			y1 = cellH
		}
		m.fillRect(x0, y0, x1, y1)
	}
	return m
}

// sextantBits encodes the contiguous Unicode run U+1FB00-1FB3B, which skips
// the two codepoints already covered by U+258C (left half) and U+2590
// (right half) at mask values 0x15 and 0x2A.
func sextantBits(r rune) int {
	if r < 0x1FB00 || r > 0x1FB3B {
		return -1
	}
	offset := int(r - 0x1FB00)
	// masks 0x15 (left column) and 0x2A (right column) are the two gaps
	// Unicode left to the pre-existing half-block characters.
	mask := offset + 1
	if mask >= 0x15 {
		mask++
	}
	if mask >= 0x2A {
		mask++
	}
	return mask
}

// drawLegacyWedge handles the legacy computing range U+1FB70-1FB9B. Only
// the vertical one-eighth bars U+1FB70-1FB75 are drawn; every other
// codepoint in the range returns nil and falls back to the glyph cache.
func drawLegacyWedge(r rune, cellW, cellH int) *Mask {
	m := newMask(cellW, cellH)
	switch r {
	case 0x1FB70: // vertical one eighth block-2
		m.fillRect(cellW/8, 0, 2*cellW/8, cellH)
	case 0x1FB71:
		m.fillRect(2*cellW/8, 0, 3*cellW/8, cellH)
	case 0x1FB72:
		m.fillRect(3*cellW/8, 0, 4*cellW/8, cellH)
	case 0x1FB73:
		m.fillRect(4*cellW/8, 0, 5*cellW/8, cellH)
	case 0x1FB74:
		m.fillRect(5*cellW/8, 0, 6*cellW/8, cellH)
	case 0x1FB75:
		m.fillRect(6*cellW/8, 0, 7*cellW/8, cellH)
	default:
		return nil
	}
	return m
}

// Package render implements the frame coordinator described in spec §4.7: a
// per-row worker pool rasterizes every cell of every row into a pixel buffer
// obtained from a Surface collaborator, after applying scroll damage and
// compositing placed sixel images. Cells are repainted whether or not they
// are dirty; dirty flags are only cleared once the frame is presented.
package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"runtime"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/semaphore"

	"github.com/coreterm/coreterm"
	"github.com/coreterm/coreterm/boxdraw"
	"github.com/coreterm/coreterm/glyphcache"
)

// Options configures a Coordinator.
type Options struct {
	// Workers is the number of concurrent per-row rasterization jobs.
	// Defaults to hardware concurrency - 1, per §4.7 step 5.
	Workers int

	CellWidth  int
	CellHeight int

	Face    font.Face
	Palette *[256]color.RGBA

	DefaultFG color.RGBA
	DefaultBG color.RGBA

	BoxDrawing boxdraw.Options
}

func (o *Options) setDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU() - 1
		if o.Workers < 1 {
			o.Workers = 1
		}
	}
	if o.Face == nil {
		o.Face = basicfont.Face7x13
	}
	if o.CellWidth == 0 || o.CellHeight == 0 {
		adv, _ := o.Face.GlyphAdvance('M')
		o.CellWidth = adv.Ceil()
		o.CellHeight = o.Face.Metrics().Height.Ceil()
	}
	if o.Palette == nil {
		o.Palette = &coreterm.DefaultPalette
	}
	if o.BoxDrawing.DPI == 0 {
		o.BoxDrawing = boxdraw.DefaultOptions()
	}
}

// Coordinator drives one frame's worth of rasterization for a Terminal,
// reusing a glyph cache and a bounded worker pool across frames.
type Coordinator struct {
	opts   Options
	glyphs *glyphcache.Cache
	sem    *semaphore.Weighted

	prevWidth, prevHeight int
	lastFrame             *image.RGBA
}

// New creates a Coordinator. A zero Options rasterizes with basicfont at
// hardware-concurrency-1 workers.
func New(opts Options) *Coordinator {
	opts.setDefaults()
	return &Coordinator{
		opts:   opts,
		glyphs: glyphcache.New(),
		sem:    semaphore.NewWeighted(int64(opts.Workers)),
	}
}

// RenderFrame performs one full frame per §4.7's 8 steps and presents it via
// surface.
func (c *Coordinator) RenderFrame(term *coreterm.Terminal, surface coreterm.Surface) error {
	buf, err := surface.Acquire()
	if err != nil {
		return err
	}
	img := &image.RGBA{Pix: buf.Data, Stride: buf.Stride, Rect: image.Rect(0, 0, buf.Width, buf.Height)}

	c.repair(img, buf)
	term.SyncSelectionHighlight()

	var dirtyRects [][4]int
	dirtyRects = append(dirtyRects, c.applyScrollDamage(term, img)...)

	c.compositeSixels(term, img)

	rows := term.Rows()
	dirty := c.dispatchRowJobs(term, img, rows)
	dirtyRects = append(dirtyRects, dirty...)

	c.drawCursor(term, img)

	if err := surface.Present(buf, dirtyRects); err != nil {
		return err
	}

	term.ClearDirty()
	c.lastFrame = img
	c.prevWidth, c.prevHeight = buf.Width, buf.Height
	return nil
}

// repair implements §4.7 step 2: copy forward the last presented buffer
// when the surface handed back an older one, or force a full repaint if
// geometry changed or there is no prior frame.
func (c *Coordinator) repair(img *image.RGBA, buf coreterm.SurfaceBuffer) {
	if c.lastFrame == nil || buf.Width != c.prevWidth || buf.Height != c.prevHeight {
		draw.Draw(img, img.Bounds(), image.NewUniform(c.opts.DefaultBG), image.Point{}, draw.Src)
		return
	}
	if buf.Age >= 1 {
		draw.Draw(img, img.Bounds(), c.lastFrame, image.Point{}, draw.Src)
	}
}

// applyScrollDamage implements §4.7 step 3: blit each queued scroll region
// by its row delta, then clear the freshly exposed band.
func (c *Coordinator) applyScrollDamage(term *coreterm.Terminal, img *image.RGBA) [][4]int {
	var rects [][4]int
	ch := c.opts.CellHeight

	for _, d := range term.DrainDamage() {
		top := d.Top * ch
		bottom := d.Bottom * ch
		rect := image.Rect(0, top, img.Bounds().Dx(), bottom)

		switch d.Kind {
		case coreterm.DamageScroll:
			shift := d.Lines * ch
			src := rect.Add(image.Pt(0, shift))
			draw.Draw(img, rect, img, src.Min, draw.Src)
			exposed := image.Rect(0, bottom-shift, img.Bounds().Dx(), bottom)
			draw.Draw(img, exposed, image.NewUniform(c.opts.DefaultBG), image.Point{}, draw.Src)
		case coreterm.DamageScrollReverse:
			shift := d.Lines * ch
			src := rect.Add(image.Pt(0, -shift))
			draw.Draw(img, rect, img, src.Min, draw.Src)
			exposed := image.Rect(0, top, img.Bounds().Dx(), top+shift)
			draw.Draw(img, exposed, image.NewUniform(c.opts.DefaultBG), image.Point{}, draw.Src)
		}
		rects = append(rects, [4]int{0, top, img.Bounds().Dx(), bottom})
	}
	return rects
}

// compositeSixels implements §4.7 step 4: paint sixel images before the
// per-row glyph pass so cell borders can overpaint them.
func (c *Coordinator) compositeSixels(term *coreterm.Terminal, img *image.RGBA) {
	cw, ch := c.opts.CellWidth, c.opts.CellHeight
	for _, sx := range term.Sixels() {
		liveRow := term.LiveRow(sx.Row)
		if liveRow+sx.Rows <= 0 || liveRow >= term.Rows() {
			continue
		}
		src := &image.RGBA{Pix: sx.Data, Stride: sx.PixelWidth * 4, Rect: image.Rect(0, 0, sx.PixelWidth, sx.PixelHeight)}
		y := liveRow * ch
		dst := image.Rect(sx.Col*cw, y, sx.Col*cw+sx.PixelWidth, y+sx.PixelHeight)
		op := draw.Over
		if sx.Opaque {
			op = draw.Src
		}
		draw.Draw(img, dst, src, image.Point{}, op)
	}
}

// rowJob is one unit of per-row rasterization work.
type rowJob struct {
	row int
}

// dispatchRowJobs implements §4.7 step 5: N workers rasterize disjoint rows
// concurrently, synchronized by a weighted semaphore rendezvous (the Go
// equivalent of the spec's job-queue mutex + counting semaphore pair).
func (c *Coordinator) dispatchRowJobs(term *coreterm.Terminal, img *image.RGBA, rows int) [][4]int {
	var mu sync.Mutex
	var dirty [][4]int
	var wg sync.WaitGroup

	ctx := context.Background()
	for row := 0; row < rows; row++ {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			continue
		}
		wg.Add(1)
		go func(job rowJob) {
			defer c.sem.Release(1)
			defer wg.Done()
			rect := c.renderRow(term, img, job.row)
			if rect != nil {
				mu.Lock()
				dirty = append(dirty, *rect)
				mu.Unlock()
			}
		}(rowJob{row: row})
	}
	wg.Wait()
	return dirty
}

func (c *Coordinator) renderRow(term *coreterm.Terminal, img *image.RGBA, row int) *[4]int {
	cw, ch := c.opts.CellWidth, c.opts.CellHeight
	cols := term.Cols()
	painted := false

	for col := 0; col < cols; col++ {
		cell := term.Cell(row, col)
		if cell == nil || cell.IsWideSpacer() {
			continue
		}
		x, y := col*cw, row*ch
		fg, bg := c.resolveColors(cell)

		draw.Draw(img, image.Rect(x, y, x+cw, y+ch), image.NewUniform(bg), image.Point{}, draw.Src)
		painted = true

		glyphText := string(cell.Char)
		if cell.IsGrapheme() {
			glyphText = string(term.Grapheme(cell.Grapheme))
		}
		if runes := []rune(glyphText); len(runes) == 1 && runes[0] != 0 && runes[0] != ' ' {
			if mask := boxdraw.Render(runes[0], cw, ch, c.opts.BoxDrawing); mask != nil {
				drawMask(img, x, y, mask, fg)
			} else if g, ok := c.glyphs.Get(c.opts.Face, runes[0]); ok {
				draw.DrawMask(img, image.Rect(x, y, x+cw, y+ch), image.NewUniform(fg), image.Point{}, g.Mask, image.Point{}, draw.Over)
			} else {
				d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: c.opts.Face, Dot: fixed.P(x, y+c.opts.Face.Metrics().Ascent.Ceil())}
				d.DrawString(glyphText)
			}
		} else if len(runes) > 1 {
			d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: c.opts.Face, Dot: fixed.P(x, y+c.opts.Face.Metrics().Ascent.Ceil())}
			d.DrawString(glyphText)
		}

		if cell.HasFlag(coreterm.CellFlagUnderline) {
			underlineY := y + ch - 2
			for px := 0; px < cw; px++ {
				img.Set(x+px, underlineY, fg)
			}
		}
		if cell.HasFlag(coreterm.CellFlagStrike) {
			strikeY := y + ch/2
			for px := 0; px < cw; px++ {
				img.Set(x+px, strikeY, fg)
			}
		}
	}

	if !painted {
		return nil
	}
	return &[4]int{0, row * ch, cols * cw, row*ch + ch}
}

func (c *Coordinator) resolveColors(cell *coreterm.Cell) (fg, bg color.RGBA) {
	fg = c.opts.DefaultFG
	bg = c.opts.DefaultBG
	if idx, ok := cell.Fg.(*coreterm.IndexedColor); ok && idx.Index >= 0 && idx.Index < 256 {
		fg = c.opts.Palette[idx.Index]
	} else if rgba, ok := cell.Fg.(color.RGBA); ok {
		fg = rgba
	}
	if idx, ok := cell.Bg.(*coreterm.IndexedColor); ok && idx.Index >= 0 && idx.Index < 256 {
		bg = c.opts.Palette[idx.Index]
	} else if rgba, ok := cell.Bg.(color.RGBA); ok {
		bg = rgba
	}
	if cell.HasFlag(coreterm.CellFlagReverse) || cell.HasFlag(coreterm.CellFlagSelected) {
		fg, bg = bg, fg
	}
	if cell.HasFlag(coreterm.CellFlagDim) {
		fg = color.RGBA{R: uint8(float64(fg.R) * 0.66), G: uint8(float64(fg.G) * 0.66), B: uint8(float64(fg.B) * 0.66), A: fg.A}
	}
	return fg, bg
}

// drawMask paints a boxdraw.Mask at (x, y) in the given color, used instead
// of the font rasterizer for procedurally-synthesized glyphs.
func drawMask(dst *image.RGBA, x, y int, mask *boxdraw.Mask, fg color.RGBA) {
	for my := 0; my < mask.Height; my++ {
		for mx := 0; mx < mask.Width; mx++ {
			a := mask.Pix[my*mask.Width+mx]
			if a == 0 {
				continue
			}
			dst.Set(x+mx, y+my, color.RGBA{R: fg.R, G: fg.G, B: fg.B, A: a})
		}
	}
}

// drawCursor implements §4.7 step 6: paint the cursor cell inverted (the
// teacher's screenshot.go convention) if visible.
func (c *Coordinator) drawCursor(term *coreterm.Terminal, img *image.RGBA) {
	if !term.CursorVisible() {
		return
	}
	row, col := term.CursorPos()
	cw, ch := c.opts.CellWidth, c.opts.CellHeight
	x, y := col*cw, row*ch
	for py := 0; py < ch; py++ {
		for px := 0; px < cw; px++ {
			cx, cy := x+px, y+py
			if !(image.Pt(cx, cy).In(img.Bounds())) {
				continue
			}
			existing := img.RGBAAt(cx, cy)
			img.Set(cx, cy, color.RGBA{R: 255 - existing.R, G: 255 - existing.G, B: 255 - existing.B, A: 255})
		}
	}
}

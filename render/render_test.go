package render

import (
	"testing"

	"github.com/coreterm/coreterm"
)

type fakeSurface struct {
	buf       coreterm.SurfaceBuffer
	presented bool
	damage    [][4]int
}

func newFakeSurface(w, h int) *fakeSurface {
	return &fakeSurface{
		buf: coreterm.SurfaceBuffer{
			Data:   make([]byte, w*h*4),
			Width:  w,
			Height: h,
			Stride: w * 4,
		},
	}
}

func (f *fakeSurface) Acquire() (coreterm.SurfaceBuffer, error) { return f.buf, nil }

func (f *fakeSurface) Present(buf coreterm.SurfaceBuffer, damage [][4]int) error {
	f.buf = buf
	f.buf.Age = 1
	f.presented = true
	f.damage = damage
	return nil
}

func TestRenderFramePresentsBuffer(t *testing.T) {
	term := coreterm.New(coreterm.WithSize(4, 10))
	term.WriteString("hi")

	c := New(Options{CellWidth: 8, CellHeight: 16})
	surf := newFakeSurface(80, 64)

	if err := c.RenderFrame(term, surf); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if !surf.presented {
		t.Fatal("expected Present to be called")
	}
}

func TestRenderFrameSecondPassReusesPriorBuffer(t *testing.T) {
	term := coreterm.New(coreterm.WithSize(4, 10))
	term.WriteString("hello")

	c := New(Options{CellWidth: 8, CellHeight: 16})
	surf := newFakeSurface(80, 64)

	if err := c.RenderFrame(term, surf); err != nil {
		t.Fatalf("first RenderFrame: %v", err)
	}
	term.WriteString(" world")
	if err := c.RenderFrame(term, surf); err != nil {
		t.Fatalf("second RenderFrame: %v", err)
	}
}

func TestRenderFrameHandlesScrollDamage(t *testing.T) {
	term := coreterm.New(coreterm.WithSize(3, 10))
	c := New(Options{CellWidth: 8, CellHeight: 16})
	surf := newFakeSurface(80, 48)

	for i := 0; i < 10; i++ {
		term.WriteString("line\r\n")
	}

	if err := c.RenderFrame(term, surf); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
}

package coreterm

// --- PTY ---

// PTY is the child-process side of the terminal: bytes read from it drive
// the VT parser, bytes written to it carry input encoded by the input
// encoder. Implementations typically wrap a pseudo-terminal master fd.
type PTY interface {
	// Read blocks until PTY output is available.
	Read(p []byte) (n int, err error)
	// Write sends encoded input (keys, mouse events, paste) to the child.
	Write(p []byte) (n int, err error)
	// Resize notifies the child of a terminal size change (TIOCSWINSZ).
	Resize(rows, cols, pixelWidth, pixelHeight int) error
}

// --- Surface ---

// SurfaceBuffer is one pixel buffer acquired from a Surface for a frame.
// Age is the number of frames since this buffer was last presented (0 if
// brand new), used by the render coordinator's age-based repair (§4.7).
type SurfaceBuffer struct {
	Data   []byte
	Width  int
	Height int
	Stride int
	Age    int
}

// Surface hands out pixel buffers for the render coordinator to paint into
// and presents them back to the windowing system (or test harness).
type Surface interface {
	// Acquire returns the next buffer to paint into.
	Acquire() (SurfaceBuffer, error)
	// Present submits a painted buffer, with damage as a list of dirty
	// rectangles in pixel coordinates (x0, y0, x1, y1 per rectangle).
	Present(buf SurfaceBuffer, damage [][4]int) error
}

// --- Font ---

// Font resolves a codepoint (plus style flags) to an advance width and
// leaves actual rasterization to the glyphcache/boxdraw packages.
type Font interface {
	// Advance returns the pen advance, in pixels, for r.
	Advance(r rune, bold, italic bool) (pixels int, ok bool)
	// Metrics returns the font's line height and ascent, in pixels.
	Metrics() (height, ascent int)
}

// --- Input ---

// InputSink receives encoded key/mouse/paste byte sequences for delivery
// to the PTY. Separated from PTY so an input encoder can be tested without
// a real child process.
type InputSink interface {
	Send(data []byte) error
}

// --- Clipboard ---

// SystemClipboard is the OS-level clipboard backing OSC 52 and the
// bracketed-paste/selection-copy user actions. ClipboardProvider (above,
// in providers.go) is the VT-facing collaborator; SystemClipboard is what
// a real implementation of it typically wraps.
type SystemClipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

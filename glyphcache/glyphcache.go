// Package glyphcache rasterizes glyphs on first use and keeps them keyed by
// (font face, codepoint) for the lifetime of the face. Glyphs are shared by
// reference with renderers and are never mutated after creation.
package glyphcache

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Key identifies one rasterized glyph slot.
type Key struct {
	Face font.Face
	Char rune
}

// Glyph is an immutable rasterized glyph: an alpha mask plus the metrics
// needed to position it relative to a cell's pen position.
type Glyph struct {
	Mask    *image.Alpha
	Bounds  image.Rectangle // mask's placement relative to the glyph origin
	Advance fixed.Int26_6
}

// Cache maps (face, rune) to a lazily-rasterized Glyph. The first caller to
// miss a slot rasterizes it while holding the cache's mutex; concurrent
// requests for the same slot block rather than racing, and requests for
// other slots are unaffected once the miss resolves.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*Glyph
}

// New creates an empty glyph cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]*Glyph)}
}

// Get returns the rasterized glyph for (face, r), rasterizing and caching it
// on first request. ok is false if the face has no glyph for r.
func (c *Cache) Get(face font.Face, r rune) (glyph *Glyph, ok bool) {
	key := Key{Face: face, Char: r}

	c.mu.Lock()
	defer c.mu.Unlock()

	if g, found := c.entries[key]; found {
		return g, g != nil
	}

	g, rasterized := rasterize(face, r)
	if !rasterized {
		c.entries[key] = nil
		return nil, false
	}
	c.entries[key] = g
	return g, true
}

// Evict drops every cached glyph for a face (e.g. on font reload).
func (c *Cache) Evict(face font.Face) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Face == face {
			delete(c.entries, k)
		}
	}
}

func rasterize(face font.Face, r rune) (*Glyph, bool) {
	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, false
	}

	alpha := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			alpha.SetAlpha(x, y, color.Alpha{A: uint8(a >> 8)})
		}
	}

	return &Glyph{
		Mask:    alpha,
		Bounds:  dr,
		Advance: advance,
	}, true
}

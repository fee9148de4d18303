package glyphcache

import (
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestGetRasterizesOnFirstMiss(t *testing.T) {
	c := New()
	g, ok := c.Get(basicfont.Face7x13, 'A')
	if !ok {
		t.Fatal("expected basicfont to have a glyph for 'A'")
	}
	if g.Mask == nil {
		t.Fatal("expected a non-nil mask")
	}
}

func TestGetReturnsCachedGlyphOnSecondCall(t *testing.T) {
	c := New()
	first, _ := c.Get(basicfont.Face7x13, 'B')
	second, _ := c.Get(basicfont.Face7x13, 'B')
	if first != second {
		t.Fatal("expected the same *Glyph pointer on cache hit")
	}
}

func TestEvictDropsAllEntriesForFace(t *testing.T) {
	c := New()
	c.Get(basicfont.Face7x13, 'C')
	c.Evict(basicfont.Face7x13)
	if len(c.entries) != 0 {
		t.Fatalf("expected 0 entries after evict, got %d", len(c.entries))
	}
}

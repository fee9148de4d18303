package boxdraw

import "testing"

func TestRenderUnknownCodepointReturnsNil(t *testing.T) {
	if m := Render('A', 10, 20, DefaultOptions()); m != nil {
		t.Fatalf("expected nil for non-box-drawing rune, got %v", m)
	}
}

func TestHorizontalLineFillsMiddleRow(t *testing.T) {
	m := Render(0x2500, 10, 20, DefaultOptions())
	if m == nil {
		t.Fatal("expected a mask for U+2500")
	}
	cy := 20 / 2
	on := false
	for x := 0; x < m.Width; x++ {
		if m.Pix[cy*m.Width+x] > 0 {
			on = true
		}
	}
	if !on {
		t.Fatal("expected coverage along the middle row")
	}
}

func TestFullBlockCoversEntireCell(t *testing.T) {
	m := Render(0x2588, 8, 16, DefaultOptions())
	for i, v := range m.Pix {
		if v != 255 {
			t.Fatalf("pixel %d not fully covered: %d", i, v)
		}
	}
}

func TestBrailleAllDotsProducesCoverage(t *testing.T) {
	m := Render(0x28FF, 8, 16, DefaultOptions())
	if m == nil {
		t.Fatal("expected a mask for full braille cell")
	}
	var total int
	for _, v := range m.Pix {
		if v > 0 {
			total++
		}
	}
	if total == 0 {
		t.Fatal("expected some dot coverage")
	}
}

func TestSextantBitsSkipsHalfBlockGaps(t *testing.T) {
	mask := sextantBits(0x1FB00)
	if mask != 1 {
		t.Fatalf("got mask %d, want 1 for first sextant glyph", mask)
	}
	// U+1FB14 would be mask 0x15 (left half block) without the skip.
	if mask := sextantBits(0x1FB14); mask != 0x16 {
		t.Fatalf("got mask %#x for U+1FB14, want 0x16", mask)
	}
	// U+1FB28 would be mask 0x2A (right half block) without the skip.
	if mask := sextantBits(0x1FB28); mask != 0x2B {
		t.Fatalf("got mask %#x for U+1FB28, want 0x2b", mask)
	}
}

func TestThicknessIsAtLeastOnePixel(t *testing.T) {
	light, heavy := Thickness(1, 1, Options{ThicknessFraction: 0.0001, DPI: 96, Scale: 1})
	if light < 1 || heavy < light {
		t.Fatalf("got light=%d heavy=%d, want light>=1 and heavy>=light", light, heavy)
	}
}

func TestDiagonalProducesCoverage(t *testing.T) {
	m := Render(0x2571, 12, 24, DefaultOptions())
	if m == nil {
		t.Fatal("expected a mask for diagonal glyph")
	}
	var total int
	for _, v := range m.Pix {
		if v > 0 {
			total++
		}
	}
	if total == 0 {
		t.Fatal("expected some diagonal coverage")
	}
}

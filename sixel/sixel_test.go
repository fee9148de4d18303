package sixel

import "testing"

func TestParseSimpleColumn(t *testing.T) {
	// '~' = 0x7E, bits = 0x7E-'?' = 63 = all six pixels set, color 1 (blue).
	img := Parse([]int64{0, 0, 1}, []byte("#1~"))
	if img.Width != 1 || img.Height != 6 {
		t.Fatalf("got %dx%d, want 1x6", img.Width, img.Height)
	}
	for y := 0; y < 6; y++ {
		off := y * 4
		if img.Data[off+2] == 0 {
			t.Errorf("row %d: expected blue channel set", y)
		}
	}
}

func TestRepeatIntroducer(t *testing.T) {
	img := Parse(nil, []byte("#1!4~"))
	if img.Width != 4 {
		t.Fatalf("got width %d, want 4", img.Width)
	}
}

func TestCarriageReturnAndNewline(t *testing.T) {
	img := Parse(nil, []byte("#1~~$#1~-#1~~~"))
	if img.Height != 12 {
		t.Fatalf("got height %d, want 12 (two bands)", img.Height)
	}
}

func TestColorDefinitionRGB(t *testing.T) {
	img := Parse(nil, []byte("#2;2;100;0;0#2~"))
	off := 0
	if img.Data[off+0] != 255 || img.Data[off+1] != 0 || img.Data[off+2] != 0 {
		t.Fatalf("got rgba %v, want pure red", img.Data[:4])
	}
}

func TestEmptyPayloadProducesEmptyImage(t *testing.T) {
	img := Parse(nil, nil)
	if img.Width != 0 || img.Height != 0 {
		t.Fatalf("expected empty image, got %dx%d", img.Width, img.Height)
	}
}

func TestTransparentBackground(t *testing.T) {
	img := Parse([]int64{0, 1, 0}, []byte("#1~"))
	if !img.Transparent {
		t.Fatal("expected transparent image when P2=1")
	}
}

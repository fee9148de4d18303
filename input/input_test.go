package input

import "testing"

func TestEncodeRuneAltPrefixesEscape(t *testing.T) {
	got := EncodeRune('a', Modifiers{Alt: true})
	want := []byte{0x1b, 'a'}
	if string(got) != string(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeArrowNormalMode(t *testing.T) {
	got := EncodeArrow(ArrowUp, Modifiers{}, CursorKeysNormal)
	if string(got) != "\x1b[A" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeArrowApplicationMode(t *testing.T) {
	got := EncodeArrow(ArrowUp, Modifiers{}, CursorKeysApplication)
	if string(got) != "\x1bOA" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeArrowWithModifier(t *testing.T) {
	got := EncodeArrow(ArrowRight, Modifiers{Shift: true}, CursorKeysNormal)
	if string(got) != "\x1b[1;2C" {
		t.Fatalf("got %q, want shift modifier code 2", got)
	}
}

func TestEncodeFunctionKeyF1UsesSS3(t *testing.T) {
	got := EncodeFunctionKey(1, Modifiers{})
	if string(got) != "\x1bOP" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeFunctionKeyF5UsesTilde(t *testing.T) {
	got := EncodeFunctionKey(5, Modifiers{})
	if string(got) != "\x1b[15~" {
		t.Fatalf("got %q", got)
	}
}

func TestBracketedPasteWrapsPayload(t *testing.T) {
	got := BracketedPaste([]byte("hi"))
	want := "\x1b[200~hi\x1b[201~"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeMouseSuppressesWheelRelease(t *testing.T) {
	if got := EncodeMouse(MouseWheelUp, 1, 1, Modifiers{}, false, MouseEncodingSGR); got != nil {
		t.Fatalf("expected nil for wheel release, got %q", got)
	}
}

func TestEncodeMouseSGRPressAndRelease(t *testing.T) {
	press := EncodeMouse(MouseLeft, 5, 10, Modifiers{}, true, MouseEncodingSGR)
	if string(press) != "\x1b[<0;5;10M" {
		t.Fatalf("got %q", press)
	}
	release := EncodeMouse(MouseLeft, 5, 10, Modifiers{}, false, MouseEncodingSGR)
	if string(release) != "\x1b[<0;5;10m" {
		t.Fatalf("got %q", release)
	}
}

func TestClipboardSetProducesOSC52(t *testing.T) {
	got := ClipboardSet([]byte("hi"))
	if len(got) == 0 {
		t.Fatal("expected a non-empty OSC 52 sequence")
	}
}

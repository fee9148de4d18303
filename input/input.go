// Package input encodes key and mouse events into the byte sequences a
// terminal's child process expects on its PTY, plus clipboard (OSC 52) and
// bracketed-paste framing.
package input

import (
	"fmt"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Modifiers is the set of modifier keys held during an input event.
type Modifiers struct {
	Shift, Alt, Ctrl, Meta bool
}

// code computes the CSI modifier parameter: 1 + shift + 2*alt + 4*ctrl + 8*meta.
func (m Modifiers) code() int {
	n := 1
	if m.Shift {
		n += 1
	}
	if m.Alt {
		n += 2
	}
	if m.Ctrl {
		n += 4
	}
	if m.Meta {
		n += 8
	}
	return n
}

func (m Modifiers) any() bool {
	return m.Shift || m.Alt || m.Ctrl || m.Meta
}

// CursorKeysMode selects between normal and application arrow-key encoding
// (DECCKM).
type CursorKeysMode int

const (
	CursorKeysNormal CursorKeysMode = iota
	CursorKeysApplication
)

// KeypadMode selects between normal and application keypad encoding (DECKPAM).
type KeypadMode int

const (
	KeypadNormal KeypadMode = iota
	KeypadApplication
)

// ModifyOtherKeys selects the encoding level for special keys (xterm's
// modifyOtherKeys resource): 0 disables the extended encoding, 1 and 2
// widen which keys get modifier-aware sequences.
type ModifyOtherKeys int

// EncodeRune encodes a printable character, prefixing ESC when Alt is held.
func EncodeRune(r rune, mods Modifiers) []byte {
	out := []byte(string(r))
	if mods.Alt {
		out = append([]byte{0x1b}, out...)
	}
	return out
}

// ArrowKey identifies one of the four arrow keys.
type ArrowKey int

const (
	ArrowUp ArrowKey = iota
	ArrowDown
	ArrowRight
	ArrowLeft
)

var arrowLetter = map[ArrowKey]byte{
	ArrowUp: 'A', ArrowDown: 'B', ArrowRight: 'C', ArrowLeft: 'D',
}

// EncodeArrow encodes an arrow key, honoring cursor-keys mode and splicing
// in a modifier parameter when any modifier is held.
func EncodeArrow(key ArrowKey, mods Modifiers, cursorKeys CursorKeysMode) []byte {
	letter := arrowLetter[key]
	if mods.any() {
		return []byte(fmt.Sprintf("\x1b[1;%d%c", mods.code(), letter))
	}
	if cursorKeys == CursorKeysApplication {
		return []byte{0x1b, 'O', letter}
	}
	return []byte{0x1b, '[', letter}
}

// functionKeyCode is the xterm CSI-~ terminal code for F1-F24 (F1-F4 use
// the letter-form SS3 sequence instead and are handled separately).
var functionKeyCode = map[int]int{
	1: 11, 2: 12, 3: 13, 4: 14, 5: 15, 6: 17, 7: 18, 8: 19, 9: 20, 10: 21,
	11: 23, 12: 24, 13: 25, 14: 26, 15: 28, 16: 29, 17: 31, 18: 32, 19: 33,
	20: 34, 21: 35, 22: 36, 23: 37, 24: 38,
}

var functionKeyLetter = map[int]byte{1: 'P', 2: 'Q', 3: 'R', 4: 'S'}

// EncodeFunctionKey encodes F1-F24 with the modifier-splicing rule of §4.3.
func EncodeFunctionKey(n int, mods Modifiers) []byte {
	if letter, ok := functionKeyLetter[n]; ok && !mods.any() {
		return []byte{0x1b, 'O', letter}
	}
	code, ok := functionKeyCode[n]
	if !ok {
		return nil
	}
	if mods.any() {
		return []byte(fmt.Sprintf("\x1b[%d;%d~", code, mods.code()))
	}
	return []byte(fmt.Sprintf("\x1b[%d~", code))
}

// EncodeKeypad encodes a keypad key's application-mode SS3 form; in normal
// mode the keypad sends its ordinary printable glyph instead (the caller
// should prefer EncodeRune there).
func EncodeKeypad(letter byte, mods Modifiers, keypad KeypadMode) []byte {
	if keypad != KeypadApplication {
		return []byte{letter}
	}
	if mods.any() {
		return []byte(fmt.Sprintf("\x1bO%d;%d%c", 1, mods.code(), letter))
	}
	return []byte{0x1b, 'O', letter}
}

// SpecialKey identifies the non-printable keys with a dedicated §4.3 table.
type SpecialKey int

const (
	KeyReturn SpecialKey = iota
	KeyBackspace
	KeyTab
	KeyISOLeftTab
	KeyEscape
	KeyDelete
	KeyHome
	KeyEnd
	KeyInsert
	KeyPageUp
	KeyPageDown
)

var specialLegacy = map[SpecialKey][]byte{
	KeyReturn:    {'\r'},
	KeyBackspace: {0x7f},
	KeyTab:       {'\t'},
	KeyISOLeftTab: {0x1b, '[', 'Z'},
	KeyEscape:    {0x1b},
	KeyDelete:    {0x1b, '[', '3', '~'},
	KeyHome:      {0x1b, '[', 'H'},
	KeyEnd:       {0x1b, '[', 'F'},
	KeyInsert:    {0x1b, '[', '2', '~'},
	KeyPageUp:    {0x1b, '[', '5', '~'},
	KeyPageDown:  {0x1b, '[', '6', '~'},
}

// specialCSIu is the CSI u numeric key code used by the modifyOtherKeys
// level-2 encoding (`CSI 27;m;k ~`).
var specialCSIu = map[SpecialKey]int{
	KeyReturn: 13, KeyBackspace: 127, KeyTab: 9, KeyISOLeftTab: 9,
	KeyEscape: 27,
}

// EncodeSpecial encodes Return/Backspace/Tab/ISO_Left_Tab and friends. With
// no modifiers and modifyOtherKeys level 0, the legacy byte(s) are sent
// unconditionally; level 2 (or any modifier held) switches to the
// `CSI 27;m;k~` form for the keys present in specialCSIu.
func EncodeSpecial(key SpecialKey, mods Modifiers, modify ModifyOtherKeys) []byte {
	legacy, hasLegacy := specialLegacy[key]
	code, hasCSIu := specialCSIu[key]

	if !mods.any() && modify < 2 {
		if hasLegacy {
			return legacy
		}
		return nil
	}
	if hasCSIu {
		return []byte(fmt.Sprintf("\x1b[27;%d;%d~", mods.code(), code))
	}
	if hasLegacy {
		return legacy
	}
	return nil
}

// BracketedPaste wraps pasted data in the bracketed-paste start/end markers.
func BracketedPaste(data []byte) []byte {
	out := make([]byte, 0, len(data)+12)
	out = append(out, "\x1b[200~"...)
	out = append(out, data...)
	out = append(out, "\x1b[201~"...)
	return out
}

// ClipboardSet encodes an OSC 52 sequence that sets the system clipboard to
// data, base64-encoded by the go-osc52 library.
func ClipboardSet(data []byte) []byte {
	return []byte(osc52.New(string(data)).String())
}

// ClipboardQuery encodes an OSC 52 query sequence (base64 payload "?"),
// asking the terminal to report the current clipboard contents.
func ClipboardQuery() []byte {
	return []byte(osc52.New("").Query().String())
}

// MouseButton is an X-style mouse button/wheel identifier.
type MouseButton int

const (
	MouseLeft MouseButton = iota + 1
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseButton8
	MouseButton9
)

func (b MouseButton) code() int {
	switch b {
	case MouseWheelUp, MouseWheelDown:
		return int(b-MouseWheelUp) + 64
	case MouseButton8, MouseButton9:
		return int(b-MouseButton8) + 128
	default:
		return int(b) - 1
	}
}

func (b MouseButton) isWheel() bool {
	return b == MouseWheelUp || b == MouseWheelDown
}

// MouseEncoding selects the wire format for mouse events.
type MouseEncoding int

const (
	MouseEncodingNormal MouseEncoding = iota
	MouseEncodingSGR
	MouseEncodingURXVT
)

// EncodeMouse encodes a mouse button event at 1-based terminal coordinates
// (x, y). Release events for wheel buttons are suppressed per §4.3, since
// wheel "clicks" have no corresponding release.
func EncodeMouse(btn MouseButton, x, y int, mods Modifiers, pressed bool, encoding MouseEncoding) []byte {
	if !pressed && btn.isWheel() {
		return nil
	}

	code := btn.code()
	if mods.Shift {
		code += 4
	}
	if mods.Alt {
		code += 8
	}
	if mods.Ctrl {
		code += 16
	}

	switch encoding {
	case MouseEncodingSGR:
		final := byte('M')
		if !pressed {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", code, x, y, final))
	case MouseEncodingURXVT:
		return []byte(fmt.Sprintf("\x1b[%d;%d;%dM", code+32, x, y))
	default:
		return []byte{0x1b, '[', 'M', byte(code + 32), byte(x + 33), byte(y + 33)}
	}
}

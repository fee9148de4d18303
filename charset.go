package coreterm

// decSpecialGraphics is the VT100 DEC Special Graphics charset, designated
// into G0-G3 by "ESC ( 0" and friends. It remaps the printable ASCII range
// 0x41-0x7E; codepoints with no special glyph pass through unchanged, so
// they are omitted here rather than listed as identity entries.
var decSpecialGraphics = map[rune]rune{
	0x5f: ' ',      // blank
	0x60: '◆',      // diamond
	0x61: '▒',      // checkerboard
	0x62: '␉',      // HT
	0x63: '␌',      // FF
	0x64: '␍',      // CR
	0x65: '␊',      // LF
	0x66: '°',      // degree
	0x67: '±',      // plus/minus
	0x68: '␤',      // NL
	0x69: '␋',      // VT
	0x6a: '┘',      // lower right corner
	0x6b: '┐',      // upper right corner
	0x6c: '┌',      // upper left corner
	0x6d: '└',      // lower left corner
	0x6e: '┼',      // crossing lines
	0x6f: '⎺',      // horizontal scan line 1
	0x70: '⎻',      // horizontal scan line 3
	0x71: '─',      // horizontal scan line 5
	0x72: '⎼',      // horizontal scan line 7
	0x73: '⎽',      // horizontal scan line 9
	0x74: '├',      // left tee
	0x75: '┤',      // right tee
	0x76: '┴',      // bottom tee
	0x77: '┬',      // top tee
	0x78: '│',      // vertical line
	0x79: '≤',      // less than or equal
	0x7a: '≥',      // greater than or equal
	0x7b: 'π',      // pi
	0x7c: '≠',      // not equal
	0x7d: '£',      // pound sign
	0x7e: '·',      // centered dot
}

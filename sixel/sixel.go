// Package sixel implements the DECSIXEL graphics sub-language: a nested
// mini-parser carried inside a DCS payload that paints an RGBA raster.
package sixel

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// state is one of the four DECSIXEL sub-states.
type state int

const (
	stateSixel state = iota // DECSIXEL: normal painting
	stateRaster              // DECGRA: "pan;pad;ph;pv raster attributes
	stateRepeat              // DECGRI: !<count> repeat introducer
	stateColor               // DECGCI: #<idx>[;type;v1;v2;v3] color select/define
)

const maxWidth = 16384
const maxHeight = 16384

// Image is the RGBA raster produced by a fully parsed DECSIXEL payload.
type Image struct {
	Width       int
	Height      int
	Data        []byte // RGBA, Width*Height*4
	Transparent bool
}

// Parser holds the incremental state of one DECSIXEL payload. Feed it the
// full DCS body in one call via Parse, or incrementally via any number of
// Feed calls followed by Finish — both are exposed
// because go-ansicode hands the whole payload to SixelReceived in one
// shot, but the state machine itself is defined byte-by-byte per spec.
type Parser struct {
	st state

	palette     [256]color.RGBA
	colorIndex  int
	x, y        int
	maxX, maxY  int
	pan, pad    int
	declaredW   int
	declaredH   int
	pixels      map[int]map[int]color.RGBA
	transparent bool
}

// NewParser creates a parser with the default 256-entry VGA/grayscale
// palette, per §6's "default palette of 256 entries initialized to a
// hardcoded table".
func NewParser() *Parser {
	p := &Parser{pixels: make(map[int]map[int]color.RGBA)}
	p.initDefaultPalette()
	return p
}

func (p *Parser) initDefaultPalette() {
	vga := []color.RGBA{
		{0, 0, 0, 255}, {0, 0, 205, 255}, {205, 0, 0, 255}, {205, 0, 205, 255},
		{0, 205, 0, 255}, {0, 205, 205, 255}, {205, 205, 0, 255}, {205, 205, 205, 255},
		{0, 0, 0, 255}, {0, 0, 255, 255}, {255, 0, 0, 255}, {255, 0, 255, 255},
		{0, 255, 0, 255}, {0, 255, 255, 255}, {255, 255, 0, 255}, {255, 255, 255, 255},
	}
	copy(p.palette[:], vga)
	for i := 16; i < 256; i++ {
		gray := uint8((i - 16) * 255 / 239)
		p.palette[i] = color.RGBA{R: gray, G: gray, B: gray, A: 255}
	}
}

// Parse parses a full DECSIXEL payload (P1;P2;...;Pn q <body>) given the
// already-split leading parameters and the body after 'q'. P2 (background
// select) controls whether unset pixels are transparent.
func Parse(params []int64, body []byte) *Image {
	p := NewParser()
	if len(params) >= 2 && params[1] == 1 {
		p.transparent = true
	}
	p.Feed(body)
	return p.Finish()
}

// Feed runs the four-state machine over a chunk of DECSIXEL body bytes.
// It may be called multiple times (DCS PUT actions); state persists.
func (p *Parser) Feed(data []byte) {
	i := 0
	for i < len(data) {
		b := data[i]
		switch p.st {
		case stateSixel:
			i = p.stepSixel(data, i, b)
		case stateRaster:
			i = p.stepRaster(data, i)
		case stateRepeat:
			i = p.stepRepeat(data, i)
		case stateColor:
			i = p.stepColor(data, i)
		}
	}
}

func (p *Parser) stepSixel(data []byte, i int, b byte) int {
	switch {
	case b == '$':
		p.x = 0
		return i + 1
	case b == '-':
		p.x = 0
		p.y += 6
		return i + 1
	case b == '!':
		p.st = stateRepeat
		return i + 1
	case b == '"':
		p.st = stateRaster
		return i + 1
	case b == '#':
		p.st = stateColor
		return i + 1
	case b >= '?' && b <= '~':
		p.paintColumn(b, 1)
		return i + 1
	default:
		return i + 1
	}
}

func (p *Parser) stepRepeat(data []byte, i int) int {
	count, j := parseNumber(data, i)
	if count <= 0 {
		count = 1
	}
	if j < len(data) && data[j] >= '?' && data[j] <= '~' {
		p.paintColumn(data[j], int(count))
		j++
	}
	p.st = stateSixel
	return j
}

func (p *Parser) stepRaster(data []byte, i int) int {
	// "Pan;Pad;Ph;Pv — read up to four ;-separated decimal fields.
	var fields [4]int64
	n := 0
	j := i
	for n < 4 {
		v, nj := parseNumber(data, j)
		fields[n] = v
		n++
		j = nj
		if j < len(data) && data[j] == ';' {
			j++
			continue
		}
		break
	}
	if n >= 2 {
		p.pan, p.pad = int(fields[0]), int(fields[1])
	}
	if n >= 4 {
		p.declaredW, p.declaredH = int(fields[2]), int(fields[3])
	}
	p.st = stateSixel
	return j
}

func (p *Parser) stepColor(data []byte, i int) int {
	colorNum, j := parseNumber(data, i)
	if j < len(data) && data[j] == ';' {
		j++
		colorType, nj := parseNumber(data, j)
		j = nj
		var v1, v2, v3 int64
		if j < len(data) && data[j] == ';' {
			j++
			v1, j = parseNumber(data, j)
		}
		if j < len(data) && data[j] == ';' {
			j++
			v2, j = parseNumber(data, j)
		}
		if j < len(data) && data[j] == ';' {
			j++
			v3, j = parseNumber(data, j)
		}
		if colorNum >= 0 && colorNum < 256 {
			if colorType == 1 {
				p.palette[colorNum] = hlsToRGB(int(v1), int(v2), int(v3))
			} else {
				p.palette[colorNum] = color.RGBA{
					R: uint8(v1 * 255 / 100),
					G: uint8(v2 * 255 / 100),
					B: uint8(v3 * 255 / 100),
					A: 255,
				}
			}
		}
	}
	if colorNum >= 0 && colorNum < 256 {
		p.colorIndex = int(colorNum)
	}
	p.st = stateSixel
	return j
}

func parseNumber(data []byte, i int) (int64, int) {
	var n int64
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		n = n*10 + int64(data[i]-'0')
		i++
	}
	return n, i
}

func (p *Parser) paintColumn(b byte, count int) {
	if count <= 0 {
		count = 1
	}
	bits := b - '?'
	c := p.palette[p.colorIndex]

	for r := 0; r < count; r++ {
		if p.x >= maxWidth || p.y >= maxHeight {
			p.x++
			continue
		}
		for bit := 0; bit < 6; bit++ {
			if bits&(1<<bit) == 0 {
				continue
			}
			py := p.y + bit
			px := p.x
			if p.pixels[py] == nil {
				p.pixels[py] = make(map[int]color.RGBA)
			}
			p.pixels[py][px] = c
			if px > p.maxX {
				p.maxX = px
			}
			if py > p.maxY {
				p.maxY = py
			}
		}
		p.x++
	}
}

// Finish materializes the accumulated pixels into an RGBA image, rounding
// height up to the next multiple of six (a sixel band) as the spec's
// "power-of-6 row rounding" describes.
func (p *Parser) Finish() *Image {
	if len(p.pixels) == 0 {
		return &Image{}
	}

	width := p.maxX + 1
	height := p.maxY + 1
	if p.declaredW > width {
		width = p.declaredW
	}
	if p.declaredH > height {
		height = p.declaredH
	}
	height = ((height + 5) / 6) * 6

	data := make([]byte, width*height*4)
	if !p.transparent {
		bg := p.palette[0]
		for i := 0; i < width*height; i++ {
			data[i*4+0] = bg.R
			data[i*4+1] = bg.G
			data[i*4+2] = bg.B
			data[i*4+3] = bg.A
		}
	}

	for y, row := range p.pixels {
		if y < 0 || y >= height {
			continue
		}
		for x, c := range row {
			if x < 0 || x >= width {
				continue
			}
			off := (y*width + x) * 4
			data[off+0] = c.R
			data[off+1] = c.G
			data[off+2] = c.B
			data[off+3] = c.A
		}
	}

	return &Image{Width: width, Height: height, Data: data, Transparent: p.transparent}
}

// hlsToRGB converts sixel's non-standard HLS (hue 0-360 with blue=0,
// red=120, green=240; lightness/saturation 0-100) to RGB, via go-colorful
// for the underlying HSL math.
func hlsToRGB(h, l, s int) color.RGBA {
	hNorm := float64(h) / 360.0
	hNorm += 2.0 / 3.0 // rotate sixel's blue-first wheel to red-first (blue at 240)
	if hNorm >= 1.0 {
		hNorm -= 1.0
	}
	c := colorful.Hsl(hNorm*360.0, float64(s)/100.0, float64(l)/100.0)
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Package video composites the board's tile and sprite layers into an
// RGBA frame and resolves palette PROM bytes through the resistor network
// the hardware uses for color output.
package video

// Entries is the number of palette PROM slots.
const Entries = 32

// The DAC is a weighted resistor ladder. Each color channel sums fixed
// contributions per source bit:
//
//	bit 7 -- 220 ohm -- BLUE
//	bit 6 -- 470 ohm -- BLUE
//	bit 5 -- 220 ohm -- GREEN
//	bit 4 -- 470 ohm -- GREEN
//	bit 3 -- 1 kohm  -- GREEN
//	bit 2 -- 220 ohm -- RED
//	bit 1 -- 470 ohm -- RED
//	bit 0 -- 1 kohm  -- RED
const (
	weight1k  = 0x21
	weight470 = 0x47
	weight220 = 0x97
)

// Palette holds the 32 resolved RGBA colors. Entries update one at a
// time as the PROM bytes are stored, never in bulk.
type Palette struct {
	colors [Entries][4]uint8
}

// NewPalette returns a palette with every entry resolved from a zero
// source byte, which is opaque black.
func NewPalette() *Palette {
	p := &Palette{}
	for i := range p.colors {
		p.Set(i, 0)
	}
	return p
}

// Set resolves one PROM byte into its RGBA entry.
func (p *Palette) Set(index int, value uint8) {
	r := (value>>0&1)*weight1k + (value>>1&1)*weight470 + (value>>2&1)*weight220
	g := (value>>3&1)*weight1k + (value>>4&1)*weight470 + (value>>5&1)*weight220
	b := (value>>6&1)*weight470 + (value>>7&1)*weight220
	p.colors[index&(Entries-1)] = [4]uint8{r, g, b, 0xFF}
}

// RGBA returns the resolved color for one entry.
func (p *Palette) RGBA(index int) (r, g, b, a uint8) {
	c := p.colors[index&(Entries-1)]
	return c[0], c[1], c[2], c[3]
}

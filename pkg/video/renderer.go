package video

// Screen geometry. The visible tilemap is 28x36 tiles but rows are laid
// out in memory with a 32-column stride; the rightmost 4 columns per row
// are never shown.
const (
	Width  = 224
	Height = 288

	TileSize    = 8
	TileBytes   = 8 // stored size of one glyph
	TileColumns = 28
	TileRows    = 36
	tileStride  = 32

	SpriteSize  = 16
	SpriteSlots = 8

	// spriteBytes mirrors the 16-byte descriptor stride of the image
	// store. Quadrant addressing may run past a single image; lookups
	// wrap within the store.
	spriteBytes = 16

	// spriteXAdjust shifts sprite hardware coordinates onto the visible
	// area.
	spriteXAdjust = 16

	// topPrioritySlot wins every overlap. Slots draw in descending
	// order so the lowest index lands on top.
	topPrioritySlot = 0
)

// Board is the read access the compositor borrows from the machine for
// the duration of one Render call.
type Board interface {
	TileRAM() []uint8
	ColorRAM() []uint8
	TileData() []uint8
	SpriteData() []uint8
	SpriteDescriptor(slot int) (attr, color uint8)
	SpriteCoord(slot int) (x, y uint8)
	FlipScreen() bool
}

// Renderer composites one full frame into an owned RGBA buffer.
type Renderer struct {
	palette *Palette
	pix     []uint8
	debug   bool
}

// NewRenderer returns a renderer drawing through the given palette.
func NewRenderer(palette *Palette) *Renderer {
	return &Renderer{
		palette: palette,
		pix:     make([]uint8, Width*Height*4),
	}
}

// Pixels returns the RGBA frame buffer, 4 bytes per pixel in row-major
// order. The renderer retains ownership; the contents are valid until
// the next Render call.
func (r *Renderer) Pixels() []uint8 { return r.pix }

// SetDebug toggles the tile grid and sprite box overlay.
func (r *Renderer) SetDebug(enabled bool) { r.debug = enabled }

// Render composites the tile layer and the 8 sprites into the frame
// buffer. Only set glyph bits are drawn; unset bits leave the backdrop
// visible, so sprites never punch black holes into the tilemap.
func (r *Renderer) Render(b Board) {
	for i := 0; i < len(r.pix); i += 4 {
		r.pix[i] = 0
		r.pix[i+1] = 0
		r.pix[i+2] = 0
		r.pix[i+3] = 0xFF
	}

	flip := b.FlipScreen()

	tileRAM := b.TileRAM()
	colorRAM := b.ColorRAM()
	tiles := b.TileData()
	for ty := 0; ty < TileRows; ty++ {
		for tx := 0; tx < TileColumns; tx++ {
			cell := ty*tileStride + tx
			x, y := tx*TileSize, ty*TileSize
			if flip {
				x = (TileColumns - 1 - tx) * TileSize
				y = (TileRows - 1 - ty) * TileSize
			}
			r.drawTile(x, y, tiles, tileRAM[cell], colorRAM[cell])
		}
	}

	for slot := SpriteSlots - 1; slot >= topPrioritySlot; slot-- {
		attr, color := b.SpriteDescriptor(slot)
		hx, hy := b.SpriteCoord(slot)

		code := int(attr >> 2)
		flipX := attr&0x02 != 0
		flipY := attr&0x01 != 0
		x := int(hx) - spriteXAdjust
		y := int(hy)

		if flip {
			x = Width - x - SpriteSize
			y = Height - y - SpriteSize
			flipX = !flipX
			flipY = !flipY
		}

		if x <= -SpriteSize || x >= Width || y <= -SpriteSize || y >= Height {
			continue
		}
		r.drawSprite(x, y, b.SpriteData(), code, color&0x3F, flipX, flipY)
	}

	if r.debug {
		r.drawOverlay(b)
	}
}

func (r *Renderer) drawTile(x, y int, tiles []uint8, code, attr uint8) {
	glyph := tiles[int(code)*TileBytes : int(code)*TileBytes+TileBytes]
	cr, cg, cb, ca := r.palette.RGBA(int(attr & 0x0F))
	for cy := 0; cy < TileSize; cy++ {
		row := glyph[cy]
		if row == 0 {
			continue
		}
		for cx := 0; cx < TileSize; cx++ {
			if row&(0x80>>cx) != 0 {
				r.setPixel(x+cx, y+cy, cr, cg, cb, ca)
			}
		}
	}
}

// drawSprite walks the 16x16 image as four 8x8 quadrants. The mirror is
// applied to the source lookup before quadrant selection, so flipped
// sprites reuse the straight iteration over screen pixels.
func (r *Renderer) drawSprite(x, y int, data []uint8, code int, color uint8, flipX, flipY bool) {
	cr, cg, cb, ca := r.palette.RGBA(int(color & 0x0F))
	base := code * spriteBytes
	for sy := 0; sy < SpriteSize; sy++ {
		oy := sy
		if flipY {
			oy = SpriteSize - 1 - sy
		}
		quadRow, row := oy/8, oy%8
		for sx := 0; sx < SpriteSize; sx++ {
			ox := sx
			if flipX {
				ox = SpriteSize - 1 - sx
			}
			quadCol, col := ox/8, ox%8

			quad := quadRow*2 + quadCol
			bits := data[(base+quad*8+row)&(len(data)-1)]
			if bits&(0x80>>col) != 0 {
				r.setPixel(x+sx, y+sy, cr, cg, cb, ca)
			}
		}
	}
}

func (r *Renderer) setPixel(x, y int, cr, cg, cb, ca uint8) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	i := (y*Width + x) * 4
	r.pix[i] = cr
	r.pix[i+1] = cg
	r.pix[i+2] = cb
	r.pix[i+3] = ca
}

// drawOverlay paints tile grid lines and a box around each sprite that
// is at least partially on screen.
func (r *Renderer) drawOverlay(b Board) {
	for y := 0; y < Height; y += TileSize {
		for x := 0; x < Width; x++ {
			r.setPixel(x, y, 0xFF, 0, 0, 0xFF)
		}
	}
	for x := 0; x < Width; x += TileSize {
		for y := 0; y < Height; y++ {
			r.setPixel(x, y, 0xFF, 0, 0, 0xFF)
		}
	}

	for slot := 0; slot < SpriteSlots; slot++ {
		hx, hy := b.SpriteCoord(slot)
		x := int(hx) - spriteXAdjust
		y := int(hy)
		if x <= -SpriteSize || x >= Width || y <= -SpriteSize || y >= Height {
			continue
		}
		for i := 0; i < SpriteSize; i++ {
			r.setPixel(x+i, y, 0, 0xFF, 0, 0xFF)
			r.setPixel(x+i, y+SpriteSize-1, 0, 0xFF, 0, 0xFF)
			r.setPixel(x, y+i, 0, 0xFF, 0, 0xFF)
			r.setPixel(x+SpriteSize-1, y+i, 0, 0xFF, 0, 0xFF)
		}
	}
}

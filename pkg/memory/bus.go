// Package memory implements the board's address decoder: four fixed storage
// windows, the graphics ROMs, the palette PROM and the 256-entry hardware
// register bank, all behind one flat 16-bit address space.
package memory

// Address map. The windows cover the space completely; anything above the
// I/O window reads as the idle bus value.
const (
	ROMSize      = 0x4000 // four 0x1000 program segments
	TileRAMSize  = 0x0400
	ColorRAMSize = 0x0400
	WorkRAMSize  = 0x0800

	ROMEnd        = 0x3FFF
	TileRAMStart  = 0x4000
	TileRAMEnd    = 0x43FF
	ColorRAMStart = 0x4400
	ColorRAMEnd   = 0x47FF
	WorkRAMStart  = 0x4800
	WorkRAMEnd    = 0x4FFF
	IOStart       = 0x5000
	IOEnd         = 0x50FF

	// The top 16 bytes of work RAM hold the 8 two-byte sprite descriptors.
	SpriteRAMOffset = WorkRAMSize - 16

	// idleBus is what a floating data bus reads as on this board.
	idleBus = 0xFF
)

// Hardware register offsets inside the I/O bank.
const (
	PortIn0  = 0x00 // read: player 1 / coin / service (active low)
	PortIn1  = 0x40 // read: player 2 (active low)
	PortDSW1 = 0x80 // read: DIP switch bank 1
	PortDSW2 = 0xC0 // read: DIP switch bank 2

	RegInterruptEnable = 0x00
	RegSoundEnable     = 0x01
	RegFlipScreen      = 0x03
	RegLamp1           = 0x04
	RegLamp2           = 0x05
	RegCoinLockout     = 0x06
	RegCoinCounter     = 0x07
	RegSoundVoiceBase  = 0x40 // 32-byte sound voice sub-block
	RegSpriteCoordBase = 0x60 // 16-byte x/y pairs for the 8 sprites
	RegWatchdog        = 0xC0 // write: watchdog reset trigger
)

const (
	// TileBytes is the stored size of one 8x8 glyph (one byte per row).
	TileBytes = 8
	// SpriteBytes is the stored size of one 16x16 sprite image.
	SpriteBytes = 16
	// PaletteEntries is the size of the palette PROM.
	PaletteEntries = 32
)

// Bus owns every storage region for the process lifetime; callers only
// borrow access during a call. Not safe for concurrent use.
type Bus struct {
	rom      [ROMSize]uint8
	tileRAM  [TileRAMSize]uint8
	colorRAM [ColorRAMSize]uint8
	workRAM  [WorkRAMSize]uint8
	ports    [256]uint8

	tiles      [256 * TileBytes]uint8
	sprites    [64 * SpriteBytes]uint8
	paletteROM [PaletteEntries]uint8

	interruptEnable bool
	soundEnable     bool
	flipScreen      bool
	lamp1, lamp2    bool
	coinLockout     bool
	coinCounter     bool

	soundVoices [32]uint8
	watchdog    uint32

	// OnPaletteWrite is invoked for every palette PROM byte stored, so the
	// resolved color table can be updated per entry and never in bulk.
	OnPaletteWrite func(index int, value uint8)
}

// New returns a bus with all regions cleared and program storage filled
// with the idle bus value, the same pattern unpopulated ROM sockets read.
func New() *Bus {
	b := &Bus{}
	for i := range b.rom {
		b.rom[i] = idleBus
	}
	return b
}

// Reset clears the volatile regions and register latches. ROM and the
// graphics stores survive, as on the real board.
func (b *Bus) Reset() {
	b.tileRAM = [TileRAMSize]uint8{}
	b.colorRAM = [ColorRAMSize]uint8{}
	b.workRAM = [WorkRAMSize]uint8{}
	b.ports = [256]uint8{}
	b.soundVoices = [32]uint8{}
	b.interruptEnable = false
	b.soundEnable = false
	b.flipScreen = false
	b.lamp1 = false
	b.lamp2 = false
	b.coinLockout = false
	b.coinCounter = false
	b.watchdog = 0
}

// Read decodes addr into its region. Unmapped addresses float to 0xFF.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= ROMEnd:
		return b.rom[addr]
	case addr <= TileRAMEnd:
		return b.tileRAM[addr-TileRAMStart]
	case addr <= ColorRAMEnd:
		return b.colorRAM[addr-ColorRAMStart]
	case addr <= WorkRAMEnd:
		return b.workRAM[addr-WorkRAMStart]
	case addr >= IOStart && addr <= IOEnd:
		return b.readIO(uint8(addr))
	default:
		return idleBus
	}
}

// Write decodes addr into its region. Writes into ROM are silently
// discarded; that is the hardware behavior, not an error.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr <= ROMEnd:
		// read-only
	case addr <= TileRAMEnd:
		b.tileRAM[addr-TileRAMStart] = value
	case addr <= ColorRAMEnd:
		b.colorRAM[addr-ColorRAMStart] = value
	case addr <= WorkRAMEnd:
		b.workRAM[addr-WorkRAMStart] = value
	case addr >= IOStart && addr <= IOEnd:
		b.writeIO(uint8(addr), value)
	}
}

// In routes the Z80's port input instructions into the register bank.
func (b *Bus) In(port uint8) uint8 {
	return b.readIO(port)
}

// Out routes the Z80's port output instructions into the register bank.
func (b *Bus) Out(port uint8, value uint8) {
	b.writeIO(port, value)
}

func (b *Bus) readIO(offset uint8) uint8 {
	return b.ports[offset]
}

// writeIO stores the byte in the bank and applies the register's side
// effect. The interrupt-enable and watchdog registers are write-only:
// reads of their offsets return the IN0 and DSW2 latches, which the
// writes must not disturb.
func (b *Bus) writeIO(offset uint8, value uint8) {
	switch {
	case offset == RegInterruptEnable:
		b.interruptEnable = value&0x01 != 0
		return
	case offset == RegSoundEnable:
		b.soundEnable = value&0x01 != 0
	case offset == RegFlipScreen:
		b.flipScreen = value&0x01 != 0
	case offset == RegLamp1:
		b.lamp1 = value&0x01 != 0
	case offset == RegLamp2:
		b.lamp2 = value&0x01 != 0
	case offset == RegCoinLockout:
		b.coinLockout = value&0x01 != 0
	case offset == RegCoinCounter:
		b.coinCounter = value&0x01 != 0
	case offset == RegWatchdog:
		b.watchdog = 0
		return
	case offset >= RegSoundVoiceBase && offset < RegSoundVoiceBase+32:
		b.soundVoices[offset-RegSoundVoiceBase] = value
	}
	b.ports[offset] = value
}

// SetInputPorts latches the per-frame input snapshot. Both ports are
// active low: a zero bit means the control is engaged.
func (b *Bus) SetInputPorts(in0, in1 uint8) {
	b.ports[PortIn0] = in0
	b.ports[PortIn1] = in1
}

// SetDipSwitches latches the two DIP switch banks.
func (b *Bus) SetDipSwitches(dsw1, dsw2 uint8) {
	b.ports[PortDSW1] = dsw1
	b.ports[PortDSW2] = dsw2
}

// Latched hardware state, for collaborators driving lamps, counters and
// audio externally.

func (b *Bus) InterruptEnabled() bool { return b.interruptEnable }
func (b *Bus) SoundEnabled() bool     { return b.soundEnable }
func (b *Bus) FlipScreen() bool       { return b.flipScreen }
func (b *Bus) Lamp1() bool            { return b.lamp1 }
func (b *Bus) Lamp2() bool            { return b.lamp2 }
func (b *Bus) CoinLockout() bool      { return b.coinLockout }
func (b *Bus) CoinCounter() bool      { return b.coinCounter }

// SoundVoices returns the captured sound-voice register block. The
// registers are latched but never sonified here.
func (b *Bus) SoundVoices() [32]uint8 { return b.soundVoices }

// SpriteCoord returns the screen x/y latched for sprite slot 0..7.
func (b *Bus) SpriteCoord(slot int) (x, y uint8) {
	base := RegSpriteCoordBase + slot*2
	return b.ports[base], b.ports[base+1]
}

// SpriteDescriptor returns the two descriptor bytes for slot 0..7 from the
// top of work RAM.
func (b *Bus) SpriteDescriptor(slot int) (attr, color uint8) {
	base := SpriteRAMOffset + slot*2
	return b.workRAM[base], b.workRAM[base+1]
}

// TickWatchdog advances the watchdog frame counter and returns its new
// value. A write to the watchdog register clears it.
func (b *Bus) TickWatchdog() uint32 {
	b.watchdog++
	return b.watchdog
}

// Borrowed read views for the compositor. Callers must not retain the
// slices across frames; the bus remains the sole owner.

func (b *Bus) TileRAM() []uint8    { return b.tileRAM[:] }
func (b *Bus) ColorRAM() []uint8   { return b.colorRAM[:] }
func (b *Bus) TileData() []uint8   { return b.tiles[:] }
func (b *Bus) SpriteData() []uint8 { return b.sprites[:] }

// LoadROM copies one program segment into the read-only store at offset.
// Short data is padded with 0xFF up to size, decoding as RST 38h.
func (b *Bus) LoadROM(offset int, data []uint8, size int) {
	for i := 0; i < size; i++ {
		if i < len(data) {
			b.rom[offset+i] = data[i]
		} else {
			b.rom[offset+i] = idleBus
		}
	}
}

// LoadTileData replaces the stored tile glyphs.
func (b *Bus) LoadTileData(data []uint8) {
	copy(b.tiles[:], data)
}

// LoadSpriteData replaces the stored sprite images.
func (b *Bus) LoadSpriteData(data []uint8) {
	copy(b.sprites[:], data)
}

// WritePaletteSource stores one palette PROM byte and notifies the
// resolved-color hook.
func (b *Bus) WritePaletteSource(index int, value uint8) {
	b.paletteROM[index] = value
	if b.OnPaletteWrite != nil {
		b.OnPaletteWrite(index, value)
	}
}

// PaletteSource returns the raw PROM byte for one entry.
func (b *Bus) PaletteSource(index int) uint8 {
	return b.paletteROM[index]
}

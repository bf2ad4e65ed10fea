package machine

import (
	"fmt"
	"os"
	"path/filepath"

	"gopac/pkg/memory"
	"gopac/pkg/video"
)

// Program segment size. The four program images map back to back into
// the read-only window.
const segmentSize = 0x1000

// Raw graphics image size on disk. Glyph records are 16 bytes each; only
// the first 8 carry the rows the compositor uses.
const (
	gfxImageSize     = 0x1000
	glyphRecordBytes = 16
)

// Standard image names of the board's ROM set.
const (
	fileProgram1 = "pacman.6e"
	fileProgram2 = "pacman.6f"
	fileProgram3 = "pacman.6h"
	fileProgram4 = "pacman.6j"
	fileTiles    = "pacman.5e"
	fileSprites  = "pacman.5f"
	filePalette  = "82s123.7f"
)

// ROMSet holds the raw images of one board. Nil optional images (tiles,
// sprites, palette) leave the corresponding store untouched.
type ROMSet struct {
	Program [4][]uint8
	Tiles   []uint8
	Sprites []uint8
	Palette []uint8
}

// ReadROMSet loads a ROM set from a directory using the standard image
// names. The four program images are required; graphics and palette
// images are optional so that test programs run without them.
func ReadROMSet(dir string) (ROMSet, error) {
	var set ROMSet
	for i, name := range []string{fileProgram1, fileProgram2, fileProgram3, fileProgram4} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return ROMSet{}, fmt.Errorf("reading program image %s: %w", name, err)
		}
		set.Program[i] = data
	}
	set.Tiles = readOptional(dir, fileTiles)
	set.Sprites = readOptional(dir, fileSprites)
	set.Palette = readOptional(dir, filePalette)
	return set, nil
}

func readOptional(dir, name string) []uint8 {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil
	}
	return data
}

// Load installs a ROM set into the machine. Short program images are
// padded with 0xFF, which executes as RST 38h if reached. Glyph records
// are reduced from their 16-byte disk layout to the 8 stored rows.
func (m *Machine) Load(set ROMSet) {
	for i, data := range set.Program {
		m.bus.LoadROM(i*segmentSize, data, segmentSize)
	}

	if set.Tiles != nil {
		const glyphs = gfxImageSize / glyphRecordBytes
		tiles := make([]uint8, glyphs*video.TileBytes)
		for glyph := 0; glyph < glyphs; glyph++ {
			for row := 0; row < video.TileBytes; row++ {
				src := glyph*glyphRecordBytes + row
				if src < len(set.Tiles) {
					tiles[glyph*video.TileBytes+row] = set.Tiles[src]
				}
			}
		}
		m.bus.LoadTileData(tiles)
	}

	if set.Sprites != nil {
		m.bus.LoadSpriteData(set.Sprites)
	}

	if set.Palette != nil {
		for i := 0; i < memory.PaletteEntries && i < len(set.Palette); i++ {
			m.bus.WritePaletteSource(i, set.Palette[i])
		}
	}
}

// LoadProgram installs raw machine code at the start of the program
// window, for tests and small standalone programs.
func (m *Machine) LoadProgram(code []uint8) {
	m.bus.LoadROM(0, code, segmentSize)
}

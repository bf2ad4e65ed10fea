// Headless front-end: runs the machine for a fixed number of frames and
// writes the final frame as a scaled PNG. Useful for ROM smoke tests and
// capturing screenshots without a display.
package main

import (
	"flag"
	"image"
	"image/png"
	"os"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/draw"

	"gopac/pkg/machine"
	"gopac/pkg/video"
)

func main() {
	romDir := flag.String("roms", "roms", "directory containing the ROM set")
	frames := flag.Int("frames", 600, "number of frames to run")
	out := flag.String("out", "frame.png", "output PNG path")
	scale := flag.Int("scale", 2, "output scale factor")
	coin := flag.Bool("coin", false, "hold the coin switch for the first second")
	flag.Parse()

	logger := log.NewWithConfig(log.DefaultConfig())

	set, err := machine.ReadROMSet(*romDir)
	if err != nil {
		logger.Error("Loading ROM set failed", log.Err(err))
		os.Exit(1)
	}

	m := machine.New(machine.DefaultConfig(), logger)
	m.Load(set)

	for i := 0; i < *frames; i++ {
		m.SetInputs(machine.InputState{Coin: *coin && i < 60})
		m.RunFrame()
	}
	logger.Info("Run finished",
		log.Int("frames", int(m.Frames())),
		log.Uint16("pc", m.CPU().PC()))

	if err := writeFrame(*out, m.Pixels(), *scale); err != nil {
		logger.Error("Writing frame failed", log.Err(err))
		os.Exit(1)
	}
	logger.Info("Frame written", log.String("path", *out))
}

// writeFrame scales the RGBA buffer with nearest-neighbor sampling to
// keep the pixel edges crisp and encodes it as PNG.
func writeFrame(path string, pixels []uint8, scale int) error {
	src := image.NewRGBA(image.Rect(0, 0, video.Width, video.Height))
	copy(src.Pix, pixels)

	dst := image.NewRGBA(image.Rect(0, 0, video.Width*scale, video.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

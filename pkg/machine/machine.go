// Package machine assembles the board: the Z80, the address decoder, the
// palette and the compositor, stepped one video frame at a time.
package machine

import (
	"github.com/retroenv/retrogolib/log"

	"gopac/pkg/memory"
	"gopac/pkg/video"
	"gopac/pkg/z80"
)

// CyclesPerFrame is one 60 Hz frame of the 3.072 MHz board clock.
const CyclesPerFrame = 50000

// vblankData is the byte the interrupt controller jams on the bus at
// vertical blank. Under interrupt mode 1 it is ignored; under mode 0 it
// decodes as RST 38h and under mode 2 it selects the vector table slot.
const vblankData = 0xFF

// Config carries the tunable machine parameters.
type Config struct {
	CyclesPerFrame uint64

	// WatchdogEnabled resets the machine when the program stops
	// strobing the watchdog register, as the board's supervisor
	// circuit does.
	WatchdogEnabled bool
	// WatchdogLimit is the number of frames without a strobe before
	// the reset fires.
	WatchdogLimit uint32

	// DSW1 and DSW2 are the DIP switch bank settings latched at
	// power-on.
	DSW1, DSW2 uint8
}

// DefaultConfig returns the stock board configuration. The watchdog is
// off so that partial programs are debuggable without reset storms.
func DefaultConfig() Config {
	return Config{
		CyclesPerFrame:  CyclesPerFrame,
		WatchdogEnabled: false,
		WatchdogLimit:   8,
		DSW1:            0xC9, // 1 coin/credit, 3 lives, bonus at 10000
		DSW2:            0x00,
	}
}

// Machine is the whole board. Not safe for concurrent use; drive it from
// a single goroutine.
type Machine struct {
	cfg    Config
	logger *log.Logger

	cpu      *z80.Z80
	bus      *memory.Bus
	palette  *video.Palette
	renderer *video.Renderer

	inputs InputState
	frames uint64
}

// New wires up a machine with empty program storage.
func New(cfg Config, logger *log.Logger) *Machine {
	bus := memory.New()
	palette := video.NewPalette()
	bus.OnPaletteWrite = palette.Set

	m := &Machine{
		cfg:      cfg,
		logger:   logger,
		cpu:      z80.New(bus),
		bus:      bus,
		palette:  palette,
		renderer: video.NewRenderer(palette),
	}
	bus.SetDipSwitches(cfg.DSW1, cfg.DSW2)
	m.inputs = InputState{}
	bus.SetInputPorts(m.inputs.Ports())
	return m
}

// CPU exposes the processor for inspection and tests.
func (m *Machine) CPU() *z80.Z80 { return m.cpu }

// Bus exposes the address decoder.
func (m *Machine) Bus() *memory.Bus { return m.bus }

// Frames returns the number of completed frames since the last reset.
func (m *Machine) Frames() uint64 { return m.frames }

// Pixels returns the RGBA buffer of the most recently rendered frame.
func (m *Machine) Pixels() []uint8 { return m.renderer.Pixels() }

// SetDebugOverlay toggles the compositor's diagnostic overlay.
func (m *Machine) SetDebugOverlay(enabled bool) { m.renderer.SetDebug(enabled) }

// SetInputs latches the control state used for the next frame.
func (m *Machine) SetInputs(state InputState) {
	m.inputs = state
}

// Reset returns the CPU and the volatile bus state to power-on values.
// Loaded ROM and graphics survive.
func (m *Machine) Reset() {
	m.cpu.Reset()
	m.bus.Reset()
	m.bus.SetDipSwitches(m.cfg.DSW1, m.cfg.DSW2)
	m.bus.SetInputPorts(m.inputs.Ports())
	m.frames = 0
	m.logger.Debug("machine reset")
}

// RunFrame executes one frame's worth of CPU work, raises the vertical
// blank interrupt if the program enabled it, services the watchdog and
// composites the frame. It always terminates: a halted CPU with
// interrupts disabled still burns cycles against the budget.
func (m *Machine) RunFrame() {
	m.bus.SetInputPorts(m.inputs.Ports())

	budget := m.cfg.CyclesPerFrame
	if budget == 0 {
		budget = CyclesPerFrame
	}
	var used uint64
	for used < budget {
		used += m.cpu.Step()
	}

	if m.bus.InterruptEnabled() {
		m.cpu.Interrupt(vblankData)
	}

	if count := m.bus.TickWatchdog(); m.cfg.WatchdogEnabled && count >= m.cfg.WatchdogLimit {
		m.logger.Error("watchdog expired, resetting",
			log.Int("frame", int(m.frames)))
		m.Reset()
		return
	}

	m.renderer.Render(m.bus)
	m.frames++
}

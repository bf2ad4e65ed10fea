// Package z80 implements the board's Z80 interpreter: register file, ALU,
// instruction dispatch and the interrupt controller. Memory and port access
// go through the Bus interface so the core carries no hardware knowledge.
package z80

// Bus is the CPU's window onto the outside world. Implementations decode
// addresses into storage regions and hardware registers.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	In(port uint8) uint8
	Out(port uint8, value uint8)
}

// Z80 holds the full register file plus interrupt and halt state. Pairs are
// stored as single uint16 values; use the accessor methods in registers.go
// for the 8-bit halves.
type Z80 struct {
	af, bc, de, hl     uint16
	af2, bc2, de2, hl2 uint16
	ix, iy             uint16
	sp, pc             uint16

	i uint8 // interrupt vector base
	r uint8 // memory refresh counter

	iff1, iff2 bool
	im         uint8 // interrupt mode 0, 1 or 2
	halted     bool

	// EI enables interrupts only after the following instruction has
	// executed; eiShadow defers the first acceptance window.
	eiShadow bool

	irqPending bool
	irqData    uint8 // byte the interrupting device drives onto the bus

	// Cycles is the running total of executed cycles since reset.
	Cycles uint64

	bus Bus
}

// haltCycles is the fixed quantum a halted CPU burns per step.
const haltCycles = 4

// New returns a CPU wired to bus, in the documented reset state.
func New(bus Bus) *Z80 {
	z := &Z80{bus: bus}
	z.Reset()
	return z
}

// Reset applies the hardware reset vector: PC=0, interrupts disabled,
// mode 0. AF and SP come up all-ones as on the real part.
func (z *Z80) Reset() {
	z.af = 0xFFFF
	z.sp = 0xFFFF
	z.pc = 0
	z.i = 0
	z.r = 0
	z.iff1 = false
	z.iff2 = false
	z.im = 0
	z.halted = false
	z.eiShadow = false
	z.irqPending = false
	z.Cycles = 0
}

// PC returns the program counter.
func (z *Z80) PC() uint16 { return z.pc }

// SetPC sets the program counter.
func (z *Z80) SetPC(v uint16) { z.pc = v }

// SP returns the stack pointer.
func (z *Z80) SP() uint16 { return z.sp }

// SetSP sets the stack pointer.
func (z *Z80) SetSP(v uint16) { z.sp = v }

// Halted reports whether the CPU is in the halted macro-state.
func (z *Z80) Halted() bool { return z.halted }

// InterruptMode returns the current interrupt mode (0, 1 or 2).
func (z *Z80) InterruptMode() uint8 { return z.im }

// InterruptsEnabled reports the primary interrupt-enable flip-flop.
func (z *Z80) InterruptsEnabled() bool { return z.iff1 }

// Interrupt latches an interrupt request together with the byte the device
// drives onto the data bus during acknowledge. This board always drives
// 0xFF, but an arbitrary value is accepted.
func (z *Z80) Interrupt(data uint8) {
	z.irqPending = true
	z.irqData = data
}

// Step executes one instruction (or one halted quantum, or one interrupt
// acceptance) and returns the cycles it consumed.
func (z *Z80) Step() uint64 {
	start := z.Cycles

	if z.irqPending && z.iff1 && !z.eiShadow {
		z.acceptInterrupt()
		return z.Cycles - start
	}
	z.eiShadow = false

	if z.halted {
		// No fetch while halted; the refresh counter still ticks.
		z.r = z.r&0x80 | (z.r+1)&0x7F
		z.Cycles += haltCycles
		return z.Cycles - start
	}

	op := z.fetch()
	z.Cycles += uint64(baseCycles[op])
	ops[op](z)

	return z.Cycles - start
}

// acceptInterrupt performs the mode 0/1/2 acknowledge sequence. Both
// flip-flops clear; the handler must re-enable with EI.
func (z *Z80) acceptInterrupt() {
	z.irqPending = false
	z.iff1 = false
	z.iff2 = false
	if z.halted {
		z.halted = false
		z.pc++ // past the HALT opcode
	}
	z.r = z.r&0x80 | (z.r+1)&0x7F

	switch z.im {
	case 0:
		// The device's bus byte is executed as an instruction. This board
		// wires the bus to 0xFF, which is RST 38h; the dispatch below keeps
		// the general case working for any supplied opcode.
		z.Cycles += uint64(baseCycles[z.irqData])
		ops[z.irqData](z)
	case 1:
		z.push(z.pc)
		z.pc = 0x0038
		z.Cycles += 13
	default: // mode 2
		ptr := uint16(z.i)<<8 | uint16(z.irqData)
		target := uint16(z.bus.Read(ptr)) | uint16(z.bus.Read(ptr+1))<<8
		z.push(z.pc)
		z.pc = target
		z.Cycles += 19
	}
}

// fetch reads the opcode byte at PC, advances PC and ticks the refresh
// counter (low 7 bits only, as on hardware).
func (z *Z80) fetch() uint8 {
	op := z.bus.Read(z.pc)
	z.pc++
	z.r = z.r&0x80 | (z.r+1)&0x7F
	return op
}

func (z *Z80) fetchByte() uint8 {
	v := z.bus.Read(z.pc)
	z.pc++
	return v
}

func (z *Z80) fetchWord() uint16 {
	lo := uint16(z.bus.Read(z.pc))
	hi := uint16(z.bus.Read(z.pc + 1))
	z.pc += 2
	return lo | hi<<8
}

func (z *Z80) readWord(addr uint16) uint16 {
	return uint16(z.bus.Read(addr)) | uint16(z.bus.Read(addr+1))<<8
}

func (z *Z80) writeWord(addr uint16, v uint16) {
	z.bus.Write(addr, uint8(v))
	z.bus.Write(addr+1, uint8(v>>8))
}

func (z *Z80) push(v uint16) {
	z.sp -= 2
	z.writeWord(z.sp, v)
}

func (z *Z80) pop() uint16 {
	v := z.readWord(z.sp)
	z.sp += 2
	return v
}

// condition evaluates the 3-bit condition code used by conditional jumps,
// calls and returns: NZ, Z, NC, C, PO, PE, P, M.
func (z *Z80) condition(cc uint8) bool {
	switch cc {
	case 0:
		return !z.flag(FlagZ)
	case 1:
		return z.flag(FlagZ)
	case 2:
		return !z.flag(FlagC)
	case 3:
		return z.flag(FlagC)
	case 4:
		return !z.flag(FlagPV)
	case 5:
		return z.flag(FlagPV)
	case 6:
		return !z.flag(FlagS)
	default:
		return z.flag(FlagS)
	}
}

package z80

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// testBus is flat RAM plus a 256-entry port file, enough to execute any
// instruction sequence.
type testBus struct {
	mem   [0x10000]uint8
	ports [256]uint8
}

func (b *testBus) Read(addr uint16) uint8     { return b.mem[addr] }
func (b *testBus) Write(addr uint16, v uint8) { b.mem[addr] = v }
func (b *testBus) In(port uint8) uint8        { return b.ports[port] }
func (b *testBus) Out(port uint8, v uint8)    { b.ports[port] = v }

func newTestCPU(code ...uint8) (*Z80, *testBus) {
	bus := &testBus{}
	copy(bus.mem[:], code)
	return New(bus), bus
}

func runSteps(z *Z80, n int) {
	for i := 0; i < n; i++ {
		z.Step()
	}
}

func TestAddFlags(t *testing.T) {
	tests := []struct {
		a, n  uint8
		wantA uint8
		wantF uint8
	}{
		{0x44, 0x11, 0x55, 0},
		{0x0F, 0x01, 0x10, FlagH},
		{0x7F, 0x01, 0x80, FlagS | FlagH | FlagPV},
		{0xFF, 0x01, 0x00, FlagZ | FlagH | FlagC},
	}
	for _, tt := range tests {
		z, _ := newTestCPU(0x3E, tt.a, 0xC6, tt.n)
		runSteps(z, 2)
		assert.Equal(t, tt.wantA, z.A())
		assert.Equal(t, tt.wantF, z.F())
	}
}

func TestSubFlags(t *testing.T) {
	tests := []struct {
		a, n  uint8
		wantA uint8
		wantF uint8
	}{
		{0x00, 0x01, 0xFF, FlagS | FlagY | FlagX | FlagH | FlagN | FlagC},
		{0x80, 0x01, 0x7F, FlagY | FlagX | FlagH | FlagPV | FlagN},
		{0x3E, 0x3E, 0x00, FlagZ | FlagN},
	}
	for _, tt := range tests {
		z, _ := newTestCPU(0x3E, tt.a, 0xD6, tt.n)
		runSteps(z, 2)
		assert.Equal(t, tt.wantA, z.A())
		assert.Equal(t, tt.wantF, z.F())
	}
}

// CP computes the same flags as SUB but copies the undocumented X and Y
// bits from the operand, not the result.
func TestCompareUsesOperandXY(t *testing.T) {
	z, _ := newTestCPU(0x3E, 0x00, 0xFE, 0x28)
	runSteps(z, 2)
	assert.Equal(t, uint8(0x00), z.A())
	assert.Equal(t, FlagS|FlagY|FlagX|FlagH|FlagN|FlagC, z.F())
}

func TestLogicalFlags(t *testing.T) {
	// AND always sets H; a zero result has even parity.
	z, _ := newTestCPU(0x3E, 0xF0, 0xE6, 0x0F)
	runSteps(z, 2)
	assert.Equal(t, uint8(0x00), z.A())
	assert.Equal(t, FlagZ|FlagH|FlagPV, z.F())

	// XOR A is the canonical clear: A=0, only Z and PV remain.
	z, _ = newTestCPU(0xAF)
	runSteps(z, 1)
	assert.Equal(t, uint8(0x00), z.A())
	assert.Equal(t, FlagZ|FlagPV, z.F())
}

func TestIncDecPreserveCarry(t *testing.T) {
	z, _ := newTestCPU(0xAF, 0x3E, 0x7F, 0x3C, 0x3D)
	runSteps(z, 4) // XOR A, LD A,7F, INC A
	assert.Equal(t, uint8(0x80), z.A())
	assert.Equal(t, FlagS|FlagH|FlagPV, z.F())

	runSteps(z, 1) // DEC A
	assert.Equal(t, uint8(0x7F), z.A())
	assert.Equal(t, FlagY|FlagX|FlagH|FlagPV|FlagN, z.F())
}

func TestDAA(t *testing.T) {
	// 15 + 27 = 42 in BCD.
	z, _ := newTestCPU(0x3E, 0x15, 0xC6, 0x27, 0x27)
	runSteps(z, 3)
	assert.Equal(t, uint8(0x42), z.A())
	assert.False(t, z.flag(FlagC))

	// 99 + 01 = 00 carry 1.
	z, _ = newTestCPU(0x3E, 0x99, 0xC6, 0x01, 0x27)
	runSteps(z, 3)
	assert.Equal(t, uint8(0x00), z.A())
	assert.True(t, z.flag(FlagC))
	assert.True(t, z.flag(FlagZ))
}

func TestAdd16HalfCarry(t *testing.T) {
	z, _ := newTestCPU(0x21, 0xFF, 0x0F, 0x01, 0x01, 0x00, 0x09)
	runSteps(z, 3)
	assert.Equal(t, uint16(0x1000), z.HL())
	assert.True(t, z.flag(FlagH))
	assert.False(t, z.flag(FlagC))
	assert.False(t, z.flag(FlagN))
}

func TestSBC16(t *testing.T) {
	z, _ := newTestCPU(0xAF, 0x21, 0x00, 0x00, 0x01, 0x01, 0x00, 0xED, 0x42)
	runSteps(z, 4)
	assert.Equal(t, uint16(0xFFFF), z.HL())
	assert.Equal(t, FlagS|FlagY|FlagX|FlagH|FlagN|FlagC, z.F())
}

// The accumulator rotates keep S, Z and PV untouched.
func TestRLCA(t *testing.T) {
	z, _ := newTestCPU(0xAF, 0x3E, 0x80, 0x07)
	runSteps(z, 3)
	assert.Equal(t, uint8(0x01), z.A())
	assert.Equal(t, FlagZ|FlagPV|FlagC, z.F())
}

func TestStack(t *testing.T) {
	z, _ := newTestCPU(0x21, 0x34, 0x12, 0xE5, 0xD1)
	runSteps(z, 3)
	assert.Equal(t, uint16(0x1234), z.DE())
	assert.Equal(t, uint16(0xFFFF), z.SP())
}

func TestExchangeAF(t *testing.T) {
	z, _ := newTestCPU(0x3E, 0x11, 0x08, 0x3E, 0x22, 0x08)
	runSteps(z, 5)
	assert.Equal(t, uint8(0x11), z.A())
}

func TestMemoryLoads(t *testing.T) {
	z, bus := newTestCPU(0x3E, 0x5A, 0x32, 0x00, 0x60, 0x3A, 0x00, 0x60)
	runSteps(z, 2)
	assert.Equal(t, uint8(0x5A), bus.mem[0x6000])
	bus.mem[0x6000] = 0xA5
	runSteps(z, 1)
	assert.Equal(t, uint8(0xA5), z.A())
}

func TestDJNZTiming(t *testing.T) {
	z, _ := newTestCPU(0x06, 0x02, 0x10, 0xFE)
	assert.Equal(t, uint64(7), z.Step())

	// Taken branch costs the extra displacement cycles.
	assert.Equal(t, uint64(13), z.Step())
	assert.Equal(t, uint16(0x0002), z.PC())

	// B reaches zero and the branch falls through.
	assert.Equal(t, uint64(8), z.Step())
	assert.Equal(t, uint16(0x0004), z.PC())
}

func TestConditionalJRTiming(t *testing.T) {
	z, _ := newTestCPU(0xAF, 0x28, 0x01, 0x00, 0x20, 0x01)
	runSteps(z, 1) // XOR A sets Z

	assert.Equal(t, uint64(12), z.Step()) // JR Z taken
	assert.Equal(t, uint16(0x0004), z.PC())

	assert.Equal(t, uint64(7), z.Step()) // JR NZ not taken
	assert.Equal(t, uint16(0x0006), z.PC())
}

func TestBitFlags(t *testing.T) {
	// BIT on a set bit clears Z; on a clear bit sets Z and PV. H is
	// always set and carry passes through.
	z, _ := newTestCPU(0xAF, 0x3E, 0x01, 0xCB, 0x47, 0xCB, 0x4F)
	runSteps(z, 3)
	assert.Equal(t, FlagH, z.F())
	runSteps(z, 1)
	assert.Equal(t, FlagZ|FlagH|FlagPV, z.F())
}

func TestSetResRotate(t *testing.T) {
	z, bus := newTestCPU(
		0x06, 0x00, // LD B,0
		0xCB, 0xD0, // SET 2,B
		0xCB, 0x90, // RES 2,B
		0x21, 0x00, 0x60, // LD HL,0x6000
		0xCB, 0x06, // RLC (HL)
	)
	runSteps(z, 2)
	assert.Equal(t, uint8(0x04), z.B())
	runSteps(z, 1)
	assert.Equal(t, uint8(0x00), z.B())

	bus.mem[0x6000] = 0x81
	runSteps(z, 2)
	assert.Equal(t, uint8(0x03), bus.mem[0x6000])
	assert.True(t, z.flag(FlagC))
}

func TestLDIR(t *testing.T) {
	z, bus := newTestCPU(
		0x21, 0x00, 0x80, // LD HL,0x8000
		0x11, 0x00, 0x90, // LD DE,0x9000
		0x01, 0x03, 0x00, // LD BC,3
		0xED, 0xB0, // LDIR
	)
	copy(bus.mem[0x8000:], []uint8{0xAA, 0xBB, 0xCC})
	runSteps(z, 3)

	assert.Equal(t, uint64(21), z.Step()) // repeating iteration
	assert.Equal(t, uint64(21), z.Step())
	assert.Equal(t, uint64(16), z.Step()) // terminal iteration

	assert.Equal(t, uint8(0xAA), bus.mem[0x9000])
	assert.Equal(t, uint8(0xBB), bus.mem[0x9001])
	assert.Equal(t, uint8(0xCC), bus.mem[0x9002])
	assert.Equal(t, uint16(0x0000), z.BC())
	assert.Equal(t, uint16(0x8003), z.HL())
	assert.Equal(t, uint16(0x9003), z.DE())
	assert.False(t, z.flag(FlagPV))
}

func TestNEG(t *testing.T) {
	z, _ := newTestCPU(0xAF, 0x3E, 0x01, 0xED, 0x44)
	runSteps(z, 3)
	assert.Equal(t, uint8(0xFF), z.A())
	assert.Equal(t, FlagS|FlagY|FlagX|FlagH|FlagN|FlagC, z.F())
}

// LD A,I copies IFF2 into PV, which is how software samples the
// interrupt enable state.
func TestLDAICopiesIFF2(t *testing.T) {
	z, _ := newTestCPU(0x3E, 0x55, 0xED, 0x47, 0xFB, 0x00, 0xED, 0x57)
	runSteps(z, 5)
	assert.Equal(t, uint8(0x55), z.A())
	assert.True(t, z.flag(FlagPV))
}

func TestIndexedAddressing(t *testing.T) {
	z, bus := newTestCPU(
		0xDD, 0x21, 0x34, 0x12, // LD IX,0x1234
		0xDD, 0x36, 0x05, 0xAB, // LD (IX+5),0xAB
		0xDD, 0x7E, 0x05, // LD A,(IX+5)
		0xDD, 0x26, 0x77, // LD IXH,0x77
	)
	runSteps(z, 3)
	assert.Equal(t, uint8(0xAB), bus.mem[0x1239])
	assert.Equal(t, uint8(0xAB), z.A())

	runSteps(z, 1)
	assert.Equal(t, uint16(0x7734), z.ix)
}

// Each chained DD/FD prefix is consumed by its own Step, so a runaway
// prefix stream still returns control after every 4 cycles. The later
// prefix decides the index register.
func TestChainedIndexPrefixes(t *testing.T) {
	z, _ := newTestCPU(
		0xDD, 0xFD, 0x21, 0x34, 0x12, // LD IY,0x1234 under a stale DD
	)
	cycles := z.Step()
	assert.Equal(t, uint64(4), cycles)
	assert.Equal(t, uint16(0x0001), z.PC())

	z.Step()
	assert.Equal(t, uint16(0x1234), z.iy)
	assert.Equal(t, uint16(0x0000), z.ix)

	z, bus := newTestCPU()
	for i := range bus.mem {
		bus.mem[i] = 0xDD
	}
	for i := 0; i < 16; i++ {
		assert.Equal(t, uint64(4), z.Step())
	}
	assert.Equal(t, uint16(16), z.PC())
}

// The displacement form of the CB group writes the rotated value back to
// memory and additionally copies it into the named register.
func TestIndexedBitRegisterCopy(t *testing.T) {
	z, bus := newTestCPU(
		0xDD, 0x21, 0x00, 0x20, // LD IX,0x2000
		0xDD, 0xCB, 0x03, 0x00, // RLC (IX+3) -> B
	)
	bus.mem[0x2003] = 0x80
	runSteps(z, 2)
	assert.Equal(t, uint8(0x01), bus.mem[0x2003])
	assert.Equal(t, uint8(0x01), z.B())
	assert.True(t, z.flag(FlagC))
}

func TestPortIO(t *testing.T) {
	z, bus := newTestCPU(0x3E, 0x5A, 0xD3, 0x10, 0xDB, 0x20)
	bus.ports[0x20] = 0x77
	runSteps(z, 3)
	assert.Equal(t, uint8(0x5A), bus.ports[0x10])
	assert.Equal(t, uint8(0x77), z.A())
}

func TestHaltStaysOnOpcode(t *testing.T) {
	z, _ := newTestCPU(0x76)
	z.Step()
	assert.True(t, z.Halted())
	assert.Equal(t, uint16(0x0000), z.PC())

	// Further steps burn the halt quantum without moving.
	assert.Equal(t, uint64(haltCycles), z.Step())
	assert.Equal(t, uint16(0x0000), z.PC())
}

// EI enables interrupts only after one more instruction has run, so an
// interrupt arriving during EI cannot preempt the instruction after it.
func TestInterruptMode1(t *testing.T) {
	z, bus := newTestCPU(0xED, 0x56, 0xFB, 0x76)
	bus.mem[0x0038] = 0xC9 // RET

	runSteps(z, 1) // IM 1
	z.Interrupt(0xFF)
	runSteps(z, 1) // EI
	runSteps(z, 1) // HALT executes despite the pending request
	assert.True(t, z.Halted())

	assert.Equal(t, uint64(13), z.Step()) // acceptance
	assert.Equal(t, uint16(0x0038), z.PC())
	assert.False(t, z.Halted())
	assert.False(t, z.InterruptsEnabled())
	assert.Equal(t, uint16(0xFFFD), z.SP())
	assert.Equal(t, uint8(0x04), bus.mem[0xFFFD]) // return past HALT
	assert.Equal(t, uint8(0x00), bus.mem[0xFFFE])

	runSteps(z, 1) // RET
	assert.Equal(t, uint16(0x0004), z.PC())
}

func TestInterruptMode2(t *testing.T) {
	z, bus := newTestCPU(
		0x3E, 0x20, // LD A,0x20
		0xED, 0x47, // LD I,A
		0xED, 0x5E, // IM 2
		0xFB, // EI
		0x76, // HALT
	)
	bus.mem[0x20FF] = 0x00
	bus.mem[0x2100] = 0x30

	runSteps(z, 5)
	assert.True(t, z.Halted())
	z.Interrupt(0xFF)
	assert.Equal(t, uint64(19), z.Step())
	assert.Equal(t, uint16(0x3000), z.PC())
}

// Mode 0 executes the byte the device drives onto the bus; this board
// always drives 0xFF, which is RST 38h.
func TestInterruptMode0(t *testing.T) {
	z, _ := newTestCPU(0xFB, 0x00, 0x00)
	runSteps(z, 2)
	z.Interrupt(0xFF)
	assert.Equal(t, uint64(11), z.Step())
	assert.Equal(t, uint16(0x0038), z.PC())
}

func TestRefreshCounterTicks(t *testing.T) {
	z, _ := newTestCPU(0x00, 0x00, 0x00)
	runSteps(z, 3)
	assert.Equal(t, uint8(3), z.r)
}

// A request latched while the enable flip-flop is clear must not disturb
// execution, the stack or PC.
func TestInterruptIgnoredWhenDisabled(t *testing.T) {
	z, _ := newTestCPU(0x00, 0x00)
	z.Interrupt(0xFF)
	runSteps(z, 2)
	assert.Equal(t, uint16(0x0002), z.PC())
	assert.Equal(t, uint16(0xFFFF), z.SP())
	assert.False(t, z.Halted())
}

// The 8-bit halves and the 16-bit pair view share one backing value and
// can never disagree.
func TestRegisterPairConsistency(t *testing.T) {
	z, _ := newTestCPU()
	for b := 0; b < 256; b++ {
		for c := 0; c < 256; c++ {
			z.SetB(uint8(b))
			z.SetC(uint8(c))
			if got := z.BC(); got != uint16(b)<<8|uint16(c) {
				t.Fatalf("BC mismatch for B=%02X C=%02X: got %04X", b, c, got)
			}
		}
	}
	z.SetHL(0xBEEF)
	assert.Equal(t, uint8(0xBE), z.H())
	assert.Equal(t, uint8(0xEF), z.L())
}

// Exhaustive cross-check of the addition and subtraction flag rules over
// the full operand space, with every expected flag derived independently
// from the helper under test.
func TestArithmeticFlagsExhaustive(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			res, f := add8(uint8(a), uint8(b), 0)
			sum := a + b
			if uint8(sum) != res {
				t.Fatalf("ADD %02X+%02X result %02X", a, b, res)
			}
			checkFlag(t, "ADD C", a, b, f&FlagC != 0, sum > 0xFF)
			checkFlag(t, "ADD H", a, b, f&FlagH != 0, a&0x0F+b&0x0F > 0x0F)
			checkFlag(t, "ADD PV", a, b, f&FlagPV != 0,
				int(int8(a))+int(int8(b)) != int(int8(res)))
			checkFlag(t, "ADD Z", a, b, f&FlagZ != 0, res == 0)
			checkFlag(t, "ADD S", a, b, f&FlagS != 0, res >= 0x80)

			res, f = sub8(uint8(a), uint8(b), 0)
			if uint8(a-b) != res {
				t.Fatalf("SUB %02X-%02X result %02X", a, b, res)
			}
			checkFlag(t, "SUB C", a, b, f&FlagC != 0, a < b)
			checkFlag(t, "SUB H", a, b, f&FlagH != 0, a&0x0F < b&0x0F)
			checkFlag(t, "SUB PV", a, b, f&FlagPV != 0,
				int(int8(a))-int(int8(b)) != int(int8(res)))
			checkFlag(t, "SUB N", a, b, f&FlagN != 0, true)
		}
	}
}

func checkFlag(t *testing.T, op string, a, b int, got, want bool) {
	t.Helper()
	if got != want {
		t.Fatalf("%s flag mismatch for %02X,%02X: got %v want %v", op, a, b, got, want)
	}
}

func TestEXX(t *testing.T) {
	z, _ := newTestCPU(
		0x01, 0x11, 0x11, // LD BC,0x1111
		0xD9,             // EXX
		0x01, 0x22, 0x22, // LD BC,0x2222
		0xD9, // EXX
	)
	runSteps(z, 4)
	assert.Equal(t, uint16(0x1111), z.BC())
}

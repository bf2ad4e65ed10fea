package z80

// Register pairs are backed by a single uint16 each; the 8-bit views below
// shift and mask so a half write and a pair read can never disagree.

// AF returns the accumulator/flags pair.
func (z *Z80) AF() uint16 { return z.af }

// BC returns the BC pair.
func (z *Z80) BC() uint16 { return z.bc }

// DE returns the DE pair.
func (z *Z80) DE() uint16 { return z.de }

// HL returns the HL pair.
func (z *Z80) HL() uint16 { return z.hl }

func (z *Z80) SetAF(v uint16) { z.af = v }
func (z *Z80) SetBC(v uint16) { z.bc = v }
func (z *Z80) SetDE(v uint16) { z.de = v }
func (z *Z80) SetHL(v uint16) { z.hl = v }

// A returns the accumulator.
func (z *Z80) A() uint8 { return uint8(z.af >> 8) }

// F returns the flag byte.
func (z *Z80) F() uint8 { return uint8(z.af) }

func (z *Z80) B() uint8 { return uint8(z.bc >> 8) }
func (z *Z80) C() uint8 { return uint8(z.bc) }
func (z *Z80) D() uint8 { return uint8(z.de >> 8) }
func (z *Z80) E() uint8 { return uint8(z.de) }
func (z *Z80) H() uint8 { return uint8(z.hl >> 8) }
func (z *Z80) L() uint8 { return uint8(z.hl) }

func (z *Z80) SetA(v uint8) { z.af = z.af&0x00FF | uint16(v)<<8 }
func (z *Z80) SetF(v uint8) { z.af = z.af&0xFF00 | uint16(v) }
func (z *Z80) SetB(v uint8) { z.bc = z.bc&0x00FF | uint16(v)<<8 }
func (z *Z80) SetC(v uint8) { z.bc = z.bc&0xFF00 | uint16(v) }
func (z *Z80) SetD(v uint8) { z.de = z.de&0x00FF | uint16(v)<<8 }
func (z *Z80) SetE(v uint8) { z.de = z.de&0xFF00 | uint16(v) }
func (z *Z80) SetH(v uint8) { z.hl = z.hl&0x00FF | uint16(v)<<8 }
func (z *Z80) SetL(v uint8) { z.hl = z.hl&0xFF00 | uint16(v) }

// ExchangeAF swaps AF with its shadow copy.
func (z *Z80) ExchangeAF() {
	z.af, z.af2 = z.af2, z.af
}

// ExchangeAll swaps BC, DE and HL with their shadow copies as one unit (EXX).
func (z *Z80) ExchangeAll() {
	z.bc, z.bc2 = z.bc2, z.bc
	z.de, z.de2 = z.de2, z.de
	z.hl, z.hl2 = z.hl2, z.hl
}

func (z *Z80) flag(f uint8) bool { return z.af&uint16(f) != 0 }

func (z *Z80) setFlag(f uint8, on bool) {
	if on {
		z.af |= uint16(f)
	} else {
		z.af &^= uint16(f)
	}
}

// reg8 indices follow the Z80 encoding used inside opcode bytes:
// 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.
const regIndirect = 6

func (z *Z80) getR(i uint8) uint8 {
	switch i {
	case 0:
		return z.B()
	case 1:
		return z.C()
	case 2:
		return z.D()
	case 3:
		return z.E()
	case 4:
		return z.H()
	case 5:
		return z.L()
	case regIndirect:
		return z.bus.Read(z.hl)
	default:
		return z.A()
	}
}

func (z *Z80) setR(i uint8, v uint8) {
	switch i {
	case 0:
		z.SetB(v)
	case 1:
		z.SetC(v)
	case 2:
		z.SetD(v)
	case 3:
		z.SetE(v)
	case 4:
		z.SetH(v)
	case 5:
		z.SetL(v)
	case regIndirect:
		z.bus.Write(z.hl, v)
	default:
		z.SetA(v)
	}
}

// getRR maps the 2-bit pair index used by 16-bit opcodes: 0=BC 1=DE 2=HL 3=SP.
func (z *Z80) getRR(i uint8) uint16 {
	switch i {
	case 0:
		return z.bc
	case 1:
		return z.de
	case 2:
		return z.hl
	default:
		return z.sp
	}
}

func (z *Z80) setRR(i uint8, v uint16) {
	switch i {
	case 0:
		z.bc = v
	case 1:
		z.de = v
	case 2:
		z.hl = v
	default:
		z.sp = v
	}
}

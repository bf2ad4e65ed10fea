package z80

// stepED dispatches the ED-prefixed suffix: port I/O with flags, 16-bit
// carry arithmetic, interrupt-mode selection, the refresh/vector register
// moves, BCD rotates and the block instructions. Undefined suffixes decode
// as no-ops, matching the board's everything-resolves-harmlessly policy.
func (z *Z80) stepED() {
	op := z.fetch()
	z.Cycles += uint64(edCycles[op])

	// The regular 0x40-0x7F grid first.
	if op >= 0x40 && op < 0x80 {
		switch op & 0x0F {
		case 0x00, 0x08: // IN r,(C); the 0x70 slot only sets flags
			val := z.bus.In(z.C())
			if op != 0x70 {
				z.setR(op>>3&0x07, val)
			}
			z.SetF(szxy(val) | parityTable[val] | z.F()&FlagC)
			return
		case 0x01, 0x09: // OUT (C),r; the 0x71 slot drives zero
			var val uint8
			if op != 0x71 {
				val = z.getR(op >> 3 & 0x07)
			}
			z.bus.Out(z.C(), val)
			return
		case 0x02: // SBC HL,rr
			res, f := sbc16(z.hl, z.getRR(op>>4&0x03), z.carry())
			z.hl = res
			z.SetF(f)
			return
		case 0x0A: // ADC HL,rr
			res, f := adc16(z.hl, z.getRR(op>>4&0x03), z.carry())
			z.hl = res
			z.SetF(f)
			return
		case 0x03: // LD (nn),rr
			z.writeWord(z.fetchWord(), z.getRR(op>>4&0x03))
			return
		case 0x0B: // LD rr,(nn)
			z.setRR(op>>4&0x03, z.readWord(z.fetchWord()))
			return
		}

		switch op & 0xC7 {
		case 0x44: // NEG (and its mirrors)
			res, f := sub8(0, z.A(), 0)
			z.SetA(res)
			z.SetF(f)
			return
		case 0x45: // RETN / RETI: restore IFF1 from IFF2
			z.pc = z.pop()
			z.iff1 = z.iff2
			return
		case 0x46: // IM x
			switch op >> 3 & 0x03 {
			case 2:
				z.im = 1
			case 3:
				z.im = 2
			default:
				z.im = 0
			}
			return
		}

		switch op {
		case 0x47:
			z.i = z.A()
		case 0x4F:
			z.r = z.A()
		case 0x57:
			z.ldAIR(z.i)
		case 0x5F:
			z.ldAIR(z.r)
		case 0x67:
			z.rrd()
		case 0x6F:
			z.rld()
		}
		return
	}

	switch op {
	case 0xA0:
		z.blockLD(1, false)
	case 0xA8:
		z.blockLD(-1, false)
	case 0xB0:
		z.blockLD(1, true)
	case 0xB8:
		z.blockLD(-1, true)
	case 0xA1:
		z.blockCP(1, false)
	case 0xA9:
		z.blockCP(-1, false)
	case 0xB1:
		z.blockCP(1, true)
	case 0xB9:
		z.blockCP(-1, true)
	case 0xA2:
		z.blockIN(1, false)
	case 0xAA:
		z.blockIN(-1, false)
	case 0xB2:
		z.blockIN(1, true)
	case 0xBA:
		z.blockIN(-1, true)
	case 0xA3:
		z.blockOUT(1, false)
	case 0xAB:
		z.blockOUT(-1, false)
	case 0xB3:
		z.blockOUT(1, true)
	case 0xBB:
		z.blockOUT(-1, true)
	}
}

// ldAIR implements LD A,I and LD A,R: PV reflects IFF2 so a handler can
// discover whether interrupts were enabled.
func (z *Z80) ldAIR(v uint8) {
	z.SetA(v)
	f := szxy(v) | z.F()&FlagC
	if z.iff2 {
		f |= FlagPV
	}
	z.SetF(f)
}

func (z *Z80) rrd() {
	mem := z.bus.Read(z.hl)
	a := z.A()
	z.bus.Write(z.hl, a<<4|mem>>4)
	a = a&0xF0 | mem&0x0F
	z.SetA(a)
	z.SetF(szxy(a) | parityTable[a] | z.F()&FlagC)
}

func (z *Z80) rld() {
	mem := z.bus.Read(z.hl)
	a := z.A()
	z.bus.Write(z.hl, mem<<4|a&0x0F)
	a = a&0xF0 | mem>>4
	z.SetA(a)
	z.SetF(szxy(a) | parityTable[a] | z.F()&FlagC)
}

// blockLD implements LDI/LDD/LDIR/LDDR. X and Y come from A plus the
// transferred byte (the internal temporary, not the result).
func (z *Z80) blockLD(dir int16, repeat bool) {
	val := z.bus.Read(z.hl)
	z.bus.Write(z.de, val)
	z.hl += uint16(dir)
	z.de += uint16(dir)
	z.bc--

	n := z.A() + val
	f := z.F() & (FlagS | FlagZ | FlagC)
	if n&0x02 != 0 {
		f |= FlagY
	}
	if n&0x08 != 0 {
		f |= FlagX
	}
	if z.bc != 0 {
		f |= FlagPV
	}
	z.SetF(f)

	if repeat && z.bc != 0 {
		z.pc -= 2
		z.Cycles += 5
	}
}

// blockCP implements CPI/CPD/CPIR/CPDR. The X/Y temporary additionally
// subtracts the half-borrow.
func (z *Z80) blockCP(dir int16, repeat bool) {
	val := z.bus.Read(z.hl)
	a := z.A()
	res := a - val
	z.hl += uint16(dir)
	z.bc--

	f := res&FlagS | z.F()&FlagC | FlagN
	if res == 0 {
		f |= FlagZ
	}
	half := a&0x0F < val&0x0F
	if half {
		f |= FlagH
	}
	n := res
	if half {
		n--
	}
	if n&0x02 != 0 {
		f |= FlagY
	}
	if n&0x08 != 0 {
		f |= FlagX
	}
	if z.bc != 0 {
		f |= FlagPV
	}
	z.SetF(f)

	if repeat && z.bc != 0 && res != 0 {
		z.pc -= 2
		z.Cycles += 5
	}
}

// blockIN implements INI/IND/INIR/INDR with the documented undocumented
// flag rule: the carry chain uses the incoming byte plus C±1.
func (z *Z80) blockIN(dir int16, repeat bool) {
	val := z.bus.In(z.C())
	z.bus.Write(z.hl, val)
	z.hl += uint16(dir)
	b := z.B() - 1
	z.SetB(b)

	k := uint16(val) + uint16(z.C()+uint8(dir))
	f := szxy(b)
	if val&0x80 != 0 {
		f |= FlagN
	}
	if k > 0xFF {
		f |= FlagH | FlagC
	}
	f |= parityTable[uint8(k)&0x07^b]
	z.SetF(f)

	if repeat && b != 0 {
		z.pc -= 2
		z.Cycles += 5
	}
}

// blockOUT implements OUTI/OUTD/OTIR/OTDR; the carry chain uses the
// written byte plus the post-move L.
func (z *Z80) blockOUT(dir int16, repeat bool) {
	val := z.bus.Read(z.hl)
	b := z.B() - 1
	z.SetB(b)
	z.bus.Out(z.C(), val)
	z.hl += uint16(dir)

	k := uint16(val) + uint16(z.L())
	f := szxy(b)
	if val&0x80 != 0 {
		f |= FlagN
	}
	if k > 0xFF {
		f |= FlagH | FlagC
	}
	f |= parityTable[uint8(k)&0x07^b]
	z.SetF(f)

	if repeat && b != 0 {
		z.pc -= 2
		z.Cycles += 5
	}
}

package z80

// ops is the primary dispatch table, one function value per opcode byte.
// The regular blocks (LD r,r', the ALU block, per-register INC/DEC) are
// generated in loops; the irregular opcodes get explicit entries.
var ops [256]func(*Z80)

func init() {
	ops = buildOps()
}

func (z *Z80) carry() uint8 {
	if z.flag(FlagC) {
		return 1
	}
	return 0
}

// alu applies one of the eight accumulator operations encoded in bits 3-5
// of the ALU opcode block: ADD, ADC, SUB, SBC, AND, XOR, OR, CP.
func (z *Z80) alu(family, val uint8) {
	a := z.A()
	var res, f uint8
	switch family {
	case 0:
		res, f = add8(a, val, 0)
	case 1:
		res, f = add8(a, val, z.carry())
	case 2:
		res, f = sub8(a, val, 0)
	case 3:
		res, f = sub8(a, val, z.carry())
	case 4:
		res, f = and8(a, val)
	case 5:
		res, f = xor8(a, val)
	case 6:
		res, f = or8(a, val)
	default:
		// CP discards the result; X and Y come from the operand, not the
		// difference (hardware quirk).
		_, f = sub8(a, val, 0)
		f = f&^(FlagX|FlagY) | val&(FlagX|FlagY)
		z.SetF(f)
		return
	}
	z.SetA(res)
	z.SetF(f)
}

// rotateA finishes the accumulator-only rotates (RLCA family): S, Z and PV
// survive, X/Y track the new accumulator, H and N clear.
func (z *Z80) rotateA(res uint8, carryOut bool) {
	f := z.F()&(FlagS|FlagZ|FlagPV) | res&(FlagX|FlagY)
	if carryOut {
		f |= FlagC
	}
	z.SetA(res)
	z.SetF(f)
}

func (z *Z80) jumpRelative(disp uint8) {
	z.pc += uint16(int16(int8(disp)))
}

func (z *Z80) daa() {
	a := z.A()
	f := z.F()
	var adjust uint8
	carry := f&FlagC != 0
	if f&FlagH != 0 || a&0x0F > 9 {
		adjust |= 0x06
	}
	if carry || a > 0x99 {
		adjust |= 0x60
		carry = true
	}
	var res uint8
	var half bool
	if f&FlagN != 0 {
		res = a - adjust
		half = f&FlagH != 0 && a&0x0F < 6
	} else {
		res = a + adjust
		half = a&0x0F > 9
	}
	nf := szxy(res) | parityTable[res] | f&FlagN
	if half {
		nf |= FlagH
	}
	if carry {
		nf |= FlagC
	}
	z.SetA(res)
	z.SetF(nf)
}

func buildOps() [256]func(*Z80) {
	var t [256]func(*Z80)

	// LD r,r' block, 0x40-0x7F. 0x76 is HALT.
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 | dst<<3 | src
			if op == 0x76 {
				continue
			}
			dst, src := dst, src
			t[op] = func(z *Z80) { z.setR(dst, z.getR(src)) }
		}
	}
	t[0x76] = func(z *Z80) {
		// Stay on the HALT opcode; an accepted interrupt steps past it.
		z.halted = true
		z.pc--
	}

	// ALU block, 0x80-0xBF.
	for fam := uint8(0); fam < 8; fam++ {
		for src := uint8(0); src < 8; src++ {
			fam, src := fam, src
			t[0x80|fam<<3|src] = func(z *Z80) { z.alu(fam, z.getR(src)) }
		}
		fam := fam
		// Immediate forms at 0xC6, 0xCE, ...
		t[0xC6|fam<<3] = func(z *Z80) { z.alu(fam, z.fetchByte()) }
	}

	// Per-register INC, DEC and LD r,n.
	for r := uint8(0); r < 8; r++ {
		r := r
		t[0x04|r<<3] = func(z *Z80) {
			res, f := inc8(z.getR(r), z.F())
			z.setR(r, res)
			z.SetF(f)
		}
		t[0x05|r<<3] = func(z *Z80) {
			res, f := dec8(z.getR(r), z.F())
			z.setR(r, res)
			z.SetF(f)
		}
		t[0x06|r<<3] = func(z *Z80) { z.setR(r, z.fetchByte()) }
	}

	// 16-bit loads, arithmetic and pair INC/DEC.
	for p := uint8(0); p < 4; p++ {
		p := p
		t[0x01|p<<4] = func(z *Z80) { z.setRR(p, z.fetchWord()) }
		t[0x03|p<<4] = func(z *Z80) { z.setRR(p, z.getRR(p)+1) }
		t[0x0B|p<<4] = func(z *Z80) { z.setRR(p, z.getRR(p)-1) }
		t[0x09|p<<4] = func(z *Z80) {
			res, f := add16(z.hl, z.getRR(p), z.F())
			z.hl = res
			z.SetF(f)
		}
	}

	t[0x00] = func(z *Z80) {}
	t[0x02] = func(z *Z80) { z.bus.Write(z.bc, z.A()) }
	t[0x12] = func(z *Z80) { z.bus.Write(z.de, z.A()) }
	t[0x0A] = func(z *Z80) { z.SetA(z.bus.Read(z.bc)) }
	t[0x1A] = func(z *Z80) { z.SetA(z.bus.Read(z.de)) }
	t[0x22] = func(z *Z80) { z.writeWord(z.fetchWord(), z.hl) }
	t[0x2A] = func(z *Z80) { z.hl = z.readWord(z.fetchWord()) }
	t[0x32] = func(z *Z80) { z.bus.Write(z.fetchWord(), z.A()) }
	t[0x3A] = func(z *Z80) { z.SetA(z.bus.Read(z.fetchWord())) }

	t[0x07] = func(z *Z80) { // RLCA
		a := z.A()
		z.rotateA(a<<1|a>>7, a&0x80 != 0)
	}
	t[0x0F] = func(z *Z80) { // RRCA
		a := z.A()
		z.rotateA(a>>1|a<<7, a&0x01 != 0)
	}
	t[0x17] = func(z *Z80) { // RLA
		a := z.A()
		z.rotateA(a<<1|z.carry(), a&0x80 != 0)
	}
	t[0x1F] = func(z *Z80) { // RRA
		a := z.A()
		z.rotateA(a>>1|z.carry()<<7, a&0x01 != 0)
	}

	t[0x08] = func(z *Z80) { z.ExchangeAF() }
	t[0x10] = func(z *Z80) { // DJNZ
		disp := z.fetchByte()
		b := z.B() - 1
		z.SetB(b)
		if b != 0 {
			z.jumpRelative(disp)
			z.Cycles += 5
		}
	}
	t[0x18] = func(z *Z80) { z.jumpRelative(z.fetchByte()) }
	for cc := uint8(0); cc < 4; cc++ {
		cc := cc
		t[0x20|cc<<3] = func(z *Z80) { // JR cc,d
			disp := z.fetchByte()
			if z.condition(cc) {
				z.jumpRelative(disp)
				z.Cycles += 5
			}
		}
	}

	t[0x27] = func(z *Z80) { z.daa() }
	t[0x2F] = func(z *Z80) { // CPL
		a := ^z.A()
		z.SetA(a)
		z.SetF(z.F()&(FlagS|FlagZ|FlagPV|FlagC) | a&(FlagX|FlagY) | FlagH | FlagN)
	}
	t[0x37] = func(z *Z80) { // SCF
		z.SetF(z.F()&(FlagS|FlagZ|FlagPV) | z.A()&(FlagX|FlagY) | FlagC)
	}
	t[0x3F] = func(z *Z80) { // CCF: old carry moves to H
		f := z.F()&(FlagS|FlagZ|FlagPV) | z.A()&(FlagX|FlagY)
		if z.flag(FlagC) {
			f |= FlagH
		} else {
			f |= FlagC
		}
		z.SetF(f)
	}

	// Conditional and unconditional control flow.
	for cc := uint8(0); cc < 8; cc++ {
		cc := cc
		t[0xC0|cc<<3] = func(z *Z80) { // RET cc
			if z.condition(cc) {
				z.pc = z.pop()
				z.Cycles += 6
			}
		}
		t[0xC2|cc<<3] = func(z *Z80) { // JP cc,nn
			target := z.fetchWord()
			if z.condition(cc) {
				z.pc = target
			}
		}
		t[0xC4|cc<<3] = func(z *Z80) { // CALL cc,nn
			target := z.fetchWord()
			if z.condition(cc) {
				z.push(z.pc)
				z.pc = target
				z.Cycles += 7
			}
		}
		t[0xC7|cc<<3] = func(z *Z80) { // RST
			z.push(z.pc)
			z.pc = uint16(cc) << 3
		}
	}
	t[0xC3] = func(z *Z80) { z.pc = z.fetchWord() }
	t[0xC9] = func(z *Z80) { z.pc = z.pop() }
	t[0xCD] = func(z *Z80) {
		target := z.fetchWord()
		z.push(z.pc)
		z.pc = target
	}

	// PUSH/POP use AF in place of SP for the pair index.
	for p := uint8(0); p < 4; p++ {
		p := p
		t[0xC1|p<<4] = func(z *Z80) {
			v := z.pop()
			if p == 3 {
				z.af = v
			} else {
				z.setRR(p, v)
			}
		}
		t[0xC5|p<<4] = func(z *Z80) {
			if p == 3 {
				z.push(z.af)
			} else {
				z.push(z.getRR(p))
			}
		}
	}

	t[0xD3] = func(z *Z80) { z.bus.Out(z.fetchByte(), z.A()) }
	t[0xDB] = func(z *Z80) { z.SetA(z.bus.In(z.fetchByte())) }

	t[0xD9] = func(z *Z80) { z.ExchangeAll() }
	t[0xE3] = func(z *Z80) { // EX (SP),HL
		v := z.readWord(z.sp)
		z.writeWord(z.sp, z.hl)
		z.hl = v
	}
	t[0xE9] = func(z *Z80) { z.pc = z.hl }
	t[0xEB] = func(z *Z80) { z.de, z.hl = z.hl, z.de }
	t[0xF9] = func(z *Z80) { z.sp = z.hl }

	t[0xF3] = func(z *Z80) {
		z.iff1 = false
		z.iff2 = false
	}
	t[0xFB] = func(z *Z80) {
		// Interrupts become visible only after the next instruction.
		z.iff1 = true
		z.iff2 = true
		z.eiShadow = true
	}

	t[0xCB] = func(z *Z80) {
		z.Cycles += 4
		z.stepCB()
	}
	t[0xED] = func(z *Z80) {
		z.Cycles += 4
		z.stepED()
	}
	t[0xDD] = func(z *Z80) {
		z.Cycles += 4
		z.stepIndexed(&z.ix)
	}
	t[0xFD] = func(z *Z80) {
		z.Cycles += 4
		z.stepIndexed(&z.iy)
	}

	return t
}

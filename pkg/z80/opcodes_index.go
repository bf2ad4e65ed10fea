package z80

// getIR/setIR are the register accessors used under a DD/FD prefix: the H
// and L slots are remapped to the halves of the active index register.
func (z *Z80) getIR(i uint8, reg *uint16) uint8 {
	switch i {
	case 4:
		return uint8(*reg >> 8)
	case 5:
		return uint8(*reg)
	default:
		return z.getR(i)
	}
}

func (z *Z80) setIR(i uint8, reg *uint16, v uint8) {
	switch i {
	case 4:
		*reg = *reg&0x00FF | uint16(v)<<8
	case 5:
		*reg = *reg&0xFF00 | uint16(v)
	default:
		z.setR(i, v)
	}
}

// indexedAddr fetches the displacement byte and resolves (ii+d).
func (z *Z80) indexedAddr(reg *uint16) uint16 {
	return *reg + uint16(int16(int8(z.fetchByte())))
}

// stepIndexed executes one instruction under a DD (IX) or FD (IY) prefix.
// Only the opcodes that actually touch HL, H, L or (HL) behave differently;
// everything else replays through the primary table. Costs follow the
// prefix-plus-suffix rule: the 4-cycle prefix was added by the caller and
// each suffix pays its base-table cost.
func (z *Z80) stepIndexed(reg *uint16) {
	// A chained DD/FD restarts decoding on the next Step: the later
	// prefix wins, each pays its 4 cycles, and a degenerate stream of
	// prefixes cannot pin a single Step call.
	if next := z.bus.Read(z.pc); next == 0xDD || next == 0xFD {
		return
	}
	op := z.fetch()

	if op == 0xCB {
		z.stepIndexedCB(reg)
		return
	}

	z.Cycles += uint64(baseCycles[op])

	// LD r,r' block: (ii+d) forms use the real H/L for the other operand;
	// register-to-register forms substitute the index halves.
	if op >= 0x40 && op < 0x80 && op != 0x76 {
		dst := op >> 3 & 0x07
		src := op & 0x07
		switch {
		case dst == regIndirect:
			z.bus.Write(z.indexedAddr(reg), z.getR(src))
		case src == regIndirect:
			z.setR(dst, z.bus.Read(z.indexedAddr(reg)))
		default:
			z.setIR(dst, reg, z.getIR(src, reg))
		}
		return
	}

	// ALU block with index-half or (ii+d) operands.
	if op >= 0x80 && op < 0xC0 {
		src := op & 0x07
		var val uint8
		if src == regIndirect {
			val = z.bus.Read(z.indexedAddr(reg))
		} else {
			val = z.getIR(src, reg)
		}
		z.alu(op>>3&0x07, val)
		return
	}

	switch op {
	case 0x09, 0x19, 0x29, 0x39: // ADD ii,rr (0x29 adds ii to itself)
		operand := z.getRR(op >> 4 & 0x03)
		if op == 0x29 {
			operand = *reg
		}
		res, f := add16(*reg, operand, z.F())
		*reg = res
		z.SetF(f)
	case 0x21:
		*reg = z.fetchWord()
	case 0x22:
		z.writeWord(z.fetchWord(), *reg)
	case 0x2A:
		*reg = z.readWord(z.fetchWord())
	case 0x23:
		*reg++
	case 0x2B:
		*reg--
	case 0x24, 0x25, 0x2C, 0x2D: // INC/DEC on the index halves
		half := op >> 3 & 0x07
		var res, f uint8
		if op&0x01 == 0 {
			res, f = inc8(z.getIR(half, reg), z.F())
		} else {
			res, f = dec8(z.getIR(half, reg), z.F())
		}
		z.setIR(half, reg, res)
		z.SetF(f)
	case 0x26, 0x2E: // LD ixh/ixl,n
		z.setIR(op>>3&0x07, reg, z.fetchByte())
	case 0x34: // INC (ii+d)
		addr := z.indexedAddr(reg)
		res, f := inc8(z.bus.Read(addr), z.F())
		z.bus.Write(addr, res)
		z.SetF(f)
	case 0x35: // DEC (ii+d)
		addr := z.indexedAddr(reg)
		res, f := dec8(z.bus.Read(addr), z.F())
		z.bus.Write(addr, res)
		z.SetF(f)
	case 0x36: // LD (ii+d),n
		addr := z.indexedAddr(reg)
		z.bus.Write(addr, z.fetchByte())
	case 0xE1:
		*reg = z.pop()
	case 0xE3: // EX (SP),ii
		v := z.readWord(z.sp)
		z.writeWord(z.sp, *reg)
		*reg = v
	case 0xE5:
		z.push(*reg)
	case 0xE9:
		z.pc = *reg
	case 0xF9:
		z.sp = *reg
	default:
		// The prefix has no effect on this opcode; run it as written.
		ops[op](z)
	}
}

// stepIndexedCB handles the DDCB/FDCB family: the displacement precedes the
// suffix opcode, every operation targets (ii+d), and the non-BIT forms also
// copy the result into the named register when one is encoded.
func (z *Z80) stepIndexedCB(reg *uint16) {
	addr := z.indexedAddr(reg)
	op := z.fetchByte()
	z.Cycles += 4 + uint64(cbSuffixCycles(op|regIndirect))

	r := op & 0x07
	sel := op >> 3 & 0x07
	val := z.bus.Read(addr)

	switch op >> 6 {
	case 0:
		res, f := z.applyRotate(sel, val)
		z.bus.Write(addr, res)
		z.SetF(f)
		if r != regIndirect {
			z.setR(r, res)
		}
	case 1:
		z.SetF(z.bitFlags(sel, val))
	case 2:
		res := val &^ (1 << sel)
		z.bus.Write(addr, res)
		if r != regIndirect {
			z.setR(r, res)
		}
	default:
		res := val | 1<<sel
		z.bus.Write(addr, res)
		if r != regIndirect {
			z.setR(r, res)
		}
	}
}

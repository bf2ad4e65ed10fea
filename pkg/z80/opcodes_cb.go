package z80

// applyRotate runs the CB rotate/shift family selected by bits 3-5 of the
// suffix opcode: RLC, RRC, RL, RR, SLA, SRA, SLL, SRL.
func (z *Z80) applyRotate(family, val uint8) (uint8, uint8) {
	switch family {
	case 0:
		return rlc8(val)
	case 1:
		return rrc8(val)
	case 2:
		return rl8(val, z.carry())
	case 3:
		return rr8(val, z.carry())
	case 4:
		return sla8(val)
	case 5:
		return sra8(val)
	case 6:
		return sll8(val)
	default:
		return srl8(val)
	}
}

// bitFlags computes the flag byte for BIT b,v. Carry survives; X and Y are
// copied from the tested value.
func (z *Z80) bitFlags(bit, val uint8) uint8 {
	f := FlagH | z.F()&FlagC | val&(FlagX|FlagY)
	if val&(1<<bit) == 0 {
		f |= FlagZ | FlagPV
	}
	if bit == 7 && val&0x80 != 0 {
		f |= FlagS
	}
	return f
}

// stepCB dispatches the CB-prefixed suffix. The encoding is fully regular:
// bits 6-7 select rotate/BIT/RES/SET, bits 3-5 the sub-family or bit
// number, bits 0-2 the register (6 = (HL)).
func (z *Z80) stepCB() {
	op := z.fetch()
	z.Cycles += uint64(cbSuffixCycles(op))

	reg := op & 0x07
	sel := op >> 3 & 0x07

	switch op >> 6 {
	case 0: // rotates and shifts
		res, f := z.applyRotate(sel, z.getR(reg))
		z.setR(reg, res)
		z.SetF(f)
	case 1: // BIT
		z.SetF(z.bitFlags(sel, z.getR(reg)))
	case 2: // RES
		z.setR(reg, z.getR(reg)&^(1<<sel))
	default: // SET
		z.setR(reg, z.getR(reg)|1<<sel)
	}
}

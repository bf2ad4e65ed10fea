package z80

// Flag byte layout. X and Y are the undocumented copies of result bits 3
// and 5; real software (and test ROMs) observe them, so every ALU helper
// produces them.
const (
	FlagC  uint8 = 1 << 0 // carry
	FlagN  uint8 = 1 << 1 // subtract
	FlagPV uint8 = 1 << 2 // parity / overflow
	FlagX  uint8 = 1 << 3
	FlagH  uint8 = 1 << 4 // half carry
	FlagY  uint8 = 1 << 5
	FlagZ  uint8 = 1 << 6 // zero
	FlagS  uint8 = 1 << 7 // sign
)

// parityTable[v] holds FlagPV when v has even parity.
var parityTable = buildParityTable()

func buildParityTable() [256]uint8 {
	var t [256]uint8
	for v := 0; v < 256; v++ {
		bits := 0
		for b := 0; b < 8; b++ {
			if v&(1<<b) != 0 {
				bits++
			}
		}
		if bits%2 == 0 {
			t[v] = FlagPV
		}
	}
	return t
}

// szxy returns the S, Z, X and Y flags for an 8-bit result.
func szxy(v uint8) uint8 {
	f := v & (FlagS | FlagX | FlagY)
	if v == 0 {
		f |= FlagZ
	}
	return f
}

// The ALU helpers are pure: operands and incoming carry in, result and a
// complete flag byte out. Overflow is true two's-complement overflow, not a
// sign flip check.

func add8(a, b, carry uint8) (uint8, uint8) {
	r16 := uint16(a) + uint16(b) + uint16(carry)
	res := uint8(r16)
	f := szxy(res)
	if r16 > 0xFF {
		f |= FlagC
	}
	if (a&0x0F)+(b&0x0F)+carry > 0x0F {
		f |= FlagH
	}
	if (^(a ^ b) & (a ^ res) & 0x80) != 0 {
		f |= FlagPV
	}
	return res, f
}

func sub8(a, b, borrow uint8) (uint8, uint8) {
	r16 := uint16(a) - uint16(b) - uint16(borrow)
	res := uint8(r16)
	f := szxy(res) | FlagN
	if r16 > 0xFF {
		f |= FlagC
	}
	if (a&0x0F)-(b&0x0F)-borrow > 0x0F {
		f |= FlagH
	}
	if ((a ^ b) & (a ^ res) & 0x80) != 0 {
		f |= FlagPV
	}
	return res, f
}

func and8(a, b uint8) (uint8, uint8) {
	res := a & b
	return res, szxy(res) | FlagH | parityTable[res]
}

func or8(a, b uint8) (uint8, uint8) {
	res := a | b
	return res, szxy(res) | parityTable[res]
}

func xor8(a, b uint8) (uint8, uint8) {
	res := a ^ b
	return res, szxy(res) | parityTable[res]
}

// inc8 and dec8 preserve the incoming carry and report overflow only at the
// 0x7F/0x80 boundary.
func inc8(v, flags uint8) (uint8, uint8) {
	res := v + 1
	f := szxy(res) | flags&FlagC
	if res&0x0F == 0 {
		f |= FlagH
	}
	if res == 0x80 {
		f |= FlagPV
	}
	return res, f
}

func dec8(v, flags uint8) (uint8, uint8) {
	res := v - 1
	f := szxy(res) | flags&FlagC | FlagN
	if res&0x0F == 0x0F {
		f |= FlagH
	}
	if res == 0x7F {
		f |= FlagPV
	}
	return res, f
}

// add16 implements ADD HL,rr: S, Z and PV are preserved from the incoming
// flags; X and Y come from the high byte of the 16-bit intermediate.
func add16(a, b uint16, flags uint8) (uint16, uint8) {
	r32 := uint32(a) + uint32(b)
	res := uint16(r32)
	f := flags & (FlagS | FlagZ | FlagPV)
	f |= uint8(res>>8) & (FlagX | FlagY)
	if r32 > 0xFFFF {
		f |= FlagC
	}
	if (a&0x0FFF)+(b&0x0FFF) > 0x0FFF {
		f |= FlagH
	}
	return res, f
}

func adc16(a, b uint16, carry uint8) (uint16, uint8) {
	r32 := uint32(a) + uint32(b) + uint32(carry)
	res := uint16(r32)
	f := uint8(res>>8) & (FlagS | FlagX | FlagY)
	if res == 0 {
		f |= FlagZ
	}
	if r32 > 0xFFFF {
		f |= FlagC
	}
	if (a&0x0FFF)+(b&0x0FFF)+uint16(carry) > 0x0FFF {
		f |= FlagH
	}
	if (^(a ^ b) & (a ^ res) & 0x8000) != 0 {
		f |= FlagPV
	}
	return res, f
}

func sbc16(a, b uint16, borrow uint8) (uint16, uint8) {
	r32 := uint32(a) - uint32(b) - uint32(borrow)
	res := uint16(r32)
	f := uint8(res>>8)&(FlagS|FlagX|FlagY) | FlagN
	if res == 0 {
		f |= FlagZ
	}
	if r32 > 0xFFFF {
		f |= FlagC
	}
	if (a&0x0FFF)-(b&0x0FFF)-uint16(borrow) > 0x0FFF {
		f |= FlagH
	}
	if ((a ^ b) & (a ^ res) & 0x8000) != 0 {
		f |= FlagPV
	}
	return res, f
}

// Full-flag rotates and shifts used by the CB-prefixed family.

func rlc8(v uint8) (uint8, uint8) {
	res := v<<1 | v>>7
	f := szxy(res) | parityTable[res]
	if v&0x80 != 0 {
		f |= FlagC
	}
	return res, f
}

func rrc8(v uint8) (uint8, uint8) {
	res := v>>1 | v<<7
	f := szxy(res) | parityTable[res]
	if v&0x01 != 0 {
		f |= FlagC
	}
	return res, f
}

func rl8(v, carry uint8) (uint8, uint8) {
	res := v<<1 | carry
	f := szxy(res) | parityTable[res]
	if v&0x80 != 0 {
		f |= FlagC
	}
	return res, f
}

func rr8(v, carry uint8) (uint8, uint8) {
	res := v>>1 | carry<<7
	f := szxy(res) | parityTable[res]
	if v&0x01 != 0 {
		f |= FlagC
	}
	return res, f
}

func sla8(v uint8) (uint8, uint8) {
	res := v << 1
	f := szxy(res) | parityTable[res]
	if v&0x80 != 0 {
		f |= FlagC
	}
	return res, f
}

func sra8(v uint8) (uint8, uint8) {
	res := v>>1 | v&0x80
	f := szxy(res) | parityTable[res]
	if v&0x01 != 0 {
		f |= FlagC
	}
	return res, f
}

// sll8 is the undocumented shift that feeds a 1 into bit 0.
func sll8(v uint8) (uint8, uint8) {
	res := v<<1 | 1
	f := szxy(res) | parityTable[res]
	if v&0x80 != 0 {
		f |= FlagC
	}
	return res, f
}

func srl8(v uint8) (uint8, uint8) {
	res := v >> 1
	f := szxy(res) | parityTable[res]
	if v&0x01 != 0 {
		f |= FlagC
	}
	return res, f
}

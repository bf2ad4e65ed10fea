package z80

// baseCycles holds the cost of every unprefixed opcode. Conditional
// instructions carry their not-taken cost here; the handlers add the
// difference when the branch is taken. The four prefix slots (0xCB, 0xDD,
// 0xED, 0xFD) are zero: prefix handlers account for themselves.
var baseCycles = [256]uint8{
	4, 10, 7, 6, 4, 4, 7, 4, 4, 11, 7, 6, 4, 4, 7, 4,
	8, 10, 7, 6, 4, 4, 7, 4, 12, 11, 7, 6, 4, 4, 7, 4,
	7, 10, 16, 6, 4, 4, 7, 4, 7, 11, 16, 6, 4, 4, 7, 4,
	7, 10, 13, 6, 11, 11, 10, 4, 7, 11, 13, 6, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	7, 7, 7, 7, 7, 7, 4, 7, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	5, 10, 10, 10, 10, 11, 7, 11, 5, 10, 10, 0, 10, 17, 7, 11,
	5, 10, 10, 11, 10, 11, 7, 11, 5, 4, 10, 11, 10, 0, 7, 11,
	5, 10, 10, 19, 10, 11, 7, 11, 5, 4, 10, 4, 10, 0, 7, 11,
	5, 10, 10, 4, 10, 11, 7, 11, 5, 6, 10, 4, 10, 0, 7, 11,
}

// edCycles holds the suffix cost of every ED-prefixed opcode (the 4-cycle
// prefix is added separately). Undefined slots decode as no-ops at the
// default 4-cycle suffix.
var edCycles = buildEDCycles()

func buildEDCycles() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = 4
	}
	for n := uint8(0); n < 8; n++ {
		t[0x40+n*8] = 8 // IN r,(C)
		t[0x41+n*8] = 8 // OUT (C),r
	}
	for n := uint8(0); n < 4; n++ {
		t[0x42+n*16] = 11 // SBC HL,rr
		t[0x4A+n*16] = 11 // ADC HL,rr
		t[0x43+n*16] = 16 // LD (nn),rr
		t[0x4B+n*16] = 16 // LD rr,(nn)
	}
	for _, op := range []uint8{0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C} {
		t[op] = 4 // NEG
	}
	for _, op := range []uint8{0x45, 0x4D, 0x55, 0x5D, 0x65, 0x6D, 0x75, 0x7D} {
		t[op] = 10 // RETN / RETI
	}
	for _, op := range []uint8{0x46, 0x4E, 0x56, 0x5E, 0x66, 0x6E, 0x76, 0x7E} {
		t[op] = 4 // IM x
	}
	t[0x47] = 5 // LD I,A
	t[0x4F] = 5 // LD R,A
	t[0x57] = 5 // LD A,I
	t[0x5F] = 5 // LD A,R
	t[0x67] = 14 // RRD
	t[0x6F] = 14 // RLD
	for _, op := range []uint8{0xA0, 0xA1, 0xA2, 0xA3, 0xA8, 0xA9, 0xAA, 0xAB,
		0xB0, 0xB1, 0xB2, 0xB3, 0xB8, 0xB9, 0xBA, 0xBB} {
		t[op] = 12 // block ops; repeat forms add 5 more per iteration
	}
	return t
}

// cbSuffixCycles returns the suffix cost of a CB-prefixed opcode: register
// forms pay 4, BIT on (HL) pays 8, the read-modify-write (HL) forms pay 11.
func cbSuffixCycles(op uint8) uint8 {
	if op&0x07 != regIndirect {
		return 4
	}
	if op >= 0x40 && op < 0x80 {
		return 8
	}
	return 11
}

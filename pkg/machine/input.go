package machine

// Bit positions of the two control ports. Both ports read active low.
const (
	in0Up      = 0x01
	in0Left    = 0x02
	in0Right   = 0x04
	in0Down    = 0x08
	in0Coin    = 0x10
	in0Start1  = 0x20
	in0Start2  = 0x40
	in0Service = 0x80

	in1Up    = 0x01
	in1Left  = 0x02
	in1Right = 0x04
	in1Down  = 0x08
)

// InputState is the control snapshot latched once per frame. True means
// the control is engaged; the active-low wire encoding stays internal.
type InputState struct {
	P1Up, P1Down, P1Left, P1Right bool
	P2Up, P2Down, P2Left, P2Right bool

	Coin    bool
	Start1  bool
	Start2  bool
	Service bool
}

// Ports encodes the snapshot as the two active-low hardware ports.
func (s InputState) Ports() (in0, in1 uint8) {
	in0, in1 = 0xFF, 0xFF
	if s.P1Up {
		in0 &^= in0Up
	}
	if s.P1Left {
		in0 &^= in0Left
	}
	if s.P1Right {
		in0 &^= in0Right
	}
	if s.P1Down {
		in0 &^= in0Down
	}
	if s.Coin {
		in0 &^= in0Coin
	}
	if s.Start1 {
		in0 &^= in0Start1
	}
	if s.Start2 {
		in0 &^= in0Start2
	}
	if s.Service {
		in0 &^= in0Service
	}
	if s.P2Up {
		in1 &^= in1Up
	}
	if s.P2Left {
		in1 &^= in1Left
	}
	if s.P2Right {
		in1 &^= in1Right
	}
	if s.P2Down {
		in1 &^= in1Down
	}
	return in0, in1
}

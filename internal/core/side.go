package core

// Side identifies one of the two opponents in a duel.
type Side uint8

const (
	SideA Side = iota
	SideB
)

// Sides lists both sides in resolution order.
var Sides = [2]Side{SideA, SideB}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

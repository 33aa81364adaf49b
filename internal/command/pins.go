package command

// PinState is the 3-bit pattern asserted on actuator outputs.
type PinState [3]int

// StopPattern is the pattern asserted whenever no motion is in flight.
var StopPattern = PinState{0, 0, 0}

// pinTable is the static Token.kind -> pin pattern lookup.
var pinTable = map[Kind]PinState{
	Forward:  {0, 0, 1},
	Backward: {0, 1, 0},
	Left:     {0, 1, 1},
	Right:    {1, 0, 0},
	Lock:     {1, 0, 1},
	Unlock:   {1, 1, 0},
	StopKind: {0, 0, 0},
}

// PinsFor returns the pattern for kind and whether kind drives pins at all
// (sleep does not).
func PinsFor(kind Kind) (PinState, bool) {
	p, ok := pinTable[kind]
	return p, ok
}

package polarhost

import "fmt"

// UnhomedAxisError reports a move that requires a travel bound which has
// never been established.
type UnhomedAxisError struct {
	EndPos Position
}

func (e *UnhomedAxisError) Error() string {
	return "Must home axis first"
}

// OutOfRangeError reports a move whose destination violates a homed travel
// bound.
type OutOfRangeError struct {
	EndPos Position
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("Move out of range: %.3f %.3f %.3f [%.3f]",
		e.EndPos.X, e.EndPos.Y, e.EndPos.Z, e.EndPos.E)
}

// UnhomedError creates the rejection error for a move on an unhomed axis.
func (m *Move) UnhomedError() error {
	return &UnhomedAxisError{EndPos: m.EndPos}
}

// RangeError creates the rejection error for a move that leaves the homed
// travel envelope.
func (m *Move) RangeError() error {
	return &OutOfRangeError{EndPos: m.EndPos}
}

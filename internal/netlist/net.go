package netlist

import "fmt"

// DisconnectedNet is the sentinel net index bound to every pin until
// inference matches it. It is never assigned to a real net.
const DisconnectedNet = -1

// PinRef identifies a pin by component index and pin index within that
// component. Back-references are indices, not pointers, so they stay valid
// within one extraction result and cannot leak across rebuilds.
type PinRef struct {
	Component int `json:"component"`
	Pin       int `json:"pin"`
}

func (r PinRef) String() string {
	return fmt.Sprintf("%d.%d", r.Component, r.Pin)
}

// Net is an equivalence class of connected pins. Optical nets have exactly
// two members; electrical nets have two or more. The index is unique and
// sequential within one extraction pass.
type Net struct {
	Idx  int      `json:"idx"`
	Type PinType  `json:"type"`
	Pins []PinRef `json:"pins"`
}

// NumPins returns the net's membership size.
func (n *Net) NumPins() int {
	return len(n.Pins)
}

// Contains reports whether the net has the given pin as a member.
func (n *Net) Contains(ref PinRef) bool {
	for _, p := range n.Pins {
		if p == ref {
			return true
		}
	}
	return false
}

func (n *Net) String() string {
	return fmt.Sprintf("net %d type %s pins %v", n.Idx, n.Type, n.Pins)
}

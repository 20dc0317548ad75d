package netlist

import (
	"errors"
	"fmt"

	"siepic-tools/pkg/geometry"
)

// Pin construction errors. Ambiguous and missing backing geometry are
// rejected at construction time instead of guessing a precedence.
var (
	ErrMissingGeometry      = errors.New("pin has no backing geometry")
	ErrAmbiguousPinGeometry = errors.New("pin has more than one backing geometry")
	ErrBadPinPath           = errors.New("optical pin path must have exactly two points")
)

// ConnectivityKind classifies a connectivity error found during inference.
type ConnectivityKind int

const (
	// OverConnected: more pins coincide at one point than the net type
	// allows (e.g. three optical pins at the same location).
	OverConnected ConnectivityKind = iota
	// UnderConnected: a pin group too small to form a net (a dangling pin).
	UnderConnected
)

func (k ConnectivityKind) String() string {
	switch k {
	case OverConnected:
		return "over-connected"
	case UnderConnected:
		return "under-connected"
	default:
		return "unknown"
	}
}

// ConnectivityError reports a net-arity violation at a location. It is a
// distinct error kind so callers can treat wiring mistakes differently from
// extraction faults.
type ConnectivityError struct {
	Kind     ConnectivityKind `json:"kind"`
	Type     PinType          `json:"type"`
	Position geometry.Point2D `json:"position"`
	Pins     []PinRef         `json:"pins"`
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s %s net at (%.1f, %.1f): %d pins %v",
		e.Kind, e.Type, e.Position.X, e.Position.Y, len(e.Pins), e.Pins)
}

// Package circuit exports an extraction result as a circuit-simulator deck
// and parses exported decks back for round-trip verification. The line
// format is the simulator's: `<component>_<idx> net1 net2 ... key=value ...`.
package circuit

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"siepic-tools/internal/netlist"
	"siepic-tools/internal/tech"
)

// NetName renders a net index as a deck net name. Pins still on the
// disconnected sentinel get a unique OPEN name so the deck stays loadable.
func NetName(netIdx int, pin netlist.PinRef) string {
	if netIdx == netlist.DisconnectedNet {
		return fmt.Sprintf("OPEN_%d_%d", pin.Component, pin.Pin)
	}
	return fmt.Sprintf("N$%d", netIdx)
}

// instanceName renders the deck instance name for a component.
func instanceName(c *netlist.Component) string {
	name := strings.ReplaceAll(c.Name, " ", "_")
	return fmt.Sprintf("%s_%d", name, c.Idx)
}

// Write exports the extraction as a deck. One line per component: instance
// name, the net of each pin in pin order, then sorted key=value parameters
// and the component placement.
func Write(w io.Writer, x *netlist.Extraction, t *tech.Technology) error {
	techName := ""
	if t != nil {
		techName = t.Name
	}
	if _, err := fmt.Fprintf(w, "* netlist extracted by siepic-tools, technology %s\n", techName); err != nil {
		return err
	}

	for ci, c := range x.Components {
		fields := []string{instanceName(c)}
		for pi, p := range c.Pins {
			fields = append(fields, NetName(p.Net, netlist.PinRef{Component: ci, Pin: pi}))
		}

		keys := make([]string, 0, len(c.Params))
		for k := range c.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s=%s", k, c.Params[k]))
		}
		fields = append(fields,
			fmt.Sprintf("lay_x=%g", c.DCenter.X),
			fmt.Sprintf("lay_y=%g", c.DCenter.Y),
		)

		if _, err := fmt.Fprintln(w, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile exports the deck to a file.
func WriteFile(path string, x *netlist.Extraction, t *tech.Technology) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, x, t)
}

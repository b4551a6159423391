package export

import (
	"fmt"
	"strings"

	"github.com/espalierhq/espalier/pkg/domain"
)

// ASCII renders every state as a box listing its transitions, with an
// asterisk marking the snapshot's current state. States are ordered
// initial first, then ascending.
func ASCII(cfg domain.MachineConfig, snap domain.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "machine: %s\n\n", cfg.ID)

	for _, name := range statesInitialFirst(cfg) {
		state := cfg.States[name]

		marker := " "
		if name == snap.Value {
			marker = "*"
		}
		lines := []string{fmt.Sprintf("%s %s", marker, name)}
		for _, ev := range state.EventNames() {
			tr := state.On[ev]
			line := fmt.Sprintf("    %s -> %s", ev, tr.Target)
			if tr.Guard != nil {
				line += " [guarded]"
			}
			lines = append(lines, line)
		}

		width := 0
		for _, l := range lines {
			if len(l) > width {
				width = len(l)
			}
		}

		border := "+" + strings.Repeat("-", width+2) + "+\n"
		sb.WriteString(border)
		for _, l := range lines {
			fmt.Fprintf(&sb, "| %-*s |\n", width, l)
		}
		sb.WriteString(border)
	}
	return sb.String()
}

// Flow renders a compact linear diagram following the first (lowest
// event name) transition out of each state, starting at the initial
// state. The current state is bracketed. The walk stops at a state with
// no transitions or when it would revisit a state.
func Flow(cfg domain.MachineConfig, snap domain.Snapshot) string {
	var sb strings.Builder
	seen := map[string]bool{}

	name := cfg.Initial
	sb.WriteString(flowNode(name, snap.Value))
	seen[name] = true

	for {
		events := cfg.States[name].EventNames()
		if len(events) == 0 {
			break
		}
		ev := events[0]
		next := cfg.States[name].On[ev].Target
		fmt.Fprintf(&sb, " --%s--> %s", ev, flowNode(next, snap.Value))
		if seen[next] {
			break
		}
		seen[next] = true
		name = next
	}
	return sb.String()
}

func flowNode(name, current string) string {
	if name == current {
		return "[" + name + "]"
	}
	return name
}

func statesInitialFirst(cfg domain.MachineConfig) []string {
	out := []string{cfg.Initial}
	for _, name := range cfg.StateNames() {
		if name != cfg.Initial {
			out = append(out, name)
		}
	}
	return out
}

// Package export renders machine configurations and snapshots as
// ASCII/mermaid diagrams, history and statistics reports, and JSON.
// Everything here is a pure function over its inputs; nothing mutates
// machine state.
package export

import (
	"fmt"
	"strings"

	"github.com/espalierhq/espalier/pkg/domain"
)

// Mermaid renders the configuration as a stateDiagram-v2 code block.
// Output is deterministic: states ascending, events ascending within a
// state, so the diagram can be diffed and parsed by tooling.
func Mermaid(cfg domain.MachineConfig) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "    [*] --> %s\n", cfg.Initial)

	for _, name := range cfg.StateNames() {
		state := cfg.States[name]
		for _, ev := range state.EventNames() {
			fmt.Fprintf(&sb, "    %s --> %s: %s\n", name, state.On[ev].Target, ev)
		}
	}
	return sb.String()
}

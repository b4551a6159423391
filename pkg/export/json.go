package export

import (
	"encoding/json"

	"github.com/espalierhq/espalier/pkg/domain"
)

// ConfigSummary is the structural part of a JSON export: the machine's
// shape without its functions.
type ConfigSummary struct {
	ID      string   `json:"id"`
	Initial string   `json:"initial"`
	States  []string `json:"states"`
}

// Dump is the JSON export consumed by external tooling.
type Dump struct {
	Config       ConfigSummary   `json:"config"`
	CurrentState domain.Snapshot `json:"currentState"`
}

// JSON serializes the configuration summary and current snapshot.
func JSON(cfg domain.MachineConfig, snap domain.Snapshot) ([]byte, error) {
	return json.MarshalIndent(Dump{
		Config: ConfigSummary{
			ID:      cfg.ID,
			Initial: cfg.Initial,
			States:  cfg.StateNames(),
		},
		CurrentState: snap,
	}, "", "  ")
}

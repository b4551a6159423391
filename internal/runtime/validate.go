package runtime

import (
	"fmt"

	"github.com/espalierhq/espalier/pkg/domain"
)

// ValidateConfig checks the whole configuration graph so that dispatch
// can never fail on a configuration defect. Unknown target states are an
// error here, not a runtime surprise.
func ValidateConfig(cfg domain.MachineConfig) error {
	if len(cfg.States) == 0 {
		return fmt.Errorf("machine %q: no states defined", cfg.ID)
	}
	if cfg.Initial == "" {
		return fmt.Errorf("machine %q: no initial state defined", cfg.ID)
	}
	if _, ok := cfg.States[cfg.Initial]; !ok {
		return fmt.Errorf("machine %q: initial state %q not defined", cfg.ID, cfg.Initial)
	}
	for name, sd := range cfg.States {
		if name == "" {
			return fmt.Errorf("machine %q: empty state name", cfg.ID)
		}
		for ev, tr := range sd.On {
			if ev == "" {
				return fmt.Errorf("machine %q: state %q has a transition with an empty event type", cfg.ID, name)
			}
			if tr.Target == "" {
				return fmt.Errorf("machine %q: state %q event %q has no target", cfg.ID, name, ev)
			}
			if _, ok := cfg.States[tr.Target]; !ok {
				return fmt.Errorf("machine %q: state %q event %q targets undefined state %q", cfg.ID, name, ev, tr.Target)
			}
		}
	}
	return nil
}

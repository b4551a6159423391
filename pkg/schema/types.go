// Package schema loads declarative machine definitions from YAML and
// resolves their guard and action references against a registry of named
// functions. It is the file-facing counterpart of the in-code
// domain.MachineConfig API; the CLI and the serve adapter consume it.
package schema

// Definition is the file representation of a machine. Guard and action
// fields reference registry names; a transition may be written either as
// a bare target string or as a full mapping:
//
//	states:
//	  idle:
//	    on:
//	      SEND: validating
//	  validating:
//	    on:
//	      VALIDATION_SUCCESS:
//	        target: sending
//	        guard: hasContent
//	        actions: [captureMessage]
type Definition struct {
	ID      string               `json:"id" mapstructure:"id"`
	Initial string               `json:"initial" mapstructure:"initial"`
	Debug   bool                 `json:"debug" mapstructure:"debug"`
	Context map[string]any       `json:"context" mapstructure:"context"`
	States  map[string]StateSpec `json:"states" mapstructure:"states"`
}

// StateSpec mirrors domain.StateDef with names in place of functions.
type StateSpec struct {
	On      map[string]TransitionSpec `json:"on" mapstructure:"on"`
	OnEnter string                    `json:"onEnter" mapstructure:"onEnter"`
	OnExit  string                    `json:"onExit" mapstructure:"onExit"`
}

// TransitionSpec mirrors domain.Transition with names in place of
// functions.
type TransitionSpec struct {
	Target  string   `json:"target" mapstructure:"target"`
	Guard   string   `json:"guard" mapstructure:"guard"`
	Actions []string `json:"actions" mapstructure:"actions"`
}

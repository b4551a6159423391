package schema

import (
	"fmt"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a YAML machine definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML machine definition. The document is first
// unmarshalled generically and then decoded with mapstructure so that
// the bare-string transition shorthand can be expanded by a decode hook.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	var def Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &def,
		DecodeHook: bareTargetHook,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	return &def, nil
}

// DecodeContext decodes the definition's context block into a typed
// struct, for hosts that prefer a schema over map lookups.
func (d *Definition) DecodeContext(out any) error {
	return mapstructure.Decode(d.Context, out)
}

// bareTargetHook expands the "EVENT: target" shorthand into a full
// TransitionSpec while decoding.
func bareTargetHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(TransitionSpec{}) {
		return data, nil
	}
	return TransitionSpec{Target: data.(string)}, nil
}

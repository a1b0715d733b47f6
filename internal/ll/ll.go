// Package ll defines the flat, OS-agnostic instruction format consumed by the
// input-hooking daemon. Nothing in here nests: a profile is a list of layers,
// a layer is a list of mods, and a mod is a trigger side plus a bind list.
package ll

import (
	"encoding/json"
	"fmt"
)

// FromType identifies a trigger-side step.
type FromType string

const (
	FromKeyDown FromType = "key_down"
	FromKeyUp   FromType = "key_up"
	FromWait    FromType = "wait"    // next step must follow within Ms
	FromTimeout FromType = "timeout" // previous state must persist for Ms
)

// ToType identifies a bind-side step.
type ToType string

const (
	ToPressKey   ToType = "press_key"
	ToReleaseKey ToType = "release_key"
	ToSwapLayer  ToType = "swap_layer"
	ToWait       ToType = "wait"
	ToRunScript  ToType = "run_script"
)

// From is a single trigger-side step.
type From struct {
	Type FromType
	Key  string
	Ms   int
}

// To is a single bind-side step.
type To struct {
	Type        ToType
	Key         string
	Layer       int
	Ms          int
	Script      string
	Interpreter string
}

// Mod is one compiled remapping. Simple triggers set Trigger; multi-step
// ("advanced") triggers set Triggers and Behavior instead.
type Mod struct {
	Trigger  *From  `json:"trigger,omitempty"`
	Triggers []From `json:"triggers,omitempty"`
	Behavior string `json:"behavior,omitempty"`
	Binds    []To   `json:"binds"`
	Priority int    `json:"priority"`
}

// Advanced reports whether the mod uses the multi-step trigger shape.
func (m Mod) Advanced() bool {
	return m.Triggers != nil
}

// Profile is the compiled form of a whole profile.
type Profile struct {
	Layers [][]Mod `json:"layers"`
}

// Trigger-side constructors.

func KeyDown(key string) From { return From{Type: FromKeyDown, Key: key} }
func KeyUp(key string) From   { return From{Type: FromKeyUp, Key: key} }
func WaitUpTo(ms int) From    { return From{Type: FromWait, Ms: ms} }
func HeldFor(ms int) From     { return From{Type: FromTimeout, Ms: ms} }

// Bind-side constructors.

func Press(key string) To   { return To{Type: ToPressKey, Key: key} }
func Release(key string) To { return To{Type: ToReleaseKey, Key: key} }
func Swap(layer int) To     { return To{Type: ToSwapLayer, Layer: layer} }
func Sleep(ms int) To       { return To{Type: ToWait, Ms: ms} }

func Script(script, interpreter string) To {
	return To{Type: ToRunScript, Script: script, Interpreter: interpreter}
}

type valueStep struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type scriptStep struct {
	Type        ToType `json:"type"`
	Script      string `json:"script"`
	Interpreter string `json:"interpreter"`
}

// MarshalJSON encodes a step as {"type", "value"} where value is the key
// for key steps and the millisecond count for timing steps.
func (f From) MarshalJSON() ([]byte, error) {
	switch f.Type {
	case FromKeyDown, FromKeyUp:
		return marshalValue(string(f.Type), f.Key)
	case FromWait, FromTimeout:
		return marshalValue(string(f.Type), f.Ms)
	}
	return nil, fmt.Errorf("ll: unknown trigger step %q", f.Type)
}

// UnmarshalJSON decodes the {"type", "value"} step shape.
func (f *From) UnmarshalJSON(data []byte) error {
	var raw valueStep
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := From{Type: FromType(raw.Type)}
	switch out.Type {
	case FromKeyDown, FromKeyUp:
		if err := json.Unmarshal(raw.Value, &out.Key); err != nil {
			return fmt.Errorf("ll: %s value: %w", raw.Type, err)
		}
	case FromWait, FromTimeout:
		if err := json.Unmarshal(raw.Value, &out.Ms); err != nil {
			return fmt.Errorf("ll: %s value: %w", raw.Type, err)
		}
	default:
		return fmt.Errorf("ll: unknown trigger step %q", raw.Type)
	}
	*f = out
	return nil
}

// MarshalJSON encodes a bind step. run_script carries script and
// interpreter; every other step carries a single value.
func (t To) MarshalJSON() ([]byte, error) {
	switch t.Type {
	case ToPressKey, ToReleaseKey:
		return marshalValue(string(t.Type), t.Key)
	case ToSwapLayer:
		return marshalValue(string(t.Type), t.Layer)
	case ToWait:
		return marshalValue(string(t.Type), t.Ms)
	case ToRunScript:
		return json.Marshal(scriptStep{Type: t.Type, Script: t.Script, Interpreter: t.Interpreter})
	}
	return nil, fmt.Errorf("ll: unknown bind step %q", t.Type)
}

// UnmarshalJSON decodes any bind step shape produced by MarshalJSON.
func (t *To) UnmarshalJSON(data []byte) error {
	var raw valueStep
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := To{Type: ToType(raw.Type)}
	var err error
	switch out.Type {
	case ToPressKey, ToReleaseKey:
		err = json.Unmarshal(raw.Value, &out.Key)
	case ToSwapLayer:
		err = json.Unmarshal(raw.Value, &out.Layer)
	case ToWait:
		err = json.Unmarshal(raw.Value, &out.Ms)
	case ToRunScript:
		var s scriptStep
		err = json.Unmarshal(data, &s)
		out.Script, out.Interpreter = s.Script, s.Interpreter
	default:
		return fmt.Errorf("ll: unknown bind step %q", raw.Type)
	}
	if err != nil {
		return fmt.Errorf("ll: %s: %w", raw.Type, err)
	}
	*t = out
	return nil
}

func marshalValue(typ string, value any) ([]byte, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueStep{Type: typ, Value: v})
}

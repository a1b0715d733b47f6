package profile

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/ll"
)

// TriggerType is the discriminator written to a trigger's "type" field.
type TriggerType string

const (
	TriggerKeyPress    TriggerType = "key_press"
	TriggerKeyRelease  TriggerType = "key_release"
	TriggerTapSequence TriggerType = "tap_sequence"
	TriggerHold        TriggerType = "hold"
	TriggerAppFocus    TriggerType = "app_focus"
)

// Trigger is the activation condition of a Modification. The set of
// variants is closed: KeyPress, KeyRelease, TapSequence, Hold, AppFocus.
type Trigger interface {
	Type() TriggerType
	Equal(other Trigger) bool
	Describe() string
	// Compile lowers the trigger to the trigger side of an ll.Mod.
	Compile() (ll.Mod, error)
	json.Marshaler

	walk(w *walker, path string) Trigger
}

// SequenceBehavior controls how the daemon treats keys of a tap sequence.
type SequenceBehavior string

const (
	// BehaviorDefault swallows the sequence and fires the bind once it completes.
	BehaviorDefault SequenceBehavior = "default"
	// BehaviorHoldLast fires the bind while the final key of the sequence is held.
	BehaviorHoldLast SequenceBehavior = "hold_last"
)

type valueJSON struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// KeyPress fires when Value goes down.
type KeyPress struct {
	Value string
}

func (t KeyPress) Type() TriggerType { return TriggerKeyPress }

func (t KeyPress) Equal(other Trigger) bool {
	o, ok := other.(KeyPress)
	return ok && o == t
}

func (t KeyPress) Describe() string { return t.Value + " pressed" }

func (t KeyPress) Compile() (ll.Mod, error) {
	from := ll.KeyDown(t.Value)
	return ll.Mod{Trigger: &from}, nil
}

func (t KeyPress) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: string(t.Type()), Value: t.Value})
}

func (t KeyPress) walk(w *walker, path string) Trigger {
	t.Value = w.mapKey(path+".value", t.Value)
	return t
}

// KeyRelease fires when Value comes up.
type KeyRelease struct {
	Value string
}

func (t KeyRelease) Type() TriggerType { return TriggerKeyRelease }

func (t KeyRelease) Equal(other Trigger) bool {
	o, ok := other.(KeyRelease)
	return ok && o == t
}

func (t KeyRelease) Describe() string { return t.Value + " released" }

func (t KeyRelease) Compile() (ll.Mod, error) {
	from := ll.KeyUp(t.Value)
	return ll.Mod{Trigger: &from}, nil
}

func (t KeyRelease) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: string(t.Type()), Value: t.Value})
}

func (t KeyRelease) walk(w *walker, path string) Trigger {
	t.Value = w.mapKey(path+".value", t.Value)
	return t
}

// KeyDelay is one step of a tap sequence: tap Key, then allow at most
// DelayMs before the next step.
type KeyDelay struct {
	Key     string
	DelayMs int
}

// MarshalJSON encodes the pair as a two-element array: ["Q", 300].
func (k KeyDelay) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{k.Key, k.DelayMs})
}

// TapSequence fires after its keys are tapped in order, each within its delay.
type TapSequence struct {
	Pairs    []KeyDelay
	Behavior SequenceBehavior
}

func (t TapSequence) Type() TriggerType { return TriggerTapSequence }

func (t TapSequence) Equal(other Trigger) bool {
	o, ok := other.(TapSequence)
	return ok && t.behavior() == o.behavior() && slices.Equal(t.Pairs, o.Pairs)
}

func (t TapSequence) behavior() SequenceBehavior {
	if t.Behavior == "" {
		return BehaviorDefault
	}
	return t.Behavior
}

func (t TapSequence) Describe() string {
	steps := make([]string, len(t.Pairs))
	for i, p := range t.Pairs {
		steps[i] = fmt.Sprintf("%s within %dms", p.Key, p.DelayMs)
	}
	return "Tap sequence: " + strings.Join(steps, ", ")
}

// Compile expands every pair into key_down, key_up, wait, in input order.
func (t TapSequence) Compile() (ll.Mod, error) {
	steps := make([]ll.From, 0, len(t.Pairs)*3)
	for _, p := range t.Pairs {
		steps = append(steps, ll.KeyDown(p.Key), ll.KeyUp(p.Key), ll.WaitUpTo(p.DelayMs))
	}
	return ll.Mod{Triggers: steps, Behavior: string(t.behavior())}, nil
}

func (t TapSequence) MarshalJSON() ([]byte, error) {
	pairs := t.Pairs
	if pairs == nil {
		pairs = []KeyDelay{}
	}
	return json.Marshal(struct {
		Type     TriggerType      `json:"type"`
		Pairs    []KeyDelay       `json:"key_time_pairs"`
		Behavior SequenceBehavior `json:"behavior"`
	}{t.Type(), pairs, t.behavior()})
}

func (t TapSequence) walk(w *walker, path string) Trigger {
	pairs := make([]KeyDelay, len(t.Pairs))
	for i, p := range t.Pairs {
		p.Key = w.mapKey(fmt.Sprintf("%s.key_time_pairs[%d][0]", path, i), p.Key)
		pairs[i] = p
	}
	t.Pairs = pairs
	return t
}

// Hold fires once Value has been held down for WaitMs.
type Hold struct {
	Value  string
	WaitMs int
}

func (t Hold) Type() TriggerType { return TriggerHold }

func (t Hold) Equal(other Trigger) bool {
	o, ok := other.(Hold)
	return ok && o == t
}

func (t Hold) Describe() string { return fmt.Sprintf("%s held for %dms", t.Value, t.WaitMs) }

func (t Hold) Compile() (ll.Mod, error) {
	return ll.Mod{}, errors.NewNotImplemented("hold trigger compilation")
}

func (t Hold) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   TriggerType `json:"type"`
		Value  string      `json:"value"`
		WaitMs int         `json:"wait_ms"`
	}{t.Type(), t.Value, t.WaitMs})
}

func (t Hold) walk(w *walker, path string) Trigger {
	t.Value = w.mapKey(path+".value", t.Value)
	return t
}

// AppFocus fires when Value is pressed while AppName has focus.
type AppFocus struct {
	AppName string
	Value   string
}

func (t AppFocus) Type() TriggerType { return TriggerAppFocus }

func (t AppFocus) Equal(other Trigger) bool {
	o, ok := other.(AppFocus)
	return ok && o == t
}

func (t AppFocus) Describe() string { return fmt.Sprintf("%s pressed in %s", t.Value, t.AppName) }

func (t AppFocus) Compile() (ll.Mod, error) {
	return ll.Mod{}, errors.NewNotImplemented("app_focus trigger compilation")
}

func (t AppFocus) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    TriggerType `json:"type"`
		AppName string      `json:"app_name"`
		Value   string      `json:"value"`
	}{t.Type(), t.AppName, t.Value})
}

func (t AppFocus) walk(w *walker, path string) Trigger {
	t.Value = w.mapKey(path+".value", t.Value)
	return t
}

// DecodeTrigger decodes a type-tagged trigger. Unknown tags fail with
// UNKNOWN_VARIANT; missing or mistyped fields fail with SCHEMA.
func DecodeTrigger(data []byte) (Trigger, error) {
	return decodeTrigger(data, "trigger")
}

func decodeTrigger(data []byte, path string) (Trigger, error) {
	obj, err := parseObject(data, path)
	if err != nil {
		return nil, err
	}
	typ, err := obj.str("type")
	if err != nil {
		return nil, err
	}

	switch TriggerType(typ) {
	case TriggerKeyPress:
		v, err := obj.key("value")
		if err != nil {
			return nil, err
		}
		return KeyPress{Value: v}, nil

	case TriggerKeyRelease:
		v, err := obj.key("value")
		if err != nil {
			return nil, err
		}
		return KeyRelease{Value: v}, nil

	case TriggerTapSequence:
		return decodeTapSequence(obj)

	case TriggerHold:
		v, err := obj.key("value")
		if err != nil {
			return nil, err
		}
		wait, err := obj.nonNegInt("wait_ms")
		if err != nil {
			return nil, err
		}
		return Hold{Value: v, WaitMs: wait}, nil

	case TriggerAppFocus:
		app, err := obj.str("app_name")
		if err != nil {
			return nil, err
		}
		v, err := obj.key("value")
		if err != nil {
			return nil, err
		}
		return AppFocus{AppName: app, Value: v}, nil
	}

	return nil, errors.NewUnknownVariant("trigger", typ)
}

func decodeTapSequence(obj *object) (Trigger, error) {
	items, err := obj.array("key_time_pairs")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NewSchema(obj.at("key_time_pairs"), "must not be empty")
	}

	pairs := make([]KeyDelay, len(items))
	for i, item := range items {
		at := index(obj.at("key_time_pairs"), i)
		var pair []json.RawMessage
		if err := json.Unmarshal(item, &pair); err != nil || len(pair) != 2 {
			return nil, errors.NewSchema(at, "must be a [key, delay_ms] pair")
		}
		var key string
		if err := json.Unmarshal(pair[0], &key); err != nil || key == "" {
			return nil, errors.NewSchema(at+"[0]", "must be a non-empty string")
		}
		delay, err := decodeInt(pair[1], at+"[1]")
		if err != nil {
			return nil, err
		}
		if delay < 0 {
			return nil, errors.NewSchema(at+"[1]", "must not be negative")
		}
		pairs[i] = KeyDelay{Key: key, DelayMs: delay}
	}

	behavior, err := obj.optStr("behavior", string(BehaviorDefault))
	if err != nil {
		return nil, err
	}
	switch SequenceBehavior(behavior) {
	case "":
		behavior = string(BehaviorDefault)
	case BehaviorDefault, BehaviorHoldLast:
	default:
		return nil, errors.NewSchema(obj.at("behavior"), fmt.Sprintf("unknown behavior %q", behavior))
	}

	return TapSequence{Pairs: pairs, Behavior: SequenceBehavior(behavior)}, nil
}

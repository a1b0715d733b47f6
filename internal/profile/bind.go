package profile

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/ll"
)

// BindType is the discriminator written to a bind's "type" field.
type BindType string

const (
	BindPressKey   BindType = "press_key"
	BindReleaseKey BindType = "release_key"
	BindTapKey     BindType = "tap_key"
	BindMacro      BindType = "macro"
	BindTimedMacro BindType = "timed_macro"
	BindRepeat     BindType = "repeat"
	BindSwapLayer  BindType = "swap_layer"
	BindOpenApp    BindType = "open_app"
	BindRunScript  BindType = "run_script"
)

// Bind is the action of a Modification. Macro, TimedMacro and Repeat
// contain further binds (and Repeat a trigger), to any depth.
type Bind interface {
	Type() BindType
	Equal(other Bind) bool
	Describe() string
	// Compile lowers the bind to daemon steps. target is the OS the daemon
	// runs on; only binds that launch programs depend on it.
	Compile(target keys.OS) ([]ll.To, error)
	json.Marshaler

	walk(w *walker, path string) Bind
}

// PressKey holds Value down.
type PressKey struct {
	Value string
}

func (b PressKey) Type() BindType { return BindPressKey }

func (b PressKey) Equal(other Bind) bool {
	o, ok := other.(PressKey)
	return ok && o == b
}

func (b PressKey) Describe() string { return "Press " + b.Value }

func (b PressKey) Compile(keys.OS) ([]ll.To, error) {
	return []ll.To{ll.Press(b.Value)}, nil
}

func (b PressKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: string(b.Type()), Value: b.Value})
}

func (b PressKey) walk(w *walker, path string) Bind {
	b.Value = w.mapKey(path+".value", b.Value)
	return b
}

// ReleaseKey lets Value up.
type ReleaseKey struct {
	Value string
}

func (b ReleaseKey) Type() BindType { return BindReleaseKey }

func (b ReleaseKey) Equal(other Bind) bool {
	o, ok := other.(ReleaseKey)
	return ok && o == b
}

func (b ReleaseKey) Describe() string { return "Release " + b.Value }

func (b ReleaseKey) Compile(keys.OS) ([]ll.To, error) {
	return []ll.To{ll.Release(b.Value)}, nil
}

func (b ReleaseKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: string(b.Type()), Value: b.Value})
}

func (b ReleaseKey) walk(w *walker, path string) Bind {
	b.Value = w.mapKey(path+".value", b.Value)
	return b
}

// TapKey presses and releases Value.
type TapKey struct {
	Value string
}

func (b TapKey) Type() BindType { return BindTapKey }

func (b TapKey) Equal(other Bind) bool {
	o, ok := other.(TapKey)
	return ok && o == b
}

func (b TapKey) Describe() string { return "Tap " + b.Value }

func (b TapKey) Compile(keys.OS) ([]ll.To, error) {
	return []ll.To{ll.Press(b.Value), ll.Release(b.Value)}, nil
}

func (b TapKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: string(b.Type()), Value: b.Value})
}

func (b TapKey) walk(w *walker, path string) Bind {
	b.Value = w.mapKey(path+".value", b.Value)
	return b
}

// Macro runs its binds back to back.
type Macro struct {
	Binds []Bind
}

func (b Macro) Type() BindType { return BindMacro }

func (b Macro) Equal(other Bind) bool {
	o, ok := other.(Macro)
	return ok && bindsEqual(b.Binds, o.Binds)
}

func (b Macro) Describe() string {
	return "Macro: " + strings.Join(describeBinds(b.Binds), ", ")
}

func (b Macro) Compile(target keys.OS) ([]ll.To, error) {
	var out []ll.To
	for i, child := range b.Binds {
		steps, err := compileChild(child, target, i)
		if err != nil {
			return nil, err
		}
		out = append(out, steps...)
	}
	return out, nil
}

func (b Macro) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  BindType `json:"type"`
		Binds []Bind   `json:"binds"`
	}{b.Type(), nonNilBinds(b.Binds)})
}

func (b Macro) walk(w *walker, path string) Bind {
	b.Binds = w.binds(path+".binds", b.Binds)
	return b
}

// TimedMacro runs its binds in order, pausing Times[i] milliseconds after Binds[i].
type TimedMacro struct {
	Binds []Bind
	Times []int
}

func (b TimedMacro) Type() BindType { return BindTimedMacro }

func (b TimedMacro) Equal(other Bind) bool {
	o, ok := other.(TimedMacro)
	return ok && slices.Equal(b.Times, o.Times) && bindsEqual(b.Binds, o.Binds)
}

func (b TimedMacro) Describe() string {
	parts := make([]string, 0, len(b.Binds)*2)
	for i, d := range describeBinds(b.Binds) {
		parts = append(parts, d)
		if i < len(b.Times) {
			parts = append(parts, fmt.Sprintf("wait %dms", b.Times[i]))
		}
	}
	return "Timed macro: " + strings.Join(parts, ", ")
}

func (b TimedMacro) Compile(target keys.OS) ([]ll.To, error) {
	if len(b.Times) != len(b.Binds) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("timed macro has %d binds but %d times", len(b.Binds), len(b.Times)))
	}
	var out []ll.To
	for i, child := range b.Binds {
		steps, err := compileChild(child, target, i)
		if err != nil {
			return nil, err
		}
		out = append(out, steps...)
		out = append(out, ll.Sleep(b.Times[i]))
	}
	return out, nil
}

func (b TimedMacro) MarshalJSON() ([]byte, error) {
	times := b.Times
	if times == nil {
		times = []int{}
	}
	return json.Marshal(struct {
		Type  BindType `json:"type"`
		Binds []Bind   `json:"binds"`
		Times []int    `json:"times"`
	}{b.Type(), nonNilBinds(b.Binds), times})
}

func (b TimedMacro) walk(w *walker, path string) Bind {
	b.Binds = w.binds(path+".binds", b.Binds)
	return b
}

// Repeat runs Value every TimeDelayMs, TimesToExecute times, until
// CancelTrigger fires.
type Repeat struct {
	Value          Bind
	TimeDelayMs    int
	TimesToExecute int
	CancelTrigger  Trigger
}

func (b Repeat) Type() BindType { return BindRepeat }

func (b Repeat) Equal(other Bind) bool {
	o, ok := other.(Repeat)
	if !ok || b.TimeDelayMs != o.TimeDelayMs || b.TimesToExecute != o.TimesToExecute {
		return false
	}
	return bindEqual(b.Value, o.Value) && triggerEqual(b.CancelTrigger, o.CancelTrigger)
}

func (b Repeat) Describe() string {
	inner := "nothing"
	if b.Value != nil {
		inner = b.Value.Describe()
	}
	desc := fmt.Sprintf("Repeat %s every %dms, %d times", inner, b.TimeDelayMs, b.TimesToExecute)
	if b.CancelTrigger != nil {
		desc += ", until " + b.CancelTrigger.Describe()
	}
	return desc
}

func (b Repeat) Compile(keys.OS) ([]ll.To, error) {
	return nil, errors.NewNotImplemented("repeat bind compilation")
}

func (b Repeat) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type           BindType `json:"type"`
		Value          Bind     `json:"value"`
		TimeDelay      int      `json:"time_delay"`
		TimesToExecute int      `json:"times_to_execute"`
		CancelTrigger  Trigger  `json:"cancel_trigger"`
	}{b.Type(), b.Value, b.TimeDelayMs, b.TimesToExecute, b.CancelTrigger})
}

func (b Repeat) walk(w *walker, path string) Bind {
	b.Value = w.bind(path+".value", b.Value)
	b.CancelTrigger = w.trigger(path+".cancel_trigger", b.CancelTrigger)
	return b
}

// SwapLayer makes LayerNumber the active layer.
type SwapLayer struct {
	LayerNumber int
}

func (b SwapLayer) Type() BindType { return BindSwapLayer }

func (b SwapLayer) Equal(other Bind) bool {
	o, ok := other.(SwapLayer)
	return ok && o == b
}

func (b SwapLayer) Describe() string { return fmt.Sprintf("Swap to layer %d", b.LayerNumber) }

func (b SwapLayer) Compile(keys.OS) ([]ll.To, error) {
	return []ll.To{ll.Swap(b.LayerNumber)}, nil
}

func (b SwapLayer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        BindType `json:"type"`
		LayerNumber int      `json:"layer_number"`
	}{b.Type(), b.LayerNumber})
}

func (b SwapLayer) walk(w *walker, path string) Bind {
	b.LayerNumber = w.mapLayer(path+".layer_number", b.LayerNumber)
	return b
}

// OpenApp launches AppName.
type OpenApp struct {
	AppName string
}

func (b OpenApp) Type() BindType { return BindOpenApp }

func (b OpenApp) Equal(other Bind) bool {
	o, ok := other.(OpenApp)
	return ok && o == b
}

func (b OpenApp) Describe() string { return "Open " + b.AppName }

// Compile picks the launcher for the OS the daemon runs on.
func (b OpenApp) Compile(target keys.OS) ([]ll.To, error) {
	switch target {
	case keys.MacOS:
		return []ll.To{ll.Script("open -a "+shellQuote(b.AppName), "sh")}, nil
	case keys.Linux:
		return []ll.To{ll.Script(b.AppName, "sh")}, nil
	case keys.Windows:
		return []ll.To{ll.Script(`start "" "`+b.AppName+`"`, "cmd.exe")}, nil
	}
	return nil, errors.NewInvalidRequest(fmt.Sprintf("no application launcher for OS %q", target))
}

func (b OpenApp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    BindType `json:"type"`
		AppName string   `json:"app_name"`
	}{b.Type(), b.AppName})
}

func (b OpenApp) walk(*walker, string) Bind { return b }

// RunScript runs Script with Interpreter.
type RunScript struct {
	Script      string
	Interpreter string
}

func (b RunScript) Type() BindType { return BindRunScript }

func (b RunScript) Equal(other Bind) bool {
	o, ok := other.(RunScript)
	return ok && o == b
}

func (b RunScript) Describe() string { return "Run script with " + b.Interpreter }

func (b RunScript) Compile(keys.OS) ([]ll.To, error) {
	return []ll.To{ll.Script(b.Script, b.Interpreter)}, nil
}

func (b RunScript) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        BindType `json:"type"`
		Script      string   `json:"script"`
		Interpreter string   `json:"interpreter"`
	}{b.Type(), b.Script, b.Interpreter})
}

func (b RunScript) walk(*walker, string) Bind { return b }

func compileChild(child Bind, target keys.OS, i int) ([]ll.To, error) {
	if child == nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("binds[%d] is empty", i))
	}
	return child.Compile(target)
}

func describeBinds(binds []Bind) []string {
	out := make([]string, len(binds))
	for i, b := range binds {
		if b == nil {
			out[i] = "nothing"
			continue
		}
		out[i] = b.Describe()
	}
	return out
}

func bindEqual(a, b Bind) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func bindsEqual(a, b []Bind) bool {
	return slices.EqualFunc(a, b, bindEqual)
}

func triggerEqual(a, b Trigger) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func nonNilBinds(binds []Bind) []Bind {
	if binds == nil {
		return []Bind{}
	}
	return binds
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// DecodeBind decodes a type-tagged bind, recursing through nested binds.
// Unknown tags fail with UNKNOWN_VARIANT; missing or mistyped fields fail
// with SCHEMA.
func DecodeBind(data []byte) (Bind, error) {
	return decodeBind(data, "bind")
}

func decodeBind(data []byte, path string) (Bind, error) {
	obj, err := parseObject(data, path)
	if err != nil {
		return nil, err
	}
	typ, err := obj.str("type")
	if err != nil {
		return nil, err
	}

	switch BindType(typ) {
	case BindPressKey, BindReleaseKey, BindTapKey:
		v, err := obj.key("value")
		if err != nil {
			return nil, err
		}
		switch BindType(typ) {
		case BindPressKey:
			return PressKey{Value: v}, nil
		case BindReleaseKey:
			return ReleaseKey{Value: v}, nil
		}
		return TapKey{Value: v}, nil

	case BindMacro:
		children, err := decodeChildren(obj)
		if err != nil {
			return nil, err
		}
		return Macro{Binds: children}, nil

	case BindTimedMacro:
		children, err := decodeChildren(obj)
		if err != nil {
			return nil, err
		}
		items, err := obj.array("times")
		if err != nil {
			return nil, err
		}
		if len(items) != len(children) {
			return nil, errors.NewSchema(obj.at("times"), fmt.Sprintf("has %d entries, want one per bind (%d)", len(items), len(children)))
		}
		times := make([]int, len(items))
		for i, item := range items {
			if times[i], err = decodeInt(item, index(obj.at("times"), i)); err != nil {
				return nil, err
			}
			if times[i] < 0 {
				return nil, errors.NewSchema(index(obj.at("times"), i), "must not be negative")
			}
		}
		return TimedMacro{Binds: children, Times: times}, nil

	case BindRepeat:
		return decodeRepeat(obj)

	case BindSwapLayer:
		n, err := obj.nonNegInt("layer_number")
		if err != nil {
			return nil, err
		}
		return SwapLayer{LayerNumber: n}, nil

	case BindOpenApp:
		app, err := obj.str("app_name")
		if err != nil {
			return nil, err
		}
		return OpenApp{AppName: app}, nil

	case BindRunScript:
		script, err := obj.str("script")
		if err != nil {
			return nil, err
		}
		interp, err := obj.str("interpreter")
		if err != nil {
			return nil, err
		}
		return RunScript{Script: script, Interpreter: interp}, nil
	}

	return nil, errors.NewUnknownVariant("bind", typ)
}

func decodeChildren(obj *object) ([]Bind, error) {
	items, err := obj.array("binds")
	if err != nil {
		return nil, err
	}
	children := make([]Bind, len(items))
	for i, item := range items {
		if children[i], err = decodeBind(item, index(obj.at("binds"), i)); err != nil {
			return nil, err
		}
	}
	return children, nil
}

func decodeRepeat(obj *object) (Bind, error) {
	raw, err := obj.raw("value")
	if err != nil {
		return nil, err
	}
	inner, err := decodeBind(raw, obj.at("value"))
	if err != nil {
		return nil, err
	}
	delay, err := obj.nonNegInt("time_delay")
	if err != nil {
		return nil, err
	}
	times, err := obj.nonNegInt("times_to_execute")
	if err != nil {
		return nil, err
	}
	raw, err = obj.raw("cancel_trigger")
	if err != nil {
		return nil, err
	}
	cancel, err := decodeTrigger(raw, obj.at("cancel_trigger"))
	if err != nil {
		return nil, err
	}
	return Repeat{Value: inner, TimeDelayMs: delay, TimesToExecute: times, CancelTrigger: cancel}, nil
}

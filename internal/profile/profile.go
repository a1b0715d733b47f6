// Package profile is the remapping model: profiles made of layers, layers made
// of trigger→bind rules, and their JSON form. It also owns cross-OS
// translation and compilation to the daemon's ll format.
package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
)

// DefaultLayers is the number of layers New creates.
const DefaultLayers = 2

const modificationType = "advanced"

// Modification is one rule: when Trigger fires, run Bind.
type Modification struct {
	Trigger Trigger
	Bind    Bind
}

func (m Modification) Equal(other Modification) bool {
	return triggerEqual(m.Trigger, other.Trigger) && bindEqual(m.Bind, other.Bind)
}

func (m Modification) Describe() string {
	trigger, bind := "nothing", "nothing"
	if m.Trigger != nil {
		trigger = m.Trigger.Describe()
	}
	if m.Bind != nil {
		bind = m.Bind.Describe()
	}
	return trigger + " → " + bind
}

func (m Modification) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string  `json:"type"`
		Trigger Trigger `json:"trigger"`
		Bind    Bind    `json:"bind"`
	}{modificationType, m.Trigger, m.Bind})
}

// Layer is a named, ordered list of rules. Number is the layer's position in
// its profile and is maintained by the profile.
type Layer struct {
	Name       string
	Remappings []Modification
	Number     int
}

func (l Layer) MarshalJSON() ([]byte, error) {
	remappings := l.Remappings
	if remappings == nil {
		remappings = []Modification{}
	}
	return json.Marshal(struct {
		Name       string         `json:"layer_name"`
		Remappings []Modification `json:"remappings"`
	}{l.Name, remappings})
}

func (l Layer) clone() Layer {
	l.Remappings = slices.Clone(l.Remappings)
	return l
}

// Profile is a named set of layers authored for one OS. Its layer count is
// always len(layers).
type Profile struct {
	Name   string
	OS     keys.OS
	layers []Layer
}

// New returns a profile with DefaultLayers empty layers.
func New(name string, os keys.OS) *Profile {
	p := &Profile{Name: name, OS: os}
	for range DefaultLayers {
		p.AddLayer("")
	}
	return p
}

func defaultLayerName(n int) string {
	return fmt.Sprintf("Layer %d", n)
}

// LayerCount returns the number of layers.
func (p *Profile) LayerCount() int {
	return len(p.layers)
}

// Layers returns a copy of the profile's layers.
func (p *Profile) Layers() []Layer {
	out := make([]Layer, len(p.layers))
	for i, l := range p.layers {
		out[i] = l.clone()
	}
	return out
}

// Layer returns a copy of layer n.
func (p *Profile) Layer(n int) (Layer, error) {
	if err := p.checkLayer(n); err != nil {
		return Layer{}, err
	}
	return p.layers[n].clone(), nil
}

func (p *Profile) checkLayer(n int) error {
	if n < 0 || n >= len(p.layers) {
		return errors.NewInvalidRequest(fmt.Sprintf("layer %d does not exist (profile has %d)", n, len(p.layers)))
	}
	return nil
}

// AddLayer appends an empty layer and returns its number. An empty name
// becomes "Layer <n>".
func (p *Profile) AddLayer(name string) int {
	n := len(p.layers)
	if name == "" {
		name = defaultLayerName(n)
	}
	p.layers = append(p.layers, Layer{Name: name, Remappings: []Modification{}, Number: n})
	return n
}

// RemoveLayer deletes layer n. Later layers move down by one and SwapLayer
// binds are retargeted to follow them; binds that pointed at the removed
// layer fall back to layer 0. Removing the last remaining layer fails and
// leaves the profile unchanged.
func (p *Profile) RemoveLayer(n int) error {
	if err := p.checkLayer(n); err != nil {
		return err
	}
	if len(p.layers) == 1 {
		return errors.NewLastLayer()
	}

	p.layers = slices.Delete(p.layers, n, n+1)
	p.renumber()
	p.retarget(func(ref int) int {
		switch {
		case ref == n:
			return 0
		case ref > n:
			return ref - 1
		}
		return ref
	})
	return nil
}

// SwapLayers exchanges the positions of layers a and b. SwapLayer binds keep
// pointing at the same layer contents.
func (p *Profile) SwapLayers(a, b int) error {
	if err := p.checkLayer(a); err != nil {
		return err
	}
	if err := p.checkLayer(b); err != nil {
		return err
	}
	if a == b {
		return nil
	}

	p.layers[a], p.layers[b] = p.layers[b], p.layers[a]
	p.renumber()
	p.retarget(func(ref int) int {
		switch ref {
		case a:
			return b
		case b:
			return a
		}
		return ref
	})
	return nil
}

// RenameLayer sets the name of layer n.
func (p *Profile) RenameLayer(n int, name string) error {
	if err := p.checkLayer(n); err != nil {
		return err
	}
	if name == "" {
		return errors.NewInvalidRequest("layer name must not be empty")
	}
	p.layers[n].Name = name
	return nil
}

// AddRemapping appends m to layer n.
func (p *Profile) AddRemapping(n int, m Modification) error {
	if err := p.checkLayer(n); err != nil {
		return err
	}
	if m.Trigger == nil || m.Bind == nil {
		return errors.NewInvalidRequest("remapping needs both a trigger and a bind")
	}
	p.layers[n].Remappings = append(p.layers[n].Remappings, m)
	return nil
}

// DeleteRemapping removes the rule at index i of layer n.
func (p *Profile) DeleteRemapping(n, i int) error {
	if err := p.checkLayer(n); err != nil {
		return err
	}
	rules := p.layers[n].Remappings
	if i < 0 || i >= len(rules) {
		return errors.NewInvalidRequest(fmt.Sprintf("layer %d has no remapping %d", n, i))
	}
	p.layers[n].Remappings = slices.Delete(rules, i, i+1)
	return nil
}

func (p *Profile) renumber() {
	for i := range p.layers {
		p.layers[i].Number = i
	}
}

func (p *Profile) retarget(fn func(int) int) {
	w := &walker{layer: func(_ string, n int) int { return fn(n) }}
	w.layers(p.layers)
}

// MarshalJSON writes the profile in its persisted shape.
func (p *Profile) MarshalJSON() ([]byte, error) {
	layers := p.layers
	if layers == nil {
		layers = []Layer{}
	}
	return json.Marshal(struct {
		Name       string  `json:"profile_name"`
		LayerCount int     `json:"layer_count"`
		OS         keys.OS `json:"OS"`
		Layers     []Layer `json:"layers"`
	}{p.Name, len(p.layers), p.OS, layers})
}

// Decode parses profile JSON exactly as written, without translation.
func Decode(data []byte) (*Profile, error) {
	obj, err := parseObject(data, "profile")
	if err != nil {
		return nil, err
	}
	obj.path = ""

	p := &Profile{}
	if p.Name, err = obj.str("profile_name"); err != nil {
		return nil, err
	}
	tag, err := obj.str("OS")
	if err != nil {
		return nil, err
	}
	switch keys.OS(tag) {
	case keys.MacOS, keys.Windows, keys.Linux, keys.Unknown:
		p.OS = keys.OS(tag)
	default:
		return nil, errors.NewSchema("OS", fmt.Sprintf("unknown OS %q", tag))
	}

	items, err := obj.array("layers")
	if err != nil {
		return nil, err
	}
	p.layers = make([]Layer, len(items))
	for i, item := range items {
		if p.layers[i], err = decodeLayer(item, index("layers", i)); err != nil {
			return nil, err
		}
		p.layers[i].Number = i
	}

	count, err := obj.integer("layer_count")
	if err != nil {
		return nil, err
	}
	if count != len(items) {
		return nil, errors.NewSchema("layer_count", fmt.Sprintf("is %d but layers has %d entries", count, len(items)))
	}
	return p, nil
}

// Unmarshal decodes profile JSON and, when it was authored on a different OS
// than current, translates its keys to current. Translation problems are
// returned as warnings and logged; they never fail the load.
func Unmarshal(data []byte, current keys.OS, logger *slog.Logger) (*Profile, []Warning, error) {
	p, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	if p.OS == current {
		return p, nil, nil
	}
	return p, p.Translate(current, logger), nil
}

func decodeLayer(data []byte, path string) (Layer, error) {
	obj, err := parseObject(data, path)
	if err != nil {
		return Layer{}, err
	}
	name, err := obj.str("layer_name")
	if err != nil {
		return Layer{}, err
	}
	items, err := obj.array("remappings")
	if err != nil {
		return Layer{}, err
	}
	l := Layer{Name: name, Remappings: make([]Modification, len(items))}
	for i, item := range items {
		if l.Remappings[i], err = decodeModification(item, index(obj.at("remappings"), i)); err != nil {
			return Layer{}, err
		}
	}
	return l, nil
}

// DecodeModification decodes a single {"type":"advanced", trigger, bind} rule.
func DecodeModification(data []byte) (Modification, error) {
	return decodeModification(data, "remapping")
}

func decodeModification(data []byte, path string) (Modification, error) {
	obj, err := parseObject(data, path)
	if err != nil {
		return Modification{}, err
	}
	typ, err := obj.str("type")
	if err != nil {
		return Modification{}, err
	}
	if typ != modificationType {
		return Modification{}, errors.NewUnknownVariant("remapping", typ)
	}

	raw, err := obj.raw("trigger")
	if err != nil {
		return Modification{}, err
	}
	trigger, err := decodeTrigger(raw, obj.at("trigger"))
	if err != nil {
		return Modification{}, err
	}
	if raw, err = obj.raw("bind"); err != nil {
		return Modification{}, err
	}
	bind, err := decodeBind(raw, obj.at("bind"))
	if err != nil {
		return Modification{}, err
	}
	return Modification{Trigger: trigger, Bind: bind}, nil
}

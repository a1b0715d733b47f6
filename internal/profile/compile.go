package profile

import (
	"fmt"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/ll"
)

// Compile merges the trigger side and bind side into one ll.Mod. Multi-step
// triggers keep their triggers/behavior shape; single-step ones use trigger.
func (m Modification) Compile(target keys.OS) (ll.Mod, error) {
	if m.Trigger == nil || m.Bind == nil {
		return ll.Mod{}, errors.NewInvalidRequest("remapping needs both a trigger and a bind")
	}
	mod, err := m.Trigger.Compile()
	if err != nil {
		return ll.Mod{}, err
	}
	binds, err := m.Bind.Compile(target)
	if err != nil {
		return ll.Mod{}, err
	}
	if binds == nil {
		binds = []ll.To{}
	}
	mod.Binds = binds
	return mod, nil
}

// Compile lowers every rule of the layer. A rule's priority is its position.
func (l Layer) Compile(target keys.OS) ([]ll.Mod, error) {
	mods := make([]ll.Mod, len(l.Remappings))
	for i, m := range l.Remappings {
		mod, err := m.Compile(target)
		if err != nil {
			return nil, fmt.Errorf("remapping %d: %w", i, err)
		}
		mod.Priority = i
		mods[i] = mod
	}
	return mods, nil
}

// Compile lowers the whole profile for a daemon running on target. It does
// not modify the profile.
func (p *Profile) Compile(target keys.OS) (ll.Profile, error) {
	out := ll.Profile{Layers: make([][]ll.Mod, len(p.layers))}
	for i, l := range p.layers {
		mods, err := l.Compile(target)
		if err != nil {
			return ll.Profile{}, fmt.Errorf("layer %d: %w", i, err)
		}
		out.Layers[i] = mods
	}
	return out, nil
}

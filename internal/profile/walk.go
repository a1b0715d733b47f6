package profile

import "fmt"

// walker rewrites the scalar leaves of a trigger/bind tree. Every variant's
// walk method rebuilds itself from the walker's callbacks, so nested binds
// are visited at any depth. A nil callback leaves that kind of leaf alone.
type walker struct {
	key      func(path, key string) string
	layer    func(path string, n int) int
	warnings []Warning
}

func (w *walker) mapKey(path, key string) string {
	if w.key == nil {
		return key
	}
	return w.key(path, key)
}

func (w *walker) mapLayer(path string, n int) int {
	if w.layer == nil {
		return n
	}
	return w.layer(path, n)
}

func (w *walker) warn(path, value, msg string) {
	w.warnings = append(w.warnings, Warning{Path: path, Value: value, Message: msg})
}

func (w *walker) trigger(path string, t Trigger) Trigger {
	if t == nil {
		w.warn(path, "", "unrecognized trigger shape left untouched")
		return nil
	}
	return t.walk(w, path)
}

func (w *walker) bind(path string, b Bind) Bind {
	if b == nil {
		w.warn(path, "", "unrecognized bind shape left untouched")
		return nil
	}
	return b.walk(w, path)
}

func (w *walker) binds(path string, binds []Bind) []Bind {
	if binds == nil {
		return nil
	}
	out := make([]Bind, len(binds))
	for i, b := range binds {
		out[i] = w.bind(index(path, i), b)
	}
	return out
}

// layers walks every rule of every layer in place.
func (w *walker) layers(layers []Layer) {
	for i := range layers {
		for j := range layers[i].Remappings {
			m := &layers[i].Remappings[j]
			path := fmt.Sprintf("layers[%d].remappings[%d]", i, j)
			m.Trigger = w.trigger(path+".trigger", m.Trigger)
			m.Bind = w.bind(path+".bind", m.Bind)
		}
	}
}

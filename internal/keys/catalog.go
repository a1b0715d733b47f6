package keys

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a misspelled key may be from its suggestion.
const maxSuggestDistance = 3

// common keys exist under the same identifier on every OS family.
var common = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"Digit0", "Digit1", "Digit2", "Digit3", "Digit4",
	"Digit5", "Digit6", "Digit7", "Digit8", "Digit9",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"Escape", "Tab", "CapsLock", "Space", "Enter", "Backspace",
	"ShiftLeft", "ShiftRight", "ControlLeft", "ControlRight",
	"ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight",
	"Home", "End", "PageUp", "PageDown",
	"Minus", "Equal", "BracketLeft", "BracketRight", "Backslash",
	"Semicolon", "Quote", "Backquote", "Comma", "Period", "Slash",
	"Numpad0", "Numpad1", "Numpad2", "Numpad3", "Numpad4",
	"Numpad5", "Numpad6", "Numpad7", "Numpad8", "Numpad9",
	"NumpadAdd", "NumpadSubtract", "NumpadMultiply", "NumpadDivide",
	"NumpadDecimal", "NumpadEnter",
	"AudioVolumeUp", "AudioVolumeDown", "AudioVolumeMute",
}

// specific keys only exist on one OS family (or under an OS-specific name).
var specific = map[OS][]string{
	MacOS: {
		"MacCommandLeft", "MacCommandRight", "MacOptionLeft", "MacOptionRight",
		"MacFn", "ForwardDelete", "F13", "F14", "F15",
	},
	Windows: {
		"WinLeft", "WinRight", "AltLeft", "AltRight", "ContextMenu",
		"Delete", "Insert", "PrintScreen", "ScrollLock", "Pause", "NumLock",
	},
	Linux: {
		"SuperLeft", "SuperRight", "AltLeft", "AltRight", "ContextMenu",
		"Delete", "Insert", "PrintScreen", "ScrollLock", "Pause", "NumLock",
	},
}

var catalogs = buildCatalogs()

func buildCatalogs() map[OS]map[string]struct{} {
	out := make(map[OS]map[string]struct{}, len(Families))
	for _, o := range Families {
		set := make(map[string]struct{}, len(common)+len(specific[o]))
		for _, k := range common {
			set[k] = struct{}{}
		}
		for _, k := range specific[o] {
			set[k] = struct{}{}
		}
		out[o] = set
	}
	return out
}

// Valid reports whether key belongs to the catalog of o.
// Unknown never has a catalog, so nothing is valid for it.
func Valid(o OS, key string) bool {
	_, ok := catalogs[o][key]
	return ok
}

// Catalog returns the sorted key identifiers for o, or nil for Unknown.
func Catalog(o OS) []string {
	set, ok := catalogs[o]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Suggest returns the catalog key closest to key for o, or "" when nothing
// is near enough. Comparison ignores case.
func Suggest(o OS, key string) string {
	needle := strings.ToLower(key)
	best, bestDist := "", maxSuggestDistance+1
	for _, candidate := range Catalog(o) {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(candidate))
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

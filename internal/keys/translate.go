package keys

// Table is a one-way key translation between two OS families.
// Keys absent from the table translate to themselves when the target
// catalog has them.
type Table struct {
	From  OS
	To    OS
	pairs map[string]string
}

type direction struct {
	from, to OS
}

// The three tables below are written in one direction; their inverses are
// derived so every pair round-trips.
var (
	windowsToLinux = map[string]string{
		"WinLeft":  "SuperLeft",
		"WinRight": "SuperRight",
	}
	windowsToMac = map[string]string{
		"WinLeft":     "MacCommandLeft",
		"WinRight":    "MacCommandRight",
		"AltLeft":     "MacOptionLeft",
		"AltRight":    "MacOptionRight",
		"Delete":      "ForwardDelete",
		"PrintScreen": "F13",
		"ScrollLock":  "F14",
		"Pause":       "F15",
	}
	linuxToMac = map[string]string{
		"SuperLeft":   "MacCommandLeft",
		"SuperRight":  "MacCommandRight",
		"AltLeft":     "MacOptionLeft",
		"AltRight":    "MacOptionRight",
		"Delete":      "ForwardDelete",
		"PrintScreen": "F13",
		"ScrollLock":  "F14",
		"Pause":       "F15",
	}
)

var tables = map[direction]*Table{
	{Windows, Linux}: {From: Windows, To: Linux, pairs: windowsToLinux},
	{Linux, Windows}: {From: Linux, To: Windows, pairs: invert(windowsToLinux)},
	{Windows, MacOS}: {From: Windows, To: MacOS, pairs: windowsToMac},
	{MacOS, Windows}: {From: MacOS, To: Windows, pairs: invert(windowsToMac)},
	{Linux, MacOS}:   {From: Linux, To: MacOS, pairs: linuxToMac},
	{MacOS, Linux}:   {From: MacOS, To: Linux, pairs: invert(linuxToMac)},
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// TableFor returns the directional table from one OS to another.
// There is no table when either side is Unknown or both sides are equal.
func TableFor(from, to OS) (*Table, bool) {
	t, ok := tables[direction{from, to}]
	return t, ok
}

// Remap translates a single key. ok is false when the key has no
// equivalent on the target OS; the input is returned unchanged in that case.
func (t *Table) Remap(key string) (out string, ok bool) {
	if mapped, found := t.pairs[key]; found {
		return mapped, true
	}
	if Valid(t.To, key) {
		return key, true
	}
	return key, false
}

// Remap translates key from one OS family to another. It reports false when
// no table exists for the pair or the key has no equivalent.
func Remap(key string, from, to OS) (string, bool) {
	if from == to && from.Named() {
		return key, Valid(to, key)
	}
	t, ok := TableFor(from, to)
	if !ok {
		return key, false
	}
	return t.Remap(key)
}

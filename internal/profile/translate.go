package profile

import (
	"fmt"
	"log/slog"

	"github.com/hpungsan/clickr/internal/keys"
)

// Warning is a non-fatal translation problem. The value at Path was left as
// it was.
type Warning struct {
	Path    string `json:"path"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Value == "" {
		return fmt.Sprintf("%s: %s", w.Path, w.Message)
	}
	return fmt.Sprintf("%s: %s (%q)", w.Path, w.Message, w.Value)
}

// Translate rewrites every key in the profile from its OS to target and sets
// the profile's OS to target. Keys with no equivalent on target keep their
// value and produce a warning. When no table exists for the pair, nothing is
// rewritten, OS is left unchanged and a single warning is returned.
// Every warning is also logged.
func (p *Profile) Translate(target keys.OS, logger *slog.Logger) []Warning {
	if logger == nil {
		logger = slog.Default()
	}
	if p.OS == target {
		return nil
	}

	table, ok := keys.TableFor(p.OS, target)
	if !ok {
		w := Warning{
			Path:    "OS",
			Value:   string(p.OS),
			Message: fmt.Sprintf("no key translation from %s to %s", p.OS, target),
		}
		logger.Warn("profile not translated", "profile", p.Name, "from", p.OS, "to", target)
		return []Warning{w}
	}

	w := &walker{}
	w.key = func(path, key string) string {
		out, ok := table.Remap(key)
		if !ok {
			w.warn(path, key, fmt.Sprintf("no %s equivalent", target))
		}
		return out
	}
	w.layers(p.layers)

	for _, warn := range w.warnings {
		logger.Warn("key not translated", "profile", p.Name, "path", warn.Path, "value", warn.Value, "reason", warn.Message)
	}
	logger.Debug("profile translated", "profile", p.Name, "from", p.OS, "to", target, "warnings", len(w.warnings))

	p.OS = target
	return w.warnings
}

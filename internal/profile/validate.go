package profile

import (
	"fmt"

	"github.com/hpungsan/clickr/internal/keys"
)

// Problem is a finding from Validate. Suggestion is the closest catalog key
// when the problem is an unknown key.
type Problem struct {
	Path       string `json:"path"`
	Value      string `json:"value,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Validate checks every key against the catalog of the profile's OS and every
// SwapLayer bind against the layer count. The profile is not modified.
func (p *Profile) Validate() []Problem {
	var problems []Problem
	w := &walker{}

	if p.OS.Named() {
		w.key = func(path, key string) string {
			if !keys.Valid(p.OS, key) {
				problems = append(problems, Problem{
					Path:       path,
					Value:      key,
					Message:    fmt.Sprintf("not a %s key", p.OS),
					Suggestion: keys.Suggest(p.OS, key),
				})
			}
			return key
		}
	} else {
		problems = append(problems, Problem{
			Path:    "OS",
			Value:   string(p.OS),
			Message: "keys cannot be checked without a known OS",
		})
	}

	w.layer = func(path string, n int) int {
		if n >= len(p.layers) {
			problems = append(problems, Problem{
				Path:    path,
				Value:   fmt.Sprint(n),
				Message: fmt.Sprintf("layer %d does not exist (profile has %d)", n, len(p.layers)),
			})
		}
		return n
	}

	w.layers(p.Layers())
	for _, warn := range w.warnings {
		problems = append(problems, Problem{Path: warn.Path, Value: warn.Value, Message: warn.Message})
	}
	return problems
}

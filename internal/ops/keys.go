package ops

import (
	"strings"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
)

// KeysInput contains parameters for the Keys operation.
type KeysInput struct {
	OS     keys.OS // required
	Filter string  // optional, case-insensitive substring
}

// KeysOutput contains the result of the Keys operation.
type KeysOutput struct {
	OS    string   `json:"os"`
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// Keys lists the key identifiers valid on an OS.
func Keys(input KeysInput) (*KeysOutput, error) {
	if !input.OS.Named() {
		return nil, errors.NewInvalidRequest("os must be one of: macOS, Windows, Linux")
	}
	filter := strings.ToLower(input.Filter)
	out := []string{}
	for _, k := range keys.Catalog(input.OS) {
		if filter == "" || strings.Contains(strings.ToLower(k), filter) {
			out = append(out, k)
		}
	}
	return &KeysOutput{OS: string(input.OS), Keys: out, Count: len(out)}, nil
}

package ops

import (
	"database/sql"
	"encoding/json"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/profile"
)

// ValidateInput contains parameters for the Validate operation.
// Exactly one of Name or Profile must be set.
type ValidateInput struct {
	Name    string
	Profile json.RawMessage
}

// ValidateOutput contains the result of the Validate operation.
type ValidateOutput struct {
	Name     string            `json:"name"`
	OS       string            `json:"os"`
	Valid    bool              `json:"valid"`
	Problems []profile.Problem `json:"problems"`
}

// Validate checks every key and layer reference of a profile against its OS.
// Malformed JSON is an error; unknown keys are findings.
func Validate(database *sql.DB, input ValidateInput) (*ValidateOutput, error) {
	p, err := resolve(database, input.Name, input.Profile)
	if err != nil {
		return nil, err
	}
	problems := p.Validate()
	if problems == nil {
		problems = []profile.Problem{}
	}
	return &ValidateOutput{
		Name:     p.Name,
		OS:       string(p.OS),
		Valid:    len(problems) == 0,
		Problems: problems,
	}, nil
}

// resolve returns the stored profile called name, or decodes raw.
func resolve(database *sql.DB, name string, raw json.RawMessage) (*profile.Profile, error) {
	switch {
	case name != "" && len(raw) > 0:
		return nil, errors.NewInvalidRequest("name and profile are mutually exclusive")
	case len(raw) > 0:
		return profile.Decode(raw)
	case name != "":
		_, p, err := load(database, name)
		return p, err
	}
	return nil, errors.NewInvalidRequest("name or profile is required")
}

package ops

import (
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/ll"
	"github.com/hpungsan/clickr/internal/profile"
)

// CompileInput contains parameters for the Compile operation.
type CompileInput struct {
	Name    string
	Profile json.RawMessage
	Target  keys.OS // required, the daemon's OS
	Logger  *slog.Logger
}

// CompileOutput contains the result of the Compile operation.
type CompileOutput struct {
	Name     string            `json:"name"`
	Target   string            `json:"target"`
	Warnings []profile.Warning `json:"warnings"`
	Compiled ll.Profile        `json:"compiled"`
}

// Compile translates a profile to Target when needed and lowers it to the
// daemon's ll format. Stored profiles are left as they are.
func Compile(database *sql.DB, input CompileInput) (*CompileOutput, error) {
	p, err := resolve(database, input.Name, input.Profile)
	if err != nil {
		return nil, err
	}
	compiled, warnings, err := prepare(p, input.Target, input.Logger)
	if err != nil {
		return nil, err
	}
	return &CompileOutput{
		Name:     p.Name,
		Target:   string(input.Target),
		Warnings: warnings,
		Compiled: compiled,
	}, nil
}

// prepare translates p in place to target and compiles it.
func prepare(p *profile.Profile, target keys.OS, logger *slog.Logger) (ll.Profile, []profile.Warning, error) {
	if !target.Named() {
		return ll.Profile{}, nil, errors.NewInvalidRequest("target must be one of: macOS, Windows, Linux")
	}
	warnings := p.Translate(target, logger)
	if warnings == nil {
		warnings = []profile.Warning{}
	}
	compiled, err := p.Compile(target)
	if err != nil {
		return ll.Profile{}, nil, err
	}
	return compiled, warnings, nil
}

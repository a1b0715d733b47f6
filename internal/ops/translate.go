package ops

import (
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/profile"
)

// TranslateInput contains parameters for the Translate operation.
type TranslateInput struct {
	Name    string
	Profile json.RawMessage
	Target  keys.OS // required
	Save    bool    // replace the stored profile; requires Name
	Logger  *slog.Logger
}

// TranslateOutput contains the result of the Translate operation.
type TranslateOutput struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Warnings []profile.Warning `json:"warnings"`
	Profile  json.RawMessage   `json:"profile"`
	Saved    bool              `json:"saved"`
}

// Translate rewrites every key of a profile for Target.
func Translate(database *sql.DB, input TranslateInput) (*TranslateOutput, error) {
	if !input.Target.Named() {
		return nil, errors.NewInvalidRequest("target must be one of: macOS, Windows, Linux")
	}
	if input.Save && input.Name == "" {
		return nil, errors.NewInvalidRequest("save requires a stored profile name")
	}
	p, err := resolve(database, input.Name, input.Profile)
	if err != nil {
		return nil, err
	}

	from := p.OS
	warnings := p.Translate(input.Target, input.Logger)
	if warnings == nil {
		warnings = []profile.Warning{}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	out := &TranslateOutput{
		From:     string(from),
		To:       string(p.OS),
		Warnings: warnings,
		Profile:  data,
	}
	if input.Save && p.OS != from {
		if _, err := saveProfile(database, p, SaveModeReplace); err != nil {
			return nil, err
		}
		out.Saved = true
	}
	return out, nil
}

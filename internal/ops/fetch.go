package ops

import (
	"database/sql"
	"encoding/json"

	"github.com/hpungsan/clickr/internal/db"
	"github.com/hpungsan/clickr/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
// Exactly one of Name or Active must be set.
type FetchInput struct {
	Name   string
	Active bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	ProfileSummary
	Profile json.RawMessage `json:"profile"`
}

// Fetch retrieves a stored profile by name, or the active one.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	var (
		rec *db.Record
		err error
	)
	switch {
	case input.Active && input.Name != "":
		return nil, errors.NewInvalidRequest("name and active are mutually exclusive")
	case input.Active:
		rec, err = db.GetActive(database)
	default:
		var norm string
		if norm, err = ValidateName(input.Name); err != nil {
			return nil, err
		}
		rec, err = db.GetByName(database, norm)
	}
	if err != nil {
		return nil, err
	}

	return &FetchOutput{
		ProfileSummary: summarize(rec),
		Profile:        json.RawMessage(rec.ProfileJSON),
	}, nil
}

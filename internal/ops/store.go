package ops

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hpungsan/clickr/internal/db"
	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/profile"
)

// SaveMode controls behavior when a profile with the same name exists.
type SaveMode string

const (
	SaveModeError   SaveMode = "error"   // fail with NAME_ALREADY_EXISTS
	SaveModeReplace SaveMode = "replace" // overwrite the stored profile
	SaveModeRename  SaveMode = "rename"  // store under "<name> (n)"
)

// maxRenameAttempts bounds the "<name> (n)" search.
const maxRenameAttempts = 100

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	Profile json.RawMessage // required, profile JSON
	Mode    SaveMode        // default: error
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OS         string `json:"os"`
	LayerCount int    `json:"layer_count"`
	Replaced   bool   `json:"replaced"`
}

// Save decodes profile JSON and stores it in the library as written.
func Save(database *sql.DB, input SaveInput) (*SaveOutput, error) {
	if len(input.Profile) == 0 {
		return nil, errors.NewInvalidRequest("profile is required")
	}
	p, err := profile.Decode(input.Profile)
	if err != nil {
		return nil, err
	}
	return saveProfile(database, p, input.Mode)
}

func saveProfile(database *sql.DB, p *profile.Profile, mode SaveMode) (*SaveOutput, error) {
	if mode == "" {
		mode = SaveModeError
	}
	if mode != SaveModeError && mode != SaveModeReplace && mode != SaveModeRename {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, rename")
	}
	if _, err := ValidateName(p.Name); err != nil {
		return nil, errors.NewInvalidRequest("profile_name must not be empty")
	}

	rec, err := newRecord(p)
	if err != nil {
		return nil, err
	}

	existing, err := db.GetByName(database, rec.NameNorm)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		switch mode {
		case SaveModeError:
			return nil, errors.NewNameAlreadyExists(p.Name)
		case SaveModeReplace:
			rec.ID = existing.ID
			if err := db.UpdateByID(database, rec); err != nil {
				return nil, err
			}
			return saveOutput(rec, true), nil
		case SaveModeRename:
			if err := renameFree(database, p); err != nil {
				return nil, err
			}
			if rec, err = newRecord(p); err != nil {
				return nil, err
			}
		}
	}

	if err := db.Insert(database, rec); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewNameAlreadyExists(p.Name)
		}
		return nil, err
	}
	return saveOutput(rec, false), nil
}

// renameFree sets p.Name to the first "<name> (n)" not in the library.
func renameFree(database *sql.DB, p *profile.Profile) error {
	base := p.Name
	for n := 2; n <= maxRenameAttempts; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		_, err := db.GetByName(database, db.NormalizeName(candidate))
		if errors.Is(err, errors.ErrNotFound) {
			p.Name = candidate
			return nil
		}
		if err != nil {
			return err
		}
	}
	return errors.NewNameAlreadyExists(base)
}

func saveOutput(rec *db.Record, replaced bool) *SaveOutput {
	return &SaveOutput{
		ID:         rec.ID,
		Name:       rec.NameRaw,
		OS:         rec.OS,
		LayerCount: rec.LayerCount,
		Replaced:   replaced,
	}
}

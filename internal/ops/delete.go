package ops

import (
	"database/sql"

	"github.com/hpungsan/clickr/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	Name string // required
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

// Delete removes a profile from the library.
func Delete(database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	norm, err := ValidateName(input.Name)
	if err != nil {
		return nil, err
	}
	rec, err := db.GetByName(database, norm)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(database, rec.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{Deleted: true, ID: rec.ID, Name: rec.NameRaw}, nil
}

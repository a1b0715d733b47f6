package db

import (
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/hpungsan/clickr/internal/errors"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.ClickrError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// Record is one stored profile. ProfileJSON is the profile's persisted JSON,
// exactly as profile.Profile marshals it.
type Record struct {
	ID          string
	NameRaw     string
	NameNorm    string
	OS          string
	LayerCount  int
	ProfileJSON string
	Active      bool
	CreatedAt   int64
	UpdatedAt   int64
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName trims, lowercases and collapses internal whitespace so
// "My  Profile" and "my profile" address the same row.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRegex.ReplaceAllString(s, " ")
}

const selectColumns = `
	SELECT id, name_raw, name_norm, os, layer_count, profile_json,
		active, created_at, updated_at
	FROM profiles
`

// Insert stores a new profile.
func Insert(db *sql.DB, r *Record) error {
	query := `
		INSERT INTO profiles (
			id, name_raw, name_norm, os, layer_count, profile_json,
			active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
	`

	_, err := db.Exec(query,
		r.ID, r.NameRaw, r.NameNorm, r.OS, r.LayerCount, r.ProfileJSON,
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	r.Active = false
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves a profile by its ULID.
func GetByID(db *sql.DB, id string) (*Record, error) {
	r, err := scanRecord(db.QueryRow(selectColumns+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// GetByName retrieves a profile by normalized name.
func GetByName(db *sql.DB, nameNorm string) (*Record, error) {
	r, err := scanRecord(db.QueryRow(selectColumns+" WHERE name_norm = ?", nameNorm))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(nameNorm)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// GetActive retrieves the profile last sent to the daemon.
func GetActive(db *sql.DB) (*Record, error) {
	r, err := scanRecord(db.QueryRow(selectColumns + " WHERE active = 1"))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("active profile")
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// List returns profiles ordered by most recently updated, plus the total count.
func List(db *sql.DB, limit, offset int) ([]Record, int, error) {
	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := db.Query(selectColumns+" ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return records, total, nil
}

// UpdateByID replaces the profile body of an existing row.
// Sets updated_at to current timestamp.
// Does NOT change: id, name_norm, active.
func UpdateByID(db *sql.DB, r *Record) error {
	now := time.Now().Unix()

	query := `
		UPDATE profiles
		SET name_raw = ?, os = ?, layer_count = ?, profile_json = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := db.Exec(query, r.NameRaw, r.OS, r.LayerCount, r.ProfileJSON, now, r.ID)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(r.ID)
	}

	r.UpdatedAt = now
	return nil
}

// Delete removes a profile.
func Delete(db *sql.DB, id string) error {
	result, err := db.Exec("DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// SetActive marks id as the active profile and clears the flag everywhere else.
func SetActive(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("UPDATE profiles SET active = 0 WHERE active = 1 AND id != ?", id); err != nil {
		return errors.NewInternal(err)
	}
	result, err := tx.Exec("UPDATE profiles SET active = 1 WHERE id = ?", id)
	if err != nil {
		return errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		r      Record
		active int
	)
	err := row.Scan(
		&r.ID, &r.NameRaw, &r.NameNorm, &r.OS, &r.LayerCount, &r.ProfileJSON,
		&active, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Active = active == 1
	return &r, nil
}

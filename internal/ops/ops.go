// Package ops holds the profile-library and daemon operations shared by the
// CLI and the MCP server. Each operation takes an Input struct and returns an
// Output struct that marshals directly as the command's JSON result.
package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/clickr/internal/bridge"
	"github.com/hpungsan/clickr/internal/db"
	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/ll"
	"github.com/hpungsan/clickr/internal/profile"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Daemon is the subset of bridge.Client the operations use.
type Daemon interface {
	LoadProfile(ctx context.Context, compiled ll.Profile) (*bridge.Response, error)
	GetFrequencies(ctx context.Context) (bridge.Frequencies, error)
	Ping(ctx context.Context) (*bridge.Response, error)
}

var _ Daemon = (*bridge.Client)(nil)

// ValidateName normalizes a profile name and rejects empty ones.
func ValidateName(name string) (string, error) {
	norm := db.NormalizeName(name)
	if norm == "" {
		return "", errors.NewInvalidRequest("name is required")
	}
	return norm, nil
}

// load fetches a stored profile and decodes it as written.
func load(database *sql.DB, name string) (*db.Record, *profile.Profile, error) {
	norm, err := ValidateName(name)
	if err != nil {
		return nil, nil, err
	}
	rec, err := db.GetByName(database, norm)
	if err != nil {
		return nil, nil, err
	}
	p, err := profile.Decode([]byte(rec.ProfileJSON))
	if err != nil {
		// rows are only written from decoded profiles
		return nil, nil, errors.NewInternal(err)
	}
	return rec, p, nil
}

// newRecord builds an unsaved row for p.
func newRecord(p *profile.Profile) (*db.Record, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	now := time.Now().Unix()
	return &db.Record{
		ID:          id,
		NameRaw:     p.Name,
		NameNorm:    db.NormalizeName(p.Name),
		OS:          string(p.OS),
		LayerCount:  p.LayerCount(),
		ProfileJSON: string(data),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

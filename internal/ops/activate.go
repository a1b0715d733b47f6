package ops

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/hpungsan/clickr/internal/db"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/profile"
)

// ActivateInput contains parameters for the Activate operation.
type ActivateInput struct {
	Name   string  // required
	Target keys.OS // required, the daemon's OS
	Logger *slog.Logger
}

// ActivateOutput contains the result of the Activate operation.
type ActivateOutput struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Target   string            `json:"target"`
	Layers   int               `json:"layers"`
	Rules    int               `json:"rules"`
	Warnings []profile.Warning `json:"warnings"`
}

// Activate compiles a stored profile for Target, sends it to the daemon and
// marks it active in the library. The row is only marked once the daemon
// has accepted the profile.
func Activate(ctx context.Context, database *sql.DB, daemon Daemon, input ActivateInput) (*ActivateOutput, error) {
	rec, p, err := load(database, input.Name)
	if err != nil {
		return nil, err
	}
	compiled, warnings, err := prepare(p, input.Target, input.Logger)
	if err != nil {
		return nil, err
	}

	if _, err := daemon.LoadProfile(ctx, compiled); err != nil {
		return nil, err
	}
	if err := db.SetActive(database, rec.ID); err != nil {
		return nil, err
	}

	rules := 0
	for _, mods := range compiled.Layers {
		rules += len(mods)
	}
	return &ActivateOutput{
		ID:       rec.ID,
		Name:     rec.NameRaw,
		Target:   string(input.Target),
		Layers:   len(compiled.Layers),
		Rules:    rules,
		Warnings: warnings,
	}, nil
}

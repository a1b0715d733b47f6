package ops

import (
	"context"

	"github.com/hpungsan/clickr/internal/errors"
)

// StatusOutput contains the result of the Status operation.
type StatusOutput struct {
	Running bool   `json:"running"`
	Address string `json:"address"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Status pings the daemon. A daemon that cannot be reached is reported as
// not running rather than as an error.
func Status(ctx context.Context, daemon Daemon, address string) (*StatusOutput, error) {
	resp, err := daemon.Ping(ctx)
	if errors.Is(err, errors.ErrDaemonUnavailable) {
		return &StatusOutput{Address: address, Error: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	return &StatusOutput{Running: true, Address: address, Status: resp.Status}, nil
}

//go:build windows

package bridge

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

// DefaultAddress returns the daemon's named pipe.
func DefaultAddress() string {
	return PipeName
}

func dial(ctx context.Context, address string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, address)
}

//go:build !windows

package bridge

import (
	"context"
	"net"
	"os"
	"path/filepath"
)

// DefaultAddress returns the daemon socket in the temp directory.
func DefaultAddress() string {
	return filepath.Join(os.TempDir(), SocketName)
}

func dial(ctx context.Context, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", address)
}

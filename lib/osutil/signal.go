package osutil

import (
	"context"
	"os/signal"
	"syscall"
)

// SignalContext returns a context that is cancelled on the first Ctrl+C or
// SIGTERM. Once stop is called a further signal terminates the process as
// usual.
func SignalContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

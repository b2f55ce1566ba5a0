package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// WithShutdownSignals returns a context cancelled on SIGINT or SIGTERM.
// The returned stop function releases the signal handler.
func WithShutdownSignals(parent context.Context, log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("received signal, shutting down gracefully", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigs)
		cancel()
	}
}

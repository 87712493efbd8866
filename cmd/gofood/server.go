package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"
)

// serve accepts connections on ln until ctx is done,
// it returns only after in-flight requests are finished or shutdownTimeout expires
func serve(ctx context.Context, server *http.Server, ln net.Listener, logger *zap.Logger) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", zap.Error(err))
		}
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}

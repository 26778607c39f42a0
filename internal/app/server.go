package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/beatfx/internal/api"
	"github.com/vk/beatfx/internal/ctxlog"
)

// startAPIServer binds the configured address and serves the catalog API in
// the background.
func (a *App) startAPIServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring API server.", "addr", a.config.APIAddr)

	ln, err := net.Listen("tcp", a.config.APIAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.APIAddr, err)
	}
	srv := &http.Server{
		Handler:           api.NewHandler(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	a.apiListener = ln
	a.httpServer = srv
	a.mu.Unlock()

	go func() {
		logger.Info("API server starting", "address", fmt.Sprintf("http://%s", ln.Addr()))
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API server failed unexpectedly", "error", err)
		}
	}()
	return nil
}

// APIAddr returns the address the API server listens on, or nil.
func (a *App) APIAddr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.apiListener == nil {
		return nil
	}
	return a.apiListener.Addr()
}

func (a *App) closeAPIServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	a.mu.Lock()
	srv := a.httpServer
	a.mu.Unlock()
	if srv == nil {
		logger.Debug("API server was not running.")
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down API server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown failed", "error", err)
		return err
	}
	logger.Debug("API server shut down gracefully.")
	return nil
}

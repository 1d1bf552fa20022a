package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP API on port until ctx is cancelled
func (a *App) Serve(ctx context.Context, port string) error {
	if port == "" {
		port = a.Config.Server.Port
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zap.L().Info("app: shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("app: shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("app: starting server",
		zap.String("addr", srv.Addr),
		zap.String("environment", a.Config.Server.Environment),
		zap.String("store", a.Config.Store.Driver),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "app: listen")
	}
	return nil
}

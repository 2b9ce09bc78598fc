package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"menu-service/internal/common/logging"
	"menu-service/internal/server"
)

const shutdownTimeout = 30 * time.Second

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully
func (app *App) Serve(ctx context.Context) error {
	srv := server.New(app.Router(), app.Config.Address(), app.Config.TLSCertFile, app.Config.TLSKeyFile)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info("HTTP server listening", logging.String("addr", srv.Addr()))
		return srv.ListenAndServe()
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server stopped with error", err)
		return err
	}
	app.Logger.Info("Server exited")
	return nil
}

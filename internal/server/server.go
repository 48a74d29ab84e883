// Package server owns the process lifecycle: config, connections, the
// listener and graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lekhanhduy0411/tiemlen/config"
	"github.com/lekhanhduy0411/tiemlen/internal/kernel"
	"github.com/lekhanhduy0411/tiemlen/pkg/cache"
	"github.com/lekhanhduy0411/tiemlen/pkg/logger"
	"github.com/lekhanhduy0411/tiemlen/pkg/mongodb"
)

const shutdownTimeout = 10 * time.Second

// Start boots the application and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := mongodb.Connect(ctx); err != nil {
		return err
	}
	defer mongodb.Disconnect(context.Background())

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}

	var mongoLog *logger.MongoHandler
	if config.LogToMongo() {
		mongoLog = logger.NewMongoHandler(mongodb.Collection(mongodb.ColAppLogs))
		stdout := slog.NewTextHandler(os.Stdout, nil)
		logger.SetHandler(logger.NewMultiHandler(stdout, mongoLog))
		defer mongoLog.Close()
	}

	handler, _, _ := kernel.BuildHandler()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// main is the entry point of the Students admin console.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus .env / environment)
//  2. Initialise the logger
//  3. Open the student backend (Students API client or local SQLite)
//  4. Build the session store, page renderer and per-session workspaces
//  5. Register all HTTP routes and start the server in a goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE CONSOLE:
//
//	go run ./cmd/students-admin --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-admin
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/students-admin/internal/auth"
	"github.com/aanand-mishra/students-admin/internal/config"
	"github.com/aanand-mishra/students-admin/internal/http/router"
	"github.com/aanand-mishra/students-admin/internal/http/views"
	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/storage/remote"
	"github.com/aanand-mishra/students-admin/internal/storage/sqlite"
	"github.com/aanand-mishra/students-admin/internal/workspace"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	// Handlers and the storage client log through the default logger.
	slog.SetDefault(log)

	log.Info("starting students-admin",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	store, closer, err := openStorage(cfg.Storage, cfg.StudentsAPI)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closer.Close()

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("students_api", cfg.StudentsAPI.BaseURL))

	sessions := auth.NewStore(cfg.Session)

	pages, err := views.New(sessions)
	if err != nil {
		log.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	workspaces := workspace.NewManager(store)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go workspaces.RunPruner(ctx, cfg.Workspace.PruneInterval, cfg.Workspace.MaxIdle)

	handler := router.New(router.Deps{
		Storage:     store,
		Workspaces:  workspaces,
		Sessions:    sessions,
		Pages:       pages,
		Credentials: auth.CredentialsFrom(cfg.Admin),
	})

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ErrServerClosed is the expected result of Shutdown.
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	<-done

	log.Info("shutdown signal received, stopping server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStorage returns the configured backend and what to close on exit.
func openStorage(cfg config.Storage, api config.StudentsAPI) (storage.Storage, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverRemote, "":
		client, err := remote.New(api)
		if err != nil {
			return nil, nil, err
		}
		return client, closerFunc(func() error { return nil }), nil
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}

// Package server wires the FileKeeper server together: record store, object
// store, file coordinator, shared application state, and the gRPC and HTTP
// presentation layers. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/objectstore"
	"github.com/dmitrijs2005/filekeeper/internal/objectstore/memstore"
	"github.com/dmitrijs2005/filekeeper/internal/objectstore/miniostore"
	"github.com/dmitrijs2005/filekeeper/internal/objectstore/s3store"
	"github.com/dmitrijs2005/filekeeper/internal/server/config"
	"github.com/dmitrijs2005/filekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/filekeeper/internal/server/grpc"
)

// Version is reported by the HTTP health endpoint.
var Version = "dev"

const pruneInterval = time.Minute

var (
	newS3Store    = func(ctx context.Context, cfg s3store.Config) (objectstore.Store, error) { return s3store.New(ctx, cfg) }
	newMinioStore = func(ctx context.Context, cfg miniostore.Config) (objectstore.Store, error) { return miniostore.New(ctx, cfg) }
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	files   *services.FileService
	actions *appstate.Actions
	blobs   httpapi.BlobReader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, rm, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, blobs, err := newStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	files := services.NewFileService(db, rm, store, logger, services.WithFetchConcurrency(c.FetchConcurrency))
	actions := appstate.NewActions(files, appstate.New(), logger)

	return &App{config: c, logger: logger, db: db, files: files, actions: actions, blobs: blobs}, nil
}

// newStore selects the object store backend. The second result is non-nil
// only for the memory backend, whose blobs are served by the HTTP API.
func newStore(ctx context.Context, c *config.Config) (objectstore.Store, httpapi.BlobReader, error) {
	switch strings.ToLower(c.StorageBackend) {
	case config.StorageS3:
		s, err := newS3Store(ctx, s3store.Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			BaseEndpoint: c.S3BaseEndpoint,
			UsePathStyle: c.S3UsePathStyle,
			URLExpiry:    c.URLExpiry,
		})
		return s, nil, err
	case config.StorageMinio:
		s, err := newMinioStore(ctx, miniostore.Config{
			Endpoint:  c.S3BaseEndpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			UseSSL:    c.S3UseSSL,
			URLExpiry: c.URLExpiry,
		})
		return s, nil, err
	case config.StorageMemory:
		s := memstore.New(strings.TrimSuffix(c.PublicBaseURL, "/") + "/blobs")
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", c.StorageBackend)
	}
}

func (app *App) startGRPCServer(ctx context.Context) error {
	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.files, app.actions, app.config.SecretKey, app.config.MaxMsgSize)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

func (app *App) startHTTPServer(ctx context.Context) error {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, &httpapi.Dependencies{
		Files:          app.files,
		Actions:        app.actions,
		Blobs:          app.blobs,
		Logger:         app.logger,
		Version:        Version,
		MaxUploadBytes: app.config.MaxUploadBytes,
		SecretKey:      app.config.SecretKey,
	})
	return s.Run(ctx)
}

// pruneOperations drops settled operations older than the retention window.
func (app *App) pruneOperations(ctx context.Context) error {
	if app.config.OperationRetention <= 0 {
		return nil
	}

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := app.actions.State().Prune(app.config.OperationRetention); n > 0 {
				app.logger.Debug(ctx, "pruned settled operations", "count", n)
			}
		}
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or one
// of the servers fails. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "close db", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "db", app.config.DatabaseDriver)

	// Warm the shared state so the first snapshot is not empty.
	if _, err := app.actions.FetchAll(ctx); err != nil {
		app.logger.Warn(ctx, "initial fetch failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return app.startGRPCServer(gctx) })
	if app.config.EndpointAddrHTTP != "" {
		g.Go(func() error { return app.startHTTPServer(gctx) })
	}
	g.Go(func() error { return app.pruneOperations(gctx) })

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

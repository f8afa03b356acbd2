// Package server wires the document vault together: key provider, database,
// blob store, services and the HTTP transport, plus graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Monterolautaro/rentadoor-docvault/internal/blob"
	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
	"github.com/Monterolautaro/rentadoor-docvault/internal/cryptox"
	"github.com/Monterolautaro/rentadoor-docvault/internal/logging"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/config"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/httpapi"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/repositories/repomanager"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
}

func NewApp(c *config.Config) *App {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(c.LogLevel)})
	logger := logging.NewSlogLogger(slog.New(handler))
	return &App{config: c, logger: logger}
}

func logLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// keyProvider builds the active key provider from configuration. Exactly one
// of the two key modes must be set; failing here keeps a misconfigured vault
// from ever accepting an upload it could not decrypt later.
func keyProvider(c *config.Config) (cryptox.KeyProvider, error) {
	switch {
	case c.MasterKeyHex != "" && c.MasterPassphrase != "":
		return nil, fmt.Errorf("%w: both master key and passphrase are set", common.ErrConfiguration)
	case c.MasterKeyHex != "":
		return cryptox.NewConfigKeyProvider(c.MasterKeyHex, c.KeyID)
	case c.MasterPassphrase != "":
		return cryptox.NewDerivedKeyProvider(c.MasterPassphrase, c.KeySaltHex, c.KeyID)
	default:
		return nil, fmt.Errorf("%w: no encryption key material configured", common.ErrConfiguration)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting document vault", "addr", app.config.HTTPAddr)

	app.initSignalHandler(cancelFunc)

	keys, err := keyProvider(app.config)
	if err != nil {
		return err
	}
	// Probe once at boot so key problems surface before the first request.
	if _, err := keys.ActiveKey(); err != nil {
		return err
	}

	db, err := repomanager.OpenDB(ctx, app.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	blobs, err := blob.NewS3Store(ctx, blob.S3Options{
		Region:       app.config.S3Region,
		AccessKey:    app.config.S3AccessKey,
		SecretKey:    app.config.S3SecretKey,
		BaseEndpoint: app.config.S3BaseEndpoint,
	})
	if err != nil {
		return fmt.Errorf("blob store init error: %w", err)
	}

	svc := services.NewDocumentService(rm.Documents(db), blobs, cryptox.NewEngine(keys), app.config.S3Bucket, app.logger)
	handler := httpapi.NewDocumentHandler(svc, app.logger)
	router := httpapi.NewRouter(handler, []byte(app.config.JWTSecret), db)

	srv := &http.Server{
		Addr:    app.config.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}

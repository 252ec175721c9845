package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	gsessions "github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/avisser/todolist/assets"
	"github.com/avisser/todolist/internal"
	"github.com/avisser/todolist/internal/auth"
	authdb "github.com/avisser/todolist/internal/auth/db"
	"github.com/avisser/todolist/internal/db"
	"github.com/avisser/todolist/internal/db/migrate"
	"github.com/avisser/todolist/internal/krypto"
	"github.com/avisser/todolist/internal/todo"
	tododb "github.com/avisser/todolist/internal/todo/db"
	"github.com/avisser/todolist/internal/web"
	"github.com/avisser/todolist/internal/web/sessions"
	"github.com/avisser/todolist/internal/web/view"
	"github.com/avisser/todolist/migrations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Stderr))
}

func run(ctx context.Context, w io.Writer) int {
	logger := slog.New(slog.NewTextHandler(w, nil))

	cfg, err := configFromEnv()
	if err != nil {
		logger.Error("failed to get config from environment", "error", err)
		return 1
	}

	writeDB, err := db.OpenSQLite(cfg.db.file, true)
	if err != nil {
		logger.Error("failed to open write database", "error", err)
		return 1
	}
	defer writeDB.Close()

	if cfg.db.migrate {
		logger.Info("attempting to migrate database")

		stamp := migrate.Stamp{
			AppVersion: internal.Build.Revision,
			Time:       internal.Build.RevisionTime,
		}

		migrations, err := migrate.RunFS(ctx, writeDB, migrations.FS, stamp)
		if err != nil {
			logger.Error("failed to migrate database", "error", err)
			return 1
		}

		for _, m := range migrations {
			logger.Info("migration ran", "sequence", m.Sequence, "filename", m.Filename)
		}
	}

	readDB, err := db.OpenSQLite(cfg.db.file, false)
	if err != nil {
		logger.Error("failed to open read database", "error", err)
		return 1
	}
	defer readDB.Close()

	encryptor, err := krypto.NewEncryptor(cfg.encryptionKeys)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		return 1
	}

	authStore := authdb.New(writeDB, readDB, encryptor, cfg.blindIndexKey)
	authSvc, err := auth.NewService(authStore)
	if err != nil {
		logger.Error("failed to create auth service", "error", err)
		return 1
	}

	todoSvc := todo.NewService(tododb.New(writeDB, readDB))

	cookieStore := gsessions.NewCookieStore(cfg.sessionKey.SecretValue())
	cookieStore.Options = &gsessions.Options{
		Path:     "/",
		MaxAge:   sessions.MaxAge,
		HttpOnly: true,
		Secure:   cfg.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	cookieStore.MaxAge(sessions.MaxAge)

	viewRenderer, err := view.NewMemRenderer(assets.TemplateFS)
	if err != nil {
		logger.Error("failed to parse views", "error", err)
		return 1
	}

	deps := &web.ServerDeps{
		Logger:       logger,
		ViewRenderer: viewRenderer,
		AuthService:  authSvc,
		TodoService:  todoSvc,
		SessionStore: sessions.NewStore(cookieStore),
		DistFS:       http.FS(assets.DistFS),
	}

	srv := &http.Server{
		Addr:         cfg.http.addr,
		ReadTimeout:  cfg.http.readTimeout,
		WriteTimeout: cfg.http.writeTimeout,
		IdleTimeout:  cfg.http.idleTimeout,
		Handler: web.NewServer(deps, web.ServerConfig{
			CSRFKey:      cfg.csrfKey,
			SecureCookie: cfg.secureCookie,
		}),
	}

	// We need to run two tasks concurrently:
	// - Listen and serving of the HTTP server.
	// - Waiting for a signal to stop the server.

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server",
			"addr", cfg.http.addr,
			"buildRevision", internal.Build.Revision,
			"buildRevisionTime", internal.Build.RevisionTime,
			"buildLocalModified", internal.Build.Modified,
		)
		// ListenAndServe always returns a non-nil error,
		// g will cancel gCtx when an error is returned, so
		// this will also stop the other goroutine.
		return srv.ListenAndServe()
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("stopping http server")

		shutCtx, cancel := context.WithTimeout(context.Background(), cfg.http.shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutCtx)
	})

	err = g.Wait()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("http server stopped with error", "error", err)
		return 1
	}

	logger.Info("http server stopped successfully")

	return 0
}

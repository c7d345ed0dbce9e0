// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/chat"
	"github.com/olegiv/foundation-go/internal/config"
	"github.com/olegiv/foundation-go/internal/functions"
	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/gateway/rest"
	"github.com/olegiv/foundation-go/internal/gateway/sqlgw"
	"github.com/olegiv/foundation-go/internal/handler"
	"github.com/olegiv/foundation-go/internal/handler/api"
	"github.com/olegiv/foundation-go/internal/logging"
	"github.com/olegiv/foundation-go/internal/middleware"
	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/obs"
	"github.com/olegiv/foundation-go/internal/render"
	"github.com/olegiv/foundation-go/internal/service"
	"github.com/olegiv/foundation-go/internal/session"
	"github.com/olegiv/foundation-go/internal/store"
	"github.com/olegiv/foundation-go/internal/version"
	"github.com/olegiv/foundation-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = ""
	appBuildTime = ""
)

// Assistant replies can be slow. The request deadline stays under the
// write deadline so the timeout response can still reach the client.
const (
	requestTimeout = 55 * time.Second
	writeTimeout   = 60 * time.Second
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "foundation - foundation website and admin dashboard\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOUNDATION_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOUNDATION_DB_PATH          SQLite database path (default: ./data/foundation.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOUNDATION_DATABASE_URL     PostgreSQL URL for content tables (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOUNDATION_BACKEND          local|remote (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOUNDATION_OPENAI_API_KEY   Enables the local assistant (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOUNDATION_REDIS_URL        Shared login lockout store (optional)\n")
	}
	flag.Parse()

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("foundation %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	// The SQLite database always holds sessions; it also holds content
	// unless PostgreSQL or the remote backend is configured.
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer closeDB(db, "sqlite")

	if err := store.Migrate(db, store.DialectSQLite); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	gw, cleanup, err := openGateway(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer cleanup()

	observed := obs.WrapGateway(gw)
	authManager := auth.NewManager(observed)

	sessionManager := session.New(db, cfg.IsDevelopment(), cfg.SessionLifetime)
	sessionStore := session.NewManagerStore(sessionManager)
	storeFunc := func(*http.Request) session.Store { return sessionStore }

	attempts, closeAttempts, err := openAttempts(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAttempts()

	protection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig(), attempts)
	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go protection.Cleanup(cleanupCtx, 5*time.Minute)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		SupportEmail:   cfg.SupportEmail,
		ChatEnabled:    cfg.IsRemote() || cfg.AssistantEnabled(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	articles := service.NewArticleService(observed)
	reports := service.NewReportService(observed)
	contacts := service.NewContactService(observed)

	publicHandler := handler.NewPublicHandler(renderer, articles, reports, contacts)
	chatHandler := handler.NewChatHandler(chat.NewFunctionAssistant(observed), cfg.SupportEmail)
	healthHandler := handler.NewHealthHandler(info.Version,
		handler.Probe{Name: "gateway", Ping: observed.Ping},
		handler.Probe{Name: "sessions", Ping: db.PingContext},
	)
	apiHandler := api.NewHandler(api.Config{
		Auth:       authManager,
		Store:      storeFunc,
		Sessions:   sessionManager,
		Protection: protection,
		Gateway:    observed,
	})

	chatLimiter := middleware.NewRateLimiter("chat", float64(cfg.ChatRateLimit), 5)
	contactLimiter := middleware.NewRateLimiter("contact", float64(cfg.ContactRateLimit), 2)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestPath)
	r.Use(chimw.Recoverer)
	r.Use(obs.Instrument)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr())))
	r.Use(sessionManager.LoadAndSave)

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadOperator(authManager, storeFunc))
		r.Get("/health", healthHandler.Health)
		r.Get("/health/live", healthHandler.Liveness)
		r.Get("/health/ready", healthHandler.Readiness)
	})
	r.Handle("/metrics", obs.Handler())

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.With(chatLimiter.Middleware()).Post("/api/chat", chatHandler.Chat)
	r.Mount("/admin/api", apiHandler.Routes())

	r.Get("/", publicHandler.Page)
	r.Get("/{page}", publicHandler.Page)
	r.With(contactLimiter.Middleware()).Post("/contact", publicHandler.SubmitContact)
	r.NotFound(publicHandler.Page)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "backend", cfg.Backend, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openGateway selects the data backend. Local backends get the admin-auth
// and assistant functions registered in process; the remote backend hosts
// its own.
func openGateway(ctx context.Context, cfg *config.Config, sqlite *sql.DB) (gateway.Gateway, func(), error) {
	noop := func() {}

	if cfg.IsRemote() {
		client, err := rest.New(rest.Config{URL: cfg.RemoteURL, APIKey: cfg.RemoteAPIKey, Timeout: cfg.RemoteTimeout})
		if err != nil {
			return nil, noop, fmt.Errorf("creating remote gateway: %w", err)
		}
		slog.Info("using remote backend", "url", cfg.RemoteURL)
		return client, noop, nil
	}

	db, dialect, cleanup := sqlite, store.DialectSQLite, noop
	if cfg.UsePostgres() {
		pg, err := store.Open(store.DialectPostgres, cfg.DatabaseURL, store.DefaultDBConfig())
		if err != nil {
			return nil, noop, fmt.Errorf("opening postgres: %w", err)
		}
		if err := store.Migrate(pg, store.DialectPostgres); err != nil {
			closeDB(pg, "postgres")
			return nil, noop, fmt.Errorf("running postgres migrations: %w", err)
		}
		db, dialect, cleanup = pg, store.DialectPostgres, func() { closeDB(pg, "postgres") }
		slog.Info("content tables on postgres")
	}

	gw := sqlgw.New(db, dialect)
	gw.Register(model.FunctionAdminAuth, functions.NewAdminAuth(gw, functions.NewTokenSigner(cfg.SigningSecret(), cfg.SessionLifetime)).Handle)

	if cfg.AssistantEnabled() {
		completer := functions.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		gw.Register(model.FunctionAIAssistant, functions.NewAssistant(gw, completer, cfg.SupportEmail).Handle)
		slog.Info("assistant enabled", "model", cfg.OpenAIModel)
	} else {
		slog.Warn("FOUNDATION_OPENAI_API_KEY not set; chat widget disabled")
	}

	if cfg.SeedAdmin() {
		created, err := functions.SeedAdmin(ctx, gw, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
		if err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("seeding admin: %w", err)
		}
		if created {
			slog.Info("initial admin created", "email", cfg.AdminEmail)
		}
	}

	return gw, cleanup, nil
}

// openAttempts returns the failed-login store: Redis when configured so
// lockouts hold across instances, memory otherwise.
func openAttempts(ctx context.Context, cfg *config.Config) (auth.AttemptStore, func(), error) {
	if !cfg.UseRedis() {
		return auth.NewMemoryAttempts(), func() {}, nil
	}
	ra, err := auth.NewRedisAttempts(ctx, cfg.RedisURL, cfg.RedisPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	slog.Info("login lockouts shared through redis")
	return ra, func() {
		if err := ra.Close(); err != nil {
			slog.Error("error closing redis", "error", err)
		}
	}, nil
}

func closeDB(db *sql.DB, name string) {
	if err := db.Close(); err != nil {
		slog.Error("error closing database", "db", name, "error", err)
	}
}

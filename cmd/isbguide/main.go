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

	"github.com/isbguide/isbguide-go/internal/api"
	"github.com/isbguide/isbguide-go/internal/cache"
	"github.com/isbguide/isbguide-go/internal/config"
	"github.com/isbguide/isbguide-go/internal/handler"
	"github.com/isbguide/isbguide-go/internal/logging"
	"github.com/isbguide/isbguide-go/internal/middleware"
	"github.com/isbguide/isbguide-go/internal/render"
	"github.com/isbguide/isbguide-go/internal/scheduler"
	"github.com/isbguide/isbguide-go/internal/session"
	"github.com/isbguide/isbguide-go/internal/store"
	"github.com/isbguide/isbguide-go/internal/version"
	"github.com/isbguide/isbguide-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "isbGuide - Islamabad city guide client\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ISBG_BACKEND_URL       Content/auth backend base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ISBG_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ISBG_DB_PATH           SQLite database path (default: ./data/isbguide.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ISBG_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ISBG_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ISBG_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ISBG_REFRESH_SPEC      Cron spec for background content refresh (default: */5 * * * *)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Println("isbguide " + info.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize session/event database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	eventStore := store.NewEventStore(db)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, eventStore))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Backend API client
	client := api.New(cfg.BackendURL)
	slog.Info("backend client initialized", "url", cfg.BackendURL)

	// Content cache: Redis when configured, in-memory otherwise
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	backendCache, err := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cacheTTL,
		MaxItems:   cfg.CacheMaxSize,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := backendCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	blogCache := cache.NewBlogCache(backendCache, cacheTTL)
	slog.Info("content cache initialized", "redis", cfg.UseRedisCache(), "ttl", cacheTTL)

	// Session manager over the SQLite store
	sessionManager := session.NewManager(db, cfg.IsDevelopment())
	sessions := session.NewStore(session.NewStorage(sessionManager))

	// Template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("accessing templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	// Background content refresh and event log pruning
	sched := scheduler.New(client, blogCache, eventStore, logger)
	if err := sched.Start(cfg.RefreshSpec); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()
	slog.Info("scheduler started", "refresh_spec", cfg.RefreshSpec)

	// Warm the cache before taking traffic; a failure here is not fatal,
	// the first request or the next cron tick will retry.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	if err := sched.RefreshContent(warmCtx); err != nil {
		slog.Warn("initial content refresh failed", "error", err, "category", "backend")
	}
	cancelWarm()

	// Router and middleware stack
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CompressSelective(1024))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.PageView(logger))

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.InitSession(sessions))

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	// Handlers
	frontendHandler := handler.NewFrontendHandler(client, blogCache, renderer, sessions)
	blogHandler := handler.NewBlogHandler(client, blogCache, renderer, sessions)
	authHandler := handler.NewAuthHandler(client, renderer, sessions, sessionManager, loginProtection)
	dashboardHandler := handler.NewDashboardHandler(client, blogCache, renderer, sessions)
	healthHandler := handler.NewHealthHandler(db, blogCache, sessions)

	// Public pages
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteAbout, frontendHandler.About)
		r.Get(handler.RouteBlogs, blogHandler.List)
		r.Get(handler.RouteBlogsID, blogHandler.Detail)

		// Comments require a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessions))
			r.Use(publicRateLimiter.Middleware())
			r.Post(handler.RouteBlogsIDComments, blogHandler.CreateComment)
		})

		// Auth pages, with brute-force protection on submissions
		r.Group(func(r chi.Router) {
			r.Use(publicRateLimiter.Middleware())
			r.Use(loginProtection.Middleware())

			r.Get(handler.RouteLogin, authHandler.LoginForm)
			r.Post(handler.RouteLogin, authHandler.Login)
			r.Get(handler.RouteRegister, authHandler.RegisterForm)
			r.Post(handler.RouteRegister, authHandler.Register)
			r.Post(handler.RouteLogout, authHandler.Logout)
		})

		// Admin dashboard
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(sessions))

			r.Get(handler.RouteDashboard, dashboardHandler.ListBlogs)
			r.Get(handler.RouteDashboardBlogs, dashboardHandler.ListBlogs)
			r.Get(handler.RouteDashboardBlogsNew, dashboardHandler.NewBlogForm)
			r.Post(handler.RouteDashboardBlogs, dashboardHandler.CreateBlog)
			r.Get(handler.RouteDashboardBlogsID, dashboardHandler.EditBlogForm)
			r.Post(handler.RouteDashboardBlogsID, dashboardHandler.UpdateBlog)
			r.Post(handler.RouteDashboardBlogsIDDelete, dashboardHandler.DeleteBlog)
		})
	})

	// Health endpoints, CSRF-exempt for monitoring
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get(handler.RouteHealth+"/live", healthHandler.Liveness)
	r.Get(handler.RouteHealth+"/ready", healthHandler.Readiness)

	// Static assets with long-lived cache headers
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("accessing static assets: %w", err)
	}
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/dist/*", staticHandler)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

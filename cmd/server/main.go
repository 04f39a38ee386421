package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/servicequote/internal/auth"
	"github.com/Simplici0/servicequote/internal/config"
	"github.com/Simplici0/servicequote/internal/db"
	"github.com/Simplici0/servicequote/internal/logging"
	"github.com/Simplici0/servicequote/internal/migrations"
	"github.com/Simplici0/servicequote/internal/seed"
	"github.com/Simplici0/servicequote/internal/store"
)

type server struct {
	auth  *auth.Service
	store *store.Store
	now   func() time.Time
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	for _, w := range cfg.Warnings() {
		slog.Warn("configuration", "warning", w)
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal("invalid configuration", "env", cfg.Env, "error", err)
	}

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logging.Fatal("failed to open database", "driver", cfg.DBDriver, "error", err)
	}
	defer database.Close()

	if err := migrations.Up(database, cfg.DBDriver); err != nil {
		logging.Fatal("failed to run database migrations", "error", err)
	}

	st := store.New(database, cfg.DBDriver)
	stats, err := seed.Run(context.Background(), st, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		DemoProject:   cfg.IsDev(),
	})
	if err != nil {
		logging.Fatal("failed to seed database", "error", err)
	}
	slog.Info("seed complete", "inserts", stats.Inserts, "updates", stats.Updates)

	secret := cfg.SessionSecret
	if secret == "" {
		secret, err = auth.GenerateSecret()
		if err != nil {
			logging.Fatal("failed to generate session secret", "error", err)
		}
		slog.Warn("using a random session secret, sessions end on restart")
	}
	authService, err := auth.NewService(userStore{st}, secret)
	if err != nil {
		logging.Fatal("failed to set up authentication", "error", err)
	}

	srv := &server{
		auth:  authService,
		store: st,
		now:   time.Now,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireSession)

		r.Post("/calculate", s.handleCalculate)
		r.Post("/validate", s.handleValidate)
		r.Post("/dimension", s.handleDimension)

		r.Get("/tables", s.handleGetTables)
		r.Put("/tables", s.handlePutTables)

		r.Get("/projects", s.handleListProjects)
		r.Post("/projects", s.handleCreateProject)
		r.Get("/projects/{id}", s.handleGetProject)
		r.Put("/projects/{id}", s.handleUpdateProject)
		r.Delete("/projects/{id}", s.handleDeleteProject)
		r.Post("/projects/{id}/calculate", s.handleRecalculateProject)
		r.Get("/projects/{id}/report.{format}", s.handleProjectReport)
	})

	return r
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Message: "servicequote"})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sr, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

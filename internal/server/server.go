// Package server is the composition root: it opens the database, builds the
// services and handlers, mounts the routes and runs the HTTP server.
//
// DEPENDENCY FLOW:
//
//	config.Config → sqlite.DB → services (with ownership modes) → handlers → chi routes
//
// Each layer only receives what it needs. Services get repository
// interfaces, handlers get services, and nothing below this package knows
// about configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/flashcard/internal/auth"
	"github.com/sakif/flashcard/internal/config"
	"github.com/sakif/flashcard/internal/handler"
	"github.com/sakif/flashcard/internal/middleware"
	sqliteRepo "github.com/sakif/flashcard/internal/repository/sqlite"
	"github.com/sakif/flashcard/internal/service"
)

// Server owns the router and the database connection. The database is
// closed when Start returns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	tokens *auth.TokenService
}

// New opens the database, applies migrations and wires every route.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	db, err := sqliteRepo.New(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		tokens: tokens,
	}
	s.setupRoutes()

	return s, nil
}

// Handler exposes the router, for tests and for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on the way out; tests that
// never call Start close the server themselves.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTES:
//
//	GET    /healthz
//	POST   /auth/register
//	POST   /auth/login
//	POST   /auth/logout
//	GET    /auth/me                         (RequireAuth)
//	GET    /api/study-sets
//	POST   /api/study-sets
//	GET    /api/study-sets/{id}
//	PUT    /api/study-sets/{id}
//	DELETE /api/study-sets/{id}
//	GET    /api/study-sets/{id}/flashcards
//	POST   /api/study-sets/{id}/flashcards
//	GET    /api/flashcards/{id}
//	PUT    /api/flashcards/{id}
//	DELETE /api/flashcards/{id}
//
// /api runs behind OptionalAuth: anonymous requests reach the services with
// a nil user, and the services decide what that may do.
func (s *Server) setupRoutes() {
	// Order matters: the request id must exist before Logger reads it, and
	// Recoverer must sit inside Logger so a panic is logged as a 500.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	passwords := auth.NewPasswordService(auth.DefaultCost)
	authService := service.NewAuthService(s.db, s.tokens, passwords, s.logger)
	studySets := service.NewStudySetService(s.db, s.config.Policy.StudySets(), s.logger)
	flashcards := service.NewFlashcardService(s.db, studySets, s.config.Policy.Flashcards(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.tokens, s.logger)
	studySetHandler := handler.NewStudySetHandler(studySets, s.logger)
	flashcardHandler := handler.NewFlashcardHandler(flashcards, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.With(auth.RequireAuth(s.tokens)).Get("/me", authHandler.HandleMe)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.OptionalAuth(s.tokens))

		r.Route("/study-sets", func(r chi.Router) {
			r.Get("/", studySetHandler.HandleList)
			r.Post("/", studySetHandler.HandleCreate)
			r.Get("/{id}", studySetHandler.HandleGetByID)
			r.Put("/{id}", studySetHandler.HandleUpdate)
			r.Delete("/{id}", studySetHandler.HandleDelete)
			r.Get("/{id}/flashcards", flashcardHandler.HandleList)
			r.Post("/{id}/flashcards", flashcardHandler.HandleCreate)
		})

		r.Route("/flashcards", func(r chi.Router) {
			r.Get("/{id}", flashcardHandler.HandleGetByID)
			r.Put("/{id}", flashcardHandler.HandleUpdate)
			r.Delete("/{id}", flashcardHandler.HandleDelete)
		})
	})

	s.logger.Info("ownership policy",
		slog.String("studySets", s.config.Policy.StudySets().String()),
		slog.String("flashcardCreate", s.config.Policy.Flashcards().String()),
	)
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully:
//  1. stop accepting new connections
//  2. give in-flight requests up to 30 seconds
//  3. close the database (flushes WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
			slog.String("database", s.config.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

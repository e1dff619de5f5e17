// Package server wires the application together: database, services,
// handlers, router, and the HTTP server lifecycle.
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
	"github.com/go-chi/cors"

	"github.com/joaovr/travel-map-tracker/internal/auth"
	"github.com/joaovr/travel-map-tracker/internal/handler"
	"github.com/joaovr/travel-map-tracker/internal/middleware"
	"github.com/joaovr/travel-map-tracker/internal/repository/sqlite"
	"github.com/joaovr/travel-map-tracker/internal/service"
)

// Config holds everything the server needs to start.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// Google OAuth credentials. GoogleClientID alone enables the id_token
	// verify route with audience checking; the secret and callback URL are
	// additionally needed for the server-side redirect flow.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
}

// Server is the assembled application.
type Server struct {
	cfg    Config
	logger *slog.Logger
	db     *sqlite.DB
	router *chi.Mux
}

// New builds the full dependency graph. Returns an error rather than
// exiting so main stays in charge of process lifecycle.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("server: opening database: %w", err)
	}

	seeded, err := db.SeedCountries(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("server: seeding countries: %w", err)
	}
	if seeded > 0 {
		logger.Info("seeded country catalog", slog.Int("count", seeded))
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, err
	}

	var provider *auth.GoogleProvider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" && cfg.GoogleCallbackURL != "" {
		provider = auth.NewGoogleProvider(
			cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	}

	authService := service.NewAuthService(
		db, tokens, auth.NewGoogleVerifier(), cfg.GoogleClientID, logger)
	countryService := service.NewCountryService(db, logger)
	markedService := service.NewMarkedCountryService(db, db, logger)
	statsService := service.NewStatisticsService(db, db, logger)

	authHandler := handler.NewAuthHandler(authService, provider)
	countryHandler := handler.NewCountryHandler(countryService)
	markedHandler := handler.NewMarkedCountryHandler(markedService)
	statsHandler := handler.NewStatisticsHandler(statsService)

	authenticator := auth.NewAuthenticator(tokens, db)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","message":"Travel Map Tracker API"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes. The user directory sits under /auth/users and is
		// readable without a token, matching the original API.
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/google/verify", authHandler.HandleGoogleVerify)
		r.Get("/auth/google/login", authHandler.HandleGoogleLogin)
		r.Get("/auth/google/callback", authHandler.HandleGoogleCallback)
		r.Get("/auth/users", authHandler.HandleListUsers)
		r.Get("/auth/users/{userID}", authHandler.HandleGetUser)
		r.Get("/countries", countryHandler.HandleList)
		r.Get("/countries/{countryID}", countryHandler.HandleGet)

		// Everything below needs a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(authenticator))

			r.Get("/auth/me", authHandler.HandleMe)
			r.Put("/auth/users/me", authHandler.HandleUpdateMe)

			r.Post("/marked-countries/mark", markedHandler.HandleMark)
			r.Post("/marked-countries/unmark", markedHandler.HandleUnmark)
			r.Get("/marked-countries/my", markedHandler.HandleListMine)
			r.Get("/marked-countries/my/visited", markedHandler.HandleVisited)
			r.Get("/marked-countries/my/wishlist", markedHandler.HandleWishlist)

			r.Get("/statistics/me", statsHandler.HandleSummary)
		})
	})

	return &Server{cfg: cfg, logger: logger, db: db, router: r}, nil
}

// Router exposes the assembled routes for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests before closing the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		s.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Impulsible/eventease-planner/config"
	"github.com/Impulsible/eventease-planner/internal/auth"
	"github.com/Impulsible/eventease-planner/internal/db"
	"github.com/Impulsible/eventease-planner/internal/handlers"
	"github.com/Impulsible/eventease-planner/internal/mq"
	"github.com/Impulsible/eventease-planner/internal/services"
	"github.com/Impulsible/eventease-planner/internal/storage"
	"github.com/Impulsible/eventease-planner/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
}

// New constructs a Server with all dependencies wired explicitly: the token
// service, stores, and services are built once here and handed to the
// handlers that need them.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.IsProduction())
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	broker, err := mq.NewFromConfig(ctx, cfg.Notify)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("init notify backend: %w", err)
	}

	media, err := storage.NewFromConfig(ctx, cfg.Media)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("init media backend: %w", err)
	}
	if media != nil {
		if err := media.EnsureBucket(ctx); err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("ensure media bucket: %w", err)
		}
	}

	userService := services.NewUserService(store.NewUserRepository(dbConn))
	notifier := services.NewNotifier(broker)
	eventService := services.NewEventService(store.NewEventRepository(dbConn), media)
	rsvpService := services.NewRSVPService(store.NewRSVPRepository(dbConn), notifier)
	invitationService := services.NewInvitationService(store.NewInvitationRepository(dbConn), rsvpService, notifier)

	authenticator := handlers.NewAuthenticator(userService, tokens)
	linker := auth.NewLinker(userService, tokens)

	var google *auth.GoogleProvider
	if cfg.OAuth.Enabled() {
		google, err = auth.NewGoogleProvider(ctx, cfg.OAuth)
		if err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("init google oauth: %w", err)
		}
	} else {
		log.Println("server: google oauth not configured, oauth routes disabled")
	}

	authHandler := handlers.NewAuthHandler(userService, tokens, linker, google, cfg.Auth, cfg.OAuth)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService, rsvpService, invitationService)
	rsvpHandler := handlers.NewRSVPHandler(eventService, rsvpService)
	invitationHandler := handlers.NewInvitationHandler(eventService, userService, invitationService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler, authenticator)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userHandler, authenticator)
	})
	router.Route("/events", func(r chi.Router) {
		handlers.EventRouter(r, eventHandler, rsvpHandler, invitationHandler, authenticator)
	})
	router.Route("/invitations", func(r chi.Router) {
		handlers.InvitationRouter(r, invitationHandler, authenticator)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.broker != nil {
		_ = s.broker.Close()
	}
	return s.httpServer.Close()
}

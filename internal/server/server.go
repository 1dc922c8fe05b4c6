// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"

	"fibersense/internal/auth"
	"fibersense/internal/config"
	"fibersense/internal/handler"
	"fibersense/internal/logger"
	"fibersense/internal/middleware"
	"fibersense/internal/websocket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	router     *mux.Router
	cfg        *config.Config
	log        *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *Server {
	router := mux.NewRouter()

	return &Server{
		router: router,
		cfg:    cfg,
		log:    log,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}
}

func (s *Server) RegisterHandlers(
	snapshotHandler *handler.SnapshotHandler,
	breachHandler *handler.BreachHandler,
	alertHandler *handler.AlertHandler,
	sessionHandler *handler.SessionHandler,
	reportHandler *handler.ReportHandler,
	healthHandler *handler.HealthHandler,
	authMgr *auth.Manager,
	hub *websocket.Hub,
) {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.Use(middleware.RequestLogger(s.log))
	api.Use(middleware.CORS(s.cfg.Security.CORSAllowedOrigins, s.cfg.Security.CORSAllowedMethods))
	api.Use(middleware.Recovery(s.log))

	if s.cfg.Security.EnableRateLimit {
		api.Use(middleware.RateLimit(s.cfg.Security.RateLimitPerMinute))
	}

	snapshotHandler.RegisterRoutes(api)
	alertHandler.RegisterRoutes(api)
	sessionHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)

	// Demo controls mutate engine state; they sit behind the presenter token.
	controls := api.NewRoute().Subrouter()
	controls.Use(authMgr.Middleware)
	breachHandler.RegisterRoutes(controls)

	healthHandler.RegisterRoutes(s.router)
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(hub, w, r, s.log)
	})

	s.log.Info("All handlers registered")
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"secure-auth-app/internal/auth"
	"secure-auth-app/internal/config"
	"secure-auth-app/internal/metrics"
	"secure-auth-app/internal/middlewares"
	"secure-auth-app/internal/version"
	"secure-auth-app/internal/view"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
)

type Server struct {
	cfg         *config.Config
	logger      *slog.Logger
	appCtx      *middlewares.AppContext
	sessions    *auth.SessionManager
	httpServer  *http.Server
	debugServer *http.Server
	cancel      context.CancelFunc
}

func New(cfg *config.Config) (*Server, error) {
	logger := setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	sessionManager, err := auth.NewSessionManager(logger, cfg)
	if err != nil {
		cancel()
		return nil, err
	}

	discoveryCtx, discoveryCancel := context.WithTimeout(ctx, 30*time.Second)
	defer discoveryCancel()

	oidcProvider, err := auth.NewRealOIDCProvider(discoveryCtx, cfg.OIDC)
	if err != nil {
		logger.Error("failed to initialize OIDC provider", "issuer", cfg.OIDC.IssuerURL, "error", err)
		_ = sessionManager.Close()
		cancel()
		return nil, err
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		_ = sessionManager.Close()
		cancel()
		return nil, err
	}

	appCtx := middlewares.NewAppContext(ctx, cfg, logger, sessionManager, oidcProvider, renderer)

	router := setupRouter(appCtx, NewBoundaryReporter(logger))
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var debugServer *http.Server
	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		registerCollectors(logger, sessionManager)

		debugServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler:           setupDebugRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return &Server{
		cfg:         cfg,
		logger:      logger,
		appCtx:      appCtx,
		sessions:    sessionManager,
		httpServer:  httpServer,
		debugServer: debugServer,
		cancel:      cancel,
	}, nil
}

func registerCollectors(logger *slog.Logger, sessionManager *auth.SessionManager) {
	if err := prometheus.Register(version.NewCollector()); err != nil {
		logger.Debug("failed to register build info collector: already registered", "error", err)
	}

	if client := sessionManager.RedisClient(); client != nil {
		collector := redisprometheus.NewCollector(metrics.Namespace, "sessions", client)
		if err := prometheus.Register(collector); err != nil {
			logger.Debug("failed to register redis session collector: already registered", "error", err)
		}
	}
}

func (s *Server) Start() error {
	go func() {
		s.logger.Info("Server Started", "port", s.cfg.Server.Port, "version", version.GetVersion(), "external_url", s.cfg.Server.ExternalURL)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed to start", "error", err)
			s.cancel()
		}
	}()

	if s.debugServer != nil {
		go func() {
			s.logger.Info("Metrics server starting", "address", s.debugServer.Addr)
			if err := s.debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Metrics server failed to start", "error", err)
				s.cancel()
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		s.logger.Info("Shutdown signal received")
	case <-s.appCtx.Done():
		s.logger.Info("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info("Shutting Down Server")

	defer func() {
		if err := s.sessions.Close(); err != nil {
			s.logger.Error("Failed to close session store", "error", err)
		}
	}()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	if s.debugServer != nil {
		if err := s.debugServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Debug server forced to shutdown", "error", err)
		}
	}

	s.cancel()
	s.logger.Info("Server Exited")
	return nil
}

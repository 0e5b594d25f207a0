package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	handlers "github.com/GriffinCanCode/chatform/internal/api/http"
	"github.com/GriffinCanCode/chatform/internal/api/middleware"
	"github.com/GriffinCanCode/chatform/internal/api/ws"
	"github.com/GriffinCanCode/chatform/internal/domain/catalog"
	"github.com/GriffinCanCode/chatform/internal/domain/conversation"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/config"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/logging"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/store"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/tracing"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	store   *store.Store
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	logger.Info("Initializing chatform server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("store", cfg.Store.Path),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("chatform", logger.Logger)

	st, err := store.Open(ctx, cfg.Store.Path, logger.Component("store"))
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if cfg.Store.SeedDir != "" {
		seeder := store.NewSeeder(st, cfg.Store.SeedDir, logger.Component("seed"))
		result, err := seeder.Seed(ctx)
		if err != nil {
			logger.Warn("Failed to seed catalog", zap.Error(err))
		} else {
			logger.Info("Catalog seeded",
				zap.Int("files", result.Files),
				zap.Int("failed", result.Failed),
				zap.Int("options", len(result.Catalog.Options)),
				zap.Int("items", len(result.Catalog.Items)),
				zap.Int("locations", len(result.Catalog.Locations)),
			)
		}
	}

	catalogService := catalog.NewService(st, metrics, tracer, logger.Component("catalog"))
	hub := conversation.NewHub(logger.Component("hub"))
	conversations := conversation.NewService(st, hub, metrics, logger.Component("conversation"))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery(logger.Logger))
	router.Use(middleware.RequestID())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.CORS.Origins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	if cfg.Compression.Enabled {
		gz := middleware.DefaultGzipConfig()
		gz.Level = cfg.Compression.Level
		router.Use(middleware.Gzip(gz))
	}

	h := handlers.NewHandlers(catalogService, conversations, st, logger.Component("handlers"))
	h.Register(router)

	wsHandler := ws.NewHandler(conversations, hub, metrics, logger.Component("ws"))
	router.GET("/stream", wsHandler.HandleConnection)
	router.GET("/metrics", monitoring.Handler(metrics))

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		store:   st,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	base := logging.DefaultConfig()
	if cfg.Development {
		base = logging.DevelopmentConfig()
	}
	if cfg.Level != "" {
		base.Level = cfg.Level
	}
	logger, err := logging.New(base)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until Shutdown is called
func (s *Server) Run() error {
	addr := s.config.Server.Addr()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	s.logger.Info("Shutting down HTTP server")
	return s.http.Shutdown(ctx)
}

// Close releases the store, tracer and logger
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.tracer.Close()

	var err error
	if cerr := s.store.Close(); cerr != nil {
		s.logger.Error("Failed to close store", zap.Error(cerr))
		err = fmt.Errorf("failed to close store: %w", cerr)
	}

	_ = s.logger.Sync()
	return err
}

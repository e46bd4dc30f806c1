package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"whisper-api/internal/api/handlers"
	"whisper-api/internal/api/middleware"
	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/metrics"
)

// Address is where the service listens. It is not configurable.
const Address = "0.0.0.0:5001"

// Config represents API server configuration
type Config struct {
	Environment       string
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
}

// Dependencies are the long-lived components the routes are served from.
type Dependencies struct {
	Pipeline handlers.Pipeline
	Provider provider.ProviderInfo
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Server represents the API server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new API server
func NewServer(config Config, deps Dependencies) *Server {
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger, deps.Metrics))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"provider":  deps.Provider.Name,
			"model":     deps.Provider.Model,
			"timestamp": time.Now().Unix(),
		})
	})

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	transcribeHandler := handlers.NewTranscribeHandler(deps.Pipeline, logger)
	router.POST("/transcribe", transcribeHandler.Transcribe)

	// No write timeout: a long upload is transcribed to completion.
	httpServer := &http.Server{
		Addr:              Address,
		Handler:           router,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		IdleTimeout:       config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}
}

// Start binds the listen address and serves in the background. A bind
// failure is returned to the caller.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve serves on an already bound listener in the background.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("Starting API server",
		zap.String("address", listener.Addr().String()),
		zap.String("environment", s.config.Environment),
	)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server stopped unexpectedly", zap.Error(err))
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

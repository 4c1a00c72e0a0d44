package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhima/bookshelf-api/internal/api/handlers"
	"github.com/dhima/bookshelf-api/internal/api/middleware"
	"github.com/dhima/bookshelf-api/internal/books"
	"github.com/dhima/bookshelf-api/internal/logging"
	"github.com/dhima/bookshelf-api/internal/storage"
	"github.com/dhima/bookshelf-api/pkg/config"
	"github.com/dhima/bookshelf-api/platform/events"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Server orchestrates HTTP routing and dependencies for the API service.
type Server struct {
	config    config.App
	logger    logging.Logger
	router    *gin.Engine
	store     *storage.Store
	publisher events.Publisher

	bookService *books.Service
}

// NewServer loads configuration from the environment and wires every dependency.
// Storage that cannot be opened or whose schema cannot be created is a startup error.
func NewServer(ctx context.Context) (*Server, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return New(cfg, logger, store, newPublisher(cfg, logger)), nil
}

// New builds a server around already-constructed dependencies.
func New(cfg config.App, logger logging.Logger, store *storage.Store, publisher events.Publisher) *Server {
	gin.SetMode(ginMode(cfg.Environment))

	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}

	server := &Server{
		config:      cfg,
		logger:      logger,
		store:       store,
		publisher:   publisher,
		bookService: books.NewService(store, publisher, logger),
	}

	server.setupRouter()
	return server
}

// ginMode maps the deployment environment to a gin mode. Unknown environments run in debug mode.
func ginMode(environment string) string {
	switch environment {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// Handler exposes the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the Gin router with middleware and routes.
func (s *Server) setupRouter() {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	zapLogger := logging.Zap(s.logger)

	// Recovery first so it also catches panics raised by later middleware.
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))
	router.Use(middleware.RequestID())
	router.Use(ginzap.GinzapWithConfig(zapLogger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health"},
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("request_id", middleware.GetRequestID(c))}
		},
	}))
	router.Use(cors.New(s.corsConfig()))

	router.NoRoute(handlers.RouteNotFound)
	router.NoMethod(handlers.MethodNotAllowed)

	router.GET("/", handlers.Home)
	router.GET("/health", handlers.NewHealthHandler(s.logger).Health)
	router.GET("/metrics", handlers.NewMetricsHandler(s.logger, s.bookService).Metrics)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	bookHandler := handlers.NewBookHandler(s.logger, s.bookService)
	bookRoutes := router.Group("/books")
	{
		bookRoutes.POST("", bookHandler.CreateBook)
		bookRoutes.GET("", bookHandler.ListBooks)
		bookRoutes.GET("/:id", bookHandler.GetBook)
		bookRoutes.PUT("/:id", bookHandler.UpdateBook)
		bookRoutes.DELETE("/:id", bookHandler.DeleteBook)
	}

	s.router = router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	origins := s.config.CORSOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// Serve starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Serve() error {
	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.String("database_driver", s.store.Driver()),
			zap.Bool("events_enabled", s.config.EventsEnabled()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			s.logger.Error("server failed", zap.Error(err))
			s.release()
			return err
		}
	case <-quit:
	}

	s.logger.Info("shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		s.release()
		return err
	}

	s.release()
	s.logger.Info("server stopped")
	return s.syncLogger()
}

// release closes the publisher and storage, logging failures.
func (s *Server) release() {
	if err := s.publisher.Close(); err != nil {
		s.logger.Error("failed to close event publisher", zap.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("failed to close database", zap.Error(err))
	}
}

func (s *Server) syncLogger() error {
	if err := s.logger.Sync(); err != nil {
		// stdout/stderr cannot be fsynced on most platforms.
		if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
			return nil
		}
		return err
	}
	return nil
}

func openStorage(ctx context.Context, cfg config.App) (*storage.Store, error) {
	store, err := storage.Open(ctx, storage.Config{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store, nil
}

func newPublisher(cfg config.App, logger logging.Logger) events.Publisher {
	if !cfg.EventsEnabled() {
		logger.Info("kafka brokers not configured, book events disabled")
		return events.NewNoopPublisher()
	}
	return events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logging.Zap(logger))
}

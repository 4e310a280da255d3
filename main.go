package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/config"
	"github.com/kendall-kelly/print-shop-api/controllers"
	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/middleware"
	"github.com/kendall-kelly/print-shop-api/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.DefaultConfig()).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:        logger.LogLevel(cfg.LogLevel),
		Format:       cfg.LogFormat,
		Output:       os.Stdout,
		EnableCaller: true,
		Environment:  cfg.GoEnv,
	})
	log.Info("Starting Print Shop API server...", "port", cfg.Port, "data_dir", cfg.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	documents, err := newDocumentStore(ctx, cfg)
	if err != nil {
		log.Error("failed to set up document storage", "error", err)
		os.Exit(1)
	}

	shop := services.NewShop(cfg, documents, log)
	shop.Load()
	go shop.Run(ctx)

	auth, err := middleware.NewAuthenticator(cfg, shop, log)
	if err != nil {
		log.Error("failed to set up authentication", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, shop, auth, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server is running", "addr", "http://localhost:"+cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// newDocumentStore picks local disk or S3 storage for uploads
func newDocumentStore(ctx context.Context, cfg *config.Config) (services.DocumentStore, error) {
	if cfg.DocumentStore == config.DocumentStoreS3 {
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return services.NewS3DocumentStore(s3Service), nil
	}
	return services.NewLocalDocumentStore(filepath.Join(cfg.DataDir, "uploads")), nil
}

// setupRouter builds the engine with middleware and every API route
func setupRouter(cfg *config.Config, shop *services.Shop, auth *middleware.Authenticator, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheck)
	controllers.New(shop, log).RegisterRoutes(v1, auth)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Print Shop API is running",
	})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/database"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/events"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/logger"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/middleware"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	redisClient "github.com/Juan181803/ecommerce-microservice-backend-app2/shared/redis"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/user-service/internal/command"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/user-service/internal/config"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/user-service/internal/handler"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/user-service/internal/repository"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/user-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	zl, err := logger.New(logger.Config{Level: cfg.Log.Level, Dev: cfg.Log.Dev})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Errorw("user service stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) error {
	// Database connection (write store)
	var store repository.UserRepository
	if cfg.DB.Driver == config.DriverMemory {
		log.Warnw("using in-memory user store, data is lost on restart")
		store = repository.NewMemoryUserRepository()
	} else {
		db, err := database.Connect(ctx, cfg.DB.Database())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repository.Migrate(ctx, db); err != nil {
			return err
		}
		store = repository.NewSQLUserRepository(db)
	}

	// Redis connection (read cache + event streaming)
	var publisher command.EventPublisher = events.NopPublisher{}
	if cfg.Redis.Enabled {
		redis, err := redisClient.NewClient(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer redis.Close()

		cache := redisClient.NewViewCache[models.User](redis.Client, cfg.Redis.CacheTTL, log)
		store = repository.NewCachedUserRepository(store, cache)
		publisher = events.NewPublisher(redis.Client, cfg.Events.NodeID)
	}

	svc := service.NewUserService(store, publisher, log)
	userHandler := handler.NewUserHandler(svc, svc, log)

	if !cfg.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var protect []gin.HandlerFunc
	if cfg.Auth.JWTSecret != "" {
		protect = append(protect, middleware.AuthMiddleware([]byte(cfg.Auth.JWTSecret)))
	} else {
		log.Warnw("JWT_SECRET is not set, user updates and deletes are unauthenticated")
	}
	userHandler.Register(router, protect...)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("user service starting", "port", cfg.HTTP.Port, "driver", cfg.DB.Driver, "redis", cfg.Redis.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

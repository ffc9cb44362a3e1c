package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/supermercado/api-supermercado/handlers"
	"github.com/supermercado/api-supermercado/internal/articulo/handler"
	"github.com/supermercado/api-supermercado/internal/articulo/repository"
	"github.com/supermercado/api-supermercado/internal/articulo/service"
	"github.com/supermercado/api-supermercado/internal/config"
	"github.com/supermercado/api-supermercado/internal/database"
	"github.com/supermercado/api-supermercado/pkg/logger"
	"github.com/supermercado/api-supermercado/pkg/metrics"
	"github.com/supermercado/api-supermercado/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(cfg.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	logger.Infof("config loaded: env=%s mongo=%v redis=%v rate_limit=%v",
		cfg.Server.Environment, cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.RateLimit.Enabled)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	r := gin.New()

	// Lightweight CORS middleware: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())

	checks := map[string]handlers.ReadinessCheck{}

	// Redis is optional and only backs the shared rate limiter
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("Connected to Redis: %s", addr)
		}
		cancel()
		if cfg.RateLimit.UseRedis {
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter: redis, %v req per %s", cfg.RateLimit.RPS, win)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter: in-memory, %v rps burst %d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	var svc service.Service
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.MaxPoolSize, 5)
		if err != nil {
			// keep serving; store calls answer 500 and /ready 503 until MongoDB is reachable
			logger.Errorf("could not connect to MongoDB: %v", err)
			client, err = database.OpenMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.MaxPoolSize)
			if err != nil {
				logger.Fatalf("invalid MongoDB configuration: %v", err)
			}
		} else {
			logger.Infof("Connected to MongoDB: %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
		}
		mongoClient = client

		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		ictx, cancel := context.WithTimeout(ctx, cfg.MongoDB.Timeout)
		if err := repository.NewMongoRepo(col).EnsureIndexes(ictx); err != nil {
			logger.Warnf("could not ensure codigo index: %v", err)
		}
		cancel()
		svc = service.NewMongoService(col, cfg.MongoDB.Timeout)
	} else {
		logger.Warnf("MONGODB_URI not set: articles are kept in memory and lost on restart")
		svc = service.NewMemoryService()
	}
	checks["store"] = svc.Ping

	handler.RegisterArticuloRoutes(r, svc)
	handlers.RegisterSwagger(r)
	handlers.RegisterHealth(r, startTime, checks)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Servidor iniciado en %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Infof("received %s, shutting down", sig)

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(sctx); err != nil {
			logger.Warnf("mongo disconnect: %v", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Infof("server stopped")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/docugrade/docugrade/handlers"
	"github.com/docugrade/docugrade/internal/config"
	"github.com/docugrade/docugrade/internal/database"
	docrepo "github.com/docugrade/docugrade/internal/document/repository"
	docservice "github.com/docugrade/docugrade/internal/document/service"
	"github.com/docugrade/docugrade/internal/rag"
	"github.com/docugrade/docugrade/internal/storage"
	"github.com/docugrade/docugrade/internal/tokens"
	"github.com/docugrade/docugrade/internal/users"
	"github.com/docugrade/docugrade/pkg/logger"
	"github.com/docugrade/docugrade/pkg/metrics"
	"github.com/docugrade/docugrade/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v jwt_secret_set=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.JWT.Secret != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Connect to Redis early so the rate limiter can use it when configured.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP).
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Connect to MongoDB with retry/backoff to tolerate startup races.
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
		}
	}

	issuer := tokens.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	// Repositories: Mongo-backed when a connection is up, otherwise in-memory.
	// The in-memory fallback keeps local development working without infra,
	// at the cost of losing state on restart.
	var userRepo users.Repository
	var documentRepo docrepo.Repository
	if mongoClient != nil {
		db := mongoClient.Database(cfg.MongoDB.Database)
		userRepo = users.NewMongoRepository(db)
		documentRepo = docrepo.NewMongoRepo(db)
		logger.Infof("Using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		userRepo = users.NewMemoryRepository()
		documentRepo = docrepo.NewMemoryRepo()
		logger.Warnf("MongoDB unavailable; falling back to in-memory repositories")
	}

	// Optional MinIO mirror: uploads are copied to object storage best-effort.
	var mirror *storage.Mirror
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		mirror, err = storage.NewMirror(mcfg)
		if err != nil {
			logger.Warnf("MinIO mirror disabled: %v", err)
			mirror = nil
		} else {
			logger.Infof("Mirroring uploads to MinIO bucket %q", mcfg.Bucket)
		}
	}

	userSvc := users.NewService(userRepo, issuer)
	docSvc := docservice.New(documentRepo, cfg.Storage.Root, mirror)
	ragSvc := rag.New(docSvc.UserDir)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// Readiness: 200 only when the configured dependencies actually answered.
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		if cfg.MongoDB.URI != "" {
			deps["mongodb"] = mongoClient != nil
			if mongoClient == nil {
				ready = false
			}
		} else {
			deps["mongodb"] = true
		}

		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	api := r.Group("/api")
	authed := middleware.Authenticated(issuer, userSvc)
	handlers.NewAuthHandler(userSvc).Register(api)
	handlers.NewFilesHandler(docSvc).Register(api, authed)
	handlers.NewRAGHandler(ragSvc).Register(api, authed)
	handlers.RegisterSample(api)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting docugrade API on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

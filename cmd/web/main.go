package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"hackhub-web/internal/apiclient"
	"hackhub-web/internal/config"
	"hackhub-web/internal/env"
	apihttp "hackhub-web/internal/http"
	"hackhub-web/internal/search"
	"hackhub-web/internal/service"
	"hackhub-web/internal/session"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	serverEnv := env.ResolveServerConfig(cfg.Lookup)
	api := apiclient.New(serverEnv, apiclient.WithLogger(logger))
	logger.Info("api base resolved", zap.String("api_url", api.BaseURL()))

	loginWindow := time.Duration(cfg.LoginWindowMin) * time.Minute
	var (
		storage = session.NewMemoryStorage()
		limiter = service.NewLoginRateLimiter(loginWindow, cfg.LoginMaxAttempts)
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			storage = session.NewRedisStorage(redisClient, time.Duration(cfg.VisitorTTLHours)*time.Hour)
			limiter = service.NewRedisLoginRateLimiter(redisClient, loginWindow, cfg.LoginMaxAttempts)
		}
		cancel()
	}

	secret := cfg.VisitorSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("visitor secret not configured, cookies will not survive a restart")
	}
	tokens := service.NewVisitorTokenService(secret, time.Duration(cfg.VisitorTTLHours)*time.Hour)

	sessions := session.NewManager(api, storage, logger)
	go sweepSessions(sessions, time.Duration(cfg.SessionIdleMin)*time.Minute, logger)

	aggregator := search.NewAggregator(api, search.DefaultLimits, logger)

	visitorMW := apihttp.VisitorMiddleware(tokens, sessions, apihttp.VisitorOptions{
		Secure:    cfg.CookieSecure,
		ReadyWait: time.Duration(cfg.ReadyWaitMS) * time.Millisecond,
	})
	envHandler := apihttp.NewEnvHandler(env.EnvConfig{APIURL: cfg.APIURL})
	authHandler := apihttp.NewAuthHandler(logger, api, limiter)
	searchHandler := apihttp.NewSearchHandler(logger, aggregator, 0)
	pagesHandler := apihttp.NewPagesHandler(logger, api)
	router := apihttp.NewRouter(logger, visitorMW, envHandler, authHandler, searchHandler, pagesHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// sweepSessions libera periódicamente los stores de visitantes inactivos.
func sweepSessions(sessions *session.Manager, idle time.Duration, logger *zap.Logger) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for range ticker.C {
		if n := sessions.Sweep(idle); n > 0 {
			logger.Debug("swept idle sessions", zap.Int("removed", n), zap.Int("active", sessions.Len()))
		}
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yashrajoria/storefront/apperrors"
	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/checkout"
	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/config"
	"github.com/yashrajoria/storefront/logger"
	"github.com/yashrajoria/storefront/routes"
	"github.com/yashrajoria/storefront/session"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	ctx := context.Background()

	// Session store: Redis when configured (shared across storefront
	// instances), in-memory otherwise.
	var store session.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		logger.Log.Info("Connected to Redis")
		store = session.NewRedisStore(redisClient)
	} else {
		store = session.NewMemStore()
	}

	sessions := session.NewManager(ctx, store, logger.Log)
	defer sessions.Close()

	ledger := cart.NewLedger(cart.LogNotifier{Log: logger.Log})
	client := clients.NewCommerceClient(cfg.APIBaseURL, cfg.RequestTimeout, store, logger.Log)
	flow := checkout.New(ledger, sessions, client)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(apperrors.ErrorMiddleware())

	routes.Register(r, sessions, ledger, client, flow, logger.Log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Storefront is running on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("Forced shutdown: " + err.Error())
	}
}

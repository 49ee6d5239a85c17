package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/logging"
	"yatube/internal/router"
	"yatube/internal/services"
	"yatube/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logging.Log.Info("No .env file found, finding env vars from system")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Log.WithError(err).Fatal("Invalid configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	gdb, err := db.Open(cfg)
	if err != nil {
		logging.Log.WithError(err).Fatal("Failed to open database")
	}
	if err := db.Migrate(gdb); err != nil {
		logging.Log.WithError(err).Fatal("Failed to migrate database")
	}
	st := store.New(gdb)

	pageCache, err := newPageCache(cfg)
	if err != nil {
		logging.Log.WithError(err).Fatal("Failed to set up page cache")
	}

	r, err := router.New(router.Deps{
		Config: cfg,
		Store:  st,
		Cache:  pageCache,
		Media:  services.NewMediaStore(cfg.MediaRoot),
		Mailer: services.NewMailService(cfg),
		Tokens: services.NewResetTokens(cfg.SessionSecret, cfg.PasswordResetTTL),
	})
	if err != nil {
		logging.Log.WithError(err).Fatal("Failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.Log.WithField("port", cfg.Port).Info("Yatube server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.WithError(err).Error("Graceful shutdown failed")
	}
	logging.Log.Info("Server exited")
}

func newPageCache(cfg *config.Config) (cache.Store, error) {
	if cfg.CacheBackend == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := cache.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logging.Log.Info("Page cache: redis")
		return cache.NewRedisStore(client), nil
	}
	mem, err := cache.NewMemoryStore(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	logging.Log.WithField("size", cfg.CacheSize).Info("Page cache: memory")
	return mem, nil
}

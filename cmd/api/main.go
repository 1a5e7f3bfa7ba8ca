package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "market-chat/cmd/api/router/v1"
	"market-chat/internal/config"
	busAdapter "market-chat/internal/infrastructure/bus/adapter"
	cacheAdapter "market-chat/internal/infrastructure/cache/adapter"
	"market-chat/internal/infrastructure/database"
	queueAdapter "market-chat/internal/infrastructure/queue/adapter"
	"market-chat/internal/infrastructure/realtime"
	"market-chat/internal/pkg/chat/application/task"
	"market-chat/internal/pkg/chat/presentation/relay"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or could not be loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		slog.Error("failed to connect to redis cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	bus, err := busAdapter.NewRedisBus(cfg.RedisURL, cfg.ChatChannel)
	if err != nil {
		slog.Error("failed to connect to fanout bus", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	// One router and one bus subscription per instance: every envelope
	// published anywhere is re-routed to this instance's room topics.
	router := realtime.NewRouter()
	defer router.Close()
	if err := relay.NewMessageRelay(router).Subscribe(ctx, bus); err != nil {
		slog.Error("failed to subscribe to fanout bus", "error", err)
		os.Exit(1)
	}

	queueClient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		slog.Error("failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	queueServer, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, cfg.QueueWeights())
	if err != nil {
		slog.Error("failed to create queue server", "error", err)
		os.Exit(1)
	}
	task.RegisterSendMessageTask(queueServer, pool, bus, cache)
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			slog.Error("queue server stopped", "error", err)
		}
	}()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, cfg.JWTSecret, pool, bus, cache, queueClient, router)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		slog.Info("http server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}

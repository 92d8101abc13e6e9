package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ASB-05/LearnHubPro/internal/archive"
	"github.com/ASB-05/LearnHubPro/internal/cache"
	"github.com/ASB-05/LearnHubPro/internal/config"
	"github.com/ASB-05/LearnHubPro/internal/handler"
	"github.com/ASB-05/LearnHubPro/internal/history"
	"github.com/ASB-05/LearnHubPro/internal/hub"
	"github.com/ASB-05/LearnHubPro/internal/relay"
	"github.com/ASB-05/LearnHubPro/internal/store"
	"github.com/ASB-05/LearnHubPro/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log.Init(cfg.Log)
	logger := log.L()
	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting chat relay")

	// Message store
	messageStore, err := store.NewCassandraStore(cfg.Cassandra)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to cassandra")
	}
	defer messageStore.Close()
	logger.Info().Strs("hosts", cfg.Cassandra.Hosts).Str("keyspace", cfg.Cassandra.Keyspace).Msg("connected to cassandra")

	// History page cache
	historyCache, err := cache.NewRedisHistoryCache(cfg.Redis, cfg.Cache.Prefix)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer historyCache.Close()
	logger.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")

	// Archival stream
	var archiver archive.Archiver = archive.Noop{}
	if cfg.Archive.Enabled {
		kafkaArchiver, err := archive.NewKafkaArchiver(cfg.Archive)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create kafka archiver")
		}
		archiver = kafkaArchiver
		logger.Info().Str("brokers", cfg.Archive.Brokers).Str("topic", cfg.Archive.Topic).Msg("archive stream enabled")
	}
	defer archiver.Close()

	// Hub
	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run()

	// Services
	messageRelay := relay.NewRelay(messageStore, wsHub, archiver)
	historyService := history.NewService(messageStore, historyCache, cfg.Cache.TTL)

	// Handlers
	wsHandler := handler.NewWSHandler(wsHub, messageRelay, cfg.WebSocket)
	httpHandler := handler.NewHTTPHandler(historyService)

	// Router
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(log.GinMiddleware(logger))

	wsHandler.RegisterRoutes(router)
	httpHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("chat relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down chat relay")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("chat relay stopped")
}

package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/arena-backend/internal/arena"
	"github.com/rocketscienceinc/arena-backend/internal/config"
	"github.com/rocketscienceinc/arena-backend/internal/repository"
	"github.com/rocketscienceinc/arena-backend/internal/repository/storage"
	"github.com/rocketscienceinc/arena-backend/internal/transport/websocket"
	"github.com/rocketscienceinc/arena-backend/pkg/handlers"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", handlers.PingHandler)

	var statsRepo repository.StatsRepository
	if conf.Redis.Enabled() {
		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		statsRepo = repository.NewStatsRepository(redisStorage.Connection)
		mux.HandleFunc("/stats", handlers.NewStatsHandler(logger, statsRepo))
	} else {
		log.Info("redis host not configured, lifetime stats disabled")
	}

	hub := arena.NewHub(logger, statsRepo)
	go hub.Run(ctx)

	wsServer := websocket.New(logger, hub)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", conf.HTTPPort)
		if err := wsServer.Start(ctx, conf.HTTPPort, mux); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

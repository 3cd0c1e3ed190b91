package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/KirkDiggler/fortuna/internal/common/clock"
	"github.com/KirkDiggler/fortuna/internal/common/logger"
	"github.com/KirkDiggler/fortuna/internal/common/random"
	"github.com/KirkDiggler/fortuna/internal/common/scheduler"
	"github.com/KirkDiggler/fortuna/internal/common/uuid"
	"github.com/KirkDiggler/fortuna/internal/config"
	"github.com/KirkDiggler/fortuna/internal/handlers/server"
	"github.com/KirkDiggler/fortuna/internal/phrases"
	"github.com/KirkDiggler/fortuna/internal/repositories/round_ledger"
	"github.com/KirkDiggler/fortuna/internal/services/messaging"
	"github.com/KirkDiggler/fortuna/internal/services/room"
	"github.com/KirkDiggler/fortuna/internal/services/router"
	"github.com/KirkDiggler/fortuna/internal/wheel"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger
	l := logger.New(os.Stdout, cfg.LogLevel, logger.Format(cfg.LogFormat))
	logger.Setup(l)

	// Load phrases
	catalog := phrases.DefaultCatalog()
	if cfg.PhrasesFile != "" {
		catalog, err = phrases.LoadFile(cfg.PhrasesFile, l)
		if err != nil {
			l.Fatal().Err(err).Str("path", cfg.PhrasesFile).Msg("Failed to load phrases")
		}
	}
	l.Info().Int("phrases", catalog.Len()).Msg("Phrase catalog loaded")

	// Build the wheel
	wheelOfFortune, err := wheel.New(wheel.DefaultTable)
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to create wheel")
	}

	// Initialize Redis client. The round ledger is optional, games run
	// without history when Redis is unreachable.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	var ledger round_ledger.Repository
	if repo, err := round_ledger.NewRedis(&round_ledger.Config{RedisClient: redisClient}); err != nil {
		l.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Round ledger disabled")
	} else {
		ledger = repo
	}

	// Initialize shared sources
	roller := random.New(&random.Config{})
	systemClock := clock.New()
	uuidGenerator := uuid.New()
	hub := server.NewHub(&l)

	// Initialize room directory
	roomSvc, err := room.New(&room.Config{
		MaxPlayers:     cfg.MaxPlayers,
		RoomCodeLength: cfg.RoomCodeLength,
		Catalog:        catalog,
		Wheel:          wheelOfFortune,
		Roller:         roller,
		Clock:          systemClock,
		UUIDGenerator:  uuidGenerator,
		Broadcaster:    hub,
		Logger:         &l,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to create room service")
	}

	// Initialize session router
	routerSvc, err := router.New(&router.Config{
		Rooms:         roomSvc,
		Broadcaster:   hub,
		Scheduler:     scheduler.New(),
		SpinDelay:     cfg.SpinDelay,
		Ledger:        ledger,
		Clock:         systemClock,
		UUIDGenerator: uuidGenerator,
		Logger:        &l,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to create router")
	}

	// Initialize messaging service
	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{
		Roller: roller,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to create messaging service")
	}

	// Initialize websocket and HTTP server
	srv, err := server.New(&server.Config{
		Hub:            hub,
		Rooms:          roomSvc,
		Router:         routerSvc,
		Messaging:      messagingSvc,
		Ledger:         ledger,
		UUIDGenerator:  uuidGenerator,
		AllowedOrigins: cfg.AllowedOrigins,
		EventRate:      rate.Limit(cfg.EventRate),
		EventBurst:     cfg.EventBurst,
		Logger:         &l,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to create server")
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.RegisterRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server
	go func() {
		l.Info().Str("addr", cfg.HTTPAddr).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown the server
	if err := httpServer.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("Error stopping server")
	}
	srv.Close()

	l.Info().Msg("Server has been shut down")
}

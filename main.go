package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/isdelr/recipes-be/internal/api"
	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/config"
	"github.com/isdelr/recipes-be/internal/database"
	"github.com/isdelr/recipes-be/internal/logger"
	"github.com/isdelr/recipes-be/internal/maintenance"
	"github.com/isdelr/recipes-be/internal/metrics"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/isdelr/recipes-be/internal/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	clock := clockwork.NewRealClock()

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token issuer")
	}

	// Set up services
	recipeService := services.NewRecipeService(db, clock)
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db, clock)

	// Set up and run the background event pruner
	pruner, err := maintenance.NewEventPruner(eventService, cfg.EventRetention, cfg.EventPruneSchedule, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event pruner")
	}
	pruner.Start()

	// Set up WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "recipes"),
	)

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Recipes:        recipeService,
		Users:          userService,
		Events:         eventService,
		Tokens:         tokens,
		DB:             db,
		Hub:            hub,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		LoginLimiter:   rate.NewLimiter(rate.Limit(cfg.LoginRateLimit), cfg.LoginRateBurst),
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	pruner.Stop(ctx)
	stopHub()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

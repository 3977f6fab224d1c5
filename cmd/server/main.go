package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
	"github.com/tendant/simple-objects/pkg/simpleobjects/api"
	"github.com/tendant/simple-objects/pkg/simpleobjects/config"
	"github.com/tendant/simple-objects/pkg/simpleobjects/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		startupLogger := zerolog.New(os.Stderr)
		startupLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := setupLogger(cfg.Environment)

	ctx := context.Background()

	repo, closeRepo, err := cfg.BuildRepository(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build repository")
	}
	defer closeRepo()

	images, err := cfg.BuildImageStore(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build image store")
	}

	hub := notify.NewHub(logger)

	var sink simpleobjects.EventSink = hub
	if cfg.RedisURL != "" {
		bridge, err := notify.NewBridge(cfg.RedisURL, hub, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect event bridge")
		}
		defer bridge.Close()
		sink = bridge
	}

	svc, err := simpleobjects.New(
		simpleobjects.WithRepository(repo),
		simpleobjects.WithImageStore(images),
		simpleobjects.WithEventSink(sink),
		simpleobjects.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build service")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: routes(cfg, svc, hub, logger),
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Str("database", cfg.DatabaseType).
			Str("storage", cfg.StorageType).
			Msg("simple-objects server starting")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exiting")
}

func setupLogger(environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	logger := zerolog.New(os.Stdout)
	if environment == "development" {
		level = zerolog.DebugLevel
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return logger.With().Timestamp().Logger().Level(level)
}

func routes(cfg *config.ServerConfig, svc simpleobjects.Service, hub *notify.Hub, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(logger))
	r.Use(api.Recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: cfg.CORSOrigin != "*",
	}))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})

	handler := api.NewObjectsHandler(svc, logger)
	r.Mount("/objects", handler.Routes())

	r.Get("/ws", hub.HandleWS)

	return r
}

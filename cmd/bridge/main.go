package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"rvolution-bridge/internal/adapters/input/remotehub"
	"rvolution-bridge/internal/adapters/output/persistence"
	"rvolution-bridge/internal/adapters/output/rvolution"
	"rvolution-bridge/internal/domain/service"
)

func main() {
	logger := newLogger()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	configRepo := persistence.NewJSONConfigRepository(configPath)
	factory := rvolution.NewFactory(logger)
	sink := remotehub.NewLogSink(logger)

	bridge := service.NewBridgeService(factory, configRepo, sink, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bridge.Initialize(ctx); err != nil {
		logger.Fatal().Err(err).Msg("initialization failed")
	}
	logger.Info().Str("config", configPath).Msg("bridge running")

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	if err := bridge.Close(); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

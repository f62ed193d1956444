package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/config"
	"github.com/afroash/sensorhub/internal/console"
	"github.com/afroash/sensorhub/internal/hub"
	"github.com/afroash/sensorhub/internal/logging"
	"github.com/afroash/sensorhub/internal/registry"
	"github.com/afroash/sensorhub/internal/sensor"
	"github.com/afroash/sensorhub/internal/source"
)

const version = "v0.3.0"

func main() {
	configPath := flag.String("config", "configs/sensorhub.yaml", "path to config file")
	listPorts := flag.Bool("list-ports", false, "list serial ports and exit")
	flag.Parse()

	if *listPorts {
		ports, err := source.ListPorts()
		if err != nil {
			log.Fatalf("Failed to list serial ports: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// the menu owns stdout
	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	logger.Info().
		Str("version", version).
		Str("port", cfg.Serial.Port).
		Bool("simulation", cfg.Simulation.Enabled).
		Bool("dht", cfg.DHT.Enabled).
		Msg("Starting sensor hub")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// a signal ends the session from any prompt; the console still
	// releases every sensor before run returns
	err = run(ctx, cfg, os.Stdin, os.Stdout, logger)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info().Msg("Shutting down sensor hub...")
	case err != nil:
		logger.Error().Err(err).Msg("sensor hub stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("Sensor hub stopped")
}

// run drives one console session over in and out
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger zerolog.Logger) error {
	h := hub.New(
		logger.With().Str("component", "hub").Logger(),
		registry.WithReleaseHook(func(s sensor.Sensor, readings int) {
			logger.Debug().
				Str("sensor", s.Name()).
				Str("id", s.ID().String()).
				Int("readings", readings).
				Msg("sensor released")
		}),
	)

	return console.New(h, cfg, in, out, logger).Run(ctx)
}

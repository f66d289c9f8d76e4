// Package main is the entry point for the terminal minesweeper game.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/minesweeper/internal/game"
	"github.com/samdwyer/minesweeper/internal/telemetry"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	ctx := context.Background()

	if setupOTelEnv() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Game will run without observability")
			telemetry.Disable()
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	} else {
		telemetry.Disable()
	}

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	g, err := game.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}

	if err := g.Run(ctx); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

// setupOTelEnv maps our Honeycomb variables onto the standard OTEL ones.
// It reports whether an exporter endpoint is configured at all.
func setupOTelEnv() bool {
	apiKey := os.Getenv("HONEYCOMB_MINESWEEPER_API_KEY")
	if apiKey != "" {
		dataset := os.Getenv("HONEYCOMB_MINESWEEPER_DATASET")
		if dataset == "" {
			dataset = "minesweeper"
		}
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

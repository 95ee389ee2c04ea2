// Package main is the entry point for mazeband.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/samdwyer/mazeband/internal/app"
	"github.com/samdwyer/mazeband/internal/telemetry"
)

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, telemetryOptions(cfg))
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Mazes will be generated without observability")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	if cfg.Headless {
		if err := app.RunHeadless(ctx, cfg, os.Stdout); err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
		return
	}

	// The screen owns the terminal; keep log output off it.
	restoreLog, err := redirectLog(cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		restoreLog()
		log.Fatalf("Failed to initialize screen: %v", err)
	}

	err = a.Run(ctx)
	restoreLog()
	if err != nil {
		log.Fatalf("Generation error: %v", err)
	}
}

// redirectLog sends the standard logger to path, or discards it when path is
// empty. The returned function restores stderr.
func redirectLog(path string) (restore func(), err error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// telemetryOptions routes OpenTelemetry diagnostics through the standard
// logger, so redirectLog keeps them off the screen too.
func telemetryOptions(cfg app.Config) telemetry.Options {
	return telemetry.Options{
		Logger:    log.Default(),
		Verbosity: cfg.OTelVerbosity,
	}
}

// setupOTelEnv points the OTLP exporter at Honeycomb. The auth header is
// built from HONEYCOMB_MAZEBAND_API_KEY and HONEYCOMB_MAZEBAND_DATASET rather
// than read verbatim, since godotenv does not expand references inside
// OTEL_EXPORTER_OTLP_HEADERS.
func setupOTelEnv() {
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	apiKey := os.Getenv("HONEYCOMB_MAZEBAND_API_KEY")
	dataset := os.Getenv("HONEYCOMB_MAZEBAND_DATASET")
	if dataset == "" {
		dataset = "mazeband"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}

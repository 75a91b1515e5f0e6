package main

import (
	"context"
	"fmt"
	"os"

	"github.com/romariotrain/video-catalog/internal/app"
	"github.com/romariotrain/video-catalog/internal/config"
	"github.com/romariotrain/video-catalog/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "videos: config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "videos",
	})

	code := app.Run("videos", logger, func(ctx context.Context) error {
		return run(ctx, cfg, logger)
	})
	os.Exit(code)
}

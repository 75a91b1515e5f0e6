package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

type Runner func(ctx context.Context) error

// Run выполняет run до возврата или SIGINT/SIGTERM и превращает результат
// в exit code. По сигналу контекст отменяется, и Run ждёт, пока runner
// сам завершит shutdown.
func Run(serviceName string, logger zerolog.Logger, run Runner) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runWithContext(ctx, serviceName, logger, run)
}

func runWithContext(ctx context.Context, serviceName string, logger zerolog.Logger, run Runner) int {
	logger = logger.With().Str("service_name", serviceName).Logger()
	logger.Info().Msg("starting")

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx) }()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		if err := <-errCh; err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
			return 1
		}
		logger.Info().Msg("stopped")
		return 0
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("failed")
			return 1
		}
		logger.Info().Msg("stopped")
		return 0
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/romariotrain/video-catalog/internal/config"
	"github.com/romariotrain/video-catalog/internal/videos/httpapi"
	"github.com/romariotrain/video-catalog/internal/videos/kafka"
	"github.com/romariotrain/video-catalog/internal/videos/models"
	"github.com/romariotrain/video-catalog/internal/videos/outbox"
	"github.com/romariotrain/video-catalog/internal/videos/repository"
	"github.com/romariotrain/video-catalog/internal/videos/service"
)

func demoVideo() *models.Video {
	at := models.NewTimestamp(time.Date(2024, 2, 1, 18, 57, 8, 689_000_000, time.UTC))
	return &models.Video{
		ID:                   0,
		Title:                "video interesting",
		Author:               "man",
		CanBeDownloaded:      true,
		MinAgeRestriction:    nil,
		CreatedAt:            at,
		PublicationDate:      at,
		AvailableResolutions: []models.Resolution{models.P144},
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	var seed []*models.Video
	if cfg.SeedDemo {
		seed = append(seed, demoVideo())
	}

	g, gctx := errgroup.WithContext(ctx)

	// Dependencies
	repo := repository.NewMemoryRepository(seed...)
	metrics := httpapi.NewMetrics()

	var (
		events   service.EventRecorder
		producer *kafka.Producer
	)
	if cfg.EventsEnabled() {
		var err error
		producer, err = kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		metrics.ObserveProducer(producer)
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Warn().Err(err).Msg("kafka producer close")
			}
		}()

		store := outbox.NewStore(cfg.OutboxCapacity)
		publisher, err := outbox.NewPublisher(outbox.PublisherConfig{
			Store:     store,
			Producer:  producer,
			Interval:  cfg.OutboxInterval,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("outbox publisher: %w", err)
		}

		events = store
		g.Go(func() error {
			if err := publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("outbox publisher: %w", err)
			}
			return nil
		})
	}

	svc := service.New(repo, events, logger)
	h := httpapi.New(svc, logger)
	if producer != nil {
		h.AddReadinessCheck("kafka", producer)
	}
	router := httpapi.NewRouter(h, httpapi.RouterConfig{
		EnableTestingRoutes: cfg.EnableTestingRoutes,
		Metrics:             metrics,
		Logger:              logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	g.Go(func() error {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Bool("seed_demo", cfg.SeedDemo).
			Bool("testing_routes", cfg.EnableTestingRoutes).
			Bool("events", cfg.EventsEnabled()).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

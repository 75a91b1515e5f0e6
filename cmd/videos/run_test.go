package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romariotrain/video-catalog/internal/config"
	"github.com/romariotrain/video-catalog/internal/videos/models"
)

func TestDemoVideo(t *testing.T) {
	v := demoVideo()
	assert.Equal(t, int64(0), v.ID)
	assert.Equal(t, "2024-02-01T18:57:08.689Z", v.CreatedAt.String())
	assert.Equal(t, []models.Resolution{models.P144}, v.AvailableResolutions)
	assert.True(t, v.CanBeDownloaded)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, zerolog.Nop()) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

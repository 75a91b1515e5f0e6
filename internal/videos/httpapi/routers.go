package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	EnableTestingRoutes bool
	Metrics             *Metrics
	Logger              zerolog.Logger
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Recoverer последним: 500 после паники должны попасть в метрики и access log.
	r.Use(RequestID(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(AccessLog(cfg.Logger))
	r.Use(Recoverer(cfg.Logger))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/videos", func(r chi.Router) {
		r.Get("/", h.ListVideos)
		r.Post("/", h.CreateVideo)
		r.Get("/{id}", h.GetVideo)
		r.Put("/{id}", h.UpdateVideo)
		r.Delete("/{id}", h.DeleteVideo)
	})

	if cfg.EnableTestingRoutes {
		r.Delete("/testing/all-data", h.ResetCatalog)
		r.Post("/testing/all-data", h.ResetCatalog)
	}

	return r
}

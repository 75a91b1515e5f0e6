package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/romariotrain/video-catalog/internal/logging"
	"github.com/romariotrain/video-catalog/internal/videos/models"
	"github.com/romariotrain/video-catalog/internal/videos/service"
)

const (
	maxBodyBytes = 1 << 20
	readyTimeout = 2 * time.Second
)

// HealthChecker: проверка, что зависимость жива.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type namedCheck struct {
	name  string
	check HealthChecker
}

type Handler struct {
	svc    *service.Service
	logger zerolog.Logger
	checks []namedCheck
}

func New(svc *service.Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "httpapi").Logger()}
}

// AddReadinessCheck регистрирует проверку для Ready. Вызывать до старта сервера.
func (h *Handler) AddReadinessCheck(name string, c HealthChecker) {
	h.checks = append(h.checks, namedCheck{name: name, check: c})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready проверяет все зависимости, 503 если хоть одна упала.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.check.HealthCheck(ctx); err != nil {
			logging.FromContext(r.Context(), h.logger).Warn().
				Err(err).
				Str("check", c.name).
				Msg("readiness check failed")
			results[c.name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[c.name] = "ok"
	}

	resp := map[string]any{"status": "ok", "checks": results}
	if status != http.StatusOK {
		resp["status"] = "unavailable"
	}
	writeJSON(w, status, resp)
}

func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.svc.ListVideos(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	v, err := h.svc.GetVideo(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req CreateVideoRequest
	decodeBody(r, &req)

	v, err := h.svc.CreateVideo(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// UpdateVideo: сначала валидация body, потом id. Кривой payload получает 400
// даже при мусорном id.
func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	var req UpdateVideoRequest
	decodeBody(r, &req)

	id, ok := videoID(r)
	if !ok {
		// -1 никогда не выдаётся: валидация отработает, валидный body получит 404.
		id = -1
	}

	if err := h.svc.UpdateVideo(r.Context(), id, req.toInput()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := h.svc.DeleteVideo(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResetCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetCatalog(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func videoID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeBody заполняет dst из JSON-объекта. Пустое тело, битый JSON или массив
// оставляют dst пустым, и валидация вернёт ошибки по всем полям.
func decodeBody(r *http.Request, dst any) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(body) == 0 {
		return
	}
	_ = json.Unmarshal(body, dst)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorsResponse{ErrorsMessages: verr.Errors})
	case errors.Is(err, models.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		logging.FromContext(r.Context(), h.logger).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

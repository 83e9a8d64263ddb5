// Package save принимает новые настройки платформы от администратора.
package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Save(ctx context.Context, settings models.Settings) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.save"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// Неизвестные поля отклоняются, чтобы опечатка в ключе не потеряла
	// настройку молча.
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	settings := models.DefaultSettings()
	if err := decoder.Decode(&settings); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.Save(r.Context(), settings); err != nil {
		log.Error("failed to save settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save settings"))
		return
	}

	log.Info("settings saved")
	render.JSON(w, r, response.StatusOKWithData(settings))
}

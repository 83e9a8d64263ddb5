// Package list отдает заявки на премиум: пользователю — его pending-заявку,
// администратору — все заявки.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrhason/aitaskify/internal/http/middlewarectx"
	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Pending(ctx context.Context, userID string) (*models.PremiumRequest, error)
	List(ctx context.Context) ([]*models.PremiumRequest, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role == models.RoleAdmin {
		requests, err := h.service.List(r.Context())
		if err != nil {
			log.Error("failed to list premium requests", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list requests"))
			return
		}
		render.JSON(w, r, response.StatusOKWithData(requests))
		return
	}

	request, err := h.service.Pending(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no pending request"))
			return
		}
		log.Error("failed to load premium request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load request"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(request))
}

// Package list отдает каталог заданий: пользователю — активные задания со
// статусом его записей, администратору — полный каталог.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrhason/aitaskify/internal/http/middlewarectx"
	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/services"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ListForUser(ctx context.Context, userID string) ([]services.UserTask, error)
	ListAll(ctx context.Context) ([]*models.Task, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.list"

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
		tasks, err := h.service.ListAll(r.Context())
		if err != nil {
			log.Error("failed to list tasks", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list tasks"))
			return
		}
		render.JSON(w, r, response.StatusOKWithData(tasks))
		return
	}

	tasks, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to list tasks", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tasks"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(tasks))
}

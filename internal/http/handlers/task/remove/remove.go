package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Remove(ctx context.Context, taskID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		log.Error("missing task id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing task id"))
		return
	}

	if err := h.service.Remove(r.Context(), taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("task not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("task not found"))
			return
		}
		log.Error("failed to remove task", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove task"))
		return
	}

	log.Info("task removed", slog.String("task_id", taskID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"task_id": taskID,
	}))
}

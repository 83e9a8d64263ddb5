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
	Remove(ctx context.Context, requestID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gmail.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		log.Error("missing request id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing request id"))
		return
	}

	if err := h.service.Remove(r.Context(), requestID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("request not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("request not found"))
			return
		}
		log.Error("failed to remove gmail request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove request"))
		return
	}

	log.Info("gmail request removed", slog.String("gmail_request_id", requestID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"request_id": requestID,
	}))
}

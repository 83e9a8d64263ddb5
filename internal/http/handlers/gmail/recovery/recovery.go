// Package recovery запрашивает у администратора резервную почту для заявки.
package recovery

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrhason/aitaskify/internal/http/middlewarectx"
	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	RequestRecovery(ctx context.Context, requestID, userID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gmail.recovery"

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

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		log.Error("missing request id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing request id"))
		return
	}

	if err := h.service.RequestRecovery(r.Context(), requestID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("request not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("request not found"))
		case errors.Is(err, repository.ErrAlreadyProcessed):
			log.Error("request is not awaiting recovery")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("request is not awaiting recovery"))
		default:
			log.Error("failed to request recovery", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not request recovery"))
		}
		return
	}

	log.Info("recovery requested", slog.String("gmail_request_id", requestID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"request_id": requestID,
	}))
}

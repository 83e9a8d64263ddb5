// Package request открывает новую заявку на продажу почтового аккаунта.
package request

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
	"github.com/mrhason/aitaskify/internal/services"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Request(ctx context.Context, userID string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gmail.request"

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

	requestID, err := h.service.Request(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGmailSystemDisabled):
			log.Error("gmail selling is disabled")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("gmail selling is disabled"))
		case errors.Is(err, repository.ErrDuplicateActive):
			log.Error("active request already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("active request already exists"))
		default:
			log.Error("failed to open gmail request", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not open request"))
		}
		return
	}

	log.Info("gmail request opened", slog.String("gmail_request_id", requestID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"request_id": requestID,
	}))
}

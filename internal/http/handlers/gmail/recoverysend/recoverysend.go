// Package recoverysend выдает пользователю резервную почту для заявки.
package recoverysend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	SetRecoveryEmail(ctx context.Context, requestID string, req models.DummyGmailRecovery) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gmail.recoverysend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGmailRecovery
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	requestID := chi.URLParam(r, "id")

	if err := h.service.SetRecoveryEmail(r.Context(), requestID, req); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("request not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("request not found"))
		case errors.Is(err, repository.ErrAlreadyProcessed):
			log.Error("recovery was not requested")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("recovery was not requested"))
		default:
			log.Error("failed to set recovery email", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not set recovery email"))
		}
		return
	}

	log.Info("recovery email sent", slog.String("gmail_request_id", requestID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"request_id": requestID,
	}))
}

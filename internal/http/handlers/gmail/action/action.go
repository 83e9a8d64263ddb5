// Package action проводит решение администратора по сданной заявке на
// продажу: одобрение зачисляет продавцу зафиксированную ставку и комиссию
// премиум-аплайну, отклонение закрывает заявку и ее запись журнала.
package action

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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
	Resolve(ctx context.Context, requestID, action string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gmail.action"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAction
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

	if err := h.service.Resolve(r.Context(), req.ID, req.Action); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("request not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("request not found"))
		case errors.Is(err, repository.ErrAlreadyProcessed):
			log.Error("request already processed")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("request already processed"))
		default:
			log.Error("failed to resolve gmail request", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not resolve request"))
		}
		return
	}

	log.Info("gmail request resolved",
		slog.String("gmail_request_id", req.ID),
		slog.String("action", req.Action))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"request_id": req.ID,
	}))
}

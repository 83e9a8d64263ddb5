// Package submit принимает сдачу выполненного задания. Вознаграждение
// зачисляется после одобрения записи администратором.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mrhason/aitaskify/internal/http/middlewarectx"
	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/services"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Submit(ctx context.Context, userID string, req models.DummyTaskSubmit) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTaskSubmit
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

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	trxID, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskSystemDisabled):
			log.Error("task system is disabled")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("task system is disabled"))
		case errors.Is(err, services.ErrTaskUnavailable), errors.Is(err, repository.ErrNotFound):
			log.Error("task is unavailable")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("task is unavailable"))
		case errors.Is(err, services.ErrTaskAlreadyTaken):
			log.Error("task already submitted")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("task already submitted"))
		default:
			log.Error("failed to submit task", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not submit task"))
		}
		return
	}

	log.Info("task submitted", slog.String("trx_id", trxID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"transaction_id": trxID,
	}))
}

// Package action проводит решение администратора по pending-записи журнала.
// Одобрение зачисляет заработок или закрывает вывод, отклонение возвращает
// зарезервированные монеты.
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
	Resolve(ctx context.Context, trxID, action string) (*models.Transaction, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Решение по транзакции
// @Description Одобряет или отклоняет pending-запись журнала. Повторное решение не применяется.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.DummyAction true "Идентификатор записи и решение"
// @Success 200 {object} response.Response "Запись после решения"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 409 {object} response.ErrorResponse "Запись уже обработана"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /admin/transactions/action [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.action"

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

	trx, err := h.service.Resolve(r.Context(), req.ID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("transaction not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("transaction not found"))
		case errors.Is(err, repository.ErrAlreadyProcessed):
			log.Error("transaction already processed")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("transaction already processed"))
		default:
			log.Error("failed to resolve transaction", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not resolve transaction"))
		}
		return
	}

	log.Info("transaction resolved",
		slog.String("trx_id", trx.ID),
		slog.String("status", trx.Status))
	render.JSON(w, r, response.StatusOKWithData(trx))
}

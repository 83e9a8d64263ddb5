// Package create реализует HTTP-обработчик заявки на вывод средств.
//
// Монеты списываются с баланса в момент создания заявки; при недостаточном
// балансе заявка отклоняется целиком.
package create

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
	Create(ctx context.Context, userID string, req models.DummyWithdraw) (*models.Transaction, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать заявку на вывод
// @Description Создает pending-заявку на вывод и атомарно резервирует монеты по текущему курсу.
// @Tags Withdrawals
// @Accept  json
// @Produce  json
// @Param request body models.DummyWithdraw true "Сумма в така и платежные реквизиты"
// @Success 200 {object} response.Response "Созданная заявка"
// @Failure 402 {object} response.ErrorResponse "Недостаточно монет"
// @Failure 403 {object} response.ErrorResponse "Вывод отключен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /withdrawals [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.withdraw.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyWithdraw
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

	trx, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWithdrawDisabled):
			log.Error("withdrawals are disabled")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("withdrawals are disabled"))
		case errors.Is(err, services.ErrBelowMinWithdraw):
			log.Error("amount is below minimum withdrawal")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("amount is below minimum withdrawal"))
		case errors.Is(err, repository.ErrInsufficientBalance):
			log.Error("insufficient balance")
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("insufficient balance"))
		default:
			log.Error("failed to create withdraw", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create withdraw"))
		}
		return
	}

	log.Info("withdraw created", slog.String("trx_id", trx.ID))
	render.JSON(w, r, response.StatusOKWithData(trx))
}

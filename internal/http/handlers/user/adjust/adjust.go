// Package adjust проводит ручную корректировку баланса администратором.
// Корректировка записывается в журнал как одобренная запись, чтобы сумма
// баланса всегда сходилась с журналом.
package adjust

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
	AdjustBalance(ctx context.Context, req models.DummyAdjustBalance) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.adjust"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAdjustBalance
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

	trxID, err := h.service.AdjustBalance(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			log.Error("user not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, repository.ErrInsufficientBalance):
			log.Error("insufficient balance for adjustment")
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("insufficient balance"))
		default:
			log.Error("failed to adjust balance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not adjust balance"))
		}
		return
	}

	log.Info("balance adjusted",
		slog.String("user_id", req.UserID),
		slog.Int64("delta", req.Delta))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"transaction_id": trxID,
	}))
}

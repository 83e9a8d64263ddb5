// Package list отдает журнал транзакций: пользователю — его собственный,
// администратору — полный.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrhason/aitaskify/internal/http/middlewarectx"
	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ListForUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	ListAll(ctx context.Context) ([]*models.Transaction, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Журнал транзакций
// @Description Возвращает журнал текущего пользователя; администратору — полный журнал.
// @Tags Transactions
// @Produce  json
// @Success 200 {object} response.Response "Список транзакций"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /transactions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.list"

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

	role, _ := r.Context().Value(middlewarectx.Role).(string)

	var trxs []*models.Transaction
	var err error
	if role == models.RoleAdmin {
		trxs, err = h.service.ListAll(r.Context())
	} else {
		trxs, err = h.service.ListForUser(r.Context(), userID)
	}
	if err != nil {
		log.Error("failed to list transactions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list transactions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(trxs))
}

// Package joining зачисляет бонус за вступление, один раз за аккаунт.
// Вместе с заявкой можно передать реферальный код пригласившего.
package joining

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrhason/aitaskify/internal/http/middlewarectx"
	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/services"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ClaimJoiningBonus(ctx context.Context, userID, refCode string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bonus.joining"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// Тело запроса необязательно: без него бонус зачисляется без аплайна.
	var req models.DummyJoiningClaim
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	trxID, err := h.service.ClaimJoiningBonus(r.Context(), userID, req.RefCode)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyProcessed):
			log.Error("joining bonus already claimed")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("joining bonus already claimed"))
			return
		case errors.Is(err, services.ErrUnknownRefCode):
			log.Error("unknown referral code")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown referral code"))
			return
		case errors.Is(err, services.ErrSelfReferral):
			log.Error("self referral rejected")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("cannot use your own referral code"))
			return
		default:
			log.Error("failed to claim joining bonus", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not claim bonus"))
			return
		}
	}

	log.Info("joining bonus claimed", slog.String("trx_id", trxID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"transaction_id": trxID,
	}))
}

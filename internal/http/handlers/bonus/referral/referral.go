// Package referral зачисляет бонус за приглашенного пользователя,
// один раз за каждого реферала.
package referral

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
	"github.com/mrhason/aitaskify/internal/services"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ClaimReferralBonus(ctx context.Context, userID, referralUserID string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bonus.referral"

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

	referralUserID := chi.URLParam(r, "id")
	if referralUserID == "" {
		log.Error("missing referral user id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing referral user id"))
		return
	}

	trxID, err := h.service.ClaimReferralBonus(r.Context(), userID, referralUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotYourReferral):
			log.Error("user is not a referral")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("user is not your referral"))
		case errors.Is(err, services.ErrReferralNotEligible):
			log.Error("referral has not claimed joining bonus")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("referral has not claimed the joining bonus"))
		case errors.Is(err, repository.ErrUserNotFound):
			log.Error("referral user not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("referral user not found"))
		case errors.Is(err, repository.ErrAlreadyProcessed):
			log.Error("referral bonus already claimed")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("referral bonus already claimed"))
		default:
			log.Error("failed to claim referral bonus", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not claim bonus"))
		}
		return
	}

	log.Info("referral bonus claimed", slog.String("trx_id", trxID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"transaction_id": trxID,
	}))
}

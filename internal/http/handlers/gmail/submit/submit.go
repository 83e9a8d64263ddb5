// Package submit фиксирует созданный пользователем почтовый адрес и ставит
// заявку в очередь на проверку администратором.
package submit

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

	"github.com/mrhason/aitaskify/internal/http/middlewarectx"
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
	Submit(ctx context.Context, requestID, userID string, req models.DummyGmailSubmit) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gmail.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGmailSubmit
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

	requestID := chi.URLParam(r, "id")

	sellTrxID, err := h.service.Submit(r.Context(), requestID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("request not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("request not found"))
		case errors.Is(err, repository.ErrAlreadyProcessed):
			log.Error("request is not ready for submission")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("request is not ready for submission"))
		default:
			log.Error("failed to submit gmail", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not submit request"))
		}
		return
	}

	log.Info("gmail submitted",
		slog.String("gmail_request_id", requestID),
		slog.String("trx_id", sellTrxID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"transaction_id": sellTrxID,
	}))
}

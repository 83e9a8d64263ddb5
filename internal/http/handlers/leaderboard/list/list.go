package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Leaderboard(ctx context.Context) ([]models.PublicUser, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.leaderboard.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	leaders, err := h.service.Leaderboard(r.Context())
	if err != nil {
		log.Error("failed to load leaderboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load leaderboard"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(leaders))
}

package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mrhason/aitaskify/internal/http/response"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
)

// UserDirectory определяет интерфейс для загрузки пользователя по ID.
type UserDirectory interface {
	Get(ctx context.Context, userID string) (*models.User, error)
}

// BlockedUserMiddleware создает middleware, не пропускающий запросы
// заблокированных аккаунтов.
func BlockedUserMiddleware(log *slog.Logger, users UserDirectory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(UserID).(string)
			if !ok || userID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			user, err := users.Get(r.Context(), userID)
			if err != nil {
				log.Error("failed to load user", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if user.IsBlocked {
				log.Error("account is blocked, access denied")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("account is blocked, access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnlyMiddleware создает middleware, пропускающий только администраторов.
func AdminOnlyMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != models.RoleAdmin {
				log.Error("admin access required")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

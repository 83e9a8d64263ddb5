// Package aitaskify собирает основное HTTP-приложение: маршруты, middleware
// и зависимости всех обработчиков.
package aitaskify

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mrhason/aitaskify/internal/http/handlers/auth/login"
	"github.com/mrhason/aitaskify/internal/http/handlers/auth/register"
	bonusjoining "github.com/mrhason/aitaskify/internal/http/handlers/bonus/joining"
	bonusreferral "github.com/mrhason/aitaskify/internal/http/handlers/bonus/referral"
	gmailaction "github.com/mrhason/aitaskify/internal/http/handlers/gmail/action"
	gmailcredentials "github.com/mrhason/aitaskify/internal/http/handlers/gmail/credentials"
	gmailcurrent "github.com/mrhason/aitaskify/internal/http/handlers/gmail/current"
	gmaillist "github.com/mrhason/aitaskify/internal/http/handlers/gmail/list"
	gmailrecovery "github.com/mrhason/aitaskify/internal/http/handlers/gmail/recovery"
	gmailrecoverysend "github.com/mrhason/aitaskify/internal/http/handlers/gmail/recoverysend"
	gmailremove "github.com/mrhason/aitaskify/internal/http/handlers/gmail/remove"
	gmailrequest "github.com/mrhason/aitaskify/internal/http/handlers/gmail/request"
	gmailsubmit "github.com/mrhason/aitaskify/internal/http/handlers/gmail/submit"
	"github.com/mrhason/aitaskify/internal/http/handlers/health"
	leaderboardlist "github.com/mrhason/aitaskify/internal/http/handlers/leaderboard/list"
	premiumaction "github.com/mrhason/aitaskify/internal/http/handlers/premium/action"
	premiumcreate "github.com/mrhason/aitaskify/internal/http/handlers/premium/create"
	premiumlist "github.com/mrhason/aitaskify/internal/http/handlers/premium/list"
	profileget "github.com/mrhason/aitaskify/internal/http/handlers/profile/get"
	profileupdate "github.com/mrhason/aitaskify/internal/http/handlers/profile/update"
	settingsget "github.com/mrhason/aitaskify/internal/http/handlers/settings/get"
	settingssave "github.com/mrhason/aitaskify/internal/http/handlers/settings/save"
	tasklist "github.com/mrhason/aitaskify/internal/http/handlers/task/list"
	taskremove "github.com/mrhason/aitaskify/internal/http/handlers/task/remove"
	tasksave "github.com/mrhason/aitaskify/internal/http/handlers/task/save"
	tasksubmit "github.com/mrhason/aitaskify/internal/http/handlers/task/submit"
	teamlist "github.com/mrhason/aitaskify/internal/http/handlers/team/list"
	trxaction "github.com/mrhason/aitaskify/internal/http/handlers/transaction/action"
	trxlist "github.com/mrhason/aitaskify/internal/http/handlers/transaction/list"
	useradjust "github.com/mrhason/aitaskify/internal/http/handlers/user/adjust"
	userblock "github.com/mrhason/aitaskify/internal/http/handlers/user/block"
	userlist "github.com/mrhason/aitaskify/internal/http/handlers/user/list"
	userremove "github.com/mrhason/aitaskify/internal/http/handlers/user/remove"
	withdrawcreate "github.com/mrhason/aitaskify/internal/http/handlers/withdraw/create"
	"github.com/mrhason/aitaskify/internal/http/middlewarectx"
	"github.com/mrhason/aitaskify/internal/lib/jwt"
	"github.com/mrhason/aitaskify/internal/services"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

// Services группирует сервисы, которые нужны обработчикам маршрутов.
type Services struct {
	Auth        *services.AuthService
	User        *services.UserService
	Settings    *services.SettingsService
	Transaction *services.TransactionService
	Withdraw    *services.WithdrawService
	Task        *services.TaskService
	Gmail       *services.GmailService
	Premium     *services.PremiumService
	Referral    *services.ReferralService
	Storage     *repository.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *Services, jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, svc.Storage).ServeHTTP)
		r.Get("/settings", settingsget.New(logger, svc.Settings).ServeHTTP)
		r.Get("/leaderboard", leaderboardlist.New(logger, svc.User).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.BlockedUserMiddleware(logger, svc.User))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/me", profileget.New(logger, svc.User).ServeHTTP)
			r.Put("/me", profileupdate.New(logger, svc.User).ServeHTTP)
			r.Get("/team", teamlist.New(logger, svc.Referral).ServeHTTP)
			r.Get("/transactions", trxlist.New(logger, svc.Transaction).ServeHTTP)
			r.Post("/withdrawals", withdrawcreate.New(logger, svc.Withdraw).ServeHTTP)
			r.Get("/tasks", tasklist.New(logger, svc.Task).ServeHTTP)
			r.Post("/tasks/submit", tasksubmit.New(logger, svc.Task).ServeHTTP)
			r.Post("/gmail/requests", gmailrequest.New(logger, svc.Gmail).ServeHTTP)
			r.Get("/gmail/requests/current", gmailcurrent.New(logger, svc.Gmail).ServeHTTP)
			r.Post("/gmail/requests/{id}/recovery", gmailrecovery.New(logger, svc.Gmail).ServeHTTP)
			r.Post("/gmail/requests/{id}/submit", gmailsubmit.New(logger, svc.Gmail).ServeHTTP)
			r.Post("/premium", premiumcreate.New(logger, svc.Premium).ServeHTTP)
			r.Get("/premium", premiumlist.New(logger, svc.Premium).ServeHTTP)
			r.Post("/bonus/joining", bonusjoining.New(logger, svc.Referral).ServeHTTP)
			r.Post("/bonus/referral/{id}", bonusreferral.New(logger, svc.Referral).ServeHTTP)

			// Административные конечные точки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))

				r.Put("/admin/settings", settingssave.New(logger, svc.Settings).ServeHTTP)
				r.Post("/admin/transactions/action", trxaction.New(logger, svc.Transaction).ServeHTTP)
				r.Post("/admin/tasks", tasksave.New(logger, svc.Task).ServeHTTP)
				r.Put("/admin/tasks/{id}", tasksave.New(logger, svc.Task).ServeHTTP)
				r.Delete("/admin/tasks/{id}", taskremove.New(logger, svc.Task).ServeHTTP)
				r.Get("/admin/gmail/requests", gmaillist.New(logger, svc.Gmail).ServeHTTP)
				r.Post("/admin/gmail/requests/{id}/credentials", gmailcredentials.New(logger, svc.Gmail).ServeHTTP)
				r.Post("/admin/gmail/requests/{id}/recovery-email", gmailrecoverysend.New(logger, svc.Gmail).ServeHTTP)
				r.Post("/admin/gmail/requests/action", gmailaction.New(logger, svc.Gmail).ServeHTTP)
				r.Delete("/admin/gmail/requests/{id}", gmailremove.New(logger, svc.Gmail).ServeHTTP)
				r.Post("/admin/premium/action", premiumaction.New(logger, svc.Premium).ServeHTTP)
				r.Get("/admin/users", userlist.New(logger, svc.User).ServeHTTP)
				r.Post("/admin/users/{id}/block", userblock.New(logger, svc.User).ServeHTTP)
				r.Delete("/admin/users/{id}", userremove.New(logger, svc.User).ServeHTTP)
				r.Post("/admin/users/adjust", useradjust.New(logger, svc.User).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

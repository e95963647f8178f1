package juntimo

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/juntimo/juntimo-backend/internal/config"
	"github.com/juntimo/juntimo-backend/internal/http/handlers/auth/joinproject"
	"github.com/juntimo/juntimo-backend/internal/http/handlers/auth/login"
	"github.com/juntimo/juntimo-backend/internal/http/handlers/auth/logout"
	"github.com/juntimo/juntimo-backend/internal/http/handlers/auth/paypalcancel"
	"github.com/juntimo/juntimo-backend/internal/http/handlers/auth/paypalsuccess"
	"github.com/juntimo/juntimo-backend/internal/http/handlers/auth/register"
	biencreate "github.com/juntimo/juntimo-backend/internal/http/handlers/bien/create"
	bienlist "github.com/juntimo/juntimo-backend/internal/http/handlers/bien/list"
	bienread "github.com/juntimo/juntimo-backend/internal/http/handlers/bien/read"
	bienremove "github.com/juntimo/juntimo-backend/internal/http/handlers/bien/remove"
	bienupdate "github.com/juntimo/juntimo-backend/internal/http/handlers/bien/update"
	"github.com/juntimo/juntimo-backend/internal/http/handlers/health"
	projetcreate "github.com/juntimo/juntimo-backend/internal/http/handlers/projet/create"
	projetlist "github.com/juntimo/juntimo-backend/internal/http/handlers/projet/list"
	projetread "github.com/juntimo/juntimo-backend/internal/http/handlers/projet/read"
	projetremove "github.com/juntimo/juntimo-backend/internal/http/handlers/projet/remove"
	projetupdate "github.com/juntimo/juntimo-backend/internal/http/handlers/projet/update"
	"github.com/juntimo/juntimo-backend/internal/http/middlewarectx"
	authservice "github.com/juntimo/juntimo-backend/internal/services/auth"
	bienservice "github.com/juntimo/juntimo-backend/internal/services/bien"
	"github.com/juntimo/juntimo-backend/internal/services/enrollment"
	projetservice "github.com/juntimo/juntimo-backend/internal/services/projet"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.Service, enrollmentService *enrollment.Service,
	bienService *bienservice.Service, projetService *projetservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.SessionMiddleware(cfg.Session.CookieName, cfg.Session.CookieTTL, cfg.Session.SecureCookie))
	r.Use(middlewarectx.RateLimitMiddleware(logger))

	r.Route("/auth", func(r chi.Router) {
		// Открытые конечные точки процесса регистрации
		r.Post("/register", register.New(logger, enrollmentService).ServeHTTP)
		r.Get("/paypalSuccess", paypalsuccess.New(logger, enrollmentService).ServeHTTP)
		r.Get("/paypalCancel", paypalcancel.New(logger, enrollmentService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Post("/joinProject", joinproject.New(logger, enrollmentService).ServeHTTP)
			r.Post("/logout", logout.New(logger, enrollmentService,
				cfg.Session.CookieName, cfg.Session.SecureCookie).ServeHTTP)
		})
	})

	// CRUD-поверхности: чтение для вошедших, изменение только для админа
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))

		r.Get("/biens", bienlist.New(logger, bienService).ServeHTTP)
		r.Get("/biens/{id}", bienread.New(logger, bienService).ServeHTTP)
		r.Get("/projets", projetlist.New(logger, projetService).ServeHTTP)
		r.Get("/projets/{id}", projetread.New(logger, projetService).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAdmin(logger))
			r.Post("/biens", biencreate.New(logger, bienService).ServeHTTP)
			r.Put("/biens/{id}", bienupdate.New(logger, bienService).ServeHTTP)
			r.Delete("/biens/{id}", bienremove.New(logger, bienService).ServeHTTP)
			r.Post("/projets", projetcreate.New(logger, projetService).ServeHTTP)
			r.Put("/projets/{id}", projetupdate.New(logger, projetService).ServeHTTP)
			r.Delete("/projets/{id}", projetremove.New(logger, projetService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

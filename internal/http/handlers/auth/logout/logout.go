// Package logout реализует HTTP-обработчик выхода: гасит сессионный cookie
// и очищает незавершённую регистрацию сессии, если она была.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juntimo/juntimo-backend/internal/http/middlewarectx"
	"github.com/juntimo/juntimo-backend/internal/http/response"
)

// Service описывает интерфейс бизнес-логики отмены регистрации.
type Service interface {
	Cancel(ctx context.Context, sessionID string)
}

// Handler обрабатывает выход пользователя.
type Handler struct {
	log          *slog.Logger
	service      Service
	cookieName   string
	secureCookie bool
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, cookieName string, secureCookie bool) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Гасит сессионный cookie и очищает незавершённую регистрацию сессии.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Успешный выход"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if sessionID, ok := r.Context().Value(middlewarectx.SessionID).(string); ok && sessionID != "" {
		h.service.Cancel(r.Context(), sessionID)
	}
	middlewarectx.ClearSessionCookie(w, h.cookieName, h.secureCookie)

	log.Info("user logged out")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out",
	}))
}

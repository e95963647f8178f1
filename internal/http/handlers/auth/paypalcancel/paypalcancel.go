// Package paypalcancel реализует HTTP-обработчик отказа от оплаты: очищает
// незавершённую регистрацию сессии и всегда отвечает успехом.
package paypalcancel

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

// Handler обрабатывает отказ от оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить незавершённую регистрацию
// @Description Очищает черновик регистрации текущей сессии. Средства не списываются.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Регистрация отменена"
// @Router /auth/paypalCancel [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.paypalcancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if sessionID, ok := r.Context().Value(middlewarectx.SessionID).(string); ok && sessionID != "" {
		h.service.Cancel(r.Context(), sessionID)
	}

	log.Info("enrollment cancelled")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "payment cancelled, no funds were captured",
	}))
}

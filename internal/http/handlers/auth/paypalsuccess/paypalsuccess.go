// Package paypalsuccess реализует HTTP-обработчик возвратного callback от
// платёжного шлюза. Идентификатор ордера принимается в любом из query
// параметров token, paymentId, orderID или id — разные версии redirect
// используют разные имена. Обработчик завершает регистрацию: списание,
// фиксация пользователя и членства, пересчёт агрегатов, выдача токена.
package paypalsuccess

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juntimo/juntimo-backend/internal/http/middlewarectx"
	"github.com/juntimo/juntimo-backend/internal/http/response"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/paypal"
	"github.com/juntimo/juntimo-backend/internal/services/enrollment"
)

// Service описывает интерфейс бизнес-логики завершения регистрации.
type Service interface {
	Complete(ctx context.Context, sessionID, orderID string) (*enrollment.CompleteResult, error)
}

// Handler обрабатывает возвратный callback платёжного шлюза.
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

// orderIDFromQuery достаёт идентификатор ордера из первого непустого из
// известных query параметров.
func orderIDFromQuery(r *http.Request) string {
	for _, name := range []string{"token", "paymentId", "orderID", "id"} {
		if v := r.URL.Query().Get(name); v != "" {
			return v
		}
	}
	return ""
}

// ServeHTTP godoc
// @Summary Завершить регистрацию после одобрения платежа
// @Description Списывает средства по ордеру и фиксирует пользователя и его участие в проекте.
// @Tags Auth
// @Produce  json
// @Param token query string false "Идентификатор ордера"
// @Success 200 {object} map[string]any "Регистрация завершена"
// @Failure 400 {object} response.ErrorResponse "Сессия истекла или платёж не завершён"
// @Failure 404 {object} response.ErrorResponse "Проект или пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Сбой после списания средств"
// @Failure 502 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Router /auth/paypalSuccess [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.paypalsuccess"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID, ok := r.Context().Value(middlewarectx.SessionID).(string)
	if !ok || sessionID == "" {
		log.Error("session id not found in context")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("session is not initialized"))
		return
	}

	orderID := orderIDFromQuery(r)
	res, err := h.service.Complete(r.Context(), sessionID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, enrollment.ErrValidation):
			log.Warn("missing order id in callback")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("order id is missing"))
		case errors.Is(err, enrollment.ErrSessionExpired):
			log.Warn("pending enrollment expired or does not match", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("enrollment session expired, please start over"))
		case errors.Is(err, enrollment.ErrEmailTaken):
			log.Warn("email taken between start and complete", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Response{
				Status: response.StatusError,
				Error:  "user with this email already exists, please log in and join the project",
				Data:   map[string]any{"userExists": true},
			})
		case errors.Is(err, enrollment.ErrNotFound):
			log.Warn("projet or user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("projet or user not found"))
		case errors.Is(err, enrollment.ErrPaymentNotCompleted):
			log.Warn("payment not completed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment is not completed, please approve the payment and retry"))
		case errors.Is(err, paypal.ErrRequestFailed):
			log.Error("payment gateway request failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment gateway request failed"))
		case errors.Is(err, enrollment.ErrAfterCapture):
			// Средства списаны, оформление не завершено: запись сессии
			// сохранена для ручного разбора.
			log.Error("post-capture failure", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment captured but enrollment failed, please contact support"))
		default:
			log.Error("failed to complete enrollment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to complete enrollment"))
		}
		return
	}

	if res.AlreadyRegistered {
		log.Info("user already registered in projet", slog.String("user_uid", res.User.UID))
		render.JSON(w, r, response.OKWithData(map[string]any{
			"message":           "you already participate in this projet",
			"alreadyRegistered": true,
			"user":              res.User.PublicUser(),
			"paymentDetails":    res.Payment,
		}))
		return
	}

	log.Info("enrollment completed",
		slog.String("user_uid", res.User.UID), slog.Bool("is_new_user", res.IsNewUser))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":           res.User.PublicUser(),
		"projet":         res.Projet,
		"token":          res.Token,
		"isNewUser":      res.IsNewUser,
		"paymentDetails": res.Payment,
	}))
}

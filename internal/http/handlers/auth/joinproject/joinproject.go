// Package joinproject реализует HTTP-обработчик присоединения уже вошедшего
// пользователя к проекту. UID пользователя берётся из Bearer-токена,
// остальное повторяет путь анонимной регистрации: открытие ордера и ссылка
// на одобрение платежа.
package joinproject

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juntimo/juntimo-backend/internal/http/middlewarectx"
	"github.com/juntimo/juntimo-backend/internal/http/response"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/paypal"
	"github.com/juntimo/juntimo-backend/internal/services/enrollment"
	"github.com/juntimo/juntimo-backend/internal/services/groupe"
)

// Request — входные данные присоединения к проекту.
type Request struct {
	ProjetID         string `json:"projetId" validate:"required,uuid"`
	FraisInscription string `json:"fraisInscription"`
	Devise           string `json:"devise"`
}

// Service описывает интерфейс бизнес-логики начала регистрации.
type Service interface {
	Start(ctx context.Context, sessionID string, in enrollment.StartInput) (*enrollment.StartResult, error)
}

// Handler обрабатывает HTTP-запросы на присоединение к проекту.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Присоединиться к проекту с оплатой участия
// @Description Открывает платёжный ордер для текущего пользователя. Возвращает ссылку на одобрение платежа.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Проект и параметры взноса"
// @Success 200 {object} map[string]any "Ордер открыт"
// @Failure 400 {object} response.ErrorResponse "Пользователь уже участвует в проекте"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Проект не найден"
// @Failure 502 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Router /auth/joinProject [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.joinproject"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sessionID, ok := r.Context().Value(middlewarectx.SessionID).(string)
	if !ok || sessionID == "" {
		log.Error("session id not found in context")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("session is not initialized"))
		return
	}

	res, err := h.service.Start(r.Context(), sessionID, enrollment.StartInput{
		ProjetID:         req.ProjetID,
		FraisInscription: req.FraisInscription,
		Devise:           req.Devise,
		ExistingUserID:   userUID,
	})
	if err != nil {
		switch {
		case errors.Is(err, groupe.ErrDuplicateMembership):
			log.Warn("user already participates in projet",
				slog.String("projet_id", req.ProjetID), slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Response{
				Status: response.StatusError,
				Error:  "you already participate in this projet",
				Data:   map[string]any{"alreadyRegistered": true},
			})
		case errors.Is(err, enrollment.ErrValidation):
			log.Warn("invalid enrollment input", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, enrollment.ErrNotFound):
			log.Warn("projet not found", slog.String("projet_id", req.ProjetID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("projet not found"))
		case errors.Is(err, paypal.ErrUnavailable):
			log.Error("payment gateway is not configured", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment gateway unavailable"))
		case errors.Is(err, paypal.ErrRequestFailed):
			log.Error("payment gateway request failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment gateway request failed"))
		default:
			log.Error("failed to start enrollment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to start enrollment"))
		}
		return
	}

	log.Info("enrollment started", slog.String("order_id", res.OrderID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"approveLink": res.ApproveLink,
		"orderId":     res.OrderID,
	}))
}

// Package register реализует HTTP-обработчик анонимной регистрации с участием
// в проекте. Обработчик валидирует данные нового пользователя, открывает
// платёжный ордер через бизнес-логику и возвращает ссылку на одобрение
// платежа. Пользователь в базе на этом шаге ещё не создаётся.
package register

import (
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
)

// Request — входные данные анонимной регистрации.
type Request struct {
	Nom              string `json:"nom" validate:"required"`
	Prenom           string `json:"prenom" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	MotDePasse       string `json:"mot_de_passe" validate:"required,min=8"`
	Tel              string `json:"tel"`
	PaysResidence    string `json:"pays_residence"`
	FraisInscription string `json:"fraisInscription"`
	Devise           string `json:"devise"`
	ProjetID         string `json:"projetId" validate:"required,uuid"`
}

// Handler обрабатывает HTTP-запросы на начало регистрации.
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
// @Summary Начать регистрацию с оплатой участия
// @Description Открывает платёжный ордер для нового пользователя. Возвращает ссылку на одобрение платежа.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя и проект"
// @Success 200 {object} map[string]any "Ордер открыт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или email уже занят"
// @Failure 404 {object} response.ErrorResponse "Проект не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
	log.Info("all fields are validated")

	sessionID, ok := r.Context().Value(middlewarectx.SessionID).(string)
	if !ok || sessionID == "" {
		log.Error("session id not found in context")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("session is not initialized"))
		return
	}

	res, err := h.service.Start(r.Context(), sessionID, enrollment.StartInput{
		Nom:              req.Nom,
		Prenom:           req.Prenom,
		Email:            req.Email,
		MotDePasse:       req.MotDePasse,
		Tel:              req.Tel,
		PaysResidence:    req.PaysResidence,
		ProjetID:         req.ProjetID,
		FraisInscription: req.FraisInscription,
		Devise:           req.Devise,
	})
	if err != nil {
		switch {
		case errors.Is(err, enrollment.ErrEmailTaken):
			log.Warn("email already taken", slog.String("email", req.Email))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Response{
				Status: response.StatusError,
				Error:  "user with this email already exists, please log in and join the project",
				Data:   map[string]any{"userExists": true},
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

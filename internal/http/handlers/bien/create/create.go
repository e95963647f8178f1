// Package create реализует HTTP-обработчик для регистрации новых объектов
// недвижимости.
//
// Handler принимает JSON-запрос с данными объекта, валидирует их, вызывает
// бизнес-логику создания через сервис и возвращает ID созданной записи.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juntimo/juntimo-backend/internal/http/response"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/models"
)

// Request — входные данные нового объекта недвижимости.
type Request struct {
	Libelle      string              `json:"libelle" validate:"required"`
	Description  string              `json:"description"`
	TypeBien     string              `json:"type_bien" validate:"required"`
	Proprietaire models.Proprietaire `json:"proprietaire"`
	Preuves      []models.Preuve     `json:"preuves"`
}

// Service описывает интерфейс бизнес-логики создания объекта недвижимости.
type Service interface {
	Create(ctx context.Context, bien models.Bien) (string, error)
}

// Handler управляет HTTP-запросами на создание объектов недвижимости.
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
// @Summary Создать объект недвижимости
// @Description Создает новый объект недвижимости. Возвращает ID созданной записи.
// @Tags Biens
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные объекта недвижимости"
// @Success 200 {object} map[string]any "Успешное создание"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /biens [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bien.create"

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

	id, err := h.service.Create(r.Context(), models.Bien{
		Libelle:      req.Libelle,
		Description:  req.Description,
		TypeBien:     req.TypeBien,
		Proprietaire: req.Proprietaire,
		Preuves:      req.Preuves,
	})
	if err != nil {
		log.Error("failed to create bien", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create bien"))
		return
	}

	log.Info("bien created", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

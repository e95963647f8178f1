// Package update реализует HTTP-обработчик для обновления объекта недвижимости по ID.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juntimo/juntimo-backend/internal/http/response"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/models"
	bienservice "github.com/juntimo/juntimo-backend/internal/services/bien"
)

// Request — обновлённые данные объекта недвижимости.
type Request struct {
	Libelle      string              `json:"libelle" validate:"required"`
	Description  string              `json:"description"`
	TypeBien     string              `json:"type_bien" validate:"required"`
	Proprietaire models.Proprietaire `json:"proprietaire"`
	Preuves      []models.Preuve     `json:"preuves"`
}

// Service описывает интерфейс бизнес-логики обновления объекта недвижимости.
type Service interface {
	Update(ctx context.Context, bien models.Bien, id string) error
}

// Handler обрабатывает запросы на обновление объекта недвижимости.
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
// @Summary Обновить объект недвижимости
// @Description Обновляет объект недвижимости по ID.
// @Tags Biens
// @Accept  json
// @Produce  json
// @Param id path string true "ID объекта"
// @Param request body Request true "Обновлённые данные"
// @Success 200 {object} map[string]any "Успешное обновление"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Объект не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /biens/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bien.update"

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

	id := chi.URLParam(r, "id")
	err := h.service.Update(r.Context(), models.Bien{
		Libelle:      req.Libelle,
		Description:  req.Description,
		TypeBien:     req.TypeBien,
		Proprietaire: req.Proprietaire,
		Preuves:      req.Preuves,
	}, id)
	if err != nil {
		if errors.Is(err, bienservice.ErrNotFound) {
			log.Warn("bien not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("bien not found"))
			return
		}
		log.Error("failed to update bien", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update bien"))
		return
	}

	log.Info("bien updated", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

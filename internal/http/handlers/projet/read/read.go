// Package read реализует HTTP-обработчик для получения проекта по ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juntimo/juntimo-backend/internal/http/response"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/models"
	projetservice "github.com/juntimo/juntimo-backend/internal/services/projet"
)

// Service описывает интерфейс бизнес-логики чтения проекта.
type Service interface {
	Get(ctx context.Context, id string) (*models.Projet, error)
}

// Handler обрабатывает запросы на получение проекта по ID.
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
// @Summary Получить проект
// @Description Возвращает проект по ID с актуальными производными полями.
// @Tags Projets
// @Produce  json
// @Param id path string true "ID проекта"
// @Success 200 {object} map[string]any "Проект"
// @Failure 404 {object} response.ErrorResponse "Проект не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projets/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.projet.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	projet, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, projetservice.ErrNotFound) {
			log.Warn("projet not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("projet not found"))
			return
		}
		log.Error("failed to read projet", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read projet"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"projet": projet,
	}))
}

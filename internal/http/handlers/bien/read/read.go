// Package read реализует HTTP-обработчик для получения объекта недвижимости по ID.
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
	bienservice "github.com/juntimo/juntimo-backend/internal/services/bien"
)

// Service описывает интерфейс бизнес-логики чтения объекта недвижимости.
type Service interface {
	Get(ctx context.Context, id string) (*models.Bien, error)
}

// Handler обрабатывает запросы на получение объекта недвижимости по ID.
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
// @Summary Получить объект недвижимости
// @Description Возвращает объект недвижимости по ID.
// @Tags Biens
// @Produce  json
// @Param id path string true "ID объекта"
// @Success 200 {object} map[string]any "Объект недвижимости"
// @Failure 404 {object} response.ErrorResponse "Объект не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /biens/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bien.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	bien, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, bienservice.ErrNotFound) {
			log.Warn("bien not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("bien not found"))
			return
		}
		log.Error("failed to read bien", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read bien"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"bien": bien,
	}))
}

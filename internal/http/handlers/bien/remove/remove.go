// Package remove реализует HTTP-обработчик для удаления объекта недвижимости по ID.
package remove

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
	bienservice "github.com/juntimo/juntimo-backend/internal/services/bien"
)

// Service описывает интерфейс бизнес-логики удаления объекта недвижимости.
type Service interface {
	Remove(ctx context.Context, id string) error
}

// Handler обрабатывает запросы на удаление объекта недвижимости.
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
// @Summary Удалить объект недвижимости
// @Description Удаляет объект недвижимости по ID.
// @Tags Biens
// @Produce  json
// @Param id path string true "ID объекта"
// @Success 200 {object} map[string]any "Успешное удаление"
// @Failure 404 {object} response.ErrorResponse "Объект не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /biens/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bien.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, bienservice.ErrNotFound) {
			log.Warn("bien not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("bien not found"))
			return
		}
		log.Error("failed to remove bien", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove bien"))
		return
	}

	log.Info("bien removed", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

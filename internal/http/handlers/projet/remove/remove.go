// Package remove реализует HTTP-обработчик для удаления проекта по ID
// вместе с записями его групп.
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
	projetservice "github.com/juntimo/juntimo-backend/internal/services/projet"
)

// Service описывает интерфейс бизнес-логики удаления проекта.
type Service interface {
	Remove(ctx context.Context, id string) error
}

// Handler обрабатывает запросы на удаление проекта.
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
// @Summary Удалить проект
// @Description Удаляет проект по ID вместе с его группами.
// @Tags Projets
// @Produce  json
// @Param id path string true "ID проекта"
// @Success 200 {object} map[string]any "Успешное удаление"
// @Failure 404 {object} response.ErrorResponse "Проект не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projets/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.projet.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, projetservice.ErrNotFound) {
			log.Warn("projet not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("projet not found"))
			return
		}
		log.Error("failed to remove projet", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove projet"))
		return
	}

	log.Info("projet removed", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

// Package list реализует HTTP-обработчик для получения всех проектов.
// Производные платёжные поля каждого проекта выверены по актуальному
// составу групп.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juntimo/juntimo-backend/internal/http/response"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики получения списка проектов.
type Service interface {
	List(ctx context.Context) ([]*models.Projet, error)
}

// Handler обрабатывает запросы на получение всех проектов.
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
// @Summary Список проектов
// @Description Возвращает все проекты с актуальными производными полями.
// @Tags Projets
// @Produce  json
// @Success 200 {object} map[string]any "Список проектов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projets [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.projet.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	projets, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list projets", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list projets"))
		return
	}

	log.Info("success to list projets", slog.Int("count", len(projets)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"projets": projets,
	}))
}

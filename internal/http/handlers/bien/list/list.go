// Package list реализует HTTP-обработчик для получения всех объектов недвижимости.
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

// Service описывает интерфейс бизнес-логики получения списка объектов.
type Service interface {
	List(ctx context.Context) ([]*models.Bien, error)
}

// Handler обрабатывает запросы на получение всех объектов недвижимости.
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
// @Summary Список объектов недвижимости
// @Description Возвращает все объекты недвижимости.
// @Tags Biens
// @Produce  json
// @Success 200 {object} map[string]any "Список объектов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /biens [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bien.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	biens, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list biens", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list biens"))
		return
	}

	log.Info("success to list biens", slog.Int("count", len(biens)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"biens": biens,
	}))
}
